package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk shape of an alternate catalog.
type fileFormat struct {
	Competences []Competence `yaml:"competences"`
	Relations   Relations    `yaml:"relations"`
}

// Parse builds a Catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(f.Competences, f.Relations)
}

// LoadFile reads and parses a YAML catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Marshal renders c in the LoadFile format.
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(fileFormat{Competences: c.Competences(), Relations: c.Relations()})
}
