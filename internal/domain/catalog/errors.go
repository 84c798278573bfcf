package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrInvalidCatalog = errors.New("invalid competence catalog")
	ErrUnknown        = errors.New("unknown competence")
)
