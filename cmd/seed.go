package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/radar/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the demo family into the configured datasource",
	Long: `Seed writes the demo guardian (demo-parent) and its learners into the
configured datasource. Running it twice is harmless: rows are upserted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := bootstrap(cmd.Context(), os.Stderr, true)
		if err != nil {
			return err
		}
		defer func() { _ = rt.Close() }()
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %s into %s\n", seed.DefaultConfig().GuardianID, rt.cfg.DatasourceDriver)
		return err
	},
}
