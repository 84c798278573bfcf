package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/radar/internal/adapters/export"
	service "github.com/okian/radar/internal/app"
	"github.com/okian/radar/internal/domain/model"
)

var exportFlags struct {
	account string
	scope   string
	ids     string
	out     string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the active profiles to an xlsx workbook",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.account, "account", "", "Account id the request is made as (required)")
	f.StringVar(&exportFlags.scope, "scope", string(model.ScopeFamily), "Scope: self or family")
	f.StringVar(&exportFlags.ids, "ids", "", "Comma separated learner ids to compare")
	f.StringVarP(&exportFlags.out, "output", "o", "radar.xlsx", "Output workbook path")
	_ = exportCmd.MarkFlagRequired("account")
}

func runExport(cmd *cobra.Command, _ []string) (err error) {
	scope, err := model.ParseScope(exportFlags.scope)
	if err != nil {
		return err
	}
	ctx := model.WithAccount(cmd.Context(), exportFlags.account)

	rt, err := bootstrap(ctx, os.Stderr, false)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	var ids []string
	for _, id := range strings.Split(exportFlags.ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	profiles, err := rt.svc.GetActiveProfiles(ctx, scope, ids)
	if err != nil && !errors.Is(err, service.ErrNoData) {
		return fmt.Errorf("export: %w", err)
	}

	f, err := os.Create(exportFlags.out)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := export.WriteWorkbook(f, rt.catalog, profiles, rt.svc.GetSummary(profiles)); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d profile(s) to %s\n", len(profiles), exportFlags.out)
	return err
}
