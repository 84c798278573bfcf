package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/radar/internal/app"
	"github.com/okian/radar/internal/domain/analysis"
	"github.com/okian/radar/internal/domain/model"
)

var analyzeFlags struct {
	account    string
	scope      string
	learner    string
	competence string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Diagnose one competence of one learner",
	Long: `Analyze prints the causal diagnosis of a competence as JSON.

Usage:
  radar analyze --account demo-parent --scope family --learner milan --competence mathematiques
  radar analyze --account milan --competence concentration`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.account, "account", "", "Account id the request is made as (required)")
	f.StringVar(&analyzeFlags.scope, "scope", string(model.ScopeSelf), "Scope: self or family")
	f.StringVar(&analyzeFlags.learner, "learner", "", "Learner id (default: first learner in scope)")
	f.StringVar(&analyzeFlags.competence, "competence", "", "Competence key (required)")
	_ = analyzeCmd.MarkFlagRequired("account")
	_ = analyzeCmd.MarkFlagRequired("competence")
}

type analyzeOutput struct {
	NoData    bool                `json:"noData"`
	LearnerID string              `json:"learner,omitempty"`
	Name      string              `json:"name,omitempty"`
	Diagnosis *analysis.Diagnosis `json:"diagnosis,omitempty"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	scope, err := model.ParseScope(analyzeFlags.scope)
	if err != nil {
		return err
	}
	ctx := model.WithAccount(cmd.Context(), analyzeFlags.account)

	rt, err := bootstrap(ctx, os.Stderr, false)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	out := analyzeOutput{}
	p, d, err := rt.svc.DiagnoseLearner(ctx, scope, analyzeFlags.learner, analyzeFlags.competence)
	switch {
	case err == nil:
		out.LearnerID, out.Name, out.Diagnosis = p.ID, p.Name, &d
	case errors.Is(err, service.ErrNoData):
		out.NoData = true
	default:
		return fmt.Errorf("analyze: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
