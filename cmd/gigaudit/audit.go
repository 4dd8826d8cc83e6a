package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/gig-directory-audit/internal/observability"
	"github.com/jonathan/gig-directory-audit/internal/pipeline"
	"github.com/jonathan/gig-directory-audit/internal/schemas"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const reportSchema = "schemas/remediation_report.schema.json"

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Score every listed company and remediate the fraudulent ones",
	Long: `Runs one audit: load -> detect and aggregate -> escalate (optional) -> decide -> remediate.

HIGH-risk entries are deleted or deactivated, MEDIUM-risk entries are deactivated,
and a confident KEEP from the verifier spares an entry. Use --analyze-only to only
report, or --dry-run to record an audit entry without mutating the directory.`,
	RunE: runAuditCmd,
}

// auditSettings holds the audit flags so schedule can reuse them
type auditSettings struct {
	configPath     string
	dryRun         bool
	analyzeOnly    bool
	incompleteOnly bool
	verify         bool
	maxEscalations int
	top            int
	jsonOutput     bool
	outPath        string

	maxEscalationsSet bool
}

var auditFlags auditSettings

func init() {
	registerAuditFlags(auditCmd, &auditFlags)
	rootCmd.AddCommand(auditCmd)
}

func registerAuditFlags(cmd *cobra.Command, s *auditSettings) {
	cmd.Flags().StringVar(&s.configPath, "config", "", "Path to config file (JSON or YAML)")
	cmd.Flags().BoolVar(&s.dryRun, "dry-run", false, "Record the run without mutating the directory")
	cmd.Flags().BoolVar(&s.analyzeOnly, "analyze-only", false, "Score and report only; no lock, no audit entry")
	cmd.Flags().BoolVar(&s.incompleteOnly, "incomplete-only", false, "Audit only companies with a blank profile field")
	cmd.Flags().BoolVar(&s.verify, "verify", false, "Escalate MEDIUM/HIGH entries to the LLM verifier")
	cmd.Flags().IntVar(&s.maxEscalations, "max-escalations", 0, "Maximum entries sent to the verifier per run")
	cmd.Flags().IntVar(&s.top, "top", 0, "Number of flagged entries to list (defaults to config top_n)")
	cmd.Flags().BoolVar(&s.jsonOutput, "json", false, "Print the report as JSON")
	cmd.Flags().StringVarP(&s.outPath, "out", "o", "", "Also write the JSON report to this file")
}

func runAuditCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auditFlags.maxEscalationsSet = cmd.Flags().Changed("max-escalations")
	_, err := runAudit(ctx, auditFlags, cmd.OutOrStdout())
	return err
}

// runAudit performs one audit run and prints its report to out.
// A fatal error before any company was processed prints "0 companies processed".
func runAudit(ctx context.Context, s auditSettings, out io.Writer) (*pipeline.Report, error) {
	fatal := func(err error) (*pipeline.Report, error) {
		_, _ = fmt.Fprintln(out, "0 companies processed")
		return nil, err
	}

	cfg, err := loadConfig(s.configPath)
	if err != nil {
		return fatal(err)
	}
	if s.verify {
		cfg.Verifier.Enabled = true
	}
	if s.maxEscalationsSet {
		cfg.Verifier.MaxEscalations = s.maxEscalations
	}
	if err := cfg.Validate(); err != nil {
		return fatal(err)
	}

	database, err := connect(ctx, cfg)
	if err != nil {
		return fatal(err)
	}
	defer database.Close()

	opts := pipeline.Options{
		Config:         cfg,
		Store:          database,
		Verify:         s.verify,
		DryRun:         s.dryRun,
		AnalyzeOnly:    s.analyzeOnly,
		IncompleteOnly: s.incompleteOnly,
		TopN:           s.top,
	}
	if s.verify {
		client, err := newVerifierClient(ctx, cfg)
		if err != nil {
			return fatal(err)
		}
		if client != nil {
			defer func() { _ = client.Close() }()
			opts.LLM = client
		}
	}
	if !s.jsonOutput {
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(out, "[%d/%d] %s\n", e.Index, e.Total, e.Message)
		}
	}

	report, runErr := pipeline.Run(ctx, opts)
	if runErr != nil && (report == nil || report.Total == 0) {
		return fatal(runErr)
	}

	if err := emitReport(report, s, out); err != nil {
		return report, err
	}
	if runErr != nil {
		return report, fmt.Errorf("audit run %s: %w", report.RunID, runErr)
	}
	return report, nil
}

func emitReport(report *pipeline.Report, s auditSettings, out io.Writer) error {
	if s.jsonOutput || s.outPath != "" {
		if path := schemas.ResolveSchemaPath(reportSchema); path != "" {
			if err := schemas.ValidateDocument(path, report); err != nil {
				return fmt.Errorf("report failed schema validation: %w", err)
			}
		} else {
			zap.L().Debug("gigaudit: report schema not found, skipping validation")
		}
	}

	if s.outPath != "" {
		f, err := os.Create(s.outPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := writeJSON(f, report); err != nil {
			return err
		}
	}

	if s.jsonOutput {
		return writeJSON(out, report)
	}

	p := observability.NewPrinter(out)
	p.PrintRunSummary(report)
	p.PrintTopFlagged(report.TopFlagged)
	p.PrintActions(report.Actions)
	_, _ = fmt.Fprintf(out, "%d companies processed\n", report.Total)
	return nil
}
