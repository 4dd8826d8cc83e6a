// Package pipeline orchestrates one audit run: load, detect and aggregate,
// escalate, decide and remediate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jonathan/gig-directory-audit/internal/config"
	"github.com/jonathan/gig-directory-audit/internal/llm"
	"github.com/jonathan/gig-directory-audit/internal/remediation"
	"github.com/jonathan/gig-directory-audit/internal/scoring"
	"github.com/jonathan/gig-directory-audit/internal/types"
	"github.com/jonathan/gig-directory-audit/internal/verification"
	"go.uber.org/zap"
)

// Step names reported through OnProgress
const (
	StepLoad    = "load"
	StepAssess  = "assess"
	StepVerify  = "verify"
	StepDecide  = "decide"
	StepExecute = "execute"
)

const totalSteps = 5

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Loader reads the companies to audit
type Loader interface {
	ListActiveCompanies(ctx context.Context, limit int) ([]types.CompanyRecord, error)
}

// Store is everything a run needs from persistence
type Store interface {
	Loader
	remediation.Store
}

// Options holds configuration for running the pipeline
type Options struct {
	Config *config.Config
	Store  Store
	// LLM is the verifier client; nil disables escalation
	LLM         llm.Client
	Verify      bool
	DryRun      bool
	AnalyzeOnly bool
	// IncompleteOnly restricts the run to records with a blank profile field
	IncompleteOnly bool
	// TopN overrides Config.TopN when positive
	TopN       int
	Cache      *scoring.Cache
	OnProgress ProgressCallback
}

// FlaggedEntry is one row of the top-N listing
type FlaggedEntry struct {
	CompanyID int64      `json:"company_id"`
	Name      string     `json:"name"`
	Score     int        `json:"score"`
	Tier      types.Tier `json:"tier"`
	TopFlags  []string   `json:"top_flags"`
}

// VerifierReport describes what the verifier did during the run
type VerifierReport struct {
	Enabled bool `json:"enabled"`
	verification.Stats
}

// Report is the outcome of one run
type Report struct {
	RunID       string                    `json:"run_id"`
	Total       int                       `json:"total"`
	AnalyzeOnly bool                      `json:"analyze_only"`
	TierCounts  map[types.Tier]int        `json:"tier_counts"`
	TopFlagged  []FlaggedEntry            `json:"top_flagged"`
	Actions     []types.RemediationAction `json:"actions"`
	Summary     types.RemediationSummary  `json:"summary"`
	Verifier    VerifierReport            `json:"verifier"`

	Assessments []types.RiskAssessment `json:"-"`
}

// topFlagCount is how many flag messages each top-N entry carries
const topFlagCount = 3

func newReport(runID uuid.UUID, analyzeOnly bool) *Report {
	return &Report{
		RunID:       runID.String(),
		AnalyzeOnly: analyzeOnly,
		TierCounts:  map[types.Tier]int{types.TierLow: 0, types.TierMedium: 0, types.TierHigh: 0},
		TopFlagged:  []FlaggedEntry{},
		Actions:     []types.RemediationAction{},
	}
}

// Run executes one audit. A load failure aborts before anything is mutated.
// Cancellation during verification keeps the assessments in the report but
// performs no mutation; ctx.Err() is returned with the partial report.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Config == nil {
		return nil, errors.New("pipeline: config is required")
	}
	if opts.Store == nil {
		return nil, errors.New("pipeline: store is required")
	}
	cfg := opts.Config
	runID := uuid.New()
	report := newReport(runID, opts.AnalyzeOnly)
	log := zap.L().With(zap.String("component", "pipeline"), zap.String("run_id", report.RunID))

	emit := func(step string, index int, format string, args ...any) {
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressEvent{
				Step:    step,
				Index:   index,
				Total:   totalSteps,
				Message: fmt.Sprintf(format, args...),
				RunID:   report.RunID,
			})
		}
	}

	// Step 1: load
	emit(StepLoad, 1, "Loading active companies...")
	records, err := opts.Store.ListActiveCompanies(ctx, 0)
	if err != nil {
		return report, fmt.Errorf("failed to load companies: %w", err)
	}
	if opts.IncompleteOnly {
		records = incompleteOnly(records)
	}
	report.Total = len(records)
	log.Info("pipeline: loaded companies", zap.Int("count", len(records)))

	// Step 2: detect and aggregate
	emit(StepAssess, 2, "Assessing %d companies...", len(records))
	assessor := scoring.NewAssessor(cfg)
	if opts.Cache != nil {
		assessor.Cache = opts.Cache
	}
	assessments, err := assessor.AssessAll(ctx, records, cfg.Workers)
	if err != nil {
		return report, err
	}
	report.Assessments = assessments
	for tier, n := range scoring.CountByTier(assessments) {
		report.TierCounts[tier] = n
	}
	topN := cfg.TopN
	if opts.TopN > 0 {
		topN = opts.TopN
	}
	report.TopFlagged = topFlagged(assessments, topN)

	// Step 3: escalate
	verdicts := map[int64]*types.VerifierVerdict{}
	report.Verifier.Enabled = opts.Verify && cfg.Verifier.Enabled && opts.LLM != nil
	if report.Verifier.Enabled {
		emit(StepVerify, 3, "Escalating up to %d entries to the verifier...", cfg.Verifier.MaxEscalations)
		vopts, err := verification.OptionsFromConfig(cfg.Verifier)
		if err != nil {
			return report, err
		}
		candidates := make([]verification.Candidate, 0, len(records))
		for i := range records {
			candidates = append(candidates, verification.Candidate{Record: &records[i], Assessment: assessments[i]})
		}
		verdicts, report.Verifier.Stats = verification.New(opts.LLM, vopts).VerifyBatch(ctx, candidates)
	} else {
		emit(StepVerify, 3, "Verifier disabled, using heuristic decisions only")
	}

	// Step 4: decide
	emit(StepDecide, 4, "Deciding remediation actions...")
	policy := remediation.PolicyFromConfig(cfg.Remediation)
	flagged := make([]types.RiskAssessment, 0, len(assessments))
	for _, a := range assessments {
		if a.Tier.IsEscalatable() {
			flagged = append(flagged, a)
		}
	}
	report.Actions = policy.DecideAll(flagged, verdicts)

	if err := ctx.Err(); err != nil {
		log.Warn("pipeline: cancelled before remediation, no changes applied")
		return report, err
	}

	// Step 5: execute
	if opts.AnalyzeOnly {
		emit(StepExecute, 5, "Analyze-only mode, skipping remediation")
		report.Summary = analyzeOnlySummary(len(records), report.Actions)
		return report, nil
	}

	mode := "Applying"
	if opts.DryRun {
		mode = "Dry run of"
	}
	emit(StepExecute, 5, "%s remediation for %d flagged companies...", mode, len(report.Actions))
	executor := remediation.NewExecutor(opts.Store, opts.DryRun, opts.Cache)
	summary, err := executor.ExecuteRun(ctx, runID, report.Actions)
	report.Summary = summary
	if err != nil {
		return report, err
	}
	return report, nil
}

func incompleteOnly(records []types.CompanyRecord) []types.CompanyRecord {
	kept := make([]types.CompanyRecord, 0, len(records))
	for _, rec := range records {
		if rec.IsIncomplete() {
			kept = append(kept, rec)
		}
	}
	return kept
}

// topFlagged returns the n highest-scoring non-LOW assessments, ties by ascending id
func topFlagged(assessments []types.RiskAssessment, n int) []FlaggedEntry {
	flagged := make([]types.RiskAssessment, 0, len(assessments))
	for _, a := range assessments {
		if a.Tier.IsEscalatable() {
			flagged = append(flagged, a)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		if flagged[i].TotalScore != flagged[j].TotalScore {
			return flagged[i].TotalScore > flagged[j].TotalScore
		}
		return flagged[i].CompanyID < flagged[j].CompanyID
	})
	if n >= 0 && len(flagged) > n {
		flagged = flagged[:n]
	}

	out := make([]FlaggedEntry, 0, len(flagged))
	for i := range flagged {
		out = append(out, FlaggedEntry{
			CompanyID: flagged[i].CompanyID,
			Name:      flagged[i].Name,
			Score:     flagged[i].TotalScore,
			Tier:      flagged[i].Tier,
			TopFlags:  flagged[i].TopFlags(topFlagCount),
		})
	}
	return out
}

func analyzeOnlySummary(total int, actions []types.RemediationAction) types.RemediationSummary {
	summary := types.RemediationSummary{Before: total, After: total, Flagged: len(actions)}
	for _, a := range actions {
		if a.Action != types.ActionNone {
			summary.Requested++
		}
	}
	return summary
}
