// Package verification provides the secondary verifier that asks an LLM judge
// for a legitimacy verdict on risky directory entries.
package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/gig-directory-audit/internal/config"
	"github.com/jonathan/gig-directory-audit/internal/llm"
	"github.com/jonathan/gig-directory-audit/internal/prompts"
	"github.com/jonathan/gig-directory-audit/internal/schemas"
	"github.com/jonathan/gig-directory-audit/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	promptFile      = "verification.json"
	promptKey       = "verify-company"
	systemPromptKey = "verify-company-system"
	notProvided     = "Not provided"
)

// Options bounds the cost and latency of one verification run
type Options struct {
	Tier                   llm.ModelTier
	MaxEscalations         int
	Concurrency            int
	Timeout                time.Duration
	RequestsPerSecond      float64
	MaxConsecutiveFailures int
}

// DefaultOptions returns one sequential call per second, 20s timeout, at most 5 escalations
func DefaultOptions() Options {
	return Options{
		Tier:                   llm.TierLite,
		MaxEscalations:         5,
		Concurrency:            1,
		Timeout:                20 * time.Second,
		RequestsPerSecond:      1,
		MaxConsecutiveFailures: 3,
	}
}

// OptionsFromConfig converts the verifier configuration section
func OptionsFromConfig(cfg config.Verifier) (Options, error) {
	tier, err := llm.ParseModelTier(cfg.ModelTier)
	if err != nil {
		return Options{}, &config.ConfigurationError{Field: "verifier.model_tier", Message: "invalid tier", Cause: err}
	}
	return Options{
		Tier:                   tier,
		MaxEscalations:         cfg.MaxEscalations,
		Concurrency:            cfg.Concurrency,
		Timeout:                time.Duration(cfg.TimeoutSeconds) * time.Second,
		RequestsPerSecond:      cfg.RequestsPerSecond,
		MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
	}, nil
}

// Candidate is a record paired with its heuristic assessment
type Candidate struct {
	Record     *types.CompanyRecord
	Assessment types.RiskAssessment
}

// Stats counts what happened to the candidates of one batch
type Stats struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	// Skipped counts escalatable entries not sent: over the cap, breaker open, or cancelled
	Skipped int `json:"skipped"`
}

// Verifier issues rate-limited, time-boxed verdict requests.
// It never retries; after MaxConsecutiveFailures failures in a row it stops
// calling the service for the rest of its lifetime. Create one per run.
type Verifier struct {
	client  llm.Client
	opts    Options
	limiter *rate.Limiter

	mu                  sync.Mutex
	consecutiveFailures int
	open                bool
}

// New creates a Verifier. Zero-valued options fall back to DefaultOptions.
func New(client llm.Client, opts Options) *Verifier {
	defaults := DefaultOptions()
	if opts.Tier == "" {
		opts.Tier = defaults.Tier
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = defaults.Concurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if opts.MaxConsecutiveFailures < 1 {
		opts.MaxConsecutiveFailures = defaults.MaxConsecutiveFailures
	}

	return &Verifier{
		client:  client,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
	}
}

// verdictResponse is the JSON shape requested from the model
type verdictResponse struct {
	IsLegitimate   bool     `json:"isLegitimate"`
	Confidence     float64  `json:"confidence"`
	Recommendation string   `json:"recommendation"`
	Reasoning      string   `json:"reasoning"`
	RedFlags       []string `json:"redFlags"`
}

// Verify asks the model for a verdict on one record.
// Every failure is returned as *UnavailableError.
func (v *Verifier) Verify(ctx context.Context, record *types.CompanyRecord, assessment types.RiskAssessment) (*types.VerifierVerdict, error) {
	prompt, err := BuildPrompt(record, assessment)
	if err != nil {
		return nil, &UnavailableError{CompanyID: record.ID, Reason: ReasonPrompt, Cause: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, v.opts.Timeout)
	defer cancel()

	raw, err := v.client.GenerateJSON(callCtx, prompt, v.opts.Tier)
	if err != nil {
		reason := ReasonRequest
		switch {
		case ctx.Err() != nil:
			reason = ReasonCancelled
		case errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
			reason = ReasonTimeout
		}
		return nil, &UnavailableError{CompanyID: record.ID, Reason: reason, Cause: err}
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		return nil, &UnavailableError{CompanyID: record.ID, Reason: ReasonMalformed, Cause: err}
	}
	verdict.CompanyID = record.ID
	verdict.Model = v.client.GetModel(v.opts.Tier)
	return verdict, nil
}

// parseVerdict cleans, schema-validates and decodes a model response
func parseVerdict(raw string) (*types.VerifierVerdict, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateVerdict(cleaned); err != nil {
		return nil, err
	}

	var resp verdictResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse verdict: %w", err)
	}

	return &types.VerifierVerdict{
		IsLegitimate:   resp.IsLegitimate,
		Confidence:     int(math.Round(resp.Confidence)),
		Recommendation: types.Recommendation(resp.Recommendation),
		Reasoning:      strings.TrimSpace(resp.Reasoning),
		RedFlags:       resp.RedFlags,
	}, nil
}

// SelectCandidates applies the escalation policy: only MEDIUM and HIGH
// entries, highest score first (ties by ascending id), at most max entries.
// The second return value is the number of escalatable entries left out.
func SelectCandidates(candidates []Candidate, max int) ([]Candidate, int) {
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Record != nil && c.Assessment.Tier.IsEscalatable() {
			eligible = append(eligible, c)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Assessment.TotalScore != eligible[j].Assessment.TotalScore {
			return eligible[i].Assessment.TotalScore > eligible[j].Assessment.TotalScore
		}
		return eligible[i].Record.ID < eligible[j].Record.ID
	})

	if max < 0 {
		max = 0
	}
	if len(eligible) <= max {
		return eligible, 0
	}
	return eligible[:max], len(eligible) - max
}

// VerifyBatch escalates the selected candidates and returns verdicts by company id.
// A missing or nil entry means no verdict; failures never propagate. When ctx is
// cancelled no further calls are issued and verdicts gathered so far are kept.
func (v *Verifier) VerifyBatch(ctx context.Context, candidates []Candidate) (map[int64]*types.VerifierVerdict, Stats) {
	log := zap.L().With(zap.String("component", "verifier"))
	verdicts := make(map[int64]*types.VerifierVerdict)

	selected, skipped := SelectCandidates(candidates, v.opts.MaxEscalations)
	stats := Stats{Skipped: skipped}
	if len(selected) == 0 {
		return verdicts, stats
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(v.opts.Concurrency)

	for i := range selected {
		c := selected[i]
		if ctx.Err() != nil || v.isOpen() {
			mu.Lock()
			stats.Skipped += len(selected) - i
			mu.Unlock()
			break
		}

		g.Go(func() error {
			if v.isOpen() {
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				return nil
			}
			if err := v.limiter.Wait(ctx); err != nil {
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				return nil
			}

			verdict, err := v.Verify(ctx, c.Record, c.Assessment)
			v.recordOutcome(err)

			mu.Lock()
			defer mu.Unlock()
			stats.Attempted++
			if err != nil {
				stats.Failed++
				verdicts[c.Record.ID] = nil
				log.Warn("verifier: falling back to heuristic",
					zap.Int64("company_id", c.Record.ID),
					zap.String("name", c.Record.Name),
					zap.Error(err),
				)
				return nil
			}
			stats.Succeeded++
			verdicts[c.Record.ID] = verdict
			log.Info("verifier: verdict received",
				zap.Int64("company_id", c.Record.ID),
				zap.String("recommendation", string(verdict.Recommendation)),
				zap.Int("confidence", verdict.Confidence),
			)
			return nil
		})
	}

	_ = g.Wait()

	if v.isOpen() {
		log.Warn("verifier: stopped after consecutive failures",
			zap.String("reason", ReasonCircuitOpen),
			zap.Int("max_consecutive_failures", v.opts.MaxConsecutiveFailures),
			zap.Int("skipped", stats.Skipped),
		)
	}
	return verdicts, stats
}

func (v *Verifier) recordOutcome(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err == nil {
		v.consecutiveFailures = 0
		return
	}
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) && unavailable.Reason == ReasonCancelled {
		return
	}
	v.consecutiveFailures++
	if v.consecutiveFailures >= v.opts.MaxConsecutiveFailures {
		v.open = true
	}
}

func (v *Verifier) isOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open
}

// BuildPrompt renders the verification prompt for one record
func BuildPrompt(record *types.CompanyRecord, assessment types.RiskAssessment) (string, error) {
	system, err := prompts.Get(promptFile, systemPromptKey)
	if err != nil {
		return "", err
	}

	var flags strings.Builder
	for _, f := range assessment.Flags {
		flags.WriteString(fmt.Sprintf("- %s (weight %d)\n", f.Message, f.Weight))
	}
	if flags.Len() == 0 {
		flags.WriteString("- None\n")
	}

	body, err := prompts.Render(promptFile, promptKey, map[string]string{
		"Name":                  record.Name,
		"ServiceVertical":       joinOr(record.ServiceVertical),
		"AveragePay":            record.Pay().String(),
		"VehicleTypes":          joinOr(record.VehicleTypes),
		"ContractType":          orNotProvided(record.ContractType),
		"AreasServed":           joinOr(record.AreasServed),
		"InsuranceRequirements": orNotProvided(types.Deref(record.InsuranceRequirements)),
		"LicenseRequirements":   orNotProvided(types.Deref(record.LicenseRequirements)),
		"Website":               orNotProvided(types.Deref(record.Website)),
		"ContactPhone":          orNotProvided(types.Deref(record.ContactPhone)),
		"ContactEmail":          orNotProvided(types.Deref(record.ContactEmail)),
		"Description":           orNotProvided(types.Deref(record.Description)),
		"Score":                 strconv.Itoa(assessment.TotalScore),
		"Tier":                  string(assessment.Tier),
		"Flags":                 strings.TrimRight(flags.String(), "\n"),
	})
	if err != nil {
		return "", err
	}

	return system + "\n\n" + body, nil
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

func joinOr(values []string) string {
	return orNotProvided(strings.Join(values, ", "))
}
