// Package scoring provides the risk aggregator that turns detector flags into
// a risk score and tier.
package scoring

import (
	"context"
	"fmt"

	"github.com/jonathan/gig-directory-audit/internal/config"
	"github.com/jonathan/gig-directory-audit/internal/detection"
	"github.com/jonathan/gig-directory-audit/internal/types"
	"golang.org/x/sync/errgroup"
)

// Thresholds are inclusive lower bounds of the MEDIUM and HIGH tiers
type Thresholds struct {
	Medium int
	High   int
}

// DefaultThresholds returns LOW <25, MEDIUM 25-49, HIGH >=50
func DefaultThresholds() Thresholds {
	return Thresholds{Medium: 25, High: 50}
}

// ThresholdsFromConfig converts configured tier boundaries
func ThresholdsFromConfig(cfg config.Tiers) Thresholds {
	return Thresholds{Medium: cfg.Medium, High: cfg.High}
}

// Classify maps a score to its tier. A score equal to a boundary belongs to the higher tier.
func (t Thresholds) Classify(score int) types.Tier {
	switch {
	case score >= t.High:
		return types.TierHigh
	case score >= t.Medium:
		return types.TierMedium
	default:
		return types.TierLow
	}
}

// Aggregate sums flag weights for a record and classifies the total.
// The flags are copied so the assessment does not alias the caller's slice.
func Aggregate(record *types.CompanyRecord, flags []types.Flag, thresholds Thresholds) types.RiskAssessment {
	copied := make([]types.Flag, len(flags))
	copy(copied, flags)

	total := 0
	for _, f := range copied {
		total += f.Weight
	}

	return types.RiskAssessment{
		CompanyID:  record.ID,
		Name:       record.Name,
		TotalScore: total,
		Tier:       thresholds.Classify(total),
		Flags:      copied,
	}
}

// Assessor runs a detector set and aggregates the result
type Assessor struct {
	Set        *detection.Set
	Thresholds Thresholds
	// Cache is optional; when set, unchanged records reuse their assessment
	Cache *Cache
}

// NewAssessor creates an Assessor with the default detectors and tiers from cfg
func NewAssessor(cfg *config.Config) *Assessor {
	return &Assessor{
		Set:        detection.DefaultSet(cfg.Detectors),
		Thresholds: ThresholdsFromConfig(cfg.Tiers),
	}
}

// Assess evaluates one record. It has no side effects besides the optional cache.
func (a *Assessor) Assess(record *types.CompanyRecord) types.RiskAssessment {
	if a.Cache != nil {
		if cached, ok := a.Cache.Get(record); ok {
			return cached
		}
	}

	assessment := Aggregate(record, a.Set.Detect(record), a.Thresholds)

	if a.Cache != nil {
		a.Cache.Put(record, assessment)
	}
	return assessment
}

// AssessAll evaluates records in parallel with at most workers goroutines.
// Results are returned in input order. Only context cancellation produces an error.
func (a *Assessor) AssessAll(ctx context.Context, records []types.CompanyRecord, workers int) ([]types.RiskAssessment, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]types.RiskAssessment, len(records))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range records {
		i := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = a.Assess(&records[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assessment cancelled: %w", err)
	}
	return results, nil
}

// CountByTier tallies assessments per tier
func CountByTier(assessments []types.RiskAssessment) map[types.Tier]int {
	counts := map[types.Tier]int{
		types.TierLow:    0,
		types.TierMedium: 0,
		types.TierHigh:   0,
	}
	for _, a := range assessments {
		counts[a.Tier]++
	}
	return counts
}
