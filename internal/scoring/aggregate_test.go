package scoring

import (
	"context"
	"fmt"
	"testing"

	"github.com/jonathan/gig-directory-audit/internal/config"
	"github.com/jonathan/gig-directory-audit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholds_Classify(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		score int
		want  types.Tier
	}{
		{0, types.TierLow},
		{24, types.TierLow},
		{25, types.TierMedium},
		{49, types.TierMedium},
		{50, types.TierHigh},
		{105, types.TierHigh},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score_%d", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.want, th.Classify(tt.score))
		})
	}
}

func TestAggregate(t *testing.T) {
	rec := &types.CompanyRecord{ID: 9, Name: "Acme"}
	flags := []types.Flag{
		{Detector: "a", Weight: 20},
		{Detector: "b", Weight: 15},
	}

	got := Aggregate(rec, flags, DefaultThresholds())
	assert.Equal(t, int64(9), got.CompanyID)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, 35, got.TotalScore)
	assert.Equal(t, types.TierMedium, got.Tier)

	// Mutating the input does not leak into the assessment
	flags[0].Weight = 99
	assert.Equal(t, 20, got.Flags[0].Weight)
}

func TestAssessor_Scenarios(t *testing.T) {
	a := NewAssessor(config.Default())

	high := a.Assess(&types.CompanyRecord{
		ID:                  1,
		Name:                "SuperFast Elite Couriers",
		AveragePay:          types.StringPtr("$175/hour"),
		LicenseRequirements: types.StringPtr("None"),
	})
	assert.Equal(t, 105, high.TotalScore)
	assert.Equal(t, types.TierHigh, high.Tier)

	low := a.Assess(&types.CompanyRecord{
		ID:                  2,
		Name:                "Regional Medical Logistics",
		AveragePay:          types.StringPtr("$28/hour"),
		Website:             types.StringPtr("regionalmedlogistics.com"),
		ContactPhone:        types.StringPtr("555-0101"),
		LicenseRequirements: types.StringPtr("Valid driver license"),
	})
	assert.Equal(t, 0, low.TotalScore)
	assert.Equal(t, types.TierLow, low.Tier)
	assert.Empty(t, low.Flags)
}

func TestAssessor_Deterministic(t *testing.T) {
	a := NewAssessor(config.Default())
	rec := &types.CompanyRecord{
		ID:                    4,
		Name:                  "Instant Cash Couriers",
		AveragePay:            types.StringPtr("$130/hour"),
		InsuranceRequirements: types.StringPtr("no"),
	}

	first := a.Assess(rec)
	second := a.Assess(rec)
	assert.Equal(t, first, second)
}

func TestAssessor_AssessAllPreservesOrder(t *testing.T) {
	a := NewAssessor(config.Default())

	records := make([]types.CompanyRecord, 0, 50)
	for i := 0; i < 50; i++ {
		rec := types.CompanyRecord{ID: int64(i + 1), Name: fmt.Sprintf("Courier %d", i)}
		if i%2 == 0 {
			rec.Website = types.StringPtr("courier.com")
		}
		records = append(records, rec)
	}

	results, err := a.AssessAll(context.Background(), records, 4)
	require.NoError(t, err)
	require.Len(t, results, len(records))

	for i, r := range results {
		assert.Equal(t, records[i].ID, r.CompanyID)
		if i%2 == 0 {
			assert.Equal(t, 0, r.TotalScore)
		} else {
			assert.Equal(t, 20, r.TotalScore)
		}
	}
}

func TestAssessor_AssessAllCancelled(t *testing.T) {
	a := NewAssessor(config.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.AssessAll(ctx, []types.CompanyRecord{{ID: 1, Name: "Acme"}}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCountByTier(t *testing.T) {
	counts := CountByTier([]types.RiskAssessment{
		{Tier: types.TierHigh}, {Tier: types.TierLow}, {Tier: types.TierHigh},
	})
	assert.Equal(t, 2, counts[types.TierHigh])
	assert.Equal(t, 0, counts[types.TierMedium])
	assert.Equal(t, 1, counts[types.TierLow])
}
