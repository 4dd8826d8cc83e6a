package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskAssessment_TopFlags(t *testing.T) {
	a := RiskAssessment{
		Flags: []Flag{
			{Detector: "pay_realism", Weight: 30, Message: "pay over 100"},
			{Detector: "generic_name", Weight: 15, Message: "generic name"},
			{Detector: "contact_completeness", Weight: 20, Message: "no contact"},
			{Detector: "licensing_inconsistency", Weight: 20, Message: "no license"},
		},
	}

	assert.Equal(t, []string{"pay over 100", "no contact", "no license"}, a.TopFlags(3))
	assert.Len(t, a.TopFlags(10), 4)
	assert.Empty(t, a.TopFlags(0))
	assert.Empty(t, a.TopFlags(-1))

	// Original order is untouched
	assert.Equal(t, "pay_realism", a.Flags[0].Detector)
	assert.Equal(t, "generic_name", a.Flags[1].Detector)
}

func TestRiskAssessment_TopFlags_TiesKeepEmissionOrder(t *testing.T) {
	a := RiskAssessment{
		Flags: []Flag{
			{Weight: 10, Message: "a"},
			{Weight: 20, Message: "b"},
			{Weight: 10, Message: "c"},
			{Weight: 20, Message: "d"},
			{Weight: 10, Message: "e"},
		},
	}
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, a.TopFlags(5))
}

func TestRiskAssessment_HasFlagFrom(t *testing.T) {
	a := RiskAssessment{Flags: []Flag{{Detector: "placeholder_name", Weight: 50}}}
	assert.True(t, a.HasFlagFrom("placeholder_name"))
	assert.False(t, a.HasFlagFrom("pay_realism"))
}

func TestRiskAssessment_FlagSummary(t *testing.T) {
	assert.Equal(t, "None", (&RiskAssessment{}).FlagSummary())

	a := RiskAssessment{Flags: []Flag{{Message: "a"}, {Message: "b"}}}
	assert.Equal(t, "a; b", a.FlagSummary())
}

func TestTier(t *testing.T) {
	assert.Less(t, TierLow.Rank(), TierMedium.Rank())
	assert.Less(t, TierMedium.Rank(), TierHigh.Rank())

	assert.False(t, TierLow.IsEscalatable())
	assert.True(t, TierMedium.IsEscalatable())
	assert.True(t, TierHigh.IsEscalatable())
}

func TestBatchResult_Consistent(t *testing.T) {
	assert.True(t, BatchResult{Requested: 3, Affected: 2, AlreadyApplied: 1}.Consistent())
	assert.False(t, BatchResult{Requested: 3, Affected: 1}.Consistent())
	assert.False(t, BatchResult{Requested: 1, Affected: 1, RolledBack: true}.Consistent())
}
