package detection

import (
	"testing"

	"github.com/jonathan/gig-directory-audit/internal/config"
	"github.com/jonathan/gig-directory-audit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDetector struct {
	name  string
	flags []types.Flag
}

func (s stubDetector) Name() string { return s.name }

func (s stubDetector) Detect(*types.CompanyRecord) []types.Flag { return s.flags }

func sum(flags []types.Flag) int {
	total := 0
	for _, f := range flags {
		total += f.Weight
	}
	return total
}

func TestDefaultSet_Names(t *testing.T) {
	set := DefaultSet(config.Default().Detectors)
	assert.Equal(t, []string{
		config.DetectorPayRealism,
		config.DetectorContact,
		config.DetectorGenericName,
		config.DetectorLicensing,
		config.DetectorPlaceholder,
		config.DetectorVertical,
	}, set.Names())
}

func TestDefaultSet_Scenarios(t *testing.T) {
	set := DefaultSet(config.Default().Detectors)

	t.Run("promotional high pay no contact", func(t *testing.T) {
		rec := &types.CompanyRecord{
			ID:                  1,
			Name:                "SuperFast Elite Couriers",
			AveragePay:          types.StringPtr("$175/hour"),
			LicenseRequirements: types.StringPtr("None"),
		}
		flags := set.Detect(rec)
		assert.Equal(t, []int{30, 20, 20, 15, 20}, weights(flags))
		assert.Equal(t, 105, sum(flags))
	})

	t.Run("legitimate company", func(t *testing.T) {
		rec := &types.CompanyRecord{
			ID:                  2,
			Name:                "Regional Medical Logistics",
			AveragePay:          types.StringPtr("$28/hour"),
			Website:             types.StringPtr("regionalmedlogistics.com"),
			ContactPhone:        types.StringPtr("555-0101"),
			LicenseRequirements: types.StringPtr("Valid driver license"),
		}
		assert.Empty(t, set.Detect(rec))
	})

	t.Run("placeholder name", func(t *testing.T) {
		rec := &types.CompanyRecord{ID: 3, Name: "gggggg", AveragePay: types.StringPtr("varies")}
		flags := set.Detect(rec)
		assert.GreaterOrEqual(t, sum(flags), 50)

		var hasPlaceholder bool
		for _, f := range flags {
			if f.Detector == config.DetectorPlaceholder {
				hasPlaceholder = true
			}
		}
		assert.True(t, hasPlaceholder)
	})
}

func TestSet_MalformedInputNeverPanics(t *testing.T) {
	set := DefaultSet(config.Default().Detectors)

	assert.NotPanics(t, func() {
		assert.Empty(t, set.Detect(nil))
		set.Detect(&types.CompanyRecord{})
		set.Detect(&types.CompanyRecord{
			AveragePay:            types.StringPtr(""),
			LicenseRequirements:   types.StringPtr(""),
			InsuranceRequirements: types.StringPtr("   "),
		})
	})
}

func TestSet_ZeroWeightDisablesFlag(t *testing.T) {
	cfg := config.Default().Detectors
	cfg.Contact.Weight = 0
	set := DefaultSet(cfg)

	flags := set.Detect(&types.CompanyRecord{ID: 1, Name: "Acme Freight"})
	assert.Empty(t, flags)
}

func TestSet_RegisterPreservesOrderAndIsMonotonic(t *testing.T) {
	rec := &types.CompanyRecord{ID: 1, Name: "Elite Couriers", AveragePay: types.StringPtr("$120/hour")}

	set := DefaultSet(config.Default().Detectors)
	before := set.Detect(rec)

	set.Register(stubDetector{name: "extra", flags: []types.Flag{{Weight: 7, Message: "extra signal"}}})
	set.Register(nil)
	after := set.Detect(rec)

	require.Len(t, after, len(before)+1)
	assert.Equal(t, before, after[:len(before)])
	assert.Equal(t, "extra", after[len(after)-1].Detector, "detector name filled in when empty")
	assert.GreaterOrEqual(t, sum(after), sum(before))
	assert.Equal(t, 7, set.Len())
}

func TestSet_DetectIsDeterministic(t *testing.T) {
	set := DefaultSet(config.Default().Detectors)
	rec := &types.CompanyRecord{
		Name:                  "Top Pro Fast Delivery",
		AveragePay:            types.StringPtr("$160/day"),
		InsuranceRequirements: types.StringPtr("None"),
	}

	assert.Equal(t, set.Detect(rec), set.Detect(rec))
}
