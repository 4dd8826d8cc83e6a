// Package remediation decides and applies the action taken on each assessed company.
package remediation

import (
	"github.com/jonathan/gig-directory-audit/internal/config"
	"github.com/jonathan/gig-directory-audit/internal/types"
)

// Reasons recorded on each RemediationAction
const (
	ReasonLowTier        = "low_tier"
	ReasonHardFloor      = "hard_removal_floor"
	ReasonConclusive     = "conclusive_signal"
	ReasonDeleteDisabled = "delete_disabled"
	ReasonMediumTier     = "medium_tier"
	ReasonHighBelowFloor = "high_below_floor"
	ReasonOracleKeep     = "oracle_keep"
)

// OracleOverride lets a confident KEEP verdict spare an entry below the hard-removal floor
type OracleOverride struct {
	Enabled       bool
	MinConfidence int
}

// Policy maps an assessment and optional verdict to an action.
// The heuristic is authoritative at or above HardRemovalFloor and for
// conclusive detectors; the verifier can only soften decisions below that,
// and never escalates DEACTIVATE to DELETE.
type Policy struct {
	HardRemovalFloor    int
	AllowDelete         bool
	ConclusiveDetectors []string
	OracleOverride      OracleOverride
}

// DefaultPolicy returns floor 70, deletes allowed, placeholder names conclusive,
// and oracle KEEP honoured at confidence >= 80
func DefaultPolicy() Policy {
	return PolicyFromConfig(config.Default().Remediation)
}

// PolicyFromConfig converts the remediation configuration section
func PolicyFromConfig(cfg config.Remediation) Policy {
	conclusive := make([]string, len(cfg.ConclusiveDetectors))
	copy(conclusive, cfg.ConclusiveDetectors)
	return Policy{
		HardRemovalFloor:    cfg.HardRemovalFloor,
		AllowDelete:         !cfg.DisableDelete,
		ConclusiveDetectors: conclusive,
		OracleOverride: OracleOverride{
			Enabled:       !cfg.DisableOracleOverride,
			MinConfidence: cfg.OracleMinConfidence,
		},
	}
}

// Decide returns the action for one assessment. With a nil verdict the
// result is the heuristic-only decision.
func (p Policy) Decide(assessment types.RiskAssessment, verdict *types.VerifierVerdict) types.RemediationAction {
	action := types.RemediationAction{
		CompanyID:     assessment.CompanyID,
		Name:          assessment.Name,
		SourceScore:   assessment.TotalScore,
		SourceTier:    assessment.Tier,
		SourceVerdict: verdict,
	}

	switch assessment.Tier {
	case types.TierHigh:
		if reason, ok := p.hardRemoval(assessment); ok {
			if !p.AllowDelete {
				action.Action = types.ActionDeactivate
				action.Reason = ReasonDeleteDisabled
				return action
			}
			action.Action = types.ActionDelete
			action.Reason = reason
			return action
		}
		action.Action = types.ActionDeactivate
		action.Reason = ReasonHighBelowFloor
	case types.TierMedium:
		action.Action = types.ActionDeactivate
		action.Reason = ReasonMediumTier
	default:
		action.Action = types.ActionNone
		action.Reason = ReasonLowTier
		return action
	}

	if p.OracleOverride.Enabled && verdict.ConfidentKeep(p.OracleOverride.MinConfidence) {
		action.Action = types.ActionNone
		action.Reason = ReasonOracleKeep
	}
	return action
}

// DecideAll applies Decide to every assessment, looking verdicts up by company id
func (p Policy) DecideAll(assessments []types.RiskAssessment, verdicts map[int64]*types.VerifierVerdict) []types.RemediationAction {
	actions := make([]types.RemediationAction, 0, len(assessments))
	for _, a := range assessments {
		actions = append(actions, p.Decide(a, verdicts[a.CompanyID]))
	}
	return actions
}

func (p Policy) hardRemoval(assessment types.RiskAssessment) (string, bool) {
	if assessment.TotalScore >= p.HardRemovalFloor {
		return ReasonHardFloor, true
	}
	for _, name := range p.ConclusiveDetectors {
		if assessment.HasFlagFrom(name) {
			return ReasonConclusive, true
		}
	}
	return "", false
}
