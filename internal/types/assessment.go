package types

import (
	"sort"
	"strings"
)

// Tier is the coarse risk classification derived from summed flag weights
type Tier string

// Tier values, ordered from least to most risky
const (
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

// Rank returns 0, 1, 2 for LOW, MEDIUM, HIGH so tiers can be compared
func (t Tier) Rank() int {
	switch t {
	case TierHigh:
		return 2
	case TierMedium:
		return 1
	default:
		return 0
	}
}

// IsEscalatable reports whether entries of this tier may be sent to the verifier
func (t Tier) IsEscalatable() bool {
	return t == TierMedium || t == TierHigh
}

// Flag is one weighted indicator emitted by a detector for a record
type Flag struct {
	Detector string `json:"detector"`
	Weight   int    `json:"weight"`
	Message  string `json:"message"`
}

// RiskAssessment is the aggregated heuristic result for one record
type RiskAssessment struct {
	CompanyID  int64  `json:"company_id"`
	Name       string `json:"name"`
	TotalScore int    `json:"total_score"`
	Tier       Tier   `json:"tier"`
	Flags      []Flag `json:"flags"`
}

// HasFlagFrom reports whether any flag was emitted by the named detector
func (a *RiskAssessment) HasFlagFrom(detector string) bool {
	for _, f := range a.Flags {
		if f.Detector == detector {
			return true
		}
	}
	return false
}

// TopFlags returns up to n flag messages, heaviest first (stable on ties)
func (a *RiskAssessment) TopFlags(n int) []string {
	sorted := make([]Flag, len(a.Flags))
	copy(sorted, a.Flags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})
	n = max(0, min(n, len(sorted)))
	out := make([]string, 0, n)
	for _, f := range sorted[:n] {
		out = append(out, f.Message)
	}
	return out
}

// FlagSummary joins flag messages with their weights for prompts and logs
func (a *RiskAssessment) FlagSummary() string {
	if len(a.Flags) == 0 {
		return "None"
	}
	parts := make([]string, 0, len(a.Flags))
	for _, f := range a.Flags {
		parts = append(parts, f.Message)
	}
	return strings.Join(parts, "; ")
}

// Recommendation is the verifier's suggested handling of an entry
type Recommendation string

// Recommendation values accepted from the verifier
const (
	RecommendKeep        Recommendation = "KEEP"
	RecommendRemove      Recommendation = "REMOVE"
	RecommendInvestigate Recommendation = "INVESTIGATE"
)

// VerifierVerdict is the structured opinion of the external verifier
type VerifierVerdict struct {
	CompanyID      int64          `json:"company_id"`
	IsLegitimate   bool           `json:"is_legitimate"`
	Confidence     int            `json:"confidence"`
	Recommendation Recommendation `json:"recommendation"`
	Reasoning      string         `json:"reasoning"`
	RedFlags       []string       `json:"red_flags,omitempty"`
	Model          string         `json:"model,omitempty"`
}

// ConfidentKeep reports whether the verdict vouches for the entry with at
// least minConfidence
func (v *VerifierVerdict) ConfidentKeep(minConfidence int) bool {
	return v != nil && v.Recommendation == RecommendKeep && v.IsLegitimate && v.Confidence >= minConfidence
}
