package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/gig-directory-audit/internal/pipeline"
	"github.com/jonathan/gig-directory-audit/internal/quality"
	"github.com/jonathan/gig-directory-audit/internal/types"
	"github.com/jonathan/gig-directory-audit/internal/verification"
	"github.com/stretchr/testify/assert"
)

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &pipeline.Report{
		RunID:      "run-1",
		Total:      4,
		TierCounts: map[types.Tier]int{types.TierHigh: 2, types.TierMedium: 1, types.TierLow: 1},
		Summary: types.RemediationSummary{
			Before: 4, Flagged: 3, Requested: 3, RemovedOrDeactivated: 3,
			Deactivated: 1, Deleted: 2, After: 1,
		},
		Verifier: pipeline.VerifierReport{
			Enabled: true,
			Stats:   verification.Stats{Attempted: 3, Succeeded: 2, Failed: 1},
		},
	}

	p.PrintRunSummary(report)
	output := buf.String()

	assert.Contains(t, output, "AUDIT SUMMARY")
	assert.Contains(t, output, "Analyzed:  4 companies")
	assert.Contains(t, output, "HIGH 2  MEDIUM 1  LOW 1")
	assert.Contains(t, output, "1 deactivated, 2 deleted")
	assert.Contains(t, output, "4 before, 1 after")
	assert.Contains(t, output, "3 attempted, 2 succeeded, 1 failed")
	assert.NotContains(t, output, "Mode:")
}

func TestPrintRunSummary_Modes(t *testing.T) {
	tests := []struct {
		name   string
		report *pipeline.Report
		want   string
	}{
		{"analyze only", &pipeline.Report{AnalyzeOnly: true}, "analyze only"},
		{"dry run", &pipeline.Report{Summary: types.RemediationSummary{DryRun: true}}, "dry run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintRunSummary(tt.report)
			assert.Contains(t, buf.String(), tt.want)
			assert.NotContains(t, buf.String(), "Verifier:")
		})
	}
}

func TestPrintRunSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRunSummary(nil)
	assert.Empty(t, buf.String())
}

func TestPrintTopFlagged(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTopFlagged([]pipeline.FlaggedEntry{
		{CompanyID: 7, Name: "Instant Cash Couriers", Score: 95, Tier: types.TierHigh, TopFlags: []string{"Unrealistic pay: $200/hour"}},
		{CompanyID: 3, Name: "Acme Freight", Score: 30, Tier: types.TierMedium},
	})
	output := buf.String()

	assert.Contains(t, output, "TOP 2 FLAGGED")
	assert.Contains(t, output, "#1  [7] Instant Cash Couriers")
	assert.Contains(t, output, "Score: 95 (HIGH)")
	assert.Contains(t, output, "Unrealistic pay: $200/hour")
	assert.Contains(t, output, "#2  [3] Acme Freight")
}

func TestPrintTopFlagged_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintTopFlagged(nil)
	assert.Contains(t, buf.String(), "NO FLAGGED COMPANIES")
}

func TestPrintActions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	actions := []types.RemediationAction{{CompanyID: 1, Name: "Spared", Action: types.ActionNone}}
	for i := 2; i <= 8; i++ {
		actions = append(actions, types.RemediationAction{
			CompanyID: int64(i), Name: fmt.Sprintf("Company %d", i),
			Action: types.ActionDeactivate, Reason: "medium_tier", SourceScore: 40,
		})
	}

	p.PrintActions(actions)
	output := buf.String()

	assert.Contains(t, output, "REMEDIATION ACTIONS")
	assert.NotContains(t, output, "Spared")
	assert.Contains(t, output, "[2] Company 2")
	assert.NotContains(t, output, "[7] Company 7")
	assert.Contains(t, output, "... and 2 more actions")
}

func TestPrintActions_NoneMutating(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintActions([]types.RemediationAction{{CompanyID: 1, Action: types.ActionNone}})
	assert.Empty(t, buf.String())
}

func TestPrintQualityIssues(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQualityIssues([]quality.RecordIssues{
		{
			CompanyID: 4,
			Name:      "Metro Runner",
			Issues: []types.QualityIssue{
				{CompanyID: 4, Type: types.IssueMissingWebsite, Severity: types.SeverityLow, Suggestion: "Add company website"},
				{CompanyID: 4, Type: types.IssueDescriptionMismatch, Severity: types.SeverityHigh, Suggestion: "Remove medical from verticals"},
			},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "DATA-QUALITY ISSUES")
	assert.Contains(t, output, "1 companies with issues (HIGH 1, MEDIUM 0, LOW 1)")
	assert.Contains(t, output, "[4] Metro Runner")
	assert.Contains(t, output, "MISSING_WEBSITE (LOW)")
	assert.Contains(t, output, "Remove medical from verticals")
}

func TestPrintQualityIssues_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintQualityIssues(nil)
	assert.Contains(t, buf.String(), "NO DATA-QUALITY ISSUES FOUND")
}

func TestPrintCoverage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCoverage(&types.CoverageReport{
		TotalCompanies: 12,
		StatesCovered:  3,
		ByVertical:     map[string]int{"Medical": 5, "Food": 2},
		Strategies: []types.SearchStrategy{
			{Focus: "Medical Couriers", Priority: types.SeverityHigh, Rationale: "Currently have 5 medical companies",
				SearchTerms: []string{"stat courier", "lab specimen transport", "pharmacy delivery", "medical courier"}},
		},
		MissingLeaders:   []types.IndustryLeader{{Name: "MedSpeed", Website: "medspeed.com"}},
		Underrepresented: []string{"lab", "rx"},
	})
	output := buf.String()

	assert.Contains(t, output, "DIRECTORY COVERAGE")
	assert.Contains(t, output, "Companies: 12")
	assert.Contains(t, output, "• Medical: 5")
	assert.Contains(t, output, "SEARCH STRATEGIES")
	assert.Contains(t, output, "Medical Couriers [HIGH]")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "GAP ANALYSIS")
	assert.Contains(t, output, "MedSpeed (medspeed.com)")
	assert.Contains(t, output, "Underrepresented patterns: lab, rx")
}

func TestPrintCoverage_NoGaps(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCoverage(&types.CoverageReport{TotalCompanies: 1})
	output := buf.String()

	assert.Contains(t, output, "DIRECTORY COVERAGE")
	assert.NotContains(t, output, "GAP ANALYSIS")
	assert.NotContains(t, output, "SEARCH STRATEGIES")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}
