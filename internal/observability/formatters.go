// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/gig-directory-audit/internal/pipeline"
	"github.com/jonathan/gig-directory-audit/internal/quality"
	"github.com/jonathan/gig-directory-audit/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output of run reports
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintRunSummary outputs totals, tier counts and before/after counts of an audit run.
func (p *Printer) PrintRunSummary(report *pipeline.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:       %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Analyzed:  %d companies\n", report.Total))
	sb.WriteString(fmt.Sprintf("Tiers:     HIGH %d  MEDIUM %d  LOW %d\n",
		report.TierCounts[types.TierHigh], report.TierCounts[types.TierMedium], report.TierCounts[types.TierLow]))
	sb.WriteString("\n")

	s := report.Summary
	switch {
	case report.AnalyzeOnly:
		sb.WriteString("Mode:      analyze only (no changes)\n")
	case s.DryRun:
		sb.WriteString("Mode:      dry run (no changes)\n")
	}
	sb.WriteString(fmt.Sprintf("Flagged:   %d (%d actions requested)\n", s.Flagged, s.Requested))
	sb.WriteString(fmt.Sprintf("Removed:   %d (%d deactivated, %d deleted)\n", s.RemovedOrDeactivated, s.Deactivated, s.Deleted))
	if s.AlreadyApplied > 0 {
		sb.WriteString(fmt.Sprintf("Unchanged: %d already applied\n", s.AlreadyApplied))
	}
	sb.WriteString(fmt.Sprintf("Listed:    %d before, %d after\n", s.Before, s.After))

	if report.Verifier.Enabled {
		v := report.Verifier
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Verifier:  %d attempted, %d succeeded, %d failed, %d skipped\n",
			v.Attempted, v.Succeeded, v.Failed, v.Skipped))
	}

	p.printBox("AUDIT SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTopFlagged outputs the highest-risk entries with their heaviest flags.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTopFlagged(entries []pipeline.FlaggedEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO FLAGGED COMPANIES")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("#%d  [%d] %s\n", i+1, e.CompanyID, e.Name))
		sb.WriteString(fmt.Sprintf("    Score: %d (%s)\n", e.Score, e.Tier))
		for _, flag := range e.TopFlags {
			sb.WriteString(fmt.Sprintf("    • %s\n", flag))
		}
		if i < len(entries)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("TOP %d FLAGGED", len(entries)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintActions outputs the mutating actions of a run, capped at maxItemsToShow.
func (p *Printer) PrintActions(actions []types.RemediationAction) {
	var mutating []types.RemediationAction
	for _, a := range actions {
		if a.Action != types.ActionNone {
			mutating = append(mutating, a)
		}
	}
	if len(mutating) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(mutating), maxItemsToShow)
	for i := 0; i < count; i++ {
		a := mutating[i]
		sb.WriteString(fmt.Sprintf("%-10s [%d] %s\n", a.Action, a.CompanyID, a.Name))
		sb.WriteString(fmt.Sprintf("           %s, score %d\n", a.Reason, a.SourceScore))
	}
	if len(mutating) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more actions", len(mutating)-maxItemsToShow))
	}

	p.printBox("REMEDIATION ACTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQualityIssues outputs data-quality findings grouped by company.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintQualityIssues(results []quality.RecordIssues) {
	if len(results) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO DATA-QUALITY ISSUES FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	counts := quality.CountBySeverity(results)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d companies with issues (HIGH %d, MEDIUM %d, LOW %d)\n\n",
		len(results), counts[types.SeverityHigh], counts[types.SeverityMedium], counts[types.SeverityLow]))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		sb.WriteString(fmt.Sprintf("[%d] %s\n", r.CompanyID, r.Name))
		for _, issue := range r.Issues {
			sb.WriteString(fmt.Sprintf("  ⚠ %s (%s)\n", issue.Type, issue.Severity))
			sb.WriteString(fmt.Sprintf("    %s\n", issue.Suggestion))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more companies", len(results)-maxItemsToShow))
	}

	p.printBox("DATA-QUALITY ISSUES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCoverage outputs category counts, search strategies and gap findings.
func (p *Printer) PrintCoverage(report *types.CoverageReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Companies: %d\n", report.TotalCompanies))
	sb.WriteString(fmt.Sprintf("States:    %d\n\n", report.StatesCovered))

	if len(report.ByVertical) > 0 {
		sb.WriteString("Verticals:\n")
		keys := quality.SortedKeys(report.ByVertical)
		count := min(len(keys), maxItemsToShow)
		for _, k := range keys[:count] {
			sb.WriteString(fmt.Sprintf("  • %s: %d\n", k, report.ByVertical[k]))
		}
		if len(keys) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(keys)-maxItemsToShow))
		}
	}
	p.printBox("DIRECTORY COVERAGE", strings.TrimSuffix(sb.String(), "\n"))

	if len(report.Strategies) > 0 {
		sb.Reset()
		for i, s := range report.Strategies {
			sb.WriteString(fmt.Sprintf("%s [%s]\n", s.Focus, s.Priority))
			sb.WriteString(fmt.Sprintf("  %s\n", s.Rationale))
			terms := min(len(s.SearchTerms), 3)
			for _, term := range s.SearchTerms[:terms] {
				sb.WriteString(fmt.Sprintf("  • %s\n", term))
			}
			if len(s.SearchTerms) > 3 {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(s.SearchTerms)-3))
			}
			if i < len(report.Strategies)-1 {
				sb.WriteString("\n")
			}
		}
		p.printBox("SEARCH STRATEGIES", strings.TrimSuffix(sb.String(), "\n"))
	}

	if len(report.MissingLeaders) > 0 || len(report.Underrepresented) > 0 {
		sb.Reset()
		if len(report.MissingLeaders) > 0 {
			sb.WriteString("Missing industry leaders:\n")
			for _, l := range report.MissingLeaders {
				sb.WriteString(fmt.Sprintf("  • %s (%s)\n", l.Name, l.Website))
			}
		}
		if len(report.Underrepresented) > 0 {
			if len(report.MissingLeaders) > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("Underrepresented patterns: %s\n", strings.Join(report.Underrepresented, ", ")))
		}
		p.printBox("GAP ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
	}
}
