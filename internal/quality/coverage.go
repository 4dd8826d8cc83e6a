package quality

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/gig-directory-audit/internal/config"
	"github.com/jonathan/gig-directory-audit/internal/types"
)

const (
	fieldVertical = "vertical"
	fieldName     = "name"

	countPlaceholder = "{{.Count}}"
)

// Coverage builds the full coverage report: category and region counts,
// search strategies for thin categories, missing leaders and naming-pattern gaps
func Coverage(records []types.CompanyRecord, cfg config.Quality) types.CoverageReport {
	report := types.CoverageReport{
		TotalCompanies: len(records),
		ByVertical:     map[string]int{},
		ByRegion:       map[string]int{},
	}

	for i := range records {
		for _, v := range records[i].ServiceVertical {
			if v = strings.TrimSpace(v); v != "" {
				report.ByVertical[v]++
			}
		}
		for _, area := range records[i].AreasServed {
			if state, ok := stateCode(area); ok {
				report.ByRegion[state]++
			}
		}
	}
	report.StatesCovered = len(report.ByRegion)
	report.Strategies = Strategies(records, report.StatesCovered, cfg)

	report.MissingLeaders = LeaderGaps(records, cfg.Leaders)
	report.PatternCounts, report.Underrepresented = PatternGaps(records, cfg.NamingPatterns)
	report.Recommendations = Recommendations(report.MissingLeaders, report.Underrepresented)
	return report
}

// Strategies proposes search terms for every target whose count is below its
// minimum, and for geographic coverage below cfg.MinStates
func Strategies(records []types.CompanyRecord, statesCovered int, cfg config.Quality) []types.SearchStrategy {
	strategies := []types.SearchStrategy{}

	for _, target := range cfg.Targets {
		count := countMatching(records, target)
		if count >= target.Minimum {
			continue
		}
		strategies = append(strategies, types.SearchStrategy{
			Focus:       target.Focus,
			Priority:    target.Priority,
			SearchTerms: append([]string(nil), target.SearchTerms...),
			TargetCount: target.TargetCount,
			Rationale:   rationale(target, count),
		})
	}

	if statesCovered < cfg.MinStates {
		strategies = append(strategies, types.SearchStrategy{
			Focus:       "Geographic Coverage",
			Priority:    types.SeverityMedium,
			SearchTerms: append([]string(nil), cfg.StateSearchTerms...),
			TargetCount: "5-10 companies per underserved state",
			Rationale:   "Currently covering " + strconv.Itoa(statesCovered) + " states, need better geographic distribution",
		})
	}
	return strategies
}

// LeaderGaps returns the leaders matched by neither name nor domain.
// A leader matches when either name contains the other, or either domain contains the other.
func LeaderGaps(records []types.CompanyRecord, leaders []types.IndustryLeader) []types.IndustryLeader {
	names := make([]string, 0, len(records))
	domains := make([]string, 0, len(records))
	for i := range records {
		if n := strings.ToLower(strings.TrimSpace(records[i].Name)); n != "" {
			names = append(names, n)
		}
		if d := domainOf(types.Deref(records[i].Website)); d != "" {
			domains = append(domains, d)
		}
	}

	missing := []types.IndustryLeader{}
	for _, leader := range leaders {
		leaderName := strings.ToLower(leader.Name)
		leaderDomain := strings.ToLower(leader.Website)
		if eitherContains(names, leaderName) || eitherContains(domains, leaderDomain) {
			continue
		}
		missing = append(missing, leader)
	}
	return missing
}

// PatternGaps counts company names containing each pattern and returns the
// patterns whose count is below half the average
func PatternGaps(records []types.CompanyRecord, patterns []string) (map[string]int, []string) {
	counts := make(map[string]int, len(patterns))
	underrepresented := []string{}
	if len(patterns) == 0 {
		return counts, underrepresented
	}

	total := 0
	for _, p := range patterns {
		p = strings.ToLower(p)
		n := 0
		for i := range records {
			if strings.Contains(strings.ToLower(records[i].Name), p) {
				n++
			}
		}
		counts[p] = n
		total += n
	}

	avg := float64(total) / float64(len(counts))
	for _, p := range patterns {
		p = strings.ToLower(p)
		if float64(counts[p]) < avg*0.5 {
			underrepresented = append(underrepresented, p)
		}
	}
	return counts, underrepresented
}

// Recommendations turns the gap findings into follow-up actions.
// A monitoring reminder is always included.
func Recommendations(missing []types.IndustryLeader, underrepresented []string) []types.GapAction {
	var out []types.GapAction
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, l := range missing {
			names = append(names, l.Name)
		}
		out = append(out, types.GapAction{
			Type:      "Missing Industry Leaders",
			Priority:  types.SeverityHigh,
			Action:    "Add these major companies to database",
			Companies: names,
		})
	}
	if len(underrepresented) > 0 {
		out = append(out, types.GapAction{
			Type:     "Underrepresented Patterns",
			Priority: types.SeverityMedium,
			Action:   "Research more companies with these naming patterns",
			Patterns: append([]string(nil), underrepresented...),
		})
	}
	out = append(out, types.GapAction{
		Type:     "Regular Monitoring",
		Priority: types.SeverityMedium,
		Action:   "Run this analysis monthly to identify new gaps",
		Schedule: "Monthly",
	})
	return out
}

// SortedKeys returns map keys ordered by descending count, then name
func SortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func countMatching(records []types.CompanyRecord, target config.CoverageTarget) int {
	match := strings.ToLower(target.Match)
	n := 0
	for i := range records {
		switch target.Field {
		case fieldName:
			if strings.Contains(strings.ToLower(records[i].Name), match) {
				n++
			}
		case fieldVertical:
			for _, v := range records[i].ServiceVertical {
				if strings.Contains(strings.ToLower(v), match) {
					n++
					break
				}
			}
		}
	}
	return n
}

func rationale(target config.CoverageTarget, count int) string {
	if target.Rationale == "" {
		return "Currently have " + strconv.Itoa(count) + " " + strings.ToLower(target.Match) + " companies"
	}
	return strings.ReplaceAll(target.Rationale, countPlaceholder, strconv.Itoa(count))
}

// stateCode returns the upper-cased area when it is a two-letter code
func stateCode(area string) (string, bool) {
	area = strings.TrimSpace(area)
	if len(area) != 2 {
		return "", false
	}
	for _, r := range area {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return "", false
		}
	}
	return strings.ToUpper(area), true
}

// domainOf returns the lower-cased host of a website, or the raw value when
// it does not parse as an absolute URL
func domainOf(website string) string {
	website = strings.ToLower(strings.TrimSpace(website))
	if website == "" {
		return ""
	}
	if u, err := url.Parse(website); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return website
}

func eitherContains(values []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range values {
		if strings.Contains(v, s) || strings.Contains(s, v) {
			return true
		}
	}
	return false
}
