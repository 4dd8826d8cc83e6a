package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PayUnit is the period or quantity a pay amount is quoted against
type PayUnit string

// PayUnit values recognized in average pay strings
const (
	PayUnitUnknown  PayUnit = ""
	PayUnitHour     PayUnit = "hour"
	PayUnitMile     PayUnit = "mile"
	PayUnitDelivery PayUnit = "delivery"
	PayUnitDay      PayUnit = "day"
	PayUnitWeek     PayUnit = "week"
	PayUnitYear     PayUnit = "year"
)

// PayRateKind discriminates the PayRate variants
type PayRateKind int

// PayRate variants
const (
	// PayUnspecified means the column was NULL or blank
	PayUnspecified PayRateKind = iota
	// PayParsed means a currency amount was found
	PayParsed
	// PayUnparseable means text was present but carried no currency amount
	PayUnparseable
)

// PayRate is the parsed form of the free-text average pay column.
// Only Parsed rates carry Amount and Unit; Unparseable rates keep Raw.
type PayRate struct {
	Kind   PayRateKind
	Amount float64
	Unit   PayUnit
	Raw    string
}

var (
	currencyAmountPattern = regexp.MustCompile(`[$€£]\s*(\d[\d,]*(?:\.\d+)?)`)

	unitPatterns = []struct {
		pattern *regexp.Regexp
		unit    PayUnit
	}{
		{regexp.MustCompile(`(?i)(/|per\s+)\s*(hour|hr|h)\b|hourly`), PayUnitHour},
		{regexp.MustCompile(`(?i)(/|per\s+)\s*(mile|mi)\b`), PayUnitMile},
		{regexp.MustCompile(`(?i)(/|per\s+)\s*(delivery|drop|stop|trip|order)\b`), PayUnitDelivery},
		{regexp.MustCompile(`(?i)(/|per\s+)\s*day\b|daily`), PayUnitDay},
		{regexp.MustCompile(`(?i)(/|per\s+)\s*(week|wk)\b|weekly`), PayUnitWeek},
		{regexp.MustCompile(`(?i)(/|per\s+)\s*(year|yr)\b|annual|salary`), PayUnitYear},
	}
)

// ParsePayRate extracts the first amount following a currency symbol.
// "$1.25/mile" -> Parsed(1.25, mile); "varies" -> Unparseable; "" -> Unspecified.
func ParsePayRate(raw string) PayRate {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return PayRate{Kind: PayUnspecified}
	}

	match := currencyAmountPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return PayRate{Kind: PayUnparseable, Raw: trimmed}
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil {
		return PayRate{Kind: PayUnparseable, Raw: trimmed}
	}

	return PayRate{
		Kind:   PayParsed,
		Amount: amount,
		Unit:   detectPayUnit(trimmed),
		Raw:    trimmed,
	}
}

func detectPayUnit(text string) PayUnit {
	for _, up := range unitPatterns {
		if up.pattern.MatchString(text) {
			return up.unit
		}
	}
	return PayUnitUnknown
}

// IsParsed reports whether the rate carries a usable amount
func (p PayRate) IsParsed() bool {
	return p.Kind == PayParsed
}

// Exceeds reports whether the rate is Parsed and strictly above threshold
func (p PayRate) Exceeds(threshold float64) bool {
	return p.Kind == PayParsed && p.Amount > threshold
}

// String renders the rate for prompts and logs
func (p PayRate) String() string {
	switch p.Kind {
	case PayParsed:
		if p.Unit == PayUnitUnknown {
			return fmt.Sprintf("$%g", p.Amount)
		}
		return fmt.Sprintf("$%g/%s", p.Amount, p.Unit)
	case PayUnparseable:
		return p.Raw
	default:
		return "Not specified"
	}
}
