package domain

import "strings"

// Return-percentage thresholds; each is the inclusive lower bound of its tier.
const (
	OrangeThreshold = 3.0
	RedThreshold    = 5.0
)

// heatWeights maps the normalized CLASSE label to its heat contribution.
var heatWeights = map[string]int{
	"A": 50000,
	"B": 20000,
	"C": 1000,
}

// ClassifyOptions carries per-dataset classification settings.
type ClassifyOptions struct {
	// HasAmountFields enables the zero-activity (gray) rule. It comes from
	// configuration, never from inspecting the record.
	HasAmountFields bool
}

// HeatWeight returns the weight for a class label. Unknown and empty labels
// weigh 0.
func HeatWeight(label string) int {
	return heatWeights[strings.ToUpper(strings.TrimSpace(label))]
}

// SeverityFor derives the marker color from the return percentage and, when
// enabled, the zero-activity rule, which takes precedence.
func SeverityFor(percent, sale, ret float64, opts ClassifyOptions) SeverityColor {
	switch {
	case opts.HasAmountFields && sale == 0 && ret == 0:
		return SeverityGray
	case percent < OrangeThreshold:
		return SeverityGreen
	case percent < RedThreshold:
		return SeverityOrange
	default:
		return SeverityRed
	}
}

// Classify annotates a complete record. Callers must pass records that
// satisfy IsComplete.
func Classify(r NormalizedRecord, opts ClassifyOptions) ClassifiedRecord {
	pct := *r.ReturnPercent
	return ClassifiedRecord{
		NormalizedRecord: r,
		Lat:              *r.Latitude,
		Lon:              *r.Longitude,
		Percent:          pct,
		HeatWeight:       HeatWeight(r.ClassLabel),
		Severity:         SeverityFor(pct, r.SaleAmount, r.ReturnAmount, opts),
	}
}

// ClassifyAll maps Classify over complete records, returning a new slice.
func ClassifyAll(records []NormalizedRecord, opts ClassifyOptions) []ClassifiedRecord {
	out := make([]ClassifiedRecord, len(records))
	for i, r := range records {
		out[i] = Classify(r, opts)
	}
	return out
}
