package domain

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// FieldKind selects the parse strategy and the failure policy for a column.
type FieldKind int

const (
	// FieldPlain is a dot-decimal number such as a coordinate. Failure → missing.
	FieldPlain FieldKind = iota
	// FieldPercent is "2,5%"-style text. Failure → missing.
	FieldPercent
	// FieldCurrency is "R$ 1.234,56"-style text. Failure → 0, never missing.
	FieldCurrency
)

// currencySymbols are stripped from the front of currency values. Longer
// symbols come first so "US$" is not read as "$" with a leftover "US".
var currencySymbols = []string{"US$", "R$", "$", "€", "£"}

// NormalizeField parses raw under the policy of kind. The bool is false when
// the value is missing; it is always true for FieldCurrency.
func NormalizeField(raw string, kind FieldKind) (float64, bool) {
	switch kind {
	case FieldPercent:
		return parsePercent(raw)
	case FieldCurrency:
		return parseCurrency(raw), true
	default:
		return parsePlain(raw)
	}
}

func parsePlain(raw string) (float64, bool) {
	return parseFinite(strings.TrimSpace(raw))
}

// parsePercent removes every '%' and turns a decimal comma into a dot.
func parsePercent(raw string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), "%", "")
	s = strings.ReplaceAll(s, ",", ".")
	return parseFinite(strings.TrimSpace(s))
}

// parseCurrency strips a leading symbol and the whitespace after it, drops
// thousands dots and converts the decimal comma. Unparseable input is 0.
func parseCurrency(raw string) float64 {
	s := strings.TrimSpace(raw)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = strings.TrimSpace(s[1:])
	}
	for _, sym := range currencySymbols {
		if rest, ok := strings.CutPrefix(s, sym); ok {
			s = strings.TrimLeftFunc(rest, unicode.IsSpace)
			break
		}
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, ok := parseFinite(sign + s)
	if !ok {
		return 0
	}
	return v
}

// parseFinite accepts plain decimal notation only. It rejects empty input and
// the NaN/Inf, hex ("0x1p2") and underscore ("1_0") forms ParseFloat allows.
func parseFinite(s string) (float64, bool) {
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Normalize converts a raw row into a NormalizedRecord. Text fields are
// trimmed and passed through; absent columns read as empty.
func Normalize(raw RawRecord) NormalizedRecord {
	return NormalizedRecord{
		Latitude:      optional(NormalizeField(raw[ColLatitude], FieldPlain)),
		Longitude:     optional(NormalizeField(raw[ColLongitude], FieldPlain)),
		ReturnPercent: optional(NormalizeField(raw[ColReturnPct], FieldPercent)),
		SaleAmount:    parseCurrency(raw[ColSale]),
		ReturnAmount:  parseCurrency(raw[ColReturn]),
		ProductKey:    strings.TrimSpace(raw[ColProduct]),
		ClassLabel:    strings.TrimSpace(raw[ColClass]),
		CustomerName:  strings.TrimSpace(raw[ColCustomer]),
		Neighborhood:  strings.TrimSpace(raw[ColNeighborhood]),
		City:          strings.TrimSpace(raw[ColCity]),
		Code:          strings.TrimSpace(raw[ColCode]),
	}
}

// NormalizeAll maps Normalize over rows, returning a new slice.
func NormalizeAll(rows []RawRecord) []NormalizedRecord {
	out := make([]NormalizedRecord, len(rows))
	for i, r := range rows {
		out[i] = Normalize(r)
	}
	return out
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}
