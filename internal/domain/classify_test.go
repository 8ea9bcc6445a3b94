package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeatWeight(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected int
	}{
		{"A", "A", 50000},
		{"lowercase padded a", " a ", 50000},
		{"B", "B", 20000},
		{"lowercase b", "b", 20000},
		{"C tab padded", "\tC\n", 1000},
		{"unknown class", "Z", 0},
		{"empty", "", 0},
		{"multi-letter", "AA", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HeatWeight(tt.label))
		})
	}
}

func TestSeverityFor(t *testing.T) {
	active := ClassifyOptions{HasAmountFields: true}
	minimal := ClassifyOptions{}

	tests := []struct {
		name     string
		percent  float64
		sale     float64
		ret      float64
		opts     ClassifyOptions
		expected SeverityColor
	}{
		{"below orange", 2.5, 100, 10, active, SeverityGreen},
		{"just below orange", 2.999999, 100, 10, active, SeverityGreen},
		{"orange lower bound", 3.0, 100, 10, active, SeverityOrange},
		{"inside orange", 4.99, 100, 10, active, SeverityOrange},
		{"red lower bound", 5.0, 100, 10, active, SeverityRed},
		{"far above", 42, 100, 10, active, SeverityRed},
		{"negative percent", -1, 100, 10, active, SeverityGreen},
		{"zero activity overrides low percent", 1, 0, 0, active, SeverityGray},
		{"zero activity overrides high percent", 80, 0, 0, active, SeverityGray},
		{"sale only is not zero activity", 80, 10, 0, active, SeverityRed},
		{"return only is not zero activity", 80, 0, 10, active, SeverityRed},
		{"minimal variant ignores amounts", 80, 0, 0, minimal, SeverityRed},
		{"minimal variant green", 0, 0, 0, minimal, SeverityGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SeverityFor(tt.percent, tt.sale, tt.ret, tt.opts))
		})
	}
}

func TestClassify(t *testing.T) {
	lat, lon, pct := -3.8, -38.6, 6.0
	rec := NormalizedRecord{
		Latitude:      &lat,
		Longitude:     &lon,
		ReturnPercent: &pct,
		SaleAmount:    100,
		ReturnAmount:  10,
		ProductKey:    "X",
		ClassLabel:    "B",
	}

	got := Classify(rec, ClassifyOptions{HasAmountFields: true})

	assert.Equal(t, -3.8, got.Lat)
	assert.Equal(t, -38.6, got.Lon)
	assert.Equal(t, 6.0, got.Percent)
	assert.Equal(t, 20000, got.HeatWeight)
	assert.Equal(t, SeverityRed, got.Severity)
	assert.Equal(t, "X", got.ProductKey)
}
