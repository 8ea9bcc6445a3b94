package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// RawRecord is one input row keyed by trimmed column name.
type RawRecord map[string]string

// Table is a fully read input snapshot.
type Table struct {
	Columns []string
	Rows    []RawRecord
}

// NormalizedRecord holds the parsed fields of one row. Nil pointers mark
// values that could not be parsed.
type NormalizedRecord struct {
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ReturnPercent *float64 `json:"return_percent"`
	SaleAmount    float64  `json:"sale_amount"`
	ReturnAmount  float64  `json:"return_amount"`

	ProductKey   string `json:"product"`
	ClassLabel   string `json:"class"`
	CustomerName string `json:"customer"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	Code         string `json:"code,omitempty"`
}

// SeverityColor is the marker tier derived from the return percentage.
type SeverityColor string

const (
	SeverityGray   SeverityColor = "gray"
	SeverityGreen  SeverityColor = "green"
	SeverityOrange SeverityColor = "orange"
	SeverityRed    SeverityColor = "red"
)

// ClassifiedRecord is a complete record with its rendering attributes.
// Lat, Lon and Percent are dereferenced copies of the normalized pointers,
// which are guaranteed non-nil once a record passes FilterComplete.
type ClassifiedRecord struct {
	NormalizedRecord

	Lat        float64       `json:"lat"`
	Lon        float64       `json:"lon"`
	Percent    float64       `json:"percent"`
	HeatWeight int           `json:"heat_weight"`
	Severity   SeverityColor `json:"severity"`
}

// HeatSample is one weighted point of a heat layer.
type HeatSample struct {
	Lat    float64
	Lon    float64
	Weight int
}

// MarshalJSON encodes a sample as [lat, lon, weight], the shape heat-layer
// plugins take directly.
func (s HeatSample) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{s.Lat, s.Lon, s.Weight})
}

// UnmarshalJSON decodes the [lat, lon, weight] form written by MarshalJSON.
func (s *HeatSample) UnmarshalJSON(data []byte) error {
	var triple [3]float64
	if err := json.Unmarshal(data, &triple); err != nil {
		return fmt.Errorf("decode heat sample: %w", err)
	}
	s.Lat, s.Lon, s.Weight = triple[0], triple[1], int(triple[2])
	return nil
}

// Group is a non-empty partition of records sharing one key value.
type Group struct {
	Name              string
	Records           []ClassifiedRecord
	HeatSamples       []HeatSample
	HighSeverityCount int
}

// Point is a WGS-84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BuildStats counts what happened to the input rows during Build.
type BuildStats struct {
	RowsRead     int `json:"rows_read"`
	RowsRetained int `json:"rows_retained"`
	RowsDropped  int `json:"rows_dropped"`
}

// BuildResult is the engine output for one run.
type BuildResult struct {
	Groups []Group
	Center Point
	Stats  BuildStats

	// Variant and GroupKey are carried along so the projection can label
	// layers and pick popup fields without re-reading configuration.
	Variant  Variant
	GroupKey GroupKey
}

// MapView is the structure handed to renderers and publishers.
type MapView struct {
	Center      Point       `json:"center"`
	Zoom        int         `json:"zoom"`
	Heat        HeatOptions `json:"heat"`
	Layers      []Layer     `json:"layers"`
	Legend      Legend      `json:"legend"`
	Stats       BuildStats  `json:"stats"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// Layer is one togglable map overlay.
type Layer struct {
	Name              string       `json:"name"`
	Label             string       `json:"label"`
	Visible           bool         `json:"visible"`
	HeatSamples       []HeatSample `json:"heat_samples"`
	Markers           []Marker     `json:"markers"`
	HighSeverityCount int          `json:"high_severity_count"`
}

// Marker is one record rendered as an icon with popup and tooltip.
type Marker struct {
	Lat     float64       `json:"lat"`
	Lon     float64       `json:"lon"`
	Color   SeverityColor `json:"color"`
	Popup   []PopupField  `json:"popup"`
	Tooltip string        `json:"tooltip"`
}

// PopupField is one labelled line of a marker popup.
type PopupField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// HeatOptions configures the heat-layer plugin.
type HeatOptions struct {
	Radius     int               `json:"radius"`
	Blur       int               `json:"blur"`
	MinOpacity float64           `json:"min_opacity"`
	Gradient   map[string]string `json:"gradient"`
}

// Legend describes marker tiers and the heat key.
type Legend struct {
	Markers []LegendEntry `json:"markers"`
	Heat    []LegendEntry `json:"heat"`
}

// LegendEntry pairs a color with its description.
type LegendEntry struct {
	Color string `json:"color"`
	Label string `json:"label"`
}
