package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	fixed := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	table := Table{
		Columns: VariantExtended.RequiredColumns(),
		Rows: []RawRecord{
			extendedRow("-3.7", "-38.5", "2,5%", "A", "X", "R$ 0,00", "R$ 0,00"),
			extendedRow("-3.8", "-38.6", "6%", "B", "X", "R$ 1.100,00", "R$ 10,00"),
		},
	}
	result, err := Build(table, BuildOptions{Variant: VariantExtended})
	require.NoError(t, err)

	view := Project(result, DefaultProjectionOptions())

	assert.Equal(t, fixed, view.GeneratedAt)
	assert.Equal(t, 12, view.Zoom)
	assert.Equal(t, 35, view.Heat.Radius)
	require.Len(t, view.Layers, 1)

	layer := view.Layers[0]
	assert.Equal(t, "X", layer.Name)
	assert.Equal(t, "Produto: X", layer.Label)
	assert.True(t, layer.Visible)
	assert.Equal(t, 1, layer.HighSeverityCount)
	assert.Equal(t, []HeatSample{{-3.7, -38.5, 50000}, {-3.8, -38.6, 20000}}, layer.HeatSamples)

	require.Len(t, layer.Markers, 2)
	second := layer.Markers[1]
	assert.Equal(t, SeverityRed, second.Color)
	assert.Equal(t, "Cliente X - Centro (% DEV: 6)", second.Tooltip)

	wantPopup := []PopupField{
		{Label: "Cliente", Value: "Cliente X"},
		{Label: "Bairro", Value: "Centro"},
		{Label: "Cidade", Value: "Fortaleza"},
		{Label: "Produto", Value: "X"},
		{Label: "% DEV", Value: "6"},
		{Label: "Classe", Value: "B"},
		{Label: "Código", Value: "1"},
		{Label: "Venda", Value: "R$ 1.100,00"},
		{Label: "Devolução", Value: "R$ 10,00"},
	}
	if diff := cmp.Diff(wantPopup, second.Popup); diff != "" {
		t.Fatalf("popup mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, view.Legend.Markers, 4, "gray tier listed for extended data")
	assert.Equal(t, "Cliente X - Centro (% DEV: 2.5)", layer.Markers[0].Tooltip)
}

func TestProject_MinimalHiddenLayers(t *testing.T) {
	result := BuildResult{
		Groups: []Group{{
			Name:        "B",
			Records:     []ClassifiedRecord{classified("P", "C", SeverityGreen, 20000)},
			HeatSamples: []HeatSample{{-3.7, -38.5, 20000}},
		}},
		Variant:  VariantMinimal,
		GroupKey: GroupByClass,
	}
	opts := DefaultProjectionOptions()
	opts.LayersVisible = false

	view := Project(result, opts)

	require.Len(t, view.Layers, 1)
	assert.Equal(t, "Classe: B", view.Layers[0].Label)
	assert.False(t, view.Layers[0].Visible)
	assert.Len(t, view.Layers[0].Markers[0].Popup, 6)
	assert.Len(t, view.Legend.Markers, 3)
}

func TestProject_DoesNotAliasGroupSamples(t *testing.T) {
	g := Group{Name: "X", HeatSamples: []HeatSample{{1, 2, 3}}}
	view := Project(BuildResult{Groups: []Group{g}}, DefaultProjectionOptions())

	view.Layers[0].HeatSamples[0].Weight = 99
	assert.Equal(t, 3, g.HeatSamples[0].Weight)
}

func TestHeatSample_JSON(t *testing.T) {
	data, err := json.Marshal(HeatSample{Lat: -3.7, Lon: -38.5, Weight: 50000})
	require.NoError(t, err)
	assert.JSONEq(t, `[-3.7,-38.5,50000]`, string(data))

	var back HeatSample
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, HeatSample{Lat: -3.7, Lon: -38.5, Weight: 50000}, back)
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "R$ 0,00"},
		{10.5, "R$ 10,50"},
		{999.99, "R$ 999,99"},
		{1234.56, "R$ 1.234,56"},
		{1000000, "R$ 1.000.000,00"},
		{-25, "-R$ 25,00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBRL(tt.input))
		})
	}
}
