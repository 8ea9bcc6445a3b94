package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ProjectionOptions controls presentation-only settings of the MapView.
type ProjectionOptions struct {
	Zoom          int
	LayersVisible bool
	Heat          HeatOptions
}

// DefaultHeatOptions returns the heat settings used by the original maps.
func DefaultHeatOptions() HeatOptions {
	return HeatOptions{
		Radius:     35,
		Blur:       20,
		MinOpacity: 0.2,
		Gradient: map[string]string{
			"0.0": "blue",
			"0.5": "yellow",
			"1.0": "red",
		},
	}
}

// DefaultProjectionOptions returns zoom 12, visible layers and the default heat.
func DefaultProjectionOptions() ProjectionOptions {
	return ProjectionOptions{
		Zoom:          12,
		LayersVisible: true,
		Heat:          DefaultHeatOptions(),
	}
}

// Project shapes a BuildResult into the view consumed by renderers. It only
// selects and formats fields; every number was computed by Build.
func Project(result BuildResult, opts ProjectionOptions) MapView {
	heat := opts.Heat
	if heat.Gradient == nil {
		heat.Gradient = DefaultHeatOptions().Gradient
	}

	layers := make([]Layer, 0, len(result.Groups))
	for _, g := range result.Groups {
		layers = append(layers, projectGroup(g, result, opts.LayersVisible))
	}

	return MapView{
		Center:      result.Center,
		Zoom:        opts.Zoom,
		Heat:        heat,
		Layers:      layers,
		Legend:      buildLegend(result.Variant),
		Stats:       result.Stats,
		GeneratedAt: clock.Now().UTC(),
	}
}

func projectGroup(g Group, result BuildResult, visible bool) Layer {
	markers := make([]Marker, 0, len(g.Records))
	for _, r := range g.Records {
		markers = append(markers, Marker{
			Lat:     r.Lat,
			Lon:     r.Lon,
			Color:   r.Severity,
			Popup:   popupFields(r, result.Variant),
			Tooltip: tooltip(r),
		})
	}

	samples := make([]HeatSample, len(g.HeatSamples))
	copy(samples, g.HeatSamples)

	return Layer{
		Name:              g.Name,
		Label:             fmt.Sprintf("%s: %s", result.GroupKey.label(), g.Name),
		Visible:           visible,
		HeatSamples:       samples,
		Markers:           markers,
		HighSeverityCount: g.HighSeverityCount,
	}
}

func popupFields(r ClassifiedRecord, variant Variant) []PopupField {
	fields := []PopupField{
		{Label: "Cliente", Value: r.CustomerName},
		{Label: "Bairro", Value: r.Neighborhood},
		{Label: "Cidade", Value: r.City},
		{Label: "Produto", Value: r.ProductKey},
		{Label: "% DEV", Value: FormatNumber(r.Percent)},
		{Label: "Classe", Value: r.ClassLabel},
	}
	if variant.HasAmountFields() {
		fields = append(fields,
			PopupField{Label: "Código", Value: r.Code},
			PopupField{Label: "Venda", Value: FormatBRL(r.SaleAmount)},
			PopupField{Label: "Devolução", Value: FormatBRL(r.ReturnAmount)},
		)
	}
	return fields
}

func tooltip(r ClassifiedRecord) string {
	return fmt.Sprintf("%s - %s (%% DEV: %s)", r.CustomerName, r.Neighborhood, FormatNumber(r.Percent))
}

func buildLegend(variant Variant) Legend {
	markers := []LegendEntry{
		{Color: string(SeverityGreen), Label: "Devolução menor que 3%"},
		{Color: string(SeverityOrange), Label: "Devolução entre 3% e 5%"},
		{Color: string(SeverityRed), Label: "Devolução maior ou igual a 5%"},
	}
	if variant.HasAmountFields() {
		markers = append(markers, LegendEntry{Color: string(SeverityGray), Label: "Sem venda e sem devolução"})
	}
	return Legend{
		Markers: markers,
		Heat: []LegendEntry{
			{Color: "red", Label: "Renda alta"},
			{Color: "yellow", Label: "Renda média"},
			{Color: "blue", Label: "Renda baixa"},
		},
	}
}

// FormatNumber renders a float with the fewest digits that round-trip, e.g.
// 2.5 → "2.5", 6 → "6".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatBRL renders an amount as Brazilian currency, e.g. 1234.5 → "R$ 1.234,50".
func FormatBRL(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return sign + "R$ " + b.String() + "," + frac
}
