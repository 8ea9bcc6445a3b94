package domain

// BuildOptions configures one engine run.
type BuildOptions struct {
	Variant  Variant
	GroupKey GroupKey
}

// Build runs the engine over a complete input snapshot: schema check,
// normalization, filtering, classification, grouping and the center point.
// The only error is a *SchemaError; row-level defects are absorbed.
func Build(table Table, opts BuildOptions) (BuildResult, error) {
	if opts.Variant == "" {
		opts.Variant = VariantMinimal
	}
	if opts.GroupKey == "" {
		opts.GroupKey = GroupByProduct
	}

	if err := CheckSchema(table.Columns, opts.Variant); err != nil {
		return BuildResult{}, err
	}

	normalized := NormalizeAll(table.Rows)
	complete, dropped := FilterComplete(normalized)
	classified := ClassifyAll(complete, ClassifyOptions{HasAmountFields: opts.Variant.HasAmountFields()})

	return BuildResult{
		Groups: GroupBy(classified, opts.GroupKey),
		Center: Center(classified),
		Stats: BuildStats{
			RowsRead:     len(table.Rows),
			RowsRetained: len(complete),
			RowsDropped:  dropped,
		},
		Variant:  opts.Variant,
		GroupKey: opts.GroupKey,
	}, nil
}

// Center is the mean coordinate of the records, or the zero point when there
// are none.
func Center(records []ClassifiedRecord) Point {
	if len(records) == 0 {
		return Point{}
	}
	var lat, lon float64
	for _, r := range records {
		lat += r.Lat
		lon += r.Lon
	}
	n := float64(len(records))
	return Point{Lat: lat / n, Lon: lon / n}
}
