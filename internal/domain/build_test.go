package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extendedRow(lat, lon, pct, class, product, sale, ret string) RawRecord {
	return RawRecord{
		ColLatitude:     lat,
		ColLongitude:    lon,
		ColReturnPct:    pct,
		ColClass:        class,
		ColProduct:      product,
		ColCustomer:     "Cliente " + product,
		ColNeighborhood: "Centro",
		ColCity:         "Fortaleza",
		ColSale:         sale,
		ColReturn:       ret,
		ColCode:         "1",
	}
}

func TestBuild_EndToEndExample(t *testing.T) {
	table := Table{
		Columns: VariantExtended.RequiredColumns(),
		Rows: []RawRecord{
			extendedRow("-3.7", "-38.5", "2,5%", "A", "X", "R$ 0,00", "R$ 0,00"),
			extendedRow("-3.8", "-38.6", "6%", "B", "X", "R$ 100,00", "R$ 10,00"),
		},
	}

	result, err := Build(table, BuildOptions{Variant: VariantExtended, GroupKey: GroupByProduct})
	require.NoError(t, err)

	require.Len(t, result.Groups, 1)
	g := result.Groups[0]
	assert.Equal(t, "X", g.Name)
	require.Len(t, g.Records, 2)

	assert.Equal(t, SeverityGray, g.Records[0].Severity)
	assert.Equal(t, 50000, g.Records[0].HeatWeight)
	assert.Equal(t, SeverityRed, g.Records[1].Severity)
	assert.Equal(t, 20000, g.Records[1].HeatWeight)
	assert.Equal(t, 1, g.HighSeverityCount)

	assert.InDelta(t, -3.75, result.Center.Lat, 1e-9)
	assert.InDelta(t, -38.55, result.Center.Lon, 1e-9)
	assert.Equal(t, BuildStats{RowsRead: 2, RowsRetained: 2, RowsDropped: 0}, result.Stats)
}

func TestBuild_MissingClassColumn(t *testing.T) {
	var cols []string
	for _, c := range VariantMinimal.RequiredColumns() {
		if c != ColClass {
			cols = append(cols, c)
		}
	}
	table := Table{
		Columns: cols,
		Rows:    []RawRecord{{ColLatitude: "-3.7", ColLongitude: "-38.5", ColReturnPct: "1%", ColProduct: "X"}},
	}

	result, err := Build(table, BuildOptions{Variant: VariantMinimal})

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{ColClass}, schemaErr.Missing)
	assert.Empty(t, result.Groups)
	assert.Zero(t, result.Stats.RowsRead)
}

func TestBuild_DroppedRecordExcludedFromCenterAndGroups(t *testing.T) {
	table := Table{
		Columns: VariantMinimal.RequiredColumns(),
		Rows: []RawRecord{
			{ColLatitude: "-4", ColLongitude: "-38", ColReturnPct: "1%", ColClass: "A", ColProduct: "X"},
			{ColLatitude: "", ColLongitude: "-10", ColReturnPct: "9%", ColClass: "A", ColProduct: "Y"},
			{ColLatitude: "-2", ColLongitude: "-40", ColReturnPct: "9%", ColClass: "C", ColProduct: "X"},
		},
	}

	result, err := Build(table, BuildOptions{})
	require.NoError(t, err)

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "X", result.Groups[0].Name)
	assert.Len(t, result.Groups[0].Records, 2)
	assert.Equal(t, Point{Lat: -3, Lon: -39}, result.Center)
	assert.Equal(t, 1, result.Stats.RowsDropped)
	assert.Equal(t, VariantMinimal, result.Variant)
	assert.Equal(t, GroupByProduct, result.GroupKey)
}

func TestBuild_MinimalVariantSkipsZeroActivity(t *testing.T) {
	table := Table{
		Columns: VariantMinimal.RequiredColumns(),
		Rows: []RawRecord{
			{ColLatitude: "-4", ColLongitude: "-38", ColReturnPct: "7%", ColClass: "A", ColProduct: "X"},
		},
	}

	result, err := Build(table, BuildOptions{Variant: VariantMinimal})
	require.NoError(t, err)
	assert.Equal(t, SeverityRed, result.Groups[0].Records[0].Severity)
}

func TestBuild_NoRetainedRecords(t *testing.T) {
	table := Table{
		Columns: VariantMinimal.RequiredColumns(),
		Rows:    []RawRecord{{ColLatitude: "x"}},
	}

	result, err := Build(table, BuildOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Groups)
	assert.Equal(t, Point{}, result.Center)
	assert.Equal(t, 1, result.Stats.RowsDropped)
}
