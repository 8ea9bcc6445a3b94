package domain

import (
	"fmt"
	"strings"
)

// Column names as they appear in the spreadsheet export header.
const (
	ColLatitude     = "LATITUDE"
	ColLongitude    = "LONGITUDE"
	ColReturnPct    = "% DEV"
	ColClass        = "CLASSE"
	ColProduct      = "PRODUTO"
	ColCustomer     = "CLIENTE"
	ColNeighborhood = "BAIRRO"
	ColCity         = "CIDADE"
	ColSale         = "VENDA"
	ColReturn       = "DEVOLUCAO"
	ColCode         = "CODIGO"
)

// Variant identifies which column set an extract carries.
type Variant string

const (
	VariantMinimal  Variant = "minimal"
	VariantExtended Variant = "extended"
)

var minimalColumns = []string{
	ColLatitude, ColLongitude, ColReturnPct, ColClass,
	ColProduct, ColCustomer, ColNeighborhood, ColCity,
}

// ParseVariant validates a configured variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantMinimal, VariantExtended:
		return v, nil
	default:
		return "", fmt.Errorf("unknown dataset variant %q", s)
	}
}

// RequiredColumns lists the columns an extract of this variant must carry.
func (v Variant) RequiredColumns() []string {
	cols := append([]string(nil), minimalColumns...)
	if v == VariantExtended {
		cols = append(cols, ColSale, ColReturn, ColCode)
	}
	return cols
}

// HasAmountFields reports whether VENDA and DEVOLUCAO are part of the variant,
// which enables the zero-activity rule.
func (v Variant) HasAmountFields() bool {
	return v == VariantExtended
}

// SchemaError reports required columns absent from the input header.
type SchemaError struct {
	Variant Variant
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input is missing required %s columns: %s", e.Variant, strings.Join(e.Missing, ", "))
}

// CheckSchema verifies every required column of the variant is present in the
// header. Names are compared exactly after trimming surrounding whitespace.
func CheckSchema(columns []string, variant Variant) error {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[strings.TrimSpace(c)] = struct{}{}
	}

	var missing []string
	for _, c := range variant.RequiredColumns() {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Variant: variant, Missing: missing}
	}
	return nil
}

// GroupKey selects the categorical field that partitions records into layers.
type GroupKey string

const (
	GroupByProduct      GroupKey = "product"
	GroupByClass        GroupKey = "class"
	GroupByCity         GroupKey = "city"
	GroupByNeighborhood GroupKey = "neighborhood"
)

// ParseGroupKey validates a configured group key.
func ParseGroupKey(s string) (GroupKey, error) {
	switch k := GroupKey(strings.ToLower(strings.TrimSpace(s))); k {
	case GroupByProduct, GroupByClass, GroupByCity, GroupByNeighborhood:
		return k, nil
	default:
		return "", fmt.Errorf("unknown group key %q", s)
	}
}

// value extracts the key's field from a record.
func (k GroupKey) value(r ClassifiedRecord) string {
	switch k {
	case GroupByClass:
		return r.ClassLabel
	case GroupByCity:
		return r.City
	case GroupByNeighborhood:
		return r.Neighborhood
	default:
		return r.ProductKey
	}
}

// label is the human-readable prefix used for layer names.
func (k GroupKey) label() string {
	switch k {
	case GroupByClass:
		return "Classe"
	case GroupByCity:
		return "Cidade"
	case GroupByNeighborhood:
		return "Bairro"
	default:
		return "Produto"
	}
}
