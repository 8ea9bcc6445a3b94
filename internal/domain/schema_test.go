package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSchema(t *testing.T) {
	minimal := VariantMinimal.RequiredColumns()
	extended := VariantExtended.RequiredColumns()

	t.Run("minimal present", func(t *testing.T) {
		assert.NoError(t, CheckSchema(minimal, VariantMinimal))
	})

	t.Run("extra columns allowed", func(t *testing.T) {
		assert.NoError(t, CheckSchema(append(extended, "OBS"), VariantMinimal))
	})

	t.Run("header whitespace trimmed", func(t *testing.T) {
		cols := []string{" LATITUDE", "LONGITUDE ", "% DEV", "CLASSE", "PRODUTO", "CLIENTE", "BAIRRO", "CIDADE"}
		assert.NoError(t, CheckSchema(cols, VariantMinimal))
	})

	t.Run("case sensitive", func(t *testing.T) {
		cols := []string{"latitude", "LONGITUDE", "% DEV", "CLASSE", "PRODUTO", "CLIENTE", "BAIRRO", "CIDADE"}
		err := CheckSchema(cols, VariantMinimal)

		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, []string{ColLatitude}, schemaErr.Missing)
	})

	t.Run("extended requires amounts", func(t *testing.T) {
		err := CheckSchema(minimal, VariantExtended)

		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, VariantExtended, schemaErr.Variant)
		assert.Equal(t, []string{ColSale, ColReturn, ColCode}, schemaErr.Missing)
		assert.Contains(t, err.Error(), "VENDA, DEVOLUCAO, CODIGO")
	})
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant(" Extended ")
	require.NoError(t, err)
	assert.Equal(t, VariantExtended, v)
	assert.True(t, v.HasAmountFields())
	assert.False(t, VariantMinimal.HasAmountFields())

	_, err = ParseVariant("full")
	assert.Error(t, err)
}

func TestParseGroupKey(t *testing.T) {
	k, err := ParseGroupKey("CITY")
	require.NoError(t, err)
	assert.Equal(t, GroupByCity, k)

	_, err = ParseGroupKey("promoter")
	assert.Error(t, err)
}
