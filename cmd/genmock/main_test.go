package main

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/couchcryptid/return-heatmap/internal/adapter/csvfile"
	"github.com/couchcryptid/return-heatmap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestGenerate_IsDeterministic(t *testing.T) {
	a := generate(rand.New(rand.NewPCG(1, 2)), domain.VariantExtended, 50)
	b := generate(rand.New(rand.NewPCG(1, 2)), domain.VariantExtended, 50)
	assert.Equal(t, a, b)
}

func TestGenerate_RoundTripsThroughReaderAndBuild(t *testing.T) {
	table := generate(rand.New(rand.NewPCG(3, 4)), domain.VariantExtended, 100)

	data, err := encodeLatin1(table)
	require.NoError(t, err)

	decoded, err := csvfile.Decode(bytes.NewReader(data), ';', charmap.ISO8859_1)
	require.NoError(t, err)
	assert.Equal(t, table, decoded)

	result, err := domain.Build(decoded, domain.BuildOptions{Variant: domain.VariantExtended})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Stats.RowsRead)
	assert.Positive(t, result.Stats.RowsDropped)
	assert.Equal(t, 100, result.Stats.RowsRetained+result.Stats.RowsDropped)

	gray := 0
	for _, g := range result.Groups {
		for _, r := range g.Records {
			if r.Severity == domain.SeverityGray {
				gray++
			}
		}
	}
	assert.Positive(t, gray)
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "2,5%", formatPercent(2.5))
	assert.Equal(t, "0,0%", formatPercent(0))
}
