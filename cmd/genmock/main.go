// Command genmock writes a deterministic sample customer-return extract in
// the layout exported by the sales system (';'-separated, ISO-8859-1), and
// optionally the map view the pipeline builds from it, for use as fixtures.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/metro.csv \
//	  -variant extended \
//	  -rows 200 \
//	  -view-out data/mock/metro_view.json
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/return-heatmap/internal/domain"
	"github.com/jonboulle/clockwork"
	"golang.org/x/text/encoding/charmap"
)

// Fortaleza, CE. Every generated point lies within about 9 km of it.
const (
	baseLat = -3.7319
	baseLon = -38.5267
	spread  = 0.08
)

var (
	products = []string{"Água Mineral 500ml", "Leite Integral", "Café Torrado", "Açúcar Cristal", "Feijão Carioca"}
	places   = []struct{ neighborhood, city string }{
		{"Aldeota", "Fortaleza"},
		{"Benfica", "Fortaleza"},
		{"Meireles", "Fortaleza"},
		{"Messejana", "Fortaleza"},
		{"Parangaba", "Fortaleza"},
		{"Centro", "Caucaia"},
		{"Jereissati", "Maracanaú"},
	}
	storeKinds = []string{"Mercadinho", "Padaria", "Mercearia", "Conveniência", "Supermercado"}
	ownerNames = []string{"São João", "Conceição", "Boa Esperança", "Irmãos Araújo", "Dona Açucena", "Pão Nosso"}
	classes    = []string{"A", "B", "C"}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated CSV extract")
	variant := flag.String("variant", "minimal", "column set: minimal or extended")
	rows := flag.Int("rows", 120, "number of data rows")
	seed := flag.Uint64("seed", 2024, "random seed")
	viewOut := flag.String("view-out", "", "optional output path for the built map view JSON")
	flag.Parse()

	if *out == "" || *rows <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out, -rows > 0")
	}
	v, err := domain.ParseVariant(*variant)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	table := generate(rng, v, *rows)

	data, err := encodeLatin1(table)
	if err != nil {
		return fmt.Errorf("encode extract: %w", err)
	}
	if err := writeFile(*out, data); err != nil {
		return fmt.Errorf("writing extract: %w", err)
	}
	log.Printf("wrote %s extract: %s (%d rows)", v, *out, len(table.Rows))

	if *viewOut == "" {
		return nil
	}

	// Fixed clock for a reproducible GeneratedAt.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	result, err := domain.Build(table, domain.BuildOptions{Variant: v, GroupKey: domain.GroupByProduct})
	if err != nil {
		return fmt.Errorf("building view: %w", err)
	}
	view := domain.Project(result, domain.DefaultProjectionOptions())

	viewJSON, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFile(*viewOut, viewJSON); err != nil {
		return fmt.Errorf("writing view: %w", err)
	}
	log.Printf("wrote view fixture: %s", *viewOut)

	printStats(result)
	return nil
}

// generate builds the extract in memory. A few rows are deliberately
// defective so the fixture exercises filtering and the zero-activity rule.
func generate(rng *rand.Rand, v domain.Variant, n int) domain.Table {
	columns := v.RequiredColumns()
	table := domain.Table{Columns: columns, Rows: make([]domain.RawRecord, 0, n)}

	for i := range n {
		place := places[rng.IntN(len(places))]
		pct := rng.Float64() * 9
		r := domain.RawRecord{
			domain.ColLatitude:     strconv.FormatFloat(baseLat+(rng.Float64()*2-1)*spread, 'f', 6, 64),
			domain.ColLongitude:    strconv.FormatFloat(baseLon+(rng.Float64()*2-1)*spread, 'f', 6, 64),
			domain.ColReturnPct:    formatPercent(pct),
			domain.ColClass:        classes[rng.IntN(len(classes))],
			domain.ColProduct:      products[rng.IntN(len(products))],
			domain.ColCustomer:     storeKinds[rng.IntN(len(storeKinds))] + " " + ownerNames[rng.IntN(len(ownerNames))],
			domain.ColNeighborhood: place.neighborhood,
			domain.ColCity:         place.city,
		}

		if v.HasAmountFields() {
			sale := float64(rng.IntN(5_000_000)) / 100
			r[domain.ColCode] = fmt.Sprintf("C%05d", 1000+i)
			r[domain.ColSale] = domain.FormatBRL(sale)
			r[domain.ColReturn] = domain.FormatBRL(sale * pct / 100)
			if i%19 == 7 {
				r[domain.ColSale] = "R$ 0,00"
				r[domain.ColReturn] = "R$ 0,00"
				r[domain.ColReturnPct] = "0%"
			}
		}

		switch {
		case i%17 == 5:
			r[domain.ColLatitude] = ""
		case i%23 == 11:
			r[domain.ColReturnPct] = "n/d"
		case i%29 == 13:
			r[domain.ColProduct] = ""
		}

		table.Rows = append(table.Rows, r)
	}
	return table
}

func formatPercent(p float64) string {
	return strings.Replace(strconv.FormatFloat(p, 'f', 1, 64), ".", ",", 1) + "%"
}

func encodeLatin1(table domain.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(table.Columns); err != nil {
		return nil, err
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return charmap.ISO8859_1.NewEncoder().Bytes(buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) //nolint:gosec // fixture files are meant to be shared
}

func printStats(result domain.BuildResult) {
	fmt.Printf("\nRows: %d read, %d retained, %d dropped\n",
		result.Stats.RowsRead, result.Stats.RowsRetained, result.Stats.RowsDropped)
	fmt.Printf("Center: %.5f, %.5f\n", result.Center.Lat, result.Center.Lon)
	fmt.Println("\nLayers:")
	for _, g := range result.Groups {
		fmt.Printf("  %-22s %4d records  %3d red\n", g.Name, len(g.Records), g.HighSeverityCount)
	}
}
