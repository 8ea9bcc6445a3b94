// Command validate runs data-quality checks over a customer-return extract
// before it is mapped: header schema, row completeness, class labels, and
// layer totals. It prints a per-phase report and exits non-zero on failure.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -input metro.csv \
//	  -variant extended \
//	  -max-drop-ratio 0.2
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/return-heatmap/internal/adapter/csvfile"
	"github.com/couchcryptid/return-heatmap/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

type options struct {
	input        string
	delimiter    string
	encoding     string
	variant      domain.Variant
	groupBy      domain.GroupKey
	maxDropRatio float64
}

func main() {
	input := flag.String("input", "", "path to the CSV extract")
	delimiter := flag.String("delimiter", ";", "single-character field separator")
	enc := flag.String("encoding", "iso-8859-1", "input encoding: iso-8859-1, windows-1252, utf-8")
	variant := flag.String("variant", "minimal", "column set: minimal or extended")
	groupBy := flag.String("group-by", "product", "layer key: product, class, city, neighborhood")
	maxDrop := flag.Float64("max-drop-ratio", 0.5, "fail when more than this fraction of rows is incomplete")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}

	v, err := domain.ParseVariant(*variant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	key, err := domain.ParseGroupKey(*groupBy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(options{
		input:        *input,
		delimiter:    *delimiter,
		encoding:     *enc,
		variant:      v,
		groupBy:      key,
		maxDropRatio: *maxDrop,
	}))
}

func run(opts options) int {
	fmt.Println("=== Return Extract Validation ===")
	fmt.Println()

	table, err := load(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load input: %v\n", err)
		return 1
	}

	schema := validateSchema(table, opts.variant)
	phases := []*phase{schema}

	var result domain.BuildResult
	if schema.passed() {
		result, err = domain.Build(table, domain.BuildOptions{Variant: opts.variant, GroupKey: opts.groupBy})
		if err != nil {
			schema.errorf("build: %v", err)
		} else {
			normalized := domain.NormalizeAll(table.Rows)
			phases = append(phases,
				validateCompleteness(normalized, opts.maxDropRatio),
				validateClasses(normalized),
				validateLayers(result),
			)
		}
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	if schema.passed() {
		printSummary(result)
	}

	for _, p := range phases {
		if len(p.notes) == 0 && p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for _, n := range p.notes {
			fmt.Printf("  note: %s\n", n)
		}
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func load(opts options) (domain.Table, error) {
	enc, err := csvfile.LookupEncoding(opts.encoding)
	if err != nil {
		return domain.Table{}, err
	}
	runes := []rune(opts.delimiter)
	if len(runes) != 1 {
		return domain.Table{}, fmt.Errorf("delimiter %q must be a single character", opts.delimiter)
	}

	f, err := os.Open(opts.input)
	if err != nil {
		return domain.Table{}, err
	}
	defer f.Close()

	return csvfile.Decode(f, runes[0], enc)
}

// ── Phase 1: Schema ──

func validateSchema(table domain.Table, variant domain.Variant) *phase {
	p := &phase{name: "Phase 1: Schema (" + string(variant) + " columns)"}
	if err := domain.CheckSchema(table.Columns, variant); err != nil {
		p.errorf("%v", err)
	}
	if len(table.Rows) == 0 {
		p.errorf("input has a header but no data rows")
	}
	return p
}

// ── Phase 2: Completeness ──

func validateCompleteness(records []domain.NormalizedRecord, maxDropRatio float64) *phase {
	p := &phase{name: "Phase 2: Completeness (required values)"}

	dropped := 0
	for i, r := range records {
		if domain.IsComplete(r) {
			continue
		}
		dropped++
		// Line 1 is the header.
		p.notef("line %d dropped: missing %s", i+2, strings.Join(missingFields(r), ", "))
	}

	if dropped == len(records) {
		p.errorf("no complete rows: the map would have no layers")
		return p
	}
	if ratio := float64(dropped) / float64(len(records)); ratio > maxDropRatio {
		p.errorf("%d of %d rows incomplete (%.1f%% > %.1f%%)", dropped, len(records), ratio*100, maxDropRatio*100)
	}
	return p
}

func missingFields(r domain.NormalizedRecord) []string {
	var missing []string
	if r.Latitude == nil {
		missing = append(missing, domain.ColLatitude)
	}
	if r.Longitude == nil {
		missing = append(missing, domain.ColLongitude)
	}
	if r.ReturnPercent == nil {
		missing = append(missing, domain.ColReturnPct)
	}
	if r.ProductKey == "" {
		missing = append(missing, domain.ColProduct)
	}
	if r.ClassLabel == "" {
		missing = append(missing, domain.ColClass)
	}
	return missing
}

// ── Phase 3: Classes ──
// Labels outside A/B/C still render as markers but add no heat.

func validateClasses(records []domain.NormalizedRecord) *phase {
	p := &phase{name: "Phase 3: Classes (heat weights)"}

	unknown := map[string]int{}
	for _, r := range records {
		if domain.IsComplete(r) && domain.HeatWeight(r.ClassLabel) == 0 {
			unknown[r.ClassLabel]++
		}
	}

	labels := make([]string, 0, len(unknown))
	for l := range unknown {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		p.errorf("class %q on %d rows has no heat weight", l, unknown[l])
	}
	return p
}

// ── Phase 4: Layers ──
// Cross-checks the high-severity counter against the per-group counts.

func validateLayers(result domain.BuildResult) *phase {
	p := &phase{name: "Phase 4: Layers (high-severity totals)"}

	counter := domain.NewCounter(result.Groups)
	red := 0
	for _, g := range result.Groups {
		if len(g.Records) == 0 {
			p.errorf("layer %q is empty", g.Name)
		}
		if len(g.HeatSamples) != len(g.Records) {
			p.errorf("layer %q: %d heat samples for %d records", g.Name, len(g.HeatSamples), len(g.Records))
		}
		for _, r := range g.Records {
			if r.Severity == domain.SeverityRed {
				red++
			}
		}
		if _, err := counter.Activate(g.Name); err != nil {
			p.errorf("activate %q: %v", g.Name, err)
		}
	}

	if total := domain.HighSeverityTotal(result.Groups); counter.Total() != total || total != red {
		p.errorf("high-severity mismatch: counter=%d groups=%d records=%d", counter.Total(), total, red)
	}
	return p
}

func printSummary(result domain.BuildResult) {
	fmt.Println()
	fmt.Printf("Rows: %d read, %d retained, %d dropped\n",
		result.Stats.RowsRead, result.Stats.RowsRetained, result.Stats.RowsDropped)

	bySeverity := map[domain.SeverityColor]int{}
	for _, g := range result.Groups {
		for _, r := range g.Records {
			bySeverity[r.Severity]++
		}
	}
	fmt.Printf("Severity: %d green, %d orange, %d red, %d gray\n",
		bySeverity[domain.SeverityGreen], bySeverity[domain.SeverityOrange],
		bySeverity[domain.SeverityRed], bySeverity[domain.SeverityGray])

	fmt.Printf("Layers (%d):\n", len(result.Groups))
	for _, g := range result.Groups {
		fmt.Printf("  %-28s %4d records  %3d red\n", g.Name, len(g.Records), g.HighSeverityCount)
	}
}
