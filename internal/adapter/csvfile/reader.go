package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/return-heatmap/internal/config"
	"github.com/couchcryptid/return-heatmap/internal/domain"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Reader loads a delimited extract from disk.
// It implements pipeline.Extractor.
type Reader struct {
	path      string
	delimiter rune
	encoding  encoding.Encoding
	logger    *slog.Logger
}

// NewReader creates a Reader for the configured input file.
func NewReader(cfg *config.Config, logger *slog.Logger) (*Reader, error) {
	enc, err := LookupEncoding(cfg.InputEncoding)
	if err != nil {
		return nil, err
	}
	return &Reader{
		path:      cfg.InputPath,
		delimiter: cfg.InputDelimiter,
		encoding:  enc,
		logger:    logger,
	}, nil
}

// LookupEncoding maps a configured encoding name to its decoder.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// Extract reads the whole file into a Table.
func (r *Reader) Extract(ctx context.Context) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	table, err := Decode(f, r.delimiter, r.encoding)
	if err != nil {
		return domain.Table{}, fmt.Errorf("read %s: %w", r.path, err)
	}

	r.logger.Info("input loaded",
		"path", r.path,
		"columns", len(table.Columns),
		"rows", len(table.Rows),
	)
	return table, nil
}

// Decode parses a delimited stream in the given encoding. The first record is
// the header; names are trimmed. Short rows leave trailing columns empty and
// cells beyond the header are ignored. Fully blank lines are skipped by
// encoding/csv.
func Decode(src io.Reader, delimiter rune, enc encoding.Encoding) (domain.Table, error) {
	cr := csv.NewReader(transform.NewReader(src, enc.NewDecoder()))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{}, errors.New("input is empty")
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, misdecodedBOM))
	}

	var rows []domain.RawRecord
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("read row: %w", err)
		}

		row := make(domain.RawRecord, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return domain.Table{Columns: columns, Rows: rows}, nil
}

// misdecodedBOM is what a UTF-8 byte order mark looks like after a
// single-byte decoder; exports saved as UTF-8 but read as Latin-1 carry it.
const misdecodedBOM = "\u00ef\u00bb\u00bf"
