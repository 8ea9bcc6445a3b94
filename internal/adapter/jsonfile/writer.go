// Package jsonfile writes a MapView as an indented JSON document.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/return-heatmap/internal/domain"
)

// Writer saves the view to a JSON file.
// It implements pipeline.Loader.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer targeting path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

func (w *Writer) Name() string { return "json" }

func (w *Writer) Load(ctx context.Context, view domain.MapView) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if view.Layers == nil {
		view.Layers = []domain.Layer{}
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize map view: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(w.path, append(data, '\n'), 0o644); err != nil { //nolint:gosec // artifact is meant to be shared
		return fmt.Errorf("write %s: %w", w.path, err)
	}

	w.logger.Info("map json written", "path", w.path, "layers", len(view.Layers))
	return nil
}
