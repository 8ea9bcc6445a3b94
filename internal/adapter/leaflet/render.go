// Package leaflet renders a MapView as a self-contained HTML page built on
// Leaflet and the leaflet.heat plugin.
package leaflet

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/return-heatmap/internal/domain"
)

//go:embed map.html.tmpl
var pageSource string

var page = template.Must(template.New("map").Parse(pageSource))

const defaultTitle = "Mapa de devolução"

type pageData struct {
	Title   string
	TileURL string
	View    domain.MapView
}

// Render writes the HTML page for view. The view is embedded as JSON and the
// page script draws tiles, one overlay per layer, the legend and the
// high-severity counter.
func Render(w io.Writer, view domain.MapView, tileURL string) error {
	if view.Layers == nil {
		view.Layers = []domain.Layer{}
	}
	if err := page.Execute(w, pageData{Title: defaultTitle, TileURL: tileURL, View: view}); err != nil {
		return fmt.Errorf("render map page: %w", err)
	}
	return nil
}

// Writer saves the rendered page to a file.
// It implements pipeline.Loader.
type Writer struct {
	path    string
	tileURL string
	logger  *slog.Logger
}

// NewWriter creates a Writer targeting path.
func NewWriter(path, tileURL string, logger *slog.Logger) *Writer {
	return &Writer{path: path, tileURL: tileURL, logger: logger}
}

func (w *Writer) Name() string { return "html" }

// Load renders view into the target file, replacing any previous artifact.
func (w *Writer) Load(ctx context.Context, view domain.MapView) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", w.path, err)
	}
	if err := Render(f, view, w.tileURL); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", w.path, err)
	}

	w.logger.Info("map page written", "path", w.path, "layers", len(view.Layers))
	return nil
}
