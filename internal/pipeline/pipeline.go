package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/return-heatmap/internal/domain"
	"github.com/couchcryptid/return-heatmap/internal/observability"
)

// Extractor reads the complete input snapshot.
type Extractor interface {
	Extract(ctx context.Context) (domain.Table, error)
}

// Transformer turns an input snapshot into a map view.
type Transformer interface {
	Transform(ctx context.Context, table domain.Table) (domain.MapView, error)
}

// Loader delivers a map view to one destination.
type Loader interface {
	Name() string
	Load(ctx context.Context, view domain.MapView) error
}

// Pipeline orchestrates one extract-transform-load run.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loaders     []Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool

	mu       sync.RWMutex
	lastView domain.MapView
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no map built yet")
	}
	return nil
}

// LastView returns the view of the last successful run.
func (p *Pipeline) LastView() (domain.MapView, bool) {
	if !p.ready.Load() {
		return domain.MapView{}, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastView, true
}

// Run executes extract, transform and every loader once. Every loader is
// attempted; their failures are joined into the returned error.
func (p *Pipeline) Run(ctx context.Context) (domain.MapView, error) {
	start := time.Now()
	p.logger.Info("pipeline started", "loaders", len(p.loaders))

	table, err := p.extractor.Extract(ctx)
	if err != nil {
		p.metrics.RunErrors.WithLabelValues("extract").Inc()
		return domain.MapView{}, fmt.Errorf("extract: %w", err)
	}

	view, err := p.transformer.Transform(ctx, table)
	if err != nil {
		p.metrics.RunErrors.WithLabelValues("build").Inc()
		return domain.MapView{}, fmt.Errorf("build: %w", err)
	}
	p.recordView(view)

	var loadErrs []error
	for _, l := range p.loaders {
		if err := p.load(ctx, l, view); err != nil {
			p.metrics.RunErrors.WithLabelValues("load").Inc()
			p.logger.Error("load failed", "loader", l.Name(), "error", err)
			loadErrs = append(loadErrs, fmt.Errorf("load %s: %w", l.Name(), err))
		}
	}
	if err := errors.Join(loadErrs...); err != nil {
		return view, err
	}

	p.mu.Lock()
	p.lastView = view
	p.mu.Unlock()
	p.ready.Store(true)

	elapsed := time.Since(start)
	p.metrics.RunDuration.Observe(elapsed.Seconds())
	p.metrics.LastRunTimestamp.SetToCurrentTime()
	p.logger.Info("pipeline finished",
		"rows_read", view.Stats.RowsRead,
		"rows_retained", view.Stats.RowsRetained,
		"layers", len(view.Layers),
		"duration", elapsed,
	)
	return view, nil
}

func (p *Pipeline) load(ctx context.Context, l Loader, view domain.MapView) error {
	start := time.Now()
	if err := l.Load(ctx, view); err != nil {
		return err
	}
	p.metrics.LoaderDuration.WithLabelValues(l.Name()).Observe(time.Since(start).Seconds())
	p.metrics.LayersLoaded.WithLabelValues(l.Name()).Add(float64(len(view.Layers)))
	return nil
}

// recordView publishes row and severity figures of a built view.
func (p *Pipeline) recordView(view domain.MapView) {
	p.metrics.RowsRead.Add(float64(view.Stats.RowsRead))
	p.metrics.RowsRetained.Add(float64(view.Stats.RowsRetained))
	p.metrics.RowsDropped.Add(float64(view.Stats.RowsDropped))
	p.metrics.Layers.Set(float64(len(view.Layers)))

	bySeverity := map[domain.SeverityColor]int{}
	high := 0
	for _, layer := range view.Layers {
		high += layer.HighSeverityCount
		for _, m := range layer.Markers {
			bySeverity[m.Color]++
		}
	}
	p.metrics.HighSeverityRecords.Set(float64(high))
	for _, c := range []domain.SeverityColor{domain.SeverityGray, domain.SeverityGreen, domain.SeverityOrange, domain.SeverityRed} {
		p.metrics.RecordsBySeverity.WithLabelValues(string(c)).Set(float64(bySeverity[c]))
	}
}
