package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/return-heatmap/internal/domain"
)

// MapTransformer implements Transformer with the domain engine: Build, then
// Project.
type MapTransformer struct {
	build      domain.BuildOptions
	projection domain.ProjectionOptions
	logger     *slog.Logger
}

// NewTransformer creates a MapTransformer.
func NewTransformer(build domain.BuildOptions, projection domain.ProjectionOptions, logger *slog.Logger) *MapTransformer {
	return &MapTransformer{
		build:      build,
		projection: projection,
		logger:     logger,
	}
}

func (t *MapTransformer) Transform(ctx context.Context, table domain.Table) (domain.MapView, error) {
	if err := ctx.Err(); err != nil {
		return domain.MapView{}, err
	}

	result, err := domain.Build(table, t.build)
	if err != nil {
		return domain.MapView{}, err
	}

	if result.Stats.RowsDropped > 0 {
		t.logger.Debug("incomplete rows dropped",
			"dropped", result.Stats.RowsDropped,
			"read", result.Stats.RowsRead,
		)
	}
	if len(result.Groups) == 0 {
		t.logger.Warn("no complete rows in input, map has no layers", "rows", result.Stats.RowsRead)
	}

	return domain.Project(result, t.projection), nil
}
