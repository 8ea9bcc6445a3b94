package pipeline

import (
	"github.com/couchcryptid/return-heatmap/internal/config"
	"github.com/couchcryptid/return-heatmap/internal/domain"
)

// OptionsFromConfig maps the run configuration onto engine and projection options.
func OptionsFromConfig(cfg *config.Config) (domain.BuildOptions, domain.ProjectionOptions, error) {
	variant, err := domain.ParseVariant(cfg.DatasetVariant)
	if err != nil {
		return domain.BuildOptions{}, domain.ProjectionOptions{}, err
	}
	key, err := domain.ParseGroupKey(cfg.GroupBy)
	if err != nil {
		return domain.BuildOptions{}, domain.ProjectionOptions{}, err
	}

	heat := domain.DefaultHeatOptions()
	heat.Radius = cfg.HeatRadius
	heat.Blur = cfg.HeatBlur
	heat.MinOpacity = cfg.HeatMinOpacity

	return domain.BuildOptions{Variant: variant, GroupKey: key},
		domain.ProjectionOptions{Zoom: cfg.MapZoom, LayersVisible: cfg.LayersVisible, Heat: heat},
		nil
}
