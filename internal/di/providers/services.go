package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bestsellers/internal/config"
	"github.com/listenupapp/bestsellers/internal/dataset"
	"github.com/listenupapp/bestsellers/internal/logger"
	"github.com/listenupapp/bestsellers/internal/render"
	"github.com/listenupapp/bestsellers/internal/service"
	"github.com/listenupapp/bestsellers/internal/validation"
)

// ProvideValidator provides the shared struct validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideLoader provides the CSV loader with its synthetic fallback.
func ProvideLoader(i do.Injector) (*dataset.Loader, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	v := do.MustInvoke[*validation.Validator](i)

	return dataset.NewLoader(cfg.Data.CSVPath, cfg.Data.SyntheticSeed, v, log.Component("dataset")), nil
}

// DashboardServiceHandle wraps the dashboard service with shutdown capability.
type DashboardServiceHandle struct {
	*service.DashboardService
}

// Shutdown implements do.Shutdownable.
func (h *DashboardServiceHandle) Shutdown() error {
	return h.Close()
}

// ProvideDashboardService provides the dashboard service and performs the
// initial load. The server does not start without a dataset.
func ProvideDashboardService(i do.Injector) (*DashboardServiceHandle, error) {
	loader := do.MustInvoke[*dataset.Loader](i)
	buildIndex := do.MustInvoke[service.IndexBuilder](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewDashboardService(loader, buildIndex, storeHandle.Store, v, log.Component("dashboard"))

	ds, err := svc.Load(context.Background())
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("initial dataset load: %w", err)
	}

	log.Info("Dataset ready",
		"dataset_id", ds.ID,
		"source", ds.Source,
		"records", len(ds.Records),
	)

	return &DashboardServiceHandle{DashboardService: svc}, nil
}

// ProvideRenderer provides the HTML and Markdown renderer.
func ProvideRenderer(i do.Injector) (*render.Renderer, error) {
	return render.New()
}
