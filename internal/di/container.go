// Package di provides dependency injection configuration for the bestseller analytics server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bestsellers/internal/config"
	"github.com/listenupapp/bestsellers/internal/dataset"
	"github.com/listenupapp/bestsellers/internal/di/providers"
	"github.com/listenupapp/bestsellers/internal/logger"
	"github.com/listenupapp/bestsellers/internal/render"
	"github.com/listenupapp/bestsellers/internal/service"
	"github.com/listenupapp/bestsellers/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage and search
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideIndexBuilder)

	// Business services
	do.Provide(injector, providers.ProvideLoader)
	do.Provide(injector, providers.ProvideDashboardService)
	do.Provide(injector, providers.ProvideRenderer)

	// Workers
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideFileWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. Any provider error, including a failed
// initial dataset load, is returned.
func Bootstrap(injector *do.RootScope) error {
	steps := []func() error{
		invoke[*config.Config](injector),
		invoke[*logger.Logger](injector),
		invoke[*validation.Validator](injector),
		invoke[*providers.StoreHandle](injector),
		invoke[service.IndexBuilder](injector),
		invoke[*dataset.Loader](injector),
		invoke[*providers.DashboardServiceHandle](injector),
		invoke[*render.Renderer](injector),
		invoke[*providers.RateLimiterHandle](injector),
		invoke[*providers.FileWatcherHandle](injector),
		invoke[*providers.HTTPServerHandle](injector),
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func invoke[T any](injector do.Injector) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
