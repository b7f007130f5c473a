package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bestsellers/internal/api"
	"github.com/listenupapp/bestsellers/internal/config"
	"github.com/listenupapp/bestsellers/internal/logger"
	"github.com/listenupapp/bestsellers/internal/render"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	limiterHandle := do.MustInvoke[*RateLimiterHandle](i)
	dashboardHandle := do.MustInvoke[*DashboardServiceHandle](i)
	renderer := do.MustInvoke[*render.Renderer](i)

	services := &api.Services{
		Dashboard: dashboardHandle.DashboardService,
		Renderer:  renderer,
		Cache:     storeHandle.Store,
		Index:     dashboardHandle.DashboardService,
	}

	handler := api.NewServer(services, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Limiter:        limiterHandle.KeyedRateLimiter,
	}, log.Component("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
