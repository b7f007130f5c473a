package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bestsellers/internal/config"
	"github.com/listenupapp/bestsellers/internal/logger"
	"github.com/listenupapp/bestsellers/internal/ratelimit"
	"github.com/listenupapp/bestsellers/internal/watcher"
)

// RateLimiterHandle wraps the keyed limiter with shutdown capability.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.KeyedRateLimiter != nil {
		h.Stop()
	}
	return nil
}

// ProvideRateLimiter provides the per-client limiter. A non-positive RPS
// disables rate limiting.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.RateLimit.RPS <= 0 {
		log.Info("Rate limiting disabled by configuration")
		return &RateLimiterHandle{}, nil
	}

	limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, ratelimit.DefaultIdleTTL)
	return &RateLimiterHandle{KeyedRateLimiter: limiter}, nil
}

// FileWatcherHandle wraps the file watcher with shutdown capability.
type FileWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *FileWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideFileWatcher watches the dataset CSV and reloads it when it settles
// after a change.
func ProvideFileWatcher(i do.Injector) (*FileWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	dashboard := do.MustInvoke[*DashboardServiceHandle](i)

	if !cfg.Data.Watch {
		log.Info("Dataset watching disabled by configuration")
		return &FileWatcherHandle{}, nil
	}

	w, err := watcher.New(cfg.Data.CSVPath, log.Component("watcher"), watcher.Options{
		SettleDelay: cfg.Data.SettleDelay,
	})
	if err != nil {
		// Non-fatal: the dataset still serves, it just won't reload on change.
		log.Warn("Dataset watching unavailable", "path", cfg.Data.CSVPath, "error", err)
		return &FileWatcherHandle{}, nil
	}

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("File watcher error", "error", err)
		}
	}()

	go dashboard.FollowChanges(ctx, w.Events(), w.Errors())

	return &FileWatcherHandle{
		Watcher: w,
		cancel:  cancel,
	}, nil
}
