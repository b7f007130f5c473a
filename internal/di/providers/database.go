package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bestsellers/internal/config"
	"github.com/listenupapp/bestsellers/internal/logger"
	"github.com/listenupapp/bestsellers/internal/store"
)

// StoreHandle wraps the report cache with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the badger-backed report cache.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	s, err := store.New(cfg.Cache.Path, cfg.Cache.TTL, log.Component("store"))
	if err != nil {
		return nil, err
	}

	where := cfg.Cache.Path
	if where == "" {
		where = "memory"
	}
	log.Info("Report cache opened", "location", where, "ttl", cfg.Cache.TTL)

	return &StoreHandle{Store: s}, nil
}
