package api

import (
	"github.com/listenupapp/bestsellers/internal/render"
	"github.com/listenupapp/bestsellers/internal/service"
)

// CacheChecker reports whether the report cache is usable.
type CacheChecker interface {
	Ping() error
}

// IndexChecker reports the size of the search index.
type IndexChecker interface {
	DocCount() (uint64, error)
}

// Services groups everything the API server calls into.
// Cache and Index are only used for health reporting and may be nil.
type Services struct {
	Dashboard *service.DashboardService
	Renderer  *render.Renderer
	Cache     CacheChecker
	Index     IndexChecker
}
