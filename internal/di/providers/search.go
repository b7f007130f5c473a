package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bestsellers/internal/logger"
	"github.com/listenupapp/bestsellers/internal/service"
)

// ProvideIndexBuilder provides the factory that builds an in-memory Bleve
// index for each loaded dataset.
func ProvideIndexBuilder(i do.Injector) (service.IndexBuilder, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return service.SearchIndexBuilder(log.Component("search")), nil
}
