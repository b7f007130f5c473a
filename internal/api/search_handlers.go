package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bestsellers/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search records",
		Description: "Full-text search over title, author and genre of the current snapshot",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the dataset.
type SearchInput struct {
	Query string `query:"q" maxLength:"200" doc:"Search query"`
	Limit int    `query:"limit" doc:"Max hits (default 20, max 500)"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body *search.Result
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	res, err := s.services.Dashboard.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, apiError(err)
	}
	return &SearchOutput{Body: res}, nil
}
