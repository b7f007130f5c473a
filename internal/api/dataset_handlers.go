package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bestsellers/internal/analytics"
	"github.com/listenupapp/bestsellers/internal/domain"
	domainerrors "github.com/listenupapp/bestsellers/internal/errors"
	"github.com/listenupapp/bestsellers/internal/service"
)

func (s *Server) registerDatasetRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDataset",
		Method:      http.MethodGet,
		Path:        "/api/v1/dataset",
		Summary:     "Current dataset",
		Description: "Describes the active snapshot and the filter values it offers",
		Tags:        []string{"Dataset"},
	}, s.handleGetDataset)

	huma.Register(s.api, huma.Operation{
		OperationID: "reloadDataset",
		Method:      http.MethodPost,
		Path:        "/api/v1/dataset/reload",
		Summary:     "Reload dataset",
		Description: "Reloads the CSV from disk. On failure the previous snapshot stays active.",
		Tags:        []string{"Dataset"},
	}, s.handleReloadDataset)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRecords",
		Method:      http.MethodGet,
		Path:        "/api/v1/records",
		Summary:     "List records",
		Description: "Returns one page of the enriched records matching the filters, in dataset order",
		Tags:        []string{"Dataset"},
	}, s.handleListRecords)
}

// === DTOs ===

// DatasetResponse describes a dataset snapshot.
type DatasetResponse struct {
	ID             string               `json:"id" doc:"Snapshot ID; changes on every reload"`
	Source         domain.LoadSource    `json:"source" enum:"loaded,synthesized" doc:"Whether records came from the CSV or were synthesized"`
	Path           string               `json:"path" doc:"CSV path the loader read or tried to read"`
	FallbackReason string               `json:"fallback_reason,omitempty" doc:"Why synthetic data is being served"`
	LoadedAt       time.Time            `json:"loaded_at" doc:"When the snapshot was installed"`
	RecordCount    int                  `json:"record_count" doc:"Number of records"`
	MaxReviews     int                  `json:"max_reviews" doc:"Largest review count, the engagement score denominator"`
	Options        domain.FilterOptions `json:"options" doc:"Filter values available in this dataset"`
}

// DatasetOutput wraps the dataset response for Huma.
type DatasetOutput struct {
	Body DatasetResponse
}

// RecordsInput contains filter and paging parameters.
type RecordsInput struct {
	FilterParams
	Limit  int `query:"limit" doc:"Page size (default 50, max 500)"`
	Offset int `query:"offset" doc:"Records to skip"`
}

// RecordsOutput wraps a record page for Huma.
type RecordsOutput struct {
	Body *service.RecordPage
}

// === Handlers ===

func (s *Server) handleGetDataset(_ context.Context, _ *struct{}) (*DatasetOutput, error) {
	ds := s.services.Dashboard.Snapshot()
	if ds == nil {
		return nil, apiError(domainerrors.Unavailable("dataset not loaded yet"))
	}
	return datasetOutput(ds), nil
}

func (s *Server) handleReloadDataset(ctx context.Context, _ *struct{}) (*DatasetOutput, error) {
	ds, err := s.services.Dashboard.Load(ctx)
	if err != nil {
		return nil, apiError(err)
	}
	return datasetOutput(ds), nil
}

func (s *Server) handleListRecords(ctx context.Context, input *RecordsInput) (*RecordsOutput, error) {
	sel, err := input.Selection()
	if err != nil {
		return nil, apiError(err)
	}

	page, err := s.services.Dashboard.Records(ctx, sel, input.Limit, input.Offset)
	if err != nil {
		return nil, apiError(err)
	}
	return &RecordsOutput{Body: page}, nil
}

func datasetOutput(ds *domain.Dataset) *DatasetOutput {
	return &DatasetOutput{
		Body: DatasetResponse{
			ID:             ds.ID,
			Source:         ds.Source,
			Path:           ds.Path,
			FallbackReason: ds.FallbackReason,
			LoadedAt:       ds.LoadedAt,
			RecordCount:    ds.Len(),
			MaxReviews:     ds.MaxReviews,
			Options:        analytics.Options(ds.Records),
		},
	}
}
