package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bestsellers/internal/analytics"
	"github.com/listenupapp/bestsellers/internal/domain"
)

func (s *Server) registerAnalyticsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getReport",
		Method:      http.MethodGet,
		Path:        "/api/v1/report",
		Summary:     "Full report",
		Description: "Overview, persistence, review buckets, genres and correlations for one selection",
		Tags:        []string{"Analytics"},
	}, s.handleGetReport)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPersistence",
		Method:      http.MethodGet,
		Path:        "/api/v1/analytics/persistence",
		Summary:     "Title persistence",
		Description: "How often each title appears in the selection, most persistent first",
		Tags:        []string{"Analytics"},
	}, s.handleGetPersistence)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReviewBuckets",
		Method:      http.MethodGet,
		Path:        "/api/v1/analytics/review-buckets",
		Summary:     "Review buckets",
		Description: "Per review band: record count and mean reviews, rating and price",
		Tags:        []string{"Analytics"},
	}, s.handleGetReviewBuckets)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/analytics/genres",
		Summary:     "Genre summary",
		Description: "Per genre: record count, mean rating and mean price",
		Tags:        []string{"Analytics"},
	}, s.handleGetGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCorrelations",
		Method:      http.MethodGet,
		Path:        "/api/v1/analytics/correlations",
		Summary:     "Correlations",
		Description: "Pearson coefficients between rating, reviews, price and engagement score",
		Tags:        []string{"Analytics"},
	}, s.handleGetCorrelations)
}

// === DTOs ===

// ReportInput contains the shared filter parameters.
type ReportInput struct {
	FilterParams
}

// ReportOutput wraps a full report for Huma.
type ReportOutput struct {
	Body *domain.Report
}

// PersistenceInput adds the entry limit to the filters.
type PersistenceInput struct {
	FilterParams
	Top int `query:"top" default:"10" minimum:"0" doc:"Number of titles to return; 0 returns all"`
}

// PersistenceResponse lists the most persistent titles.
type PersistenceResponse struct {
	DatasetID string                    `json:"dataset_id"`
	Titles    int                       `json:"titles" doc:"Distinct titles in the selection"`
	Entries   []domain.PersistenceEntry `json:"entries"`
}

// PersistenceOutput wraps the persistence response for Huma.
type PersistenceOutput struct {
	Body PersistenceResponse
}

// ReviewBucketsResponse lists all four review bands.
type ReviewBucketsResponse struct {
	DatasetID string               `json:"dataset_id"`
	Buckets   domain.ReviewBuckets `json:"buckets"`
}

// ReviewBucketsOutput wraps the review bucket response for Huma.
type ReviewBucketsOutput struct {
	Body ReviewBucketsResponse
}

// GenresResponse lists per-genre summaries.
type GenresResponse struct {
	DatasetID string                `json:"dataset_id"`
	Genres    []domain.GenreSummary `json:"genres"`
}

// GenresOutput wraps the genre response for Huma.
type GenresOutput struct {
	Body GenresResponse
}

// CorrelationsResponse holds the named pairs and the full matrix.
type CorrelationsResponse struct {
	DatasetID    string                   `json:"dataset_id"`
	Records      int                      `json:"records"`
	Correlations domain.CorrelationReport `json:"correlations"`
}

// CorrelationsOutput wraps the correlation response for Huma.
type CorrelationsOutput struct {
	Body CorrelationsResponse
}

// === Handlers ===

// report builds (or fetches from cache) the full report for the filters.
// The single-analysis endpoints slice it so they share the cache entry.
func (s *Server) report(ctx context.Context, params FilterParams) (*domain.Report, error) {
	sel, err := params.Selection()
	if err != nil {
		return nil, apiError(err)
	}

	report, err := s.services.Dashboard.Report(ctx, sel)
	if err != nil {
		return nil, apiError(err)
	}
	return report, nil
}

func (s *Server) handleGetReport(ctx context.Context, input *ReportInput) (*ReportOutput, error) {
	report, err := s.report(ctx, input.FilterParams)
	if err != nil {
		return nil, err
	}
	return &ReportOutput{Body: report}, nil
}

func (s *Server) handleGetPersistence(ctx context.Context, input *PersistenceInput) (*PersistenceOutput, error) {
	report, err := s.report(ctx, input.FilterParams)
	if err != nil {
		return nil, err
	}

	return &PersistenceOutput{
		Body: PersistenceResponse{
			DatasetID: report.DatasetID,
			Titles:    len(report.Persistence),
			Entries:   analytics.TopPersistence(report.Persistence, input.Top),
		},
	}, nil
}

func (s *Server) handleGetReviewBuckets(ctx context.Context, input *ReportInput) (*ReviewBucketsOutput, error) {
	report, err := s.report(ctx, input.FilterParams)
	if err != nil {
		return nil, err
	}

	return &ReviewBucketsOutput{
		Body: ReviewBucketsResponse{DatasetID: report.DatasetID, Buckets: report.ReviewBuckets},
	}, nil
}

func (s *Server) handleGetGenres(ctx context.Context, input *ReportInput) (*GenresOutput, error) {
	report, err := s.report(ctx, input.FilterParams)
	if err != nil {
		return nil, err
	}

	return &GenresOutput{
		Body: GenresResponse{DatasetID: report.DatasetID, Genres: report.Genres},
	}, nil
}

func (s *Server) handleGetCorrelations(ctx context.Context, input *ReportInput) (*CorrelationsOutput, error) {
	report, err := s.report(ctx, input.FilterParams)
	if err != nil {
		return nil, err
	}

	return &CorrelationsOutput{
		Body: CorrelationsResponse{
			DatasetID:    report.DatasetID,
			Records:      report.Overview.Records,
			Correlations: report.Correlations,
		},
	}, nil
}
