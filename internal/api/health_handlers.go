package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Component status values.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"dataset": s.checkDataset(),
		"cache":   s.checkCache(),
		"search":  s.checkSearchIndex(),
	}

	overall := statusHealthy
	for _, c := range components {
		switch {
		case c.Status == statusUnhealthy:
			overall = statusUnhealthy
		case c.Status == statusDegraded && overall == statusHealthy:
			overall = statusDegraded
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkDataset reports whether a snapshot has been installed.
func (s *Server) checkDataset() ComponentHealth {
	ds := s.services.Dashboard.Snapshot()
	if ds == nil {
		return ComponentHealth{Status: statusUnhealthy, Message: "dataset not loaded"}
	}
	if ds.FallbackReason != "" {
		return ComponentHealth{Status: statusDegraded, Message: "serving synthetic data: " + ds.FallbackReason}
	}
	return ComponentHealth{Status: statusHealthy, Message: strconv.Itoa(ds.Len()) + " records"}
}

// checkCache verifies the report cache is open.
func (s *Server) checkCache() ComponentHealth {
	if s.services.Cache == nil {
		return ComponentHealth{Status: statusDegraded, Message: "cache not configured"}
	}

	start := time.Now()
	err := s.services.Cache.Ping()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{Status: statusUnhealthy, Latency: latency.String(), Message: "cache unavailable"}
	}
	return ComponentHealth{Status: statusHealthy, Latency: latency.String()}
}

// checkSearchIndex verifies the Bleve index matches the current snapshot.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.services.Index == nil {
		return ComponentHealth{Status: statusDegraded, Message: "search index not configured"}
	}

	start := time.Now()
	count, err := s.services.Index.DocCount()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{Status: statusUnhealthy, Latency: latency.String(), Message: "search index unavailable"}
	}
	if ds := s.services.Dashboard.Snapshot(); ds != nil && count != uint64(ds.Len()) {
		return ComponentHealth{
			Status:  statusDegraded,
			Latency: latency.String(),
			Message: "index holds " + strconv.FormatUint(count, 10) + " of " + strconv.Itoa(ds.Len()) + " records",
		}
	}
	return ComponentHealth{Status: statusHealthy, Latency: latency.String()}
}
