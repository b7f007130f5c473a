package api

import (
	"errors"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	domainerrors "github.com/listenupapp/bestsellers/internal/errors"
	"github.com/listenupapp/bestsellers/internal/http/response"
	"github.com/listenupapp/bestsellers/internal/render"
)

// formParams reads the filter parameters from a query string. Unlike the
// JSON API, the dashboard form repeats year and genre instead of joining
// them with commas, so both spellings are accepted.
func formParams(q url.Values) (FilterParams, error) {
	params := FilterParams{
		Year:     strings.Join(q["year"], ","),
		Genre:    strings.Join(q["genre"], ","),
		MinPrice: q.Get("min_price"),
		MaxPrice: q.Get("max_price"),
		Query:    q.Get("q"),
	}

	if raw := strings.TrimSpace(q.Get("min_reviews")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return params, domainerrors.ValidationWithDetails("invalid filter parameters",
				map[string]string{"min_reviews": "must be an integer"})
		}
		params.MinReviews = n
	}
	return params, nil
}

// handleDashboard serves the HTML dashboard.
// GET /
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	in := render.DashboardInput{
		Theme:   q.Get("theme"),
		Dataset: s.services.Dashboard.Snapshot(),
	}
	status := http.StatusOK

	if in.Dataset == nil {
		in.Error = "The dataset has not been loaded yet."
		status = http.StatusServiceUnavailable
	} else {
		in.Options, _ = s.services.Dashboard.Options()

		params, err := formParams(q)
		if err == nil {
			in.Selection, err = params.Selection()
		}
		if err == nil {
			in.Report, err = s.services.Dashboard.Report(ctx, in.Selection)
		}
		if err != nil {
			in.Error, status = describeError(err)
			in.Report = nil
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", CacheNoStore)
	w.WriteHeader(status)
	if err := s.services.Renderer.Dashboard(w, in); err != nil {
		s.logger.Error("Failed to render dashboard", "error", err)
	}
}

// handleReportMarkdown exports the report for the requested filters.
// GET /report.md
func (s *Server) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	params, err := formParams(r.URL.Query())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	sel, err := params.Selection()
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	report, err := s.services.Dashboard.Report(r.Context(), sel)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	md, err := s.services.Renderer.Markdown(report)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="bestsellers-report.md"`)
	w.Header().Set("Cache-Control", CacheNoStore)
	_, _ = w.Write([]byte(md))
}

// describeError turns a service error into a user-facing message and status.
func describeError(err error) (string, int) {
	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		return "Something went wrong while building the report.", http.StatusInternalServerError
	}

	msg := domainErr.Message
	if details, ok := domainErr.Details.(map[string]string); ok && len(details) > 0 {
		parts := make([]string, 0, len(details))
		for _, field := range slices.Sorted(maps.Keys(details)) {
			parts = append(parts, field+" "+details[field])
		}
		msg += ": " + strings.Join(parts, "; ")
	}
	return msg, domainErr.HTTPStatus()
}
