// Package render turns analytics reports into the HTML dashboard and its
// Markdown export.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/listenupapp/bestsellers/internal/analytics"
	"github.com/listenupapp/bestsellers/internal/domain"
	"github.com/listenupapp/bestsellers/internal/genre"
)

//go:embed templates/*.html
var templates embed.FS

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl     *template.Template
	markdown *converter.Converter
	lang     language.Tag
	topN     int
}

// New parses the templates. Numbers are grouped the English way.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Renderer{
		tmpl: tmpl,
		markdown: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		lang: language.English,
		topN: analytics.DefaultTopN,
	}, nil
}

// DashboardInput is everything the dashboard page shows.
type DashboardInput struct {
	Theme     string
	Dataset   *domain.Dataset
	Options   domain.FilterOptions
	Selection domain.FilterSelection
	Report    *domain.Report
	Error     string
}

type dashboardPage struct {
	Theme   Theme
	Themes  []string
	Dataset datasetView
	Form    formView
	Report  *ReportView
	Error   string
}

type datasetView struct {
	ID             string
	Source         string
	Path           string
	FallbackReason string
	LoadedAt       string
	Records        string
}

type formView struct {
	Years       []optionView
	Genres      []optionView
	MinReviews  int
	MaxReviews  int
	MinPrice    string
	MaxPrice    string
	Query       string
	MarkdownURL template.URL
}

type optionView struct {
	Value    string
	Selected bool
}

// Dashboard writes the full HTML page.
func (r *Renderer) Dashboard(w io.Writer, in DashboardInput) error {
	theme := ParseTheme(in.Theme)
	p := message.NewPrinter(r.lang)

	page := dashboardPage{
		Theme:  theme,
		Themes: ThemeNames(),
		Form:   buildForm(in.Options, in.Selection, theme),
		Error:  in.Error,
	}
	if ds := in.Dataset; ds != nil {
		page.Dataset = datasetView{
			ID:             ds.ID,
			Source:         string(ds.Source),
			Path:           ds.Path,
			FallbackReason: ds.FallbackReason,
			LoadedAt:       ds.LoadedAt.Format(time.RFC3339),
			Records:        p.Sprintf("%d", ds.Len()),
		}
	}
	if in.Report != nil {
		view := newViewBuilder(r.lang, theme).build(in.Report, r.topN, true)
		page.Report = &view
	}

	return r.tmpl.ExecuteTemplate(w, "dashboard.html", page)
}

// ReportHTML writes the report fragment without charts.
func (r *Renderer) ReportHTML(w io.Writer, report *domain.Report) error {
	view := newViewBuilder(r.lang, ParseTheme("")).build(report, r.topN, false)
	return r.tmpl.ExecuteTemplate(w, "report", view)
}

// Markdown renders the report as Markdown.
func (r *Renderer) Markdown(report *domain.Report) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("<h1>Bestseller analytics report</h1>")
	if err := r.ReportHTML(&buf, report); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}

	md, err := r.markdown.ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("convert report to markdown: %w", err)
	}
	return strings.TrimSpace(md) + "\n", nil
}

func buildForm(opts domain.FilterOptions, sel domain.FilterSelection, theme Theme) formView {
	f := formView{
		MinReviews: sel.MinReviews,
		MaxReviews: opts.MaxReviews,
		Query:      sel.Query,
	}

	// An unrestricted dimension shows every option selected.
	for _, y := range opts.Years {
		f.Years = append(f.Years, optionView{
			Value:    strconv.Itoa(y),
			Selected: sel.Years == nil || slices.Contains(sel.Years, y),
		})
	}
	for _, g := range opts.Genres {
		f.Genres = append(f.Genres, optionView{
			Value:    g,
			Selected: sel.Genres == nil || slices.ContainsFunc(sel.Genres, func(s string) bool { return genre.Equal(s, g) }),
		})
	}

	q := url.Values{}
	for _, y := range sel.Years {
		q.Add("year", strconv.Itoa(y))
	}
	for _, g := range sel.Genres {
		q.Add("genre", g)
	}
	if sel.MinReviews > 0 {
		q.Set("min_reviews", strconv.Itoa(sel.MinReviews))
	}
	if pr := sel.PriceRange; pr != nil {
		f.MinPrice = formatPrice(pr.Min)
		q.Set("min_price", f.MinPrice)
		if pr.Max < math.MaxFloat64 {
			f.MaxPrice = formatPrice(pr.Max)
			q.Set("max_price", f.MaxPrice)
		}
	}
	if sel.Query != "" {
		q.Set("q", sel.Query)
	}
	q.Set("theme", theme.Name)
	f.MarkdownURL = template.URL("/report.md?" + q.Encode()) //nolint:gosec // built from url.Values

	return f
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
