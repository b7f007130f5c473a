package render

import (
	"html/template"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/listenupapp/bestsellers/internal/analytics"
	"github.com/listenupapp/bestsellers/internal/domain"
)

// Chart geometry, in SVG user units.
const (
	barRowHeight = 24
	barMaxWidth  = 300
	chartPadding = 8
)

const notAvailable = "n/a"

// ReportView is a report with every number already formatted for display.
type ReportView struct {
	Theme     Theme
	Charts    bool
	DatasetID string
	Source    string

	Records     string
	MeanRating  string
	MeanReviews string
	Empty       bool

	Persistence       []BarView
	PersistenceHeight int
	Buckets           []BucketView
	BucketChart       []BarView
	BucketHeight      int
	Genres            []GenreView
	Heatmap           HeatmapView
	Findings          []string
}

// BarView is one horizontal bar.
type BarView struct {
	Label string
	Value string
	Width float64
	Y     int
}

// BucketView is one review-bucket table row.
type BucketView struct {
	Category    string
	Count       string
	MeanReviews string
	MeanRating  string
	MeanPrice   string
}

// GenreView is one genre table row.
type GenreView struct {
	Genre      string
	Count      string
	MeanRating string
	MeanPrice  string
}

// HeatmapView is the correlation matrix as coloured cells.
type HeatmapView struct {
	Columns []string
	Rows    []HeatmapRow
}

// HeatmapRow is one matrix row.
type HeatmapRow struct {
	Label string
	Cells []HeatmapCell
}

// HeatmapCell is one coefficient.
type HeatmapCell struct {
	Text  string
	Color template.CSS
	Title string
}

// viewBuilder formats numbers with locale-aware grouping.
type viewBuilder struct {
	p     *message.Printer
	theme Theme
}

func newViewBuilder(tag language.Tag, theme Theme) *viewBuilder {
	return &viewBuilder{p: message.NewPrinter(tag), theme: theme}
}

func (b *viewBuilder) build(r *domain.Report, topN int, charts bool) ReportView {
	v := ReportView{
		Theme:       b.theme,
		Charts:      charts,
		DatasetID:   r.DatasetID,
		Source:      string(r.Source),
		Records:     b.count(r.Overview.Records),
		MeanRating:  b.optional(r.Overview.MeanRating),
		MeanReviews: b.optional(r.Overview.MeanReviews),
		Empty:       r.Overview.Records == 0,
	}

	top := analytics.TopPersistence(r.Persistence, topN)
	maxCount := 0
	for _, e := range top {
		maxCount = max(maxCount, e.Count)
	}
	for i, e := range top {
		v.Persistence = append(v.Persistence, BarView{
			Label: e.Title,
			Value: b.p.Sprintf("%d (avg %.2f)", e.Count, e.AverageRating),
			Width: scale(e.Count, maxCount),
			Y:     i * barRowHeight,
		})
	}
	v.PersistenceHeight = len(v.Persistence)*barRowHeight + chartPadding

	maxBucket := 0
	for _, bucket := range r.ReviewBuckets {
		maxBucket = max(maxBucket, bucket.Count)
	}
	for i, bucket := range r.ReviewBuckets {
		row := BucketView{
			Category:    string(bucket.Category),
			Count:       b.count(bucket.Count),
			MeanReviews: notAvailable,
			MeanRating:  notAvailable,
			MeanPrice:   notAvailable,
		}
		if bucket.Stats != nil {
			row.MeanReviews = b.p.Sprintf("%.2f", bucket.Stats.MeanReviews)
			row.MeanRating = b.p.Sprintf("%.2f", bucket.Stats.MeanRating)
			row.MeanPrice = b.p.Sprintf("%.2f", bucket.Stats.MeanPrice)
		}
		v.Buckets = append(v.Buckets, row)
		v.BucketChart = append(v.BucketChart, BarView{
			Label: row.Category,
			Value: row.Count,
			Width: scale(bucket.Count, maxBucket),
			Y:     i * barRowHeight,
		})
	}
	v.BucketHeight = len(v.BucketChart)*barRowHeight + chartPadding

	for _, g := range r.Genres {
		v.Genres = append(v.Genres, GenreView{
			Genre:      g.Genre,
			Count:      b.count(g.Count),
			MeanRating: b.p.Sprintf("%.2f", g.MeanRating),
			MeanPrice:  b.p.Sprintf("%.2f", g.MeanPrice),
		})
	}

	v.Heatmap = b.heatmap(r.Correlations.Matrix)
	v.Findings = findings(b.p, r)
	return v
}

func (b *viewBuilder) heatmap(m domain.CorrelationMatrix) HeatmapView {
	h := HeatmapView{Columns: m.Columns}
	for i, row := range m.Values {
		hr := HeatmapRow{Label: m.Columns[i]}
		for j, c := range row {
			cell := HeatmapCell{Text: notAvailable, Color: "transparent", Title: string(c.Reason)}
			if val, ok := c.Float(); ok {
				cell.Text = b.p.Sprintf("%.2f", val)
				cell.Color = b.theme.heat(val)
				cell.Title = m.Columns[i] + " / " + m.Columns[j]
			}
			hr.Cells = append(hr.Cells, cell)
		}
		h.Rows = append(h.Rows, hr)
	}
	return h
}

func (b *viewBuilder) count(n int) string {
	return b.p.Sprintf("%d", n)
}

func (b *viewBuilder) optional(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return b.p.Sprintf("%.2f", *v)
}

// scale maps n onto [0, barMaxWidth].
func scale(n, maxN int) float64 {
	if maxN <= 0 {
		return 0
	}
	return math.Round(float64(n)/float64(maxN)*barMaxWidth*10) / 10
}
