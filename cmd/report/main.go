// Package main provides a command line tool that prints the bestseller
// analytics report for a set of filters.
//
// Usage:
//
//	go run ./cmd/report --csv bestsellers.csv --year 2018,2019 --format markdown
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/listenupapp/bestsellers/internal/dataset"
	"github.com/listenupapp/bestsellers/internal/domain"
	"github.com/listenupapp/bestsellers/internal/logger"
	"github.com/listenupapp/bestsellers/internal/render"
	"github.com/listenupapp/bestsellers/internal/service"
	"github.com/listenupapp/bestsellers/internal/validation"
)

// Output formats.
const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

// reportFlags holds the parsed command line.
type reportFlags struct {
	csvPath    string
	seed       uint64
	years      []int
	genres     []string
	minReviews int
	minPrice   float64
	maxPrice   float64
	query      string
	format     string
	logLevel   string
}

func main() {
	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the report command writing to the given streams.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	f := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the bestseller analytics report",
		Long: `Loads the bestseller CSV (or the synthetic fallback when the file is
missing), applies the filters and prints every aggregation as JSON or Markdown.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f, cmd.Flags(), stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&f.csvPath, "csv", "bestsellers.csv", "Path to the bestsellers CSV")
	flags.Uint64Var(&f.seed, "seed", dataset.DefaultSeed, "Seed for the synthetic fallback dataset")
	flags.IntSliceVar(&f.years, "year", nil, "Years to include (repeatable or comma separated)")
	flags.StringSliceVar(&f.genres, "genre", nil, "Genres to include (repeatable or comma separated)")
	flags.IntVar(&f.minReviews, "min-reviews", 0, "Minimum number of reviews")
	flags.Float64Var(&f.minPrice, "min-price", 0, "Lowest price, inclusive")
	flags.Float64Var(&f.maxPrice, "max-price", math.MaxFloat64, "Highest price, inclusive")
	flags.StringVarP(&f.query, "query", "q", "", "Free-text search over title, author and genre")
	flags.StringVar(&f.format, "format", formatJSON, "Output format: json or markdown")
	flags.StringVar(&f.logLevel, "log-level", "warn", "Log level written to stderr")

	return cmd
}

func run(ctx context.Context, f *reportFlags, flags *pflag.FlagSet, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format := strings.ToLower(strings.TrimSpace(f.format))
	if format != formatJSON && format != formatMarkdown {
		return fmt.Errorf("unknown format %q (want %s or %s)", f.format, formatJSON, formatMarkdown)
	}

	log := logger.New(logger.Config{
		Writer: stderr,
		Format: "json",
		Level:  logger.ParseLevel(f.logLevel),
	})

	v := validation.New()
	loader := dataset.NewLoader(f.csvPath, f.seed, v, log.Component("dataset"))
	svc := service.NewDashboardService(loader, service.SearchIndexBuilder(log.Component("search")), nil, v, log.Component("dashboard"))
	defer svc.Close()

	ds, err := svc.Load(ctx)
	if err != nil {
		return err
	}
	if ds.Source == domain.SourceSynthesized {
		fmt.Fprintf(stderr, "note: %s not usable (%s), reporting on synthetic data\n", f.csvPath, ds.FallbackReason)
	}

	report, err := svc.Report(ctx, f.selection(flags))
	if err != nil {
		return err
	}

	if format == formatMarkdown {
		renderer, err := render.New()
		if err != nil {
			return err
		}
		md, err := renderer.Markdown(report)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, md)
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// selection maps the flags onto a filter. Dimensions whose flags were not
// given stay unrestricted.
func (f *reportFlags) selection(flags *pflag.FlagSet) domain.FilterSelection {
	sel := domain.FilterSelection{
		MinReviews: f.minReviews,
		Query:      f.query,
	}
	if flags.Changed("year") {
		sel.Years = f.years
	}
	if flags.Changed("genre") {
		sel.Genres = f.genres
	}
	if flags.Changed("min-price") || flags.Changed("max-price") {
		sel.PriceRange = &domain.PriceRange{Min: f.minPrice, Max: f.maxPrice}
	}
	return sel
}
