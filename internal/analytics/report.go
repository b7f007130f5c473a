package analytics

import "github.com/listenupapp/bestsellers/internal/domain"

// BuildReport filters the dataset and runs every aggregation over the result.
func BuildReport(ds *domain.Dataset, sel domain.FilterSelection) domain.Report {
	filtered := Filter(ds.Records, sel)

	return domain.Report{
		DatasetID:     ds.ID,
		Source:        ds.Source,
		Selection:     sel,
		Overview:      Summarize(filtered),
		Persistence:   Persistence(filtered),
		ReviewBuckets: ReviewBuckets(filtered),
		Genres:        GenreSummaries(filtered),
		Correlations:  Correlations(filtered),
	}
}
