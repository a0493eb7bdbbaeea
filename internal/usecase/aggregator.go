// Package usecase contains the business logic of the application.
package usecase

import (
	"log"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-org-stats/internal/domain"
)

// Accumulate folds every repository into a fresh domain.AggregateStats.
func Accumulate(repos []domain.Repository) domain.AggregateStats {
	acc := domain.NewAggregateStats()
	for _, repo := range repos {
		acc = domain.Fold(acc, repo)
	}
	return acc
}

// StarDistribution describes how stars are spread over a set of repositories.
type StarDistribution struct {
	Median float64
	P90    float64
}

// DescribeStars computes the star distribution of repos. It reports false for an empty set.
func DescribeStars(repos []domain.Repository) (StarDistribution, bool) {
	if len(repos) == 0 {
		return StarDistribution{}, false
	}
	data := make(stats.Float64Data, len(repos))
	for i, repo := range repos {
		data[i] = float64(repo.Stars)
	}
	median, err := data.Median()
	if err != nil {
		return StarDistribution{}, false
	}
	// Percentile rejects sets too small to rank; the maximum stands in for them.
	p90, err := data.Percentile(90)
	if err != nil {
		if p90, err = data.Max(); err != nil {
			return StarDistribution{}, false
		}
	}
	return StarDistribution{Median: median, P90: p90}, true
}

func logDistribution(logger *log.Logger, org string, repos []domain.Repository) {
	if dist, ok := DescribeStars(repos); ok {
		logger.Printf("Usecase: %s stars over %d repositories: median %.1f, p90 %.1f", org, len(repos), dist.Median, dist.P90)
	}
}
