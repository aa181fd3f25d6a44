package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/whoisit/internal/game/domain"
)

// LoadProfiles fetches the data files of the given categories in parallel
// and returns profiles grouped by category slug. Any fetch failure cancels
// the remaining fetches and is returned as-is.
func LoadProfiles(ctx context.Context, client Client, locale string, categories []string) (map[string][]domain.Profile, error) {
	g, ctx := errgroup.WithContext(ctx)

	results := make([]ProfilesData, len(categories))
	for i, slug := range categories {
		g.Go(func() error {
			data, err := client.FetchProfilesByCategory(ctx, locale, slug)
			if err != nil {
				return err
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.Profile, len(categories))
	for i, slug := range categories {
		grouped[slug] = results[i].Profiles
	}
	return grouped, nil
}
