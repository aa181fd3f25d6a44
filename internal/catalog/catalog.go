// Package catalog is the typed boundary to the externally hosted profile
// catalog.
//
// The catalog is a manifest plus one data file per category and locale,
// fetched over HTTP by a collaborator the core does not own. Everything
// crossing into the core goes through parse-and-validate functions that
// return typed values or explicit validation failures; raw JSON never
// leaks past this package.
package catalog

import (
	"context"

	"github.com/louisbranch/whoisit/internal/game/domain"
)

// Manifest describes the published catalog: which categories exist and,
// per locale, how many profiles each category offers.
type Manifest struct {
	Version     string             `json:"version"`
	GeneratedAt string             `json:"generatedAt"`
	Categories  []ManifestCategory `json:"categories"`
}

// ManifestCategory is one category entry with its per-locale metadata.
type ManifestCategory struct {
	Slug    string                    `json:"slug"`
	Locales map[string]CategoryLocale `json:"locales"`
}

// CategoryLocale holds the localized name and data files of a category.
type CategoryLocale struct {
	Name          string   `json:"name"`
	ProfileAmount int      `json:"profileAmount"`
	Files         []string `json:"files"`
}

// ProfilesData is the decoded content of one category data file.
type ProfilesData struct {
	Version  string           `json:"version,omitempty"`
	Profiles []domain.Profile `json:"profiles"`
}

// Client fetches catalog content. Implementations own transport concerns
// (caching, retries, backoff); the core only depends on the result shape.
type Client interface {
	FetchManifest(ctx context.Context) (Manifest, error)
	FetchProfilesByCategory(ctx context.Context, locale, slug string) (ProfilesData, error)
}

// ProfileAmount returns how many profiles the category offers in a locale.
func (m Manifest) ProfileAmount(locale, slug string) int {
	for _, category := range m.Categories {
		if category.Slug != slug {
			continue
		}
		if entry, ok := category.Locales[locale]; ok {
			return entry.ProfileAmount
		}
		return 0
	}
	return 0
}

// CategorySlugs lists the categories available in a locale.
func (m Manifest) CategorySlugs(locale string) []string {
	slugs := make([]string, 0, len(m.Categories))
	for _, category := range m.Categories {
		if _, ok := category.Locales[locale]; ok {
			slugs = append(slugs, category.Slug)
		}
	}
	return slugs
}
