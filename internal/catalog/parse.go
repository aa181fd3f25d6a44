package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/whoisit/internal/errors"
)

// DecodeManifest parses and validates raw manifest JSON.
func DecodeManifest(payload []byte) (Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(payload, &manifest); err != nil {
		return Manifest{}, errors.Wrap(errors.CodeCatalogInvalid, "decode manifest", err)
	}
	if len(manifest.Categories) == 0 {
		return Manifest{}, errors.New(errors.CodeCatalogInvalid, "manifest has no categories")
	}
	for _, category := range manifest.Categories {
		if strings.TrimSpace(category.Slug) == "" {
			return Manifest{}, errors.New(errors.CodeCatalogInvalid, "manifest category has an empty slug")
		}
	}
	return manifest, nil
}

// DecodeProfiles parses and validates one category data file. Every profile
// must pass the structural schema; a single bad profile rejects the file.
func DecodeProfiles(payload []byte, slug string) (ProfilesData, error) {
	var data ProfilesData
	if err := json.Unmarshal(payload, &data); err != nil {
		return ProfilesData{}, errors.Wrap(errors.CodeCatalogInvalid,
			fmt.Sprintf("decode profiles for %s", slug), err)
	}
	if len(data.Profiles) == 0 {
		return ProfilesData{}, errors.New(errors.CodeCatalogInvalid,
			fmt.Sprintf("category %s has no profiles", slug))
	}
	for _, profile := range data.Profiles {
		if err := profile.Validate(); err != nil {
			return ProfilesData{}, errors.Wrap(errors.CodeCatalogInvalid,
				fmt.Sprintf("category %s: invalid profile", slug), err)
		}
	}
	return data, nil
}
