// Package selection picks which profiles a game will play.
//
// Rounds are distributed across the chosen categories proportionally to how
// many profiles each category offers, using the largest-remainder method so
// the per-category counts always sum to the requested round count. Profiles
// are then sampled without replacement within each category and the combined
// result is shuffled globally so play order does not group by category.
package selection

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"github.com/louisbranch/whoisit/internal/errors"
	"github.com/louisbranch/whoisit/internal/random"
)

// Select returns roundCount profile ids drawn from pool across categories.
// A nil rng uses a crypto-seeded source.
func Select(pool map[string][]string, categories []string, roundCount int, rng *rand.Rand) ([]string, error) {
	if len(categories) == 0 {
		return nil, errors.New(errors.CodeCategoriesEmpty, "no categories selected")
	}
	sorted := append([]string(nil), categories...)
	sort.Strings(sorted)

	total := 0
	for _, category := range sorted {
		total += len(pool[category])
	}
	if roundCount <= 0 {
		return nil, errors.WithMetadata(errors.CodeInvalidRoundCount,
			fmt.Sprintf("round count must be positive, got %d", roundCount),
			map[string]string{"Max": strconv.Itoa(total)})
	}
	if roundCount > total {
		return nil, errors.WithMetadata(errors.CodeNotEnoughProfiles,
			fmt.Sprintf("requested %d rounds but only %d profiles are available across %d categories (short by %d)",
				roundCount, total, len(sorted), roundCount-total),
			map[string]string{
				"Requested": strconv.Itoa(roundCount),
				"Available": strconv.Itoa(total),
			})
	}

	if rng == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("seed selection rng: %w", err)
		}
		rng = rand.New(rand.NewSource(seed))
	}

	counts := distribute(pool, sorted, roundCount, total)

	selected := make([]string, 0, roundCount)
	for _, category := range sorted {
		ids := append([]string(nil), pool[category]...)
		rng.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
		selected = append(selected, ids[:counts[category]]...)
	}

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected, nil
}

// distribute assigns an integer count per category summing exactly to
// roundCount: floor of the proportional quota first, then one extra to the
// categories with the largest remainders that still have spare profiles.
func distribute(pool map[string][]string, categories []string, roundCount, total int) map[string]int {
	type share struct {
		category  string
		remainder int // quota numerator modulo total, avoids float compare
	}

	counts := make(map[string]int, len(categories))
	shares := make([]share, 0, len(categories))
	assigned := 0
	for _, category := range categories {
		available := len(pool[category])
		quota := roundCount * available
		counts[category] = quota / total
		assigned += quota / total
		shares = append(shares, share{category: category, remainder: quota % total})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].remainder > shares[j].remainder
	})

	for _, s := range shares {
		if assigned >= roundCount {
			break
		}
		if counts[s.category] < len(pool[s.category]) {
			counts[s.category]++
			assigned++
		}
	}

	// Spare capacity pass for the edge where every top remainder was full.
	for _, s := range shares {
		if assigned >= roundCount {
			break
		}
		for assigned < roundCount && counts[s.category] < len(pool[s.category]) {
			counts[s.category]++
			assigned++
		}
	}

	return counts
}
