package domain

import "sort"

// Ranking is one scoreboard row.
type Ranking struct {
	Rank   int    `json:"rank"`
	Player Player `json:"player"`
}

// Rankings orders players by score descending using competition ranking:
// equal scores share a rank equal to one plus the count of strictly higher
// scores, so ties produce sequences like 1, 2, 2, 4.
func Rankings(players []Player) []Ranking {
	sorted := append([]Player(nil), players...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	rankings := make([]Ranking, len(sorted))
	for i, player := range sorted {
		rank := i + 1
		if i > 0 && player.Score == sorted[i-1].Score {
			rank = rankings[i-1].Rank
		}
		rankings[i] = Ranking{Rank: rank, Player: player}
	}
	return rankings
}
