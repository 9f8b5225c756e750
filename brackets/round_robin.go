package brackets

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/tkd-competition/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// Pairing is one round robin fixture, given as indexes into the competitor list.
type Pairing struct {
	Home int
	Away int
}

// RoundRobinPairings returns every unordered pair in index order. With a cap, pairs are kept
// greedily in that order while neither competitor has reached it, so some competitors can
// end up below the cap.
func RoundRobinPairings(n int, matchesPerAthlete *int) []Pairing {
	pairings := make([]Pairing, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairings = append(pairings, Pairing{Home: i, Away: j})
		}
	}
	if matchesPerAthlete == nil {
		return pairings
	}

	limit := *matchesPerAthlete
	counts := make([]int, n)
	kept := make([]Pairing, 0, len(pairings))
	for _, p := range pairings {
		if counts[p.Home] < limit && counts[p.Away] < limit {
			kept = append(kept, p)
			counts[p.Home]++
			counts[p.Away]++
		}
	}
	return kept
}

// PoolMatchNumber is the pool-scoped match number, e.g. P0007-03.
func PoolMatchNumber(poolID, order int) string {
	return fmt.Sprintf("P%04d-%02d", poolID, order)
}

func poolPositionReference(poolID, order int) string {
	return fmt.Sprintf("P%04d-%d", poolID, order)
}

// GenerateBracket creates the pool fixtures. OrderInRound is the match order inside the pool.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	if params.Pool == nil {
		return nil, errors.New("RoundRobinGenerator: pool is required")
	}
	competitors := params.Competitors
	if len(competitors) < 2 {
		return nil, ErrNotEnoughCompetitors
	}

	pairings := RoundRobinPairings(len(competitors), params.Pool.MatchesPerAthlete)
	matches := make([]*BracketMatch, 0, len(pairings))
	for k, p := range pairings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		order := k + 1
		homeID := competitors[p.Home].ID
		awayID := competitors[p.Away].ID
		matches = append(matches, &BracketMatch{
			UID:              poolPositionReference(params.Pool.ID, order),
			Phase:            models.PhasePool,
			OrderInRound:     order,
			Number:           PoolMatchNumber(params.Pool.ID, order),
			HomeSlot:         p.Home,
			AwaySlot:         p.Away,
			HomeCompetitorID: &homeID,
			AwayCompetitorID: &awayID,
		})
	}
	return matches, nil
}
