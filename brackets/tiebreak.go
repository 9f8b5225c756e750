package brackets

import (
	"fmt"
	"hash/fnv"

	"github.com/Dosada05/tkd-competition/models"
)

// Comparator returns a negative number when a ranks ahead of b, positive when b does, 0 on a tie.
type Comparator func(a, b *models.PoolStanding) int

// headToHead holds wins[x][y]: how many direct matches x won against y.
type headToHead map[int]map[int]int

func (h headToHead) wins(x, y int) int {
	if row, ok := h[x]; ok {
		return row[y]
	}
	return 0
}

func (h headToHead) record(winner, loser int) {
	if _, ok := h[winner]; !ok {
		h[winner] = make(map[int]int)
	}
	h[winner][loser]++
}

func desc(a, b int) int { return b - a }
func asc(a, b int) int  { return a - b }

func byTotalPoints(a, b *models.PoolStanding) int {
	return desc(a.TotalPoints, b.TotalPoints)
}

// BuildComparators turns the configured criteria into a comparator pipeline.
// An empty list falls back to models.DefaultTieBreakers.
func BuildComparators(poolID int, criteria []models.TieBreakCriterion, h2h headToHead) ([]Comparator, error) {
	if len(criteria) == 0 {
		criteria = models.DefaultTieBreakers
	}
	comparators := make([]Comparator, 0, len(criteria)+1)
	comparators = append(comparators, byTotalPoints)

	for _, c := range criteria {
		switch c {
		case models.TieBreakPointsDifference:
			comparators = append(comparators, func(a, b *models.PoolStanding) int {
				return desc(a.PointsDifference, b.PointsDifference)
			})
		case models.TieBreakPointsFor:
			comparators = append(comparators, func(a, b *models.PoolStanding) int {
				return desc(a.PointsFor, b.PointsFor)
			})
		case models.TieBreakPointsAgainst:
			comparators = append(comparators, func(a, b *models.PoolStanding) int {
				return asc(a.PointsAgainst, b.PointsAgainst)
			})
		case models.TieBreakWins:
			comparators = append(comparators, func(a, b *models.PoolStanding) int {
				return desc(a.Wins, b.Wins)
			})
		case models.TieBreakHeadToHead:
			comparators = append(comparators, func(a, b *models.PoolStanding) int {
				return desc(h2h.wins(a.CompetitorID, b.CompetitorID), h2h.wins(b.CompetitorID, a.CompetitorID))
			})
		case models.TieBreakRandom:
			// Seeded by pool so that recomputing gives the same order.
			comparators = append(comparators, func(a, b *models.PoolStanding) int {
				ha, hb := drawKey(poolID, a.CompetitorID), drawKey(poolID, b.CompetitorID)
				switch {
				case ha < hb:
					return -1
				case ha > hb:
					return 1
				}
				return 0
			})
		default:
			return nil, fmt.Errorf("unknown tie-break criterion %q", c)
		}
	}
	return comparators, nil
}

func drawKey(poolID, competitorID int) uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%d", poolID, competitorID)
	return h.Sum32()
}

func compareAll(comparators []Comparator, a, b *models.PoolStanding) int {
	for _, cmp := range comparators {
		if r := cmp(a, b); r != 0 {
			return r
		}
	}
	return 0
}
