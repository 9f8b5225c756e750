package brackets

import (
	"context"
	"fmt"
	"math/bits"
	"sort"
	"strconv"

	"github.com/Dosada05/tkd-competition/models"
)

var phaseBySize = map[int]models.Phase{
	2:   models.PhaseFinal,
	4:   models.PhaseSemiFinal,
	8:   models.PhaseQuarterFinal,
	16:  models.PhaseR16,
	32:  models.PhaseR32,
	64:  models.PhaseR64,
	128: models.PhaseR128,
}

var nextPhase = map[models.Phase]models.Phase{
	models.PhaseR128:         models.PhaseR64,
	models.PhaseR64:          models.PhaseR32,
	models.PhaseR32:          models.PhaseR16,
	models.PhaseR16:          models.PhaseQuarterFinal,
	models.PhaseQuarterFinal: models.PhaseSemiFinal,
	models.PhaseSemiFinal:    models.PhaseFinal,
}

// BracketSize returns the smallest power of two that fits n competitors.
func BracketSize(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func PhaseForSize(size int) (models.Phase, error) {
	if size > MaxBracketSize {
		return "", ErrBracketTooLarge
	}
	phase, ok := phaseBySize[size]
	if !ok {
		return "", fmt.Errorf("unsupported bracket size %d", size)
	}
	return phase, nil
}

// SortBySeed orders competitors by ascending seed; unseeded competitors go last in their original order.
func SortBySeed(competitors []*models.Competitor) []*models.Competitor {
	sorted := make([]*models.Competitor, len(competitors))
	copy(sorted, competitors)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Seed, sorted[j].Seed
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		default:
			return false
		}
	})
	return sorted
}

func positionReference(phase models.Phase, order int) string {
	return string(phase) + "-" + strconv.Itoa(order)
}

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket builds the first round: pairing i puts seed slot i against slot size-1-i.
// Slots at or beyond the number of competitors are byes; bye pairings are returned but never numbered.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	n := len(params.Competitors)
	if n < 2 {
		return nil, ErrNotEnoughCompetitors
	}
	if n > MaxBracketSize {
		return nil, ErrBracketTooLarge
	}

	size := BracketSize(n)
	phase, err := PhaseForSize(size)
	if err != nil {
		return nil, err
	}

	sorted := SortBySeed(params.Competitors)
	half := size / 2
	number := params.BaseMatchNumber
	matches := make([]*BracketMatch, 0, half)

	for i := 0; i < half; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		homeSlot, awaySlot := i, size-1-i
		bm := &BracketMatch{
			UID:          positionReference(phase, i+1),
			Phase:        phase,
			OrderInRound: i + 1,
			HomeSlot:     homeSlot,
			AwaySlot:     awaySlot,
		}
		if next, ok := nextPhase[phase]; ok {
			j := min(i, half-1-i)
			bm.NextUID = positionReference(next, j+1)
			bm.NextSide = models.SideAway
			if i < half/2 {
				bm.NextSide = models.SideHome
			}
		}

		if homeSlot < n {
			id := sorted[homeSlot].ID
			bm.HomeCompetitorID = &id
		}
		if awaySlot < n {
			id := sorted[awaySlot].ID
			bm.AwayCompetitorID = &id
		}

		switch {
		case bm.HomeCompetitorID != nil && bm.AwayCompetitorID != nil:
			bm.Number = strconv.Itoa(number)
			number++
		case bm.HomeCompetitorID != nil:
			bm.IsBye = true
			bm.ByeCompetitorID = bm.HomeCompetitorID
		default:
			bm.IsBye = true
			bm.ByeCompetitorID = bm.AwayCompetitorID
		}
		matches = append(matches, bm)
	}

	return matches, nil
}

// ByeAdvance records a competitor moving through a bye into a slot of the next round.
type ByeAdvance struct {
	CompetitorID int    `json:"competitor_id"`
	FromUID      string `json:"from"`
	ToUID        string `json:"to"`
	Side         string `json:"side"`
}

// AdvanceByes is the opt-in walkover step. It lists every bye advancement and returns the
// next-round matches whose both slots are filled by byes, numbered after nextNumber.
// Next-round slots still waiting on a real first-round match are left alone.
func AdvanceByes(firstRound []*BracketMatch, nextNumber int) ([]ByeAdvance, []*BracketMatch) {
	advances := make([]ByeAdvance, 0)
	slots := make(map[string]*BracketMatch)
	order := make([]string, 0)
	feeders := make(map[string]int)

	for _, bm := range firstRound {
		if bm.NextUID == "" {
			continue
		}
		feeders[bm.NextUID]++
		if !bm.IsBye || bm.ByeCompetitorID == nil {
			continue
		}
		advances = append(advances, ByeAdvance{
			CompetitorID: *bm.ByeCompetitorID,
			FromUID:      bm.UID,
			ToUID:        bm.NextUID,
			Side:         bm.NextSide,
		})

		next, ok := slots[bm.NextUID]
		if !ok {
			next = &BracketMatch{
				UID:   bm.NextUID,
				Phase: nextPhase[bm.Phase],
			}
			slots[bm.NextUID] = next
			order = append(order, bm.NextUID)
		}
		id := *bm.ByeCompetitorID
		if bm.NextSide == models.SideHome {
			next.HomeCompetitorID = &id
			next.HomeSlot = bm.HomeSlot
		} else {
			next.AwayCompetitorID = &id
			// Участник с байем всегда стоит в HomeSlot: homeSlot < awaySlot.
			next.AwaySlot = bm.HomeSlot
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return orderOf(order[i]) < orderOf(order[j])
	})

	ready := make([]*BracketMatch, 0)
	for _, uid := range order {
		next := slots[uid]
		if feeders[uid] != 2 || next.HomeCompetitorID == nil || next.AwayCompetitorID == nil {
			continue
		}
		next.OrderInRound = orderOf(uid)
		next.Number = strconv.Itoa(nextNumber)
		nextNumber++
		ready = append(ready, next)
	}
	return advances, ready
}

func orderOf(uid string) int {
	for i := len(uid) - 1; i >= 0; i-- {
		if uid[i] == '-' {
			n, err := strconv.Atoi(uid[i+1:])
			if err != nil {
				return 0
			}
			return n
		}
	}
	return 0
}
