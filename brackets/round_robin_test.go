package brackets

import (
	"context"
	"testing"

	"github.com/Dosada05/tkd-competition/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinPairings_AllPairs(t *testing.T) {
	pairings := RoundRobinPairings(4, nil)

	assert.Equal(t, []Pairing{
		{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
	}, pairings)
}

func TestRoundRobinPairings_GreedyCap(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		limit  int
		want   []Pairing
		counts []int
	}{
		{
			name:   "cap of one on four competitors",
			n:      4,
			limit:  1,
			want:   []Pairing{{0, 1}, {2, 3}},
			counts: []int{1, 1, 1, 1},
		},
		{
			name:   "greedy scan leaves the last competitors under the cap",
			n:      5,
			limit:  2,
			want:   []Pairing{{0, 1}, {0, 2}, {1, 2}, {3, 4}},
			counts: []int{2, 2, 2, 1, 1},
		},
		{
			name:   "cap above n-1 changes nothing",
			n:      3,
			limit:  5,
			want:   []Pairing{{0, 1}, {0, 2}, {1, 2}},
			counts: []int{2, 2, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit := tt.limit
			got := RoundRobinPairings(tt.n, &limit)
			assert.Equal(t, tt.want, got)

			counts := make([]int, tt.n)
			for _, p := range got {
				counts[p.Home]++
				counts[p.Away]++
			}
			assert.Equal(t, tt.counts, counts)
		})
	}
}

func TestRoundRobinGenerator(t *testing.T) {
	competitors := []*models.Competitor{{ID: 11}, {ID: 12}, {ID: 13}}
	pool := &models.Pool{ID: 7}

	matches, err := NewRoundRobinGenerator().GenerateBracket(context.Background(), GenerateBracketParams{
		Competitors: competitors,
		Pool:        pool,
	})
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "P0007-01", matches[0].Number)
	assert.Equal(t, "P0007-1", matches[0].UID)
	assert.Equal(t, models.PhasePool, matches[0].Phase)
	assert.Equal(t, 11, *matches[0].HomeCompetitorID)
	assert.Equal(t, 12, *matches[0].AwayCompetitorID)

	assert.Equal(t, "P0007-03", matches[2].Number)
	assert.Equal(t, 3, matches[2].OrderInRound)
	assert.Equal(t, 12, *matches[2].HomeCompetitorID)
	assert.Equal(t, 13, *matches[2].AwayCompetitorID)
}

func TestPoolMatchNumber_KeepsFullPoolID(t *testing.T) {
	assert.Equal(t, "P0001-02", PoolMatchNumber(1, 2))
	assert.Equal(t, "P10001-02", PoolMatchNumber(10001, 2))
	assert.NotEqual(t, PoolMatchNumber(1, 2), PoolMatchNumber(10001, 2))
	assert.NotEqual(t, poolPositionReference(1, 2), poolPositionReference(10001, 2))
}

func TestRoundRobinGenerator_InvalidInput(t *testing.T) {
	gen := NewRoundRobinGenerator()

	_, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
		Competitors: []*models.Competitor{{ID: 1}},
		Pool:        &models.Pool{ID: 1},
	})
	assert.ErrorIs(t, err, ErrNotEnoughCompetitors)

	_, err = gen.GenerateBracket(context.Background(), GenerateBracketParams{
		Competitors: []*models.Competitor{{ID: 1}, {ID: 2}},
	})
	assert.Error(t, err)
}
