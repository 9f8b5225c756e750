package brackets

import (
	"testing"

	"github.com/Dosada05/tkd-competition/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPool(id int) *models.Pool {
	return &models.Pool{
		ID:               id,
		PointsForWin:     models.DefaultPointsForWin,
		PointsForDraw:    models.DefaultPointsForDraw,
		PointsForLoss:    models.DefaultPointsForLoss,
		QualifyingPlaces: models.DefaultQualifyingPlaces,
	}
}

func competitorOrder(rows []*models.PoolStanding) []int {
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.CompetitorID
	}
	return ids
}

func TestComputeStandings_SingleWin(t *testing.T) {
	const a, b = 1, 2
	rows, err := ComputeStandings(defaultPool(1), []int{a, b}, []MatchOutcome{
		{MatchID: 10, HomeCompetitorID: a, AwayCompetitorID: b, HomeScore: 15, AwayScore: 9},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first, second := rows[0], rows[1]
	assert.Equal(t, a, first.CompetitorID)
	assert.Equal(t, 1, first.Wins)
	assert.Equal(t, 3, first.TotalPoints)
	assert.Equal(t, 6, first.PointsDifference)
	assert.Equal(t, 1, *first.Rank)
	assert.True(t, first.Qualified)

	assert.Equal(t, b, second.CompetitorID)
	assert.Equal(t, 0, second.Wins)
	assert.Equal(t, 1, second.Losses)
	assert.Equal(t, 0, second.TotalPoints)
	assert.Equal(t, -6, second.PointsDifference)
	assert.Equal(t, 2, *second.Rank)
}

func TestComputeStandings_DrawAndUnplayed(t *testing.T) {
	pool := defaultPool(1)
	pool.QualifyingPlaces = 1

	rows, err := ComputeStandings(pool, []int{1, 2, 3}, []MatchOutcome{
		{HomeCompetitorID: 1, AwayCompetitorID: 2, HomeScore: 4, AwayScore: 4},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []int{1, 2, 3}, competitorOrder(rows))
	assert.Equal(t, 1, rows[0].Draws)
	assert.Equal(t, 1, rows[0].TotalPoints)
	assert.Equal(t, 1, rows[1].TotalPoints)
	assert.Equal(t, 0, rows[2].MatchesPlayed)
	assert.True(t, rows[0].Qualified)
	assert.False(t, rows[1].Qualified)
	assert.False(t, rows[2].Qualified)
}

func TestComputeStandings_IgnoresOutsiders(t *testing.T) {
	rows, err := ComputeStandings(defaultPool(1), []int{1, 2}, []MatchOutcome{
		{HomeCompetitorID: 1, AwayCompetitorID: 99, HomeScore: 10, AwayScore: 0},
	})
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, 0, r.MatchesPlayed)
	}
}

// tiedPair builds a table where competitors 1 and 2 tie on points, difference and points for,
// and 1 won their direct match.
func tiedPair() ([]int, []MatchOutcome) {
	return []int{2, 1, 3, 4}, []MatchOutcome{
		{HomeCompetitorID: 1, AwayCompetitorID: 2, HomeScore: 6, AwayScore: 5},
		{HomeCompetitorID: 1, AwayCompetitorID: 3, HomeScore: 5, AwayScore: 6},
		{HomeCompetitorID: 2, AwayCompetitorID: 4, HomeScore: 6, AwayScore: 5},
	}
}

func TestComputeStandings_DefaultPipelineLeavesTiesInInputOrder(t *testing.T) {
	ids, outcomes := tiedPair()
	rows, err := ComputeStandings(defaultPool(1), ids, outcomes)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 2, 1, 4}, competitorOrder(rows))
}

func TestComputeStandings_HeadToHeadStage(t *testing.T) {
	ids, outcomes := tiedPair()
	pool := defaultPool(1)
	pool.TieBreakers = []models.TieBreakCriterion{
		models.TieBreakPointsDifference,
		models.TieBreakHeadToHead,
		models.TieBreakPointsFor,
	}

	rows, err := ComputeStandings(pool, ids, outcomes)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 1, 2, 4}, competitorOrder(rows))
}

func TestComputeStandings_PointsAgainstAndWins(t *testing.T) {
	pool := defaultPool(1)
	pool.PointsForDraw = 3

	// 1 and 2 both have 6 points: 1 through two scoreless draws, 2 through two wins.
	ids := []int{1, 2, 3, 4}
	outcomes := []MatchOutcome{
		{HomeCompetitorID: 1, AwayCompetitorID: 3, HomeScore: 0, AwayScore: 0},
		{HomeCompetitorID: 1, AwayCompetitorID: 4, HomeScore: 0, AwayScore: 0},
		{HomeCompetitorID: 2, AwayCompetitorID: 3, HomeScore: 9, AwayScore: 5},
		{HomeCompetitorID: 2, AwayCompetitorID: 4, HomeScore: 9, AwayScore: 5},
	}

	pool.TieBreakers = []models.TieBreakCriterion{models.TieBreakPointsAgainst}
	rows, err := ComputeStandings(pool, ids, outcomes)
	require.NoError(t, err)
	assert.Equal(t, 1, rows[0].CompetitorID, "fewer points against ranks first")

	pool.TieBreakers = []models.TieBreakCriterion{models.TieBreakWins}
	rows, err = ComputeStandings(pool, ids, outcomes)
	require.NoError(t, err)
	assert.Equal(t, 2, rows[0].CompetitorID, "more wins ranks first")
}

func TestComputeStandings_ZeroQualifyingPlaces(t *testing.T) {
	const a, b, c = 1, 2, 3
	pool := defaultPool(5)
	pool.QualifyingPlaces = 0

	rows, err := ComputeStandings(pool, []int{a, b, c}, []MatchOutcome{
		{MatchID: 1, HomeCompetitorID: a, AwayCompetitorID: b, HomeScore: 7, AwayScore: 2},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.False(t, r.Qualified, "competitor %d", r.CompetitorID)
	}
	require.NotNil(t, rows[0].Rank)
	assert.Equal(t, 1, *rows[0].Rank)
	assert.Equal(t, a, rows[0].CompetitorID)
}

func TestComputeStandings_Idempotent(t *testing.T) {
	ids, outcomes := tiedPair()
	pool := defaultPool(5)
	pool.TieBreakers = []models.TieBreakCriterion{models.TieBreakRandom}

	first, err := ComputeStandings(pool, ids, outcomes)
	require.NoError(t, err)
	second, err := ComputeStandings(pool, ids, outcomes)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeStandings_UnknownCriterion(t *testing.T) {
	pool := defaultPool(1)
	pool.TieBreakers = []models.TieBreakCriterion{"COIN_TOSS"}

	_, err := ComputeStandings(pool, []int{1, 2}, nil)
	assert.Error(t, err)
}
