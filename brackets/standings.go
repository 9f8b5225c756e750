package brackets

import (
	"sort"

	"github.com/Dosada05/tkd-competition/models"
)

// MatchOutcome is a finished pool match reduced to its latest official score.
type MatchOutcome struct {
	MatchID          int
	HomeCompetitorID int
	AwayCompetitorID int
	HomeScore        int
	AwayScore        int
}

// ComputeStandings recomputes a pool table from scratch. Wins, draws and losses are decided by
// score only; standings points use the pool's win/draw/loss values. The returned rows are in
// rank order and every pool competitor gets a row, even without matches.
func ComputeStandings(pool *models.Pool, competitorIDs []int, outcomes []MatchOutcome) ([]*models.PoolStanding, error) {
	win, draw, loss := pool.PointsForWin, pool.PointsForDraw, pool.PointsForLoss
	// 0 означает, что из группы никто не выходит.
	qualifying := pool.QualifyingPlaces

	rows := make(map[int]*models.PoolStanding, len(competitorIDs))
	ordered := make([]*models.PoolStanding, 0, len(competitorIDs))
	for _, id := range competitorIDs {
		if _, dup := rows[id]; dup {
			continue
		}
		s := &models.PoolStanding{PoolID: pool.ID, CompetitorID: id}
		rows[id] = s
		ordered = append(ordered, s)
	}

	h2h := make(headToHead)
	for _, o := range outcomes {
		home, okHome := rows[o.HomeCompetitorID]
		away, okAway := rows[o.AwayCompetitorID]
		if !okHome || !okAway {
			continue
		}
		home.MatchesPlayed++
		away.MatchesPlayed++
		home.PointsFor += o.HomeScore
		home.PointsAgainst += o.AwayScore
		away.PointsFor += o.AwayScore
		away.PointsAgainst += o.HomeScore

		switch {
		case o.HomeScore > o.AwayScore:
			home.Wins++
			away.Losses++
			home.TotalPoints += win
			away.TotalPoints += loss
			h2h.record(o.HomeCompetitorID, o.AwayCompetitorID)
		case o.HomeScore < o.AwayScore:
			away.Wins++
			home.Losses++
			away.TotalPoints += win
			home.TotalPoints += loss
			h2h.record(o.AwayCompetitorID, o.HomeCompetitorID)
		default:
			home.Draws++
			away.Draws++
			home.TotalPoints += draw
			away.TotalPoints += draw
		}
	}

	for _, s := range ordered {
		s.PointsDifference = s.PointsFor - s.PointsAgainst
	}

	comparators, err := BuildComparators(pool.ID, pool.TieBreakers, h2h)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return compareAll(comparators, ordered[i], ordered[j]) < 0
	})

	for i, s := range ordered {
		rank := i + 1
		s.Rank = &rank
		s.Qualified = rank <= qualifying
	}
	return ordered, nil
}
