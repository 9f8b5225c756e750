package models

import "time"

// TieBreakCriterion names one stage of the standings tie-break pipeline.
type TieBreakCriterion string

const (
	TieBreakPointsDifference TieBreakCriterion = "POINTS_DIFFERENCE"
	TieBreakHeadToHead       TieBreakCriterion = "HEAD_TO_HEAD"
	TieBreakPointsFor        TieBreakCriterion = "POINTS_FOR"
	TieBreakPointsAgainst    TieBreakCriterion = "POINTS_AGAINST"
	TieBreakWins             TieBreakCriterion = "WINS"
	TieBreakRandom           TieBreakCriterion = "RANDOM"
)

func (c TieBreakCriterion) IsValid() bool {
	switch c {
	case TieBreakPointsDifference, TieBreakHeadToHead, TieBreakPointsFor, TieBreakPointsAgainst, TieBreakWins, TieBreakRandom:
		return true
	}
	return false
}

// DefaultTieBreakers is the pipeline used when a pool does not configure its own.
var DefaultTieBreakers = []TieBreakCriterion{TieBreakPointsDifference, TieBreakPointsFor}

const (
	DefaultPointsForWin     = 3
	DefaultPointsForDraw    = 1
	DefaultPointsForLoss    = 0
	DefaultQualifyingPlaces = 2
)

type Pool struct {
	ID                int                 `json:"id" db:"id"`
	EventID           int                 `json:"event_id" db:"event_id"`
	Name              string              `json:"name" db:"name"`
	MaxAthletes       int                 `json:"max_athletes" db:"max_athletes"`
	MatchesPerAthlete *int                `json:"matches_per_athlete,omitempty" db:"matches_per_athlete"`
	PointsForWin      int                 `json:"points_for_win" db:"points_for_win"`
	PointsForDraw     int                 `json:"points_for_draw" db:"points_for_draw"`
	PointsForLoss     int                 `json:"points_for_loss" db:"points_for_loss"`
	QualifyingPlaces  int                 `json:"qualifying_places" db:"qualifying_places"`
	TieBreakers       []TieBreakCriterion `json:"tie_breakers" db:"tie_breakers"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
}

type PoolCompetitor struct {
	ID           int       `json:"id" db:"id"`
	PoolID       int       `json:"pool_id" db:"pool_id"`
	CompetitorID int       `json:"competitor_id" db:"competitor_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PoolMatch links a generated match to its pool.
type PoolMatch struct {
	ID         int `json:"id" db:"id"`
	PoolID     int `json:"pool_id" db:"pool_id"`
	MatchID    int `json:"match_id" db:"match_id"`
	MatchOrder int `json:"match_order" db:"match_order"`
}

type PoolStanding struct {
	ID               int       `json:"id" db:"id"`
	PoolID           int       `json:"pool_id" db:"pool_id"`
	CompetitorID     int       `json:"competitor_id" db:"competitor_id"`
	MatchesPlayed    int       `json:"matches_played" db:"matches_played"`
	Wins             int       `json:"wins" db:"wins"`
	Draws            int       `json:"draws" db:"draws"`
	Losses           int       `json:"losses" db:"losses"`
	PointsFor        int       `json:"points_for" db:"points_for"`
	PointsAgainst    int       `json:"points_against" db:"points_against"`
	PointsDifference int       `json:"points_difference" db:"points_difference"`
	TotalPoints      int       `json:"total_points" db:"total_points"`
	Rank             *int      `json:"rank,omitempty" db:"rank"`
	Qualified        bool      `json:"qualified" db:"qualified"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
