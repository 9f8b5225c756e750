package models

import "time"

type VictoryType string

const (
	VictoryFinalScore     VictoryType = "PTF"
	VictoryPointGap       VictoryType = "PTG"
	VictoryGoldenPoint    VictoryType = "GDP"
	VictorySuperiority    VictoryType = "SUP"
	VictoryWithdrawal     VictoryType = "WDR"
	VictoryDisqualified   VictoryType = "DSQ"
	VictoryPunitive       VictoryType = "PUN"
	VictoryRefereeStopped VictoryType = "RSC"
)

func (v VictoryType) IsValid() bool {
	switch v {
	case VictoryFinalScore, VictoryPointGap, VictoryGoldenPoint, VictorySuperiority,
		VictoryWithdrawal, VictoryDisqualified, VictoryPunitive, VictoryRefereeStopped:
		return true
	}
	return false
}

type ResultType string

const (
	ResultTypeWin  ResultType = "WIN"
	ResultTypeLoss ResultType = "LOSS"
	ResultTypeDraw ResultType = "DRAW"
)

type MatchResult struct {
	ID            int          `json:"id" db:"id"`
	MatchID       int          `json:"match_id" db:"match_id"`
	Status        ResultStatus `json:"status" db:"status"`
	Round         *int         `json:"round,omitempty" db:"round"`
	Position      int          `json:"position" db:"position"`
	Decision      VictoryType  `json:"decision" db:"decision"`
	HomeType      *ResultType  `json:"home_type,omitempty" db:"home_type"`
	AwayType      *ResultType  `json:"away_type,omitempty" db:"away_type"`
	HomeScore     int          `json:"home_score" db:"home_score"`
	AwayScore     int          `json:"away_score" db:"away_score"`
	HomePenalties int          `json:"home_penalties" db:"home_penalties"`
	AwayPenalties int          `json:"away_penalties" db:"away_penalties"`
	WinnerID      *int         `json:"winner_id,omitempty" db:"winner_id"`
	LoserID       *int         `json:"loser_id,omitempty" db:"loser_id"`
	Description   *string      `json:"description,omitempty" db:"description"`
	Timestamp     time.Time    `json:"timestamp" db:"timestamp"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}
