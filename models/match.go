package models

import "time"

// Phase is the bracket round tag of a match.
type Phase string

const (
	PhaseFinal        Phase = "F"
	PhaseSemiFinal    Phase = "SF"
	PhaseQuarterFinal Phase = "QF"
	PhaseR16          Phase = "R16"
	PhaseR32          Phase = "R32"
	PhaseR64          Phase = "R64"
	PhaseR128         Phase = "R128"
	PhaseBronzeMedal  Phase = "BMC"
	PhaseGoldMedal    Phase = "GMC"
	PhaseRepechage    Phase = "REP"
	PhasePool         Phase = "POOL"
)

func (p Phase) IsValid() bool {
	switch p {
	case PhaseFinal, PhaseSemiFinal, PhaseQuarterFinal, PhaseR16, PhaseR32, PhaseR64, PhaseR128,
		PhaseBronzeMedal, PhaseGoldMedal, PhaseRepechage, PhasePool:
		return true
	}
	return false
}

// ScheduleStatus - логистическое состояние матча.
type ScheduleStatus string

const (
	ScheduleScheduled    ScheduleStatus = "SCHEDULED"
	ScheduleGettingReady ScheduleStatus = "GETTING_READY"
	ScheduleRunning      ScheduleStatus = "RUNNING"
	ScheduleFinished     ScheduleStatus = "FINISHED"
	ScheduleDelayed      ScheduleStatus = "DELAYED"
	ScheduleCancelled    ScheduleStatus = "CANCELLED"
	SchedulePostponed    ScheduleStatus = "POSTPONED"
	ScheduleRescheduled  ScheduleStatus = "RESCHEDULED"
	ScheduleInterrupted  ScheduleStatus = "INTERRUPTED"
)

// ResultStatus - степень официальности результата матча.
type ResultStatus string

const (
	ResultUnconfirmed  ResultStatus = "UNCONFIRMED"
	ResultLive         ResultStatus = "LIVE"
	ResultIntermediate ResultStatus = "INTERMEDIATE"
	ResultUnofficial   ResultStatus = "UNOFFICIAL"
	ResultOfficial     ResultStatus = "OFFICIAL"
	ResultProtested    ResultStatus = "PROTESTED"
)

func (s ResultStatus) IsValid() bool {
	switch s {
	case ResultUnconfirmed, ResultLive, ResultIntermediate, ResultUnofficial, ResultOfficial, ResultProtested:
		return true
	}
	return false
}

type Match struct {
	ID                int            `json:"id" db:"id"`
	EventID           int            `json:"event_id" db:"event_id"`
	SessionID         *int           `json:"session_id,omitempty" db:"session_id"`
	Mat               int            `json:"mat" db:"mat"`
	Number            string         `json:"number" db:"number"`
	Phase             Phase          `json:"phase" db:"phase"`
	PositionReference string         `json:"position_reference" db:"position_reference"`
	HomeCompetitorID  *int           `json:"home_competitor_id,omitempty" db:"home_competitor_id"`
	AwayCompetitorID  *int           `json:"away_competitor_id,omitempty" db:"away_competitor_id"`
	ScheduleStatus    ScheduleStatus `json:"schedule_status" db:"schedule_status"`
	ResultStatus      ResultStatus   `json:"result_status" db:"result_status"`
	ResultDecision    *VictoryType   `json:"result_decision,omitempty" db:"result_decision"`
	Round             int            `json:"round" db:"round"`
	RoundTime         *string        `json:"round_time,omitempty" db:"round_time"`
	HomeScore         int            `json:"home_score" db:"home_score"`
	AwayScore         int            `json:"away_score" db:"away_score"`
	HomePenalties     int            `json:"home_penalties" db:"home_penalties"`
	AwayPenalties     int            `json:"away_penalties" db:"away_penalties"`
	ScheduledStart    *time.Time     `json:"scheduled_start,omitempty" db:"scheduled_start"`
	EstimatedStart    *time.Time     `json:"estimated_start,omitempty" db:"estimated_start"`
	ActualStart       *time.Time     `json:"actual_start,omitempty" db:"actual_start"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`

	Configuration *MatchConfiguration `json:"configuration,omitempty" db:"-"`
	Actions       []MatchAction       `json:"actions,omitempty" db:"-"`
	Results       []MatchResult       `json:"results,omitempty" db:"-"`
}

// Side returns "HOME" or "AWAY" for a competitor of this match, or "" if they are not in it.
func (m *Match) Side(competitorID int) string {
	if m.HomeCompetitorID != nil && *m.HomeCompetitorID == competitorID {
		return SideHome
	}
	if m.AwayCompetitorID != nil && *m.AwayCompetitorID == competitorID {
		return SideAway
	}
	return ""
}

const (
	SideHome = "HOME"
	SideAway = "AWAY"
)
