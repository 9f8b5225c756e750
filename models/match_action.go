package models

import "time"

type ActionType string

const (
	ActionMatchLoaded ActionType = "MATCH_LOADED"
	ActionMatchStart  ActionType = "MATCH_START"
	ActionRoundStart  ActionType = "ROUND_START"
	ActionRoundEnd    ActionType = "ROUND_END"
	ActionMatchEnd    ActionType = "MATCH_END"

	ActionScoreHomePunch ActionType = "SCORE_HOME_PUNCH"
	ActionScoreHomeKick  ActionType = "SCORE_HOME_KICK"
	ActionScoreHomeHead  ActionType = "SCORE_HOME_HEAD"
	ActionScoreHomeTKick ActionType = "SCORE_HOME_TKICK"
	ActionScoreHomeTHead ActionType = "SCORE_HOME_THEAD"
	ActionScoreAwayPunch ActionType = "SCORE_AWAY_PUNCH"
	ActionScoreAwayKick  ActionType = "SCORE_AWAY_KICK"
	ActionScoreAwayHead  ActionType = "SCORE_AWAY_HEAD"
	ActionScoreAwayTKick ActionType = "SCORE_AWAY_TKICK"
	ActionScoreAwayTHead ActionType = "SCORE_AWAY_THEAD"

	ActionPenaltyHome ActionType = "PENALTY_HOME"
	ActionPenaltyAway ActionType = "PENALTY_AWAY"

	ActionInvalidateHomeScore   ActionType = "INVALIDATE_HOME_SCORE"
	ActionInvalidateAwayScore   ActionType = "INVALIDATE_AWAY_SCORE"
	ActionInvalidateHomePenalty ActionType = "INVALIDATE_HOME_PENALTY"
	ActionInvalidateAwayPenalty ActionType = "INVALIDATE_AWAY_PENALTY"

	ActionAdjustScore   ActionType = "ADJUST_SCORE"
	ActionAdjustPenalty ActionType = "ADJUST_PENALTY"

	ActionVideoReplayHome ActionType = "VIDEO_REPLAY_HOME"
	ActionVideoReplayAway ActionType = "VIDEO_REPLAY_AWAY"
)

var actionTypes = map[ActionType]struct{}{
	ActionMatchLoaded: {}, ActionMatchStart: {}, ActionRoundStart: {}, ActionRoundEnd: {}, ActionMatchEnd: {},
	ActionScoreHomePunch: {}, ActionScoreHomeKick: {}, ActionScoreHomeHead: {}, ActionScoreHomeTKick: {}, ActionScoreHomeTHead: {},
	ActionScoreAwayPunch: {}, ActionScoreAwayKick: {}, ActionScoreAwayHead: {}, ActionScoreAwayTKick: {}, ActionScoreAwayTHead: {},
	ActionPenaltyHome: {}, ActionPenaltyAway: {},
	ActionInvalidateHomeScore: {}, ActionInvalidateAwayScore: {}, ActionInvalidateHomePenalty: {}, ActionInvalidateAwayPenalty: {},
	ActionAdjustScore: {}, ActionAdjustPenalty: {},
	ActionVideoReplayHome: {}, ActionVideoReplayAway: {},
}

func (a ActionType) IsValid() bool {
	_, ok := actionTypes[a]
	return ok
}

// IsScoring reports whether the action may carry score or penalty deltas.
func (a ActionType) IsScoring() bool {
	switch a {
	case ActionMatchLoaded, ActionMatchStart, ActionRoundStart, ActionRoundEnd, ActionMatchEnd,
		ActionVideoReplayHome, ActionVideoReplayAway:
		return false
	}
	return a.IsValid()
}

type ActionSource string

const (
	SourceHome     ActionSource = "HOME"
	SourceAway     ActionSource = "AWAY"
	SourceCR       ActionSource = "CR" // computer referee (PSS)
	SourceOperator ActionSource = "OPERATOR"
)

// MatchAction is one immutable entry of a match's action log.
// Position is assigned by the server; ClientPosition only records what the sender claimed.
type MatchAction struct {
	ID             int          `json:"id" db:"id"`
	MatchID        int          `json:"match_id" db:"match_id"`
	Position       int          `json:"position" db:"position"`
	Action         ActionType   `json:"action" db:"action"`
	HitLevel       *int         `json:"hit_level,omitempty" db:"hit_level"`
	Round          int          `json:"round" db:"round"`
	RoundTime      *string      `json:"round_time,omitempty" db:"round_time"`
	HomeScore      int          `json:"home_score" db:"home_score"`
	AwayScore      int          `json:"away_score" db:"away_score"`
	HomePenalties  int          `json:"home_penalties" db:"home_penalties"`
	AwayPenalties  int          `json:"away_penalties" db:"away_penalties"`
	Source         ActionSource `json:"source" db:"source"`
	CompetitorID   *int         `json:"competitor_id,omitempty" db:"competitor_id"`
	Description    *string      `json:"description,omitempty" db:"description"`
	ClientPosition *int         `json:"client_position,omitempty" db:"client_position"`
	Timestamp      time.Time    `json:"timestamp" db:"timestamp"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}
