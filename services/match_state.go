package services

import "github.com/Dosada05/tkd-competition/models"

// isClosed reports whether the match no longer accepts scoring actions.
func isClosed(m *models.Match) bool {
	return m.ScheduleStatus == models.ScheduleFinished || m.ScheduleStatus == models.ScheduleCancelled
}

// applyAction folds one action into the match row.
// Statuses follow the timing actions; scoring actions only move the running totals.
func applyAction(m *models.Match, a *models.MatchAction) {
	switch a.Action {
	case models.ActionMatchLoaded:
		m.ScheduleStatus = models.ScheduleGettingReady
	case models.ActionMatchStart, models.ActionRoundStart:
		m.ScheduleStatus = models.ScheduleRunning
		if m.ResultStatus == models.ResultUnconfirmed {
			m.ResultStatus = models.ResultLive
		}
		if m.ActualStart == nil {
			started := a.Timestamp
			m.ActualStart = &started
		}
	case models.ActionMatchEnd:
		m.ScheduleStatus = models.ScheduleFinished
		m.ResultStatus = models.ResultUnconfirmed
	}

	if a.Round > 0 {
		m.Round = a.Round
	}
	if a.RoundTime != nil {
		m.RoundTime = a.RoundTime
	}

	if a.Action.IsScoring() {
		m.HomeScore += a.HomeScore
		m.AwayScore += a.AwayScore
		m.HomePenalties += a.HomePenalties
		m.AwayPenalties += a.AwayPenalties
	}
}

var adminStatuses = map[models.ScheduleStatus]bool{
	models.ScheduleDelayed:     true,
	models.ScheduleCancelled:   true,
	models.SchedulePostponed:   true,
	models.ScheduleRescheduled: true,
	models.ScheduleInterrupted: true,
}

var resumableStatuses = map[models.ScheduleStatus]bool{
	models.ScheduleDelayed:     true,
	models.SchedulePostponed:   true,
	models.ScheduleRescheduled: true,
	models.ScheduleInterrupted: true,
}

// checkScheduleTransition validates an administrative schedule change.
// FINISHED, GETTING_READY and RUNNING are only reached through scoring actions or an official result.
func checkScheduleTransition(from, to models.ScheduleStatus) error {
	switch {
	case from == models.ScheduleFinished || from == models.ScheduleCancelled:
		return withDetail(ErrInvalidStatusTransition, "%s -> %s", from, to)
	case adminStatuses[to]:
		if from == to {
			return withDetail(ErrInvalidStatusTransition, "match is already %s", to)
		}
		return nil
	case to == models.ScheduleScheduled:
		if resumableStatuses[from] {
			return nil
		}
		return withDetail(ErrInvalidStatusTransition, "%s -> %s", from, to)
	case to == models.ScheduleFinished, to == models.ScheduleRunning, to == models.ScheduleGettingReady:
		return withDetail(ErrInvalidStatusTransition, "%s is driven by match actions or results", to)
	}
	return withDetail(ErrInvalidScheduleStatus, "%q", to)
}

// checkResultTransition validates a submitted result status against the match.
// PROTESTED is only reachable once the match has an official result.
func checkResultTransition(current, next models.ResultStatus) error {
	if !next.IsValid() {
		return withDetail(ErrInvalidResult, "unknown result status %q", next)
	}
	if next == models.ResultProtested && current != models.ResultOfficial && current != models.ResultProtested {
		return withDetail(ErrInvalidStatusTransition, "%s -> %s", current, next)
	}
	return nil
}

// decideOutcome resolves winner and loser of a result. Explicit WIN/LOSS types take
// precedence over the score; equal scores without types mean no winner.
func decideOutcome(m *models.Match, r *models.MatchResult) (winner, loser *int) {
	home, away := m.HomeCompetitorID, m.AwayCompetitorID
	switch {
	case r.HomeType != nil && *r.HomeType == models.ResultTypeWin,
		r.AwayType != nil && *r.AwayType == models.ResultTypeLoss:
		return home, away
	case r.AwayType != nil && *r.AwayType == models.ResultTypeWin,
		r.HomeType != nil && *r.HomeType == models.ResultTypeLoss:
		return away, home
	case r.HomeType != nil && *r.HomeType == models.ResultTypeDraw:
		return nil, nil
	case r.HomeScore > r.AwayScore:
		return home, away
	case r.AwayScore > r.HomeScore:
		return away, home
	}
	return nil, nil
}
