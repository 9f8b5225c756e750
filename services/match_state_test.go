package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tkd-competition/models"
)

func intPtr(v int) *int { return &v }

func newScheduledMatch() *models.Match {
	return &models.Match{
		ID:               1,
		HomeCompetitorID: intPtr(10),
		AwayCompetitorID: intPtr(20),
		ScheduleStatus:   models.ScheduleScheduled,
		ResultStatus:     models.ResultUnconfirmed,
	}
}

func TestApplyAction_Lifecycle(t *testing.T) {
	m := newScheduledMatch()
	ts := time.Date(2026, 5, 17, 10, 0, 0, 0, time.UTC)

	applyAction(m, &models.MatchAction{Action: models.ActionMatchLoaded, Timestamp: ts})
	assert.Equal(t, models.ScheduleGettingReady, m.ScheduleStatus)
	assert.Equal(t, models.ResultUnconfirmed, m.ResultStatus)

	applyAction(m, &models.MatchAction{Action: models.ActionMatchStart, Round: 1, Timestamp: ts})
	assert.Equal(t, models.ScheduleRunning, m.ScheduleStatus)
	assert.Equal(t, models.ResultLive, m.ResultStatus)
	require.NotNil(t, m.ActualStart)
	assert.Equal(t, ts, *m.ActualStart)
	assert.Equal(t, 1, m.Round)

	applyAction(m, &models.MatchAction{Action: models.ActionScoreHomeHead, HomeScore: 3, Timestamp: ts})
	applyAction(m, &models.MatchAction{Action: models.ActionPenaltyAway, AwayPenalties: 1, HomeScore: 1, Timestamp: ts})
	assert.Equal(t, 4, m.HomeScore)
	assert.Equal(t, 1, m.AwayPenalties)
	assert.Equal(t, models.ScheduleRunning, m.ScheduleStatus)

	later := ts.Add(3 * time.Minute)
	applyAction(m, &models.MatchAction{Action: models.ActionRoundStart, Round: 2, Timestamp: later})
	assert.Equal(t, 2, m.Round)
	assert.Equal(t, ts, *m.ActualStart, "actual start is kept from the first start")

	applyAction(m, &models.MatchAction{Action: models.ActionMatchEnd, Timestamp: later})
	assert.Equal(t, models.ScheduleFinished, m.ScheduleStatus)
	assert.Equal(t, models.ResultUnconfirmed, m.ResultStatus)
}

func TestApplyAction_LiveOnlyFromUnconfirmed(t *testing.T) {
	m := newScheduledMatch()
	m.ResultStatus = models.ResultIntermediate

	applyAction(m, &models.MatchAction{Action: models.ActionRoundStart, Round: 2})
	assert.Equal(t, models.ScheduleRunning, m.ScheduleStatus)
	assert.Equal(t, models.ResultIntermediate, m.ResultStatus)
}

func TestApplyAction_InvalidationAppliesNegativeDelta(t *testing.T) {
	m := newScheduledMatch()
	m.AwayScore = 5

	applyAction(m, &models.MatchAction{Action: models.ActionInvalidateAwayScore, AwayScore: -2})
	assert.Equal(t, 3, m.AwayScore)
}

func TestApplyAction_VideoReplayDoesNotScore(t *testing.T) {
	m := newScheduledMatch()
	applyAction(m, &models.MatchAction{Action: models.ActionVideoReplayHome, HomeScore: 2})
	assert.Zero(t, m.HomeScore)
}

func TestCheckScheduleTransition(t *testing.T) {
	tests := []struct {
		from, to models.ScheduleStatus
		want     error
	}{
		{models.ScheduleScheduled, models.ScheduleDelayed, nil},
		{models.ScheduleRunning, models.ScheduleInterrupted, nil},
		{models.ScheduleGettingReady, models.ScheduleCancelled, nil},
		{models.ScheduleDelayed, models.ScheduleScheduled, nil},
		{models.ScheduleInterrupted, models.ScheduleScheduled, nil},
		{models.ScheduleRunning, models.ScheduleScheduled, ErrInvalidStatusTransition},
		{models.ScheduleFinished, models.ScheduleDelayed, ErrInvalidStatusTransition},
		{models.ScheduleCancelled, models.ScheduleScheduled, ErrInvalidStatusTransition},
		{models.ScheduleDelayed, models.ScheduleDelayed, ErrInvalidStatusTransition},
		{models.ScheduleScheduled, models.ScheduleFinished, ErrInvalidStatusTransition},
		{models.ScheduleScheduled, models.ScheduleRunning, ErrInvalidStatusTransition},
		{models.ScheduleScheduled, "PAUSED", ErrInvalidScheduleStatus},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := checkScheduleTransition(tt.from, tt.to)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheckResultTransition(t *testing.T) {
	assert.NoError(t, checkResultTransition(models.ResultLive, models.ResultOfficial))
	assert.NoError(t, checkResultTransition(models.ResultOfficial, models.ResultProtested))
	assert.ErrorIs(t, checkResultTransition(models.ResultUnconfirmed, models.ResultProtested), ErrInvalidStatusTransition)
	assert.ErrorIs(t, checkResultTransition(models.ResultLive, "FINAL"), ErrInvalidInput)
}

func TestDecideOutcome(t *testing.T) {
	m := newScheduledMatch()
	win, loss, draw := models.ResultTypeWin, models.ResultTypeLoss, models.ResultTypeDraw

	tests := []struct {
		name       string
		result     models.MatchResult
		winner, lo *int
	}{
		{"home by score", models.MatchResult{HomeScore: 15, AwayScore: 9}, intPtr(10), intPtr(20)},
		{"away by score", models.MatchResult{HomeScore: 1, AwayScore: 2}, intPtr(20), intPtr(10)},
		{"level score", models.MatchResult{HomeScore: 4, AwayScore: 4}, nil, nil},
		{"away wins by type despite score", models.MatchResult{HomeScore: 9, AwayScore: 3, AwayType: &win}, intPtr(20), intPtr(10)},
		{"home loses by type", models.MatchResult{HomeType: &loss}, intPtr(20), intPtr(10)},
		{"explicit draw", models.MatchResult{HomeScore: 5, AwayScore: 2, HomeType: &draw}, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, l := decideOutcome(m, &tt.result)
			assert.Equal(t, tt.winner, w)
			assert.Equal(t, tt.lo, l)
		})
	}
}

func TestCategorizedErrors(t *testing.T) {
	assert.True(t, errors.Is(ErrMatchNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrBracketTooLarge, ErrInvalidInput))
	assert.True(t, errors.Is(withDetail(ErrPoolMatchesExist, "pool %d", 3), ErrConflict))
	assert.Equal(t, "pool already has matches: pool 3", withDetail(ErrPoolMatchesExist, "pool %d", 3).Error())
}
