package scoring

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tkd-competition/models"
)

// PssCode is the action vocabulary of the protector and scoring system.
type PssCode string

const (
	CodePunch   PssCode = "punch"
	CodeKick    PssCode = "kick"
	CodeHead    PssCode = "head"
	CodeTKick   PssCode = "tkick"
	CodeTHead   PssCode = "thead"
	CodeGamjeom PssCode = "gamjeom"
)

var (
	ErrUnmappedAction = errors.New("pss action code has no mapping")
	ErrUnknownSide    = errors.New("side must be HOME or AWAY")
)

// Delta is what one device action adds to the running totals of a match.
type Delta struct {
	HomeScore     int
	AwayScore     int
	HomePenalties int
	AwayPenalties int
}

// DefaultPoints is the WT value of a technique, used when the device does not send points.
func DefaultPoints(code PssCode) int {
	switch code {
	case CodePunch:
		return 1
	case CodeKick:
		return 2
	case CodeHead:
		return 3
	case CodeTKick:
		return 4
	case CodeTHead:
		return 5
	}
	return 0
}

// MapAction resolves a device code for one side of the match.
// An unknown code with points falls back to ADJUST_SCORE and reports fallback=true;
// without points there is nothing safe to apply and ErrUnmappedAction is returned.
func MapAction(code PssCode, side string, points *int) (action models.ActionType, fallback bool, err error) {
	home := side == models.SideHome
	if !home && side != models.SideAway {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownSide, side)
	}
	pick := func(h, a models.ActionType) models.ActionType {
		if home {
			return h
		}
		return a
	}

	switch code {
	case CodePunch:
		return pick(models.ActionScoreHomePunch, models.ActionScoreAwayPunch), false, nil
	case CodeKick:
		return pick(models.ActionScoreHomeKick, models.ActionScoreAwayKick), false, nil
	case CodeHead:
		return pick(models.ActionScoreHomeHead, models.ActionScoreAwayHead), false, nil
	case CodeTKick:
		return pick(models.ActionScoreHomeTKick, models.ActionScoreAwayTKick), false, nil
	case CodeTHead:
		return pick(models.ActionScoreHomeTHead, models.ActionScoreAwayTHead), false, nil
	case CodeGamjeom:
		return pick(models.ActionPenaltyHome, models.ActionPenaltyAway), false, nil
	default:
		if points == nil {
			return "", false, fmt.Errorf("%w: %q", ErrUnmappedAction, code)
		}
		return models.ActionAdjustScore, true, nil
	}
}

// ActionDelta computes the totals change of a mapped action.
// A gamjeom gives the penalized side one penalty and the opponent one point.
func ActionDelta(code PssCode, side string, points *int) Delta {
	value := DefaultPoints(code)
	if points != nil {
		value = *points
	}
	home := side == models.SideHome

	var d Delta
	if code == CodeGamjeom {
		if home {
			d.HomePenalties, d.AwayScore = 1, 1
		} else {
			d.AwayPenalties, d.HomeScore = 1, 1
		}
		return d
	}
	if home {
		d.HomeScore = value
	} else {
		d.AwayScore = value
	}
	return d
}
