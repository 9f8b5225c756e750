package brackets

import (
	"context"
	"errors"

	"github.com/Dosada05/tkd-competition/models"
)

var (
	ErrNotEnoughCompetitors = errors.New("at least 2 competitors are required to generate matches")
	ErrBracketTooLarge      = errors.New("bracket too large, maximum 128 competitors")
)

const MaxBracketSize = 128

type GenerateBracketParams struct {
	Event       *models.Event
	Competitors []*models.Competitor

	// BaseMatchNumber is the number given to the first created elimination match.
	BaseMatchNumber int

	// Pool is only used by the round robin generator.
	Pool *models.Pool
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}

// BracketMatch is one generated pairing. Pairings with a bye carry no Number and are never persisted as matches.
type BracketMatch struct {
	UID          string
	Phase        models.Phase
	OrderInRound int
	Number       string

	HomeSlot int
	AwaySlot int

	HomeCompetitorID *int
	AwayCompetitorID *int

	// NextUID is the slot of the following round this pairing feeds; empty for the final.
	NextUID  string
	NextSide string

	IsBye           bool
	ByeCompetitorID *int
}

func (m *BracketMatch) IsPlayable() bool {
	return !m.IsBye && m.HomeCompetitorID != nil && m.AwayCompetitorID != nil
}
