package models

import "time"

type MedalType string

const (
	MedalGold   MedalType = "GOLD"
	MedalSilver MedalType = "SILVER"
	MedalBronze MedalType = "BRONZE"
)

// MedalWinner is derived from official final and bronze-medal results. One medal per competitor.
type MedalWinner struct {
	ID           int       `json:"id" db:"id"`
	EventID      int       `json:"event_id" db:"event_id"`
	CompetitorID int       `json:"competitor_id" db:"competitor_id"`
	MedalType    MedalType `json:"medal_type" db:"medal_type"`
	Position     int       `json:"position" db:"position"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Competitor *Competitor `json:"competitor,omitempty" db:"-"`
}

type MedalStanding struct {
	Country string `json:"country"`
	Gold    int    `json:"gold"`
	Silver  int    `json:"silver"`
	Bronze  int    `json:"bronze"`
	Total   int    `json:"total"`
}
