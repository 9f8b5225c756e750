package models

import "time"

type Discipline string

const (
	DisciplineKyorugi   Discipline = "TKW_K"
	DisciplinePoomsae   Discipline = "TKW_P"
	DisciplineFreestyle Discipline = "TKW_F"
)

// Division соответствует возрастной категории события.
type Division string

const (
	DivisionSeniors Division = "SENIORS"
	DivisionJuniors Division = "JUNIORS"
	DivisionCadets  Division = "CADETS"
	DivisionKids    Division = "KIDS"
	DivisionOlympic Division = "OLYMPIC"
)

// Event is a single weight/age category; competitors, pools and matches belong to exactly one event.
type Event struct {
	ID         int        `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Discipline Discipline `json:"discipline" db:"discipline"`
	Division   Division   `json:"division" db:"division"`
	Gender     *string    `json:"gender,omitempty" db:"gender"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

type Session struct {
	ID        int        `json:"id" db:"id"`
	EventID   int        `json:"event_id" db:"event_id"`
	Name      string     `json:"name" db:"name"`
	StartsAt  *time.Time `json:"starts_at,omitempty" db:"starts_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type Competitor struct {
	ID        int       `json:"id" db:"id"`
	EventID   int       `json:"event_id" db:"event_id"`
	Name      string    `json:"name" db:"name"`
	PrintName *string   `json:"print_name,omitempty" db:"print_name"`
	ShortName *string   `json:"short_name,omitempty" db:"short_name"`
	Country   string    `json:"country" db:"country"`
	Seed      *int      `json:"seed,omitempty" db:"seed"`
	Rank      *int      `json:"rank,omitempty" db:"rank"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
