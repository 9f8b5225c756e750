package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/tkd-competition/models"
)

var ErrMedalCompetitorInvalid = errors.New("medal competitor conflict or invalid")

// CountryMedal is one awarded medal joined with the winner's country.
type CountryMedal struct {
	Country   string
	MedalType models.MedalType
}

type MedalRepository interface {
	// CreateIfAbsent inserts the medal unless the competitor already holds one.
	// It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, exec SQLExecutor, medal *models.MedalWinner) (bool, error)
	ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.MedalWinner, error)
	ListCountryMedals(ctx context.Context, exec SQLExecutor, eventIDs []int) ([]CountryMedal, error)
}

type postgresMedalRepository struct {
	db *sql.DB
}

func NewPostgresMedalRepository(db *sql.DB) MedalRepository {
	return &postgresMedalRepository{db: db}
}

func (r *postgresMedalRepository) CreateIfAbsent(ctx context.Context, exec SQLExecutor, m *models.MedalWinner) (bool, error) {
	query := `
		INSERT INTO medal_winners (event_id, competitor_id, medal_type, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (competitor_id) DO NOTHING
		RETURNING id, created_at`
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		m.EventID, m.CompetitorID, m.MedalType, m.Position,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		if isForeignKeyViolation(err) {
			return false, ErrMedalCompetitorInvalid
		}
		return false, fmt.Errorf("failed to insert medal for competitor %d: %w", m.CompetitorID, err)
	}
	return true, nil
}

func (r *postgresMedalRepository) ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.MedalWinner, error) {
	query := `
		SELECT mw.id, mw.event_id, mw.competitor_id, mw.medal_type, mw.position, mw.created_at,
		       c.id, c.event_id, c.name, c.print_name, c.short_name, c.country, c.seed, c.rank, c.created_at
		FROM medal_winners mw
		JOIN competitors c ON c.id = mw.competitor_id
		WHERE mw.event_id = $1
		ORDER BY mw.position ASC, mw.id ASC`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medals for event %d: %w", eventID, err)
	}
	defer rows.Close()

	medals := make([]*models.MedalWinner, 0)
	for rows.Next() {
		var m models.MedalWinner
		var c models.Competitor
		if err := rows.Scan(
			&m.ID, &m.EventID, &m.CompetitorID, &m.MedalType, &m.Position, &m.CreatedAt,
			&c.ID, &c.EventID, &c.Name, &c.PrintName, &c.ShortName, &c.Country, &c.Seed, &c.Rank, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan medal row: %w", err)
		}
		m.Competitor = &c
		medals = append(medals, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during medal rows iteration: %w", err)
	}
	return medals, nil
}

func (r *postgresMedalRepository) ListCountryMedals(ctx context.Context, exec SQLExecutor, eventIDs []int) ([]CountryMedal, error) {
	query := `
		SELECT c.country, mw.medal_type
		FROM medal_winners mw
		JOIN competitors c ON c.id = mw.competitor_id`
	args := []interface{}{}
	if len(eventIDs) > 0 {
		query += ` WHERE mw.event_id = ANY($1)`
		args = append(args, pq.Array(eventIDs))
	}

	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list country medals: %w", err)
	}
	defer rows.Close()

	medals := make([]CountryMedal, 0)
	for rows.Next() {
		var cm CountryMedal
		if err := rows.Scan(&cm.Country, &cm.MedalType); err != nil {
			return nil, fmt.Errorf("failed to scan country medal row: %w", err)
		}
		medals = append(medals, cm)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during country medal rows iteration: %w", err)
	}
	return medals, nil
}
