package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tkd-competition/models"
)

var (
	ErrCompetitorNotFound     = errors.New("competitor not found")
	ErrCompetitorEventInvalid = errors.New("competitor event conflict or invalid")
)

type CompetitorRepository interface {
	Create(ctx context.Context, exec SQLExecutor, competitor *models.Competitor) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Competitor, error)
	// ListByEvent returns competitors ordered by id; seeding is applied by the caller.
	ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.Competitor, error)
	UpdateSeed(ctx context.Context, exec SQLExecutor, id int, seed *int) error
}

type postgresCompetitorRepository struct {
	db *sql.DB
}

func NewPostgresCompetitorRepository(db *sql.DB) CompetitorRepository {
	return &postgresCompetitorRepository{db: db}
}

const competitorColumns = `id, event_id, name, print_name, short_name, country, seed, rank, created_at`

func scanCompetitor(row rowScanner) (*models.Competitor, error) {
	var c models.Competitor
	err := row.Scan(&c.ID, &c.EventID, &c.Name, &c.PrintName, &c.ShortName, &c.Country, &c.Seed, &c.Rank, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitorNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresCompetitorRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Competitor) error {
	query := `
		INSERT INTO competitors (event_id, name, print_name, short_name, country, seed, rank)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		c.EventID, c.Name, c.PrintName, c.ShortName, c.Country, c.Seed, c.Rank,
	).Scan(&c.ID, &c.CreatedAt)
	if isForeignKeyViolation(err) {
		return ErrCompetitorEventInvalid
	}
	return err
}

func (r *postgresCompetitorRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Competitor, error) {
	query := `SELECT ` + competitorColumns + ` FROM competitors WHERE id = $1`
	c, err := scanCompetitor(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrCompetitorNotFound) {
		return nil, fmt.Errorf("failed to get competitor %d: %w", id, err)
	}
	return c, err
}

func (r *postgresCompetitorRepository) ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.Competitor, error) {
	query := `SELECT ` + competitorColumns + ` FROM competitors WHERE event_id = $1 ORDER BY id`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitors for event %d: %w", eventID, err)
	}
	defer rows.Close()

	competitors := make([]*models.Competitor, 0)
	for rows.Next() {
		c, err := scanCompetitor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan competitor row: %w", err)
		}
		competitors = append(competitors, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during competitor rows iteration: %w", err)
	}
	return competitors, nil
}

func (r *postgresCompetitorRepository) UpdateSeed(ctx context.Context, exec SQLExecutor, id int, seed *int) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `UPDATE competitors SET seed = $1 WHERE id = $2`, seed, id)
	if err != nil {
		return fmt.Errorf("failed to update seed for competitor %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrCompetitorNotFound)
}
