package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tkd-competition/models"
)

var (
	ErrMatchActionPositionConflict = errors.New("match action position already taken")
	ErrMatchActionMatchInvalid     = errors.New("match action match conflict or invalid")
)

type MatchActionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, action *models.MatchAction) error
	// ExistsWithin reports whether the match already has the same action type recorded
	// within window of ts (inclusive on both sides).
	ExistsWithin(ctx context.Context, exec SQLExecutor, matchID int, action models.ActionType, ts time.Time, window time.Duration) (bool, error)
	NextPosition(ctx context.Context, exec SQLExecutor, matchID int) (int, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.MatchAction, error)
	DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresMatchActionRepository struct {
	db *sql.DB
}

func NewPostgresMatchActionRepository(db *sql.DB) MatchActionRepository {
	return &postgresMatchActionRepository{db: db}
}

func (r *postgresMatchActionRepository) Create(ctx context.Context, exec SQLExecutor, a *models.MatchAction) error {
	query := `
		INSERT INTO match_actions
			(match_id, position, action, hit_level, round, round_time,
			 home_score, away_score, home_penalties, away_penalties,
			 source, competitor_id, description, client_position, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		a.MatchID, a.Position, a.Action, a.HitLevel, a.Round, a.RoundTime,
		a.HomeScore, a.AwayScore, a.HomePenalties, a.AwayPenalties,
		a.Source, a.CompetitorID, a.Description, a.ClientPosition, a.Timestamp,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrMatchActionPositionConflict
		case isForeignKeyViolation(err):
			return ErrMatchActionMatchInvalid
		}
		return fmt.Errorf("failed to insert action for match %d: %w", a.MatchID, err)
	}
	return nil
}

func (r *postgresMatchActionRepository) ExistsWithin(ctx context.Context, exec SQLExecutor, matchID int, action models.ActionType, ts time.Time, window time.Duration) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM match_actions
			WHERE match_id = $1 AND action = $2 AND timestamp BETWEEN $3 AND $4
		)`
	var exists bool
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		matchID, action, ts.Add(-window), ts.Add(window),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate action for match %d: %w", matchID, err)
	}
	return exists, nil
}

func (r *postgresMatchActionRepository) NextPosition(ctx context.Context, exec SQLExecutor, matchID int) (int, error) {
	var next int
	query := `SELECT COALESCE(MAX(position), 0) + 1 FROM match_actions WHERE match_id = $1`
	if err := executor(r.db, exec).QueryRowContext(ctx, query, matchID).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute next action position for match %d: %w", matchID, err)
	}
	return next, nil
}

func (r *postgresMatchActionRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.MatchAction, error) {
	query := `
		SELECT id, match_id, position, action, hit_level, round, round_time,
		       home_score, away_score, home_penalties, away_penalties,
		       source, competitor_id, description, client_position, timestamp, created_at
		FROM match_actions
		WHERE match_id = $1
		ORDER BY position ASC`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions for match %d: %w", matchID, err)
	}
	defer rows.Close()

	actions := make([]models.MatchAction, 0)
	for rows.Next() {
		var a models.MatchAction
		if err := rows.Scan(
			&a.ID, &a.MatchID, &a.Position, &a.Action, &a.HitLevel, &a.Round, &a.RoundTime,
			&a.HomeScore, &a.AwayScore, &a.HomePenalties, &a.AwayPenalties,
			&a.Source, &a.CompetitorID, &a.Description, &a.ClientPosition, &a.Timestamp, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match action row: %w", err)
		}
		actions = append(actions, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match action rows iteration: %w", err)
	}
	return actions, nil
}

func (r *postgresMatchActionRepository) DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	_, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM match_actions WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete actions for match %d: %w", matchID, err)
	}
	return nil
}
