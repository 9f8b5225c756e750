package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/tkd-competition/models"
)

var (
	ErrMatchResultPositionConflict = errors.New("match result position already taken")
	ErrMatchResultMatchInvalid     = errors.New("match result match conflict or invalid")
)

type MatchResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error
	MaxPosition(ctx context.Context, exec SQLExecutor, matchID int) (int, error)
	// ListByMatch returns results with the latest position first.
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.MatchResult, error)
	ListByMatches(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]models.MatchResult, error)
	DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresMatchResultRepository struct {
	db *sql.DB
}

func NewPostgresMatchResultRepository(db *sql.DB) MatchResultRepository {
	return &postgresMatchResultRepository{db: db}
}

const resultColumns = `
	id, match_id, status, round, position, decision, home_type, away_type,
	home_score, away_score, home_penalties, away_penalties,
	winner_id, loser_id, description, timestamp, created_at`

func scanResult(row rowScanner) (models.MatchResult, error) {
	var res models.MatchResult
	err := row.Scan(
		&res.ID, &res.MatchID, &res.Status, &res.Round, &res.Position, &res.Decision, &res.HomeType, &res.AwayType,
		&res.HomeScore, &res.AwayScore, &res.HomePenalties, &res.AwayPenalties,
		&res.WinnerID, &res.LoserID, &res.Description, &res.Timestamp, &res.CreatedAt,
	)
	return res, err
}

func (r *postgresMatchResultRepository) Create(ctx context.Context, exec SQLExecutor, res *models.MatchResult) error {
	query := `
		INSERT INTO match_results
			(match_id, status, round, position, decision, home_type, away_type,
			 home_score, away_score, home_penalties, away_penalties,
			 winner_id, loser_id, description, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		res.MatchID, res.Status, res.Round, res.Position, res.Decision, res.HomeType, res.AwayType,
		res.HomeScore, res.AwayScore, res.HomePenalties, res.AwayPenalties,
		res.WinnerID, res.LoserID, res.Description, res.Timestamp,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrMatchResultPositionConflict
		case isForeignKeyViolation(err):
			return ErrMatchResultMatchInvalid
		}
		return fmt.Errorf("failed to insert result for match %d: %w", res.MatchID, err)
	}
	return nil
}

func (r *postgresMatchResultRepository) MaxPosition(ctx context.Context, exec SQLExecutor, matchID int) (int, error) {
	var maxPos int
	query := `SELECT COALESCE(MAX(position), 0) FROM match_results WHERE match_id = $1`
	if err := executor(r.db, exec).QueryRowContext(ctx, query, matchID).Scan(&maxPos); err != nil {
		return 0, fmt.Errorf("failed to get max result position for match %d: %w", matchID, err)
	}
	return maxPos, nil
}

func (r *postgresMatchResultRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.MatchResult, error) {
	query := `SELECT ` + resultColumns + ` FROM match_results WHERE match_id = $1 ORDER BY position DESC`
	return r.list(ctx, exec, query, matchID)
}

func (r *postgresMatchResultRepository) ListByMatches(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]models.MatchResult, error) {
	if len(matchIDs) == 0 {
		return []models.MatchResult{}, nil
	}
	query := `SELECT ` + resultColumns + ` FROM match_results WHERE match_id = ANY($1) ORDER BY match_id, position DESC`
	return r.list(ctx, exec, query, pq.Array(matchIDs))
}

func (r *postgresMatchResultRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]models.MatchResult, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query match results: %w", err)
	}
	defer rows.Close()

	results := make([]models.MatchResult, 0)
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match result row: %w", err)
		}
		results = append(results, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match result rows iteration: %w", err)
	}
	return results, nil
}

func (r *postgresMatchResultRepository) DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	_, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM match_results WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete results for match %d: %w", matchID, err)
	}
	return nil
}
