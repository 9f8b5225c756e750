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
	ErrPoolStandingNotFound       = errors.New("pool standing not found")
	ErrStandingCompetitorInvalid  = errors.New("standing competitor conflict or invalid")
	ErrStandingPoolInvalid        = errors.New("standing pool conflict or invalid")
	errStandingBatchNeedsExecutor = errors.New("batch upsert requires an executor that can prepare statements")
)

type PoolStandingRepository interface {
	Create(ctx context.Context, exec SQLExecutor, standing *models.PoolStanding) error
	// BatchUpsert writes every row, replacing existing (pool, competitor) rows.
	BatchUpsert(ctx context.Context, exec SQLExecutor, standings []*models.PoolStanding) error
	ListByPool(ctx context.Context, exec SQLExecutor, poolID int) ([]*models.PoolStanding, error)
	Delete(ctx context.Context, exec SQLExecutor, poolID, competitorID int) error
}

type postgresPoolStandingRepository struct {
	db *sql.DB // Main DB connection, can be used if exec is nil
}

func NewPostgresPoolStandingRepository(db *sql.DB) PoolStandingRepository {
	return &postgresPoolStandingRepository{db: db}
}

func (r *postgresPoolStandingRepository) handleStandingError(err error) error {
	if err == nil {
		return nil
	}
	constraint, code, ok := constraintError(err)
	if ok && code == pqForeignKeyViolation {
		switch constraint {
		case "pool_standings_pool_id_fkey":
			return ErrStandingPoolInvalid
		case "pool_standings_competitor_id_fkey":
			return ErrStandingCompetitorInvalid
		}
	}
	return err
}

func (r *postgresPoolStandingRepository) Create(ctx context.Context, exec SQLExecutor, s *models.PoolStanding) error {
	query := `
		INSERT INTO pool_standings
		    (pool_id, competitor_id, matches_played, wins, draws, losses,
		     points_for, points_against, points_difference, total_points, rank, qualified, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		s.PoolID, s.CompetitorID, s.MatchesPlayed, s.Wins, s.Draws, s.Losses,
		s.PointsFor, s.PointsAgainst, s.PointsDifference, s.TotalPoints, s.Rank, s.Qualified, s.UpdatedAt,
	).Scan(&s.ID)
	return r.handleStandingError(err)
}

type statementPreparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

func (r *postgresPoolStandingRepository) BatchUpsert(ctx context.Context, exec SQLExecutor, standings []*models.PoolStanding) error {
	if len(standings) == 0 {
		return nil
	}
	preparer, ok := executor(r.db, exec).(statementPreparer)
	if !ok {
		return errStandingBatchNeedsExecutor
	}

	stmt, err := preparer.PrepareContext(ctx, `
		INSERT INTO pool_standings
		    (pool_id, competitor_id, matches_played, wins, draws, losses,
		     points_for, points_against, points_difference, total_points, rank, qualified, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (pool_id, competitor_id) DO UPDATE SET
			matches_played = EXCLUDED.matches_played,
			wins = EXCLUDED.wins,
			draws = EXCLUDED.draws,
			losses = EXCLUDED.losses,
			points_for = EXCLUDED.points_for,
			points_against = EXCLUDED.points_against,
			points_difference = EXCLUDED.points_difference,
			total_points = EXCLUDED.total_points,
			rank = EXCLUDED.rank,
			qualified = EXCLUDED.qualified,
			updated_at = EXCLUDED.updated_at
		RETURNING id`)
	if err != nil {
		return fmt.Errorf("BatchUpsert failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, s := range standings {
		s.UpdatedAt = now
		err = stmt.QueryRowContext(ctx,
			s.PoolID, s.CompetitorID, s.MatchesPlayed, s.Wins, s.Draws, s.Losses,
			s.PointsFor, s.PointsAgainst, s.PointsDifference, s.TotalPoints, s.Rank, s.Qualified, s.UpdatedAt,
		).Scan(&s.ID)
		if err != nil {
			return fmt.Errorf("BatchUpsert failed for competitor %d: %w", s.CompetitorID, r.handleStandingError(err))
		}
	}
	return nil
}

func (r *postgresPoolStandingRepository) scanStanding(row rowScanner) (*models.PoolStanding, error) {
	var s models.PoolStanding
	err := row.Scan(
		&s.ID, &s.PoolID, &s.CompetitorID, &s.MatchesPlayed, &s.Wins, &s.Draws, &s.Losses,
		&s.PointsFor, &s.PointsAgainst, &s.PointsDifference, &s.TotalPoints, &s.Rank, &s.Qualified, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPoolStandingNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresPoolStandingRepository) ListByPool(ctx context.Context, exec SQLExecutor, poolID int) ([]*models.PoolStanding, error) {
	query := `
		SELECT id, pool_id, competitor_id, matches_played, wins, draws, losses,
		       points_for, points_against, points_difference, total_points, rank, qualified, updated_at
		FROM pool_standings
		WHERE pool_id = $1
		ORDER BY rank ASC NULLS LAST, id ASC`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings of pool %d: %w", poolID, err)
	}
	defer rows.Close()

	standings := make([]*models.PoolStanding, 0)
	for rows.Next() {
		s, errScan := r.scanStanding(rows)
		if errScan != nil {
			return nil, errScan
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during standing rows iteration: %w", err)
	}
	return standings, nil
}

func (r *postgresPoolStandingRepository) Delete(ctx context.Context, exec SQLExecutor, poolID, competitorID int) error {
	_, err := executor(r.db, exec).ExecContext(ctx,
		`DELETE FROM pool_standings WHERE pool_id = $1 AND competitor_id = $2`, poolID, competitorID)
	if err != nil {
		return fmt.Errorf("failed to delete standing of competitor %d in pool %d: %w", competitorID, poolID, err)
	}
	return nil
}
