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
	ErrPoolNotFound           = errors.New("pool not found")
	ErrPoolEventInvalid       = errors.New("pool event conflict or invalid")
	ErrPoolCompetitorExists   = errors.New("competitor already in pool")
	ErrPoolCompetitorNotFound = errors.New("competitor not in pool")
	ErrPoolMatchLinkConflict  = errors.New("pool match link already exists")
	ErrPoolCompetitorInvalid  = errors.New("pool competitor conflict or invalid")
	ErrPoolMatchOrderConflict = errors.New("pool match order already used")
)

type PoolRepository interface {
	Create(ctx context.Context, exec SQLExecutor, pool *models.Pool) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Pool, error)
	LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Pool, error)

	AddCompetitor(ctx context.Context, exec SQLExecutor, pc *models.PoolCompetitor) error
	RemoveCompetitor(ctx context.Context, exec SQLExecutor, poolID, competitorID int) error
	CountCompetitors(ctx context.Context, exec SQLExecutor, poolID int) (int, error)
	// ListCompetitorIDs returns member ids in insertion order; standings keep this order for unresolved ties.
	ListCompetitorIDs(ctx context.Context, exec SQLExecutor, poolID int) ([]int, error)

	CreatePoolMatch(ctx context.Context, exec SQLExecutor, pm *models.PoolMatch) error
	CountPoolMatches(ctx context.Context, exec SQLExecutor, poolID int) (int, error)
	// ListMatches returns the pool's matches ordered by match_order.
	ListMatches(ctx context.Context, exec SQLExecutor, poolID int) ([]*models.Match, error)
	DeletePoolMatchByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresPoolRepository struct {
	db *sql.DB
}

func NewPostgresPoolRepository(db *sql.DB) PoolRepository {
	return &postgresPoolRepository{db: db}
}

func (r *postgresPoolRepository) handlePoolError(err error) error {
	if err == nil {
		return nil
	}
	constraint, code, ok := constraintError(err)
	if !ok {
		return err
	}
	switch code {
	case pqUniqueViolation:
		switch constraint {
		case "pool_competitors_pool_id_competitor_id_key":
			return ErrPoolCompetitorExists
		case "pool_matches_match_id_key":
			return ErrPoolMatchLinkConflict
		case "pool_matches_pool_id_match_order_key":
			return ErrPoolMatchOrderConflict
		}
	case pqForeignKeyViolation:
		switch constraint {
		case "pools_event_id_fkey":
			return ErrPoolEventInvalid
		case "pool_competitors_pool_id_fkey", "pool_matches_pool_id_fkey":
			return ErrPoolNotFound
		case "pool_competitors_competitor_id_fkey":
			return ErrPoolCompetitorInvalid
		}
	}
	return err
}

func tieBreakersToStrings(criteria []models.TieBreakCriterion) []string {
	out := make([]string, len(criteria))
	for i, c := range criteria {
		out[i] = string(c)
	}
	return out
}

func (r *postgresPoolRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Pool) error {
	query := `
		INSERT INTO pools
			(event_id, name, max_athletes, matches_per_athlete,
			 points_for_win, points_for_draw, points_for_loss, qualifying_places, tie_breakers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		p.EventID, p.Name, p.MaxAthletes, p.MatchesPerAthlete,
		p.PointsForWin, p.PointsForDraw, p.PointsForLoss, p.QualifyingPlaces,
		pq.Array(tieBreakersToStrings(p.TieBreakers)),
	).Scan(&p.ID, &p.CreatedAt)
	return r.handlePoolError(err)
}

func (r *postgresPoolRepository) scanPool(row rowScanner) (*models.Pool, error) {
	var p models.Pool
	var tieBreakers []string
	err := row.Scan(
		&p.ID, &p.EventID, &p.Name, &p.MaxAthletes, &p.MatchesPerAthlete,
		&p.PointsForWin, &p.PointsForDraw, &p.PointsForLoss, &p.QualifyingPlaces,
		pq.Array(&tieBreakers), &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}
	p.TieBreakers = make([]models.TieBreakCriterion, len(tieBreakers))
	for i, tb := range tieBreakers {
		p.TieBreakers[i] = models.TieBreakCriterion(tb)
	}
	return &p, nil
}

const poolColumns = `
	id, event_id, name, max_athletes, matches_per_athlete,
	points_for_win, points_for_draw, points_for_loss, qualifying_places, tie_breakers, created_at`

func (r *postgresPoolRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Pool, error) {
	p, err := r.scanPool(executor(r.db, exec).QueryRowContext(ctx, `SELECT `+poolColumns+` FROM pools WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrPoolNotFound) {
		return nil, fmt.Errorf("failed to get pool %d: %w", id, err)
	}
	return p, err
}

func (r *postgresPoolRepository) LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Pool, error) {
	p, err := r.scanPool(executor(r.db, exec).QueryRowContext(ctx, `SELECT `+poolColumns+` FROM pools WHERE id = $1 FOR UPDATE`, id))
	if err != nil && !errors.Is(err, ErrPoolNotFound) {
		return nil, fmt.Errorf("failed to lock pool %d: %w", id, err)
	}
	return p, err
}

func (r *postgresPoolRepository) AddCompetitor(ctx context.Context, exec SQLExecutor, pc *models.PoolCompetitor) error {
	query := `
		INSERT INTO pool_competitors (pool_id, competitor_id)
		VALUES ($1, $2)
		RETURNING id, created_at`
	err := executor(r.db, exec).QueryRowContext(ctx, query, pc.PoolID, pc.CompetitorID).Scan(&pc.ID, &pc.CreatedAt)
	return r.handlePoolError(err)
}

func (r *postgresPoolRepository) RemoveCompetitor(ctx context.Context, exec SQLExecutor, poolID, competitorID int) error {
	result, err := executor(r.db, exec).ExecContext(ctx,
		`DELETE FROM pool_competitors WHERE pool_id = $1 AND competitor_id = $2`, poolID, competitorID)
	if err != nil {
		return fmt.Errorf("failed to remove competitor %d from pool %d: %w", competitorID, poolID, err)
	}
	return checkAffectedRows(result, ErrPoolCompetitorNotFound)
}

func (r *postgresPoolRepository) CountCompetitors(ctx context.Context, exec SQLExecutor, poolID int) (int, error) {
	var count int
	err := executor(r.db, exec).QueryRowContext(ctx, `SELECT COUNT(*) FROM pool_competitors WHERE pool_id = $1`, poolID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count competitors of pool %d: %w", poolID, err)
	}
	return count, nil
}

func (r *postgresPoolRepository) ListCompetitorIDs(ctx context.Context, exec SQLExecutor, poolID int) ([]int, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx,
		`SELECT competitor_id FROM pool_competitors WHERE pool_id = $1 ORDER BY id`, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitors of pool %d: %w", poolID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan pool competitor row: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during pool competitor rows iteration: %w", err)
	}
	return ids, nil
}

func (r *postgresPoolRepository) CreatePoolMatch(ctx context.Context, exec SQLExecutor, pm *models.PoolMatch) error {
	query := `
		INSERT INTO pool_matches (pool_id, match_id, match_order)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := executor(r.db, exec).QueryRowContext(ctx, query, pm.PoolID, pm.MatchID, pm.MatchOrder).Scan(&pm.ID)
	return r.handlePoolError(err)
}

func (r *postgresPoolRepository) CountPoolMatches(ctx context.Context, exec SQLExecutor, poolID int) (int, error) {
	var count int
	err := executor(r.db, exec).QueryRowContext(ctx, `SELECT COUNT(*) FROM pool_matches WHERE pool_id = $1`, poolID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches of pool %d: %w", poolID, err)
	}
	return count, nil
}

func (r *postgresPoolRepository) ListMatches(ctx context.Context, exec SQLExecutor, poolID int) ([]*models.Match, error) {
	query := `
		SELECT m.id, m.event_id, m.session_id, m.mat, m.number, m.phase, m.position_reference,
		       m.home_competitor_id, m.away_competitor_id, m.schedule_status, m.result_status, m.result_decision,
		       m.round, m.round_time, m.home_score, m.away_score, m.home_penalties, m.away_penalties,
		       m.scheduled_start, m.estimated_start, m.actual_start, m.created_at, m.updated_at
		FROM pool_matches pm
		JOIN matches m ON m.id = pm.match_id
		WHERE pm.pool_id = $1
		ORDER BY pm.match_order ASC`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of pool %d: %w", poolID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pool match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during pool match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresPoolRepository) DeletePoolMatchByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	_, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM pool_matches WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete pool link of match %d: %w", matchID, err)
	}
	return nil
}
