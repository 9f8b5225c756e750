package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/tkd-competition/models"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchEventInvalid       = errors.New("match event conflict or invalid")
	ErrMatchCompetitorInvalid  = errors.New("match competitor conflict or invalid")
	ErrMatchSessionInvalid     = errors.New("match session conflict or invalid")
	ErrMatchNumberConflict     = errors.New("match number already used in this event")
	ErrMatchConfigurationExist = errors.New("match configuration already exists")
	ErrMatchConfigNotFound     = errors.New("match configuration not found")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// LockByID selects the match FOR UPDATE. Must run inside a transaction.
	LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByEvent(ctx context.Context, exec SQLExecutor, eventID int, phase *models.Phase) ([]*models.Match, error)
	CountBracketMatches(ctx context.Context, exec SQLExecutor, eventID int) (int, error)
	UpdateState(ctx context.Context, exec SQLExecutor, match *models.Match) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error

	CreateConfiguration(ctx context.Context, exec SQLExecutor, cfg *models.MatchConfiguration) error
	UpsertConfiguration(ctx context.Context, exec SQLExecutor, cfg *models.MatchConfiguration) error
	GetConfiguration(ctx context.Context, exec SQLExecutor, matchID int) (*models.MatchConfiguration, error)
	DeleteConfiguration(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
	id, event_id, session_id, mat, number, phase, position_reference,
	home_competitor_id, away_competitor_id, schedule_status, result_status, result_decision,
	round, round_time, home_score, away_score, home_penalties, away_penalties,
	scheduled_start, estimated_start, actual_start, created_at, updated_at`

func scanMatch(row rowScanner) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.EventID, &m.SessionID, &m.Mat, &m.Number, &m.Phase, &m.PositionReference,
		&m.HomeCompetitorID, &m.AwayCompetitorID, &m.ScheduleStatus, &m.ResultStatus, &m.ResultDecision,
		&m.Round, &m.RoundTime, &m.HomeScore, &m.AwayScore, &m.HomePenalties, &m.AwayPenalties,
		&m.ScheduledStart, &m.EstimatedStart, &m.ActualStart, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	constraint, code, ok := constraintError(err)
	if !ok {
		return err
	}
	switch code {
	case pqUniqueViolation:
		if constraint == "match_configurations_match_id_key" {
			return ErrMatchConfigurationExist
		}
		return ErrMatchNumberConflict
	case pqForeignKeyViolation:
		switch constraint {
		case "matches_event_id_fkey":
			return ErrMatchEventInvalid
		case "matches_session_id_fkey":
			return ErrMatchSessionInvalid
		case "matches_home_competitor_id_fkey", "matches_away_competitor_id_fkey":
			return ErrMatchCompetitorInvalid
		case "match_configurations_match_id_fkey":
			return ErrMatchNotFound
		}
	}
	return err
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches
			(event_id, session_id, mat, number, phase, position_reference,
			 home_competitor_id, away_competitor_id, schedule_status, result_status,
			 round, scheduled_start, estimated_start)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		m.EventID, m.SessionID, m.Mat, m.Number, m.Phase, m.PositionReference,
		m.HomeCompetitorID, m.AwayCompetitorID, m.ScheduleStatus, m.ResultStatus,
		m.Round, m.ScheduledStart, m.EstimatedStart,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	m, err := scanMatch(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrMatchNotFound) {
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return m, err
}

func (r *postgresMatchRepository) LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
	m, err := scanMatch(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrMatchNotFound) {
		return nil, fmt.Errorf("failed to lock match %d: %w", id, err)
	}
	return m, err
}

func (r *postgresMatchRepository) ListByEvent(ctx context.Context, exec SQLExecutor, eventID int, phase *models.Phase) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE event_id = $1`)

	args := []interface{}{eventID}
	if phase != nil {
		queryBuilder.WriteString(" AND phase = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *phase)
	}
	queryBuilder.WriteString(" ORDER BY number ASC, id ASC")

	rows, err := executor(r.db, exec).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for event %d: %w", eventID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) CountBracketMatches(ctx context.Context, exec SQLExecutor, eventID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM matches WHERE event_id = $1 AND phase <> $2`
	err := executor(r.db, exec).QueryRowContext(ctx, query, eventID, models.PhasePool).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bracket matches for event %d: %w", eventID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) UpdateState(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches SET
			schedule_status = $1, result_status = $2, result_decision = $3,
			round = $4, round_time = $5,
			home_score = $6, away_score = $7, home_penalties = $8, away_penalties = $9,
			actual_start = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at`
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		m.ScheduleStatus, m.ResultStatus, m.ResultDecision,
		m.Round, m.RoundTime,
		m.HomeScore, m.AwayScore, m.HomePenalties, m.AwayPenalties,
		m.ActualStart, m.ID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to update match %d: %w", m.ID, err)
	}
	return nil
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

const configurationColumns = `
	id, match_id, rules, rounds, round_time, rest_time, injury_time,
	body_threshold, head_threshold, home_video_replay_quota, away_video_replay_quota,
	golden_point_enabled, golden_point_time, max_difference, max_penalties`

func (r *postgresMatchRepository) CreateConfiguration(ctx context.Context, exec SQLExecutor, c *models.MatchConfiguration) error {
	query := `
		INSERT INTO match_configurations
			(match_id, rules, rounds, round_time, rest_time, injury_time,
			 body_threshold, head_threshold, home_video_replay_quota, away_video_replay_quota,
			 golden_point_enabled, golden_point_time, max_difference, max_penalties)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		c.MatchID, c.Rules, c.Rounds, c.RoundTime, c.RestTime, c.InjuryTime,
		c.BodyThreshold, c.HeadThreshold, c.HomeVideoReplayQuota, c.AwayVideoReplayQuota,
		c.GoldenPointEnabled, c.GoldenPointTime, c.MaxDifference, c.MaxPenalties,
	).Scan(&c.ID)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) UpsertConfiguration(ctx context.Context, exec SQLExecutor, c *models.MatchConfiguration) error {
	query := `
		INSERT INTO match_configurations
			(match_id, rules, rounds, round_time, rest_time, injury_time,
			 body_threshold, head_threshold, home_video_replay_quota, away_video_replay_quota,
			 golden_point_enabled, golden_point_time, max_difference, max_penalties)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (match_id) DO UPDATE SET
			rules = EXCLUDED.rules,
			rounds = EXCLUDED.rounds,
			round_time = EXCLUDED.round_time,
			rest_time = EXCLUDED.rest_time,
			injury_time = EXCLUDED.injury_time,
			body_threshold = EXCLUDED.body_threshold,
			head_threshold = EXCLUDED.head_threshold,
			home_video_replay_quota = EXCLUDED.home_video_replay_quota,
			away_video_replay_quota = EXCLUDED.away_video_replay_quota,
			golden_point_enabled = EXCLUDED.golden_point_enabled,
			golden_point_time = EXCLUDED.golden_point_time,
			max_difference = EXCLUDED.max_difference,
			max_penalties = EXCLUDED.max_penalties
		RETURNING id`
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		c.MatchID, c.Rules, c.Rounds, c.RoundTime, c.RestTime, c.InjuryTime,
		c.BodyThreshold, c.HeadThreshold, c.HomeVideoReplayQuota, c.AwayVideoReplayQuota,
		c.GoldenPointEnabled, c.GoldenPointTime, c.MaxDifference, c.MaxPenalties,
	).Scan(&c.ID)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetConfiguration(ctx context.Context, exec SQLExecutor, matchID int) (*models.MatchConfiguration, error) {
	query := `SELECT ` + configurationColumns + ` FROM match_configurations WHERE match_id = $1`
	var c models.MatchConfiguration
	err := executor(r.db, exec).QueryRowContext(ctx, query, matchID).Scan(
		&c.ID, &c.MatchID, &c.Rules, &c.Rounds, &c.RoundTime, &c.RestTime, &c.InjuryTime,
		&c.BodyThreshold, &c.HeadThreshold, &c.HomeVideoReplayQuota, &c.AwayVideoReplayQuota,
		&c.GoldenPointEnabled, &c.GoldenPointTime, &c.MaxDifference, &c.MaxPenalties,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchConfigNotFound
		}
		return nil, fmt.Errorf("failed to get configuration for match %d: %w", matchID, err)
	}
	return &c, nil
}

func (r *postgresMatchRepository) DeleteConfiguration(ctx context.Context, exec SQLExecutor, matchID int) error {
	_, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM match_configurations WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete configuration for match %d: %w", matchID, err)
	}
	return nil
}
