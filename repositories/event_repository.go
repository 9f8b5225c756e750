package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tkd-competition/models"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionInvalid  = errors.New("session event conflict or invalid")
)

type EventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.Event) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error)
	// LockByID takes a row lock on the event for the rest of the transaction.
	LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Event, error)

	CreateSession(ctx context.Context, exec SQLExecutor, session *models.Session) error
	GetSession(ctx context.Context, exec SQLExecutor, id int) (*models.Session, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, name, discipline, division, gender, created_at`

func scanEvent(row rowScanner) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Name, &e.Discipline, &e.Division, &e.Gender, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *postgresEventRepository) Create(ctx context.Context, exec SQLExecutor, event *models.Event) error {
	query := `
		INSERT INTO events (name, discipline, division, gender)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return executor(r.db, exec).QueryRowContext(ctx, query,
		event.Name, event.Discipline, event.Division, event.Gender,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrEventNotFound) {
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return e, err
}

func (r *postgresEventRepository) LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	e, err := scanEvent(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrEventNotFound) {
		return nil, fmt.Errorf("failed to lock event %d: %w", id, err)
	}
	return e, err
}

func (r *postgresEventRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Event, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during event rows iteration: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) CreateSession(ctx context.Context, exec SQLExecutor, session *models.Session) error {
	query := `
		INSERT INTO sessions (event_id, name, starts_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		session.EventID, session.Name, session.StartsAt,
	).Scan(&session.ID, &session.CreatedAt)
	if isForeignKeyViolation(err) {
		return ErrSessionInvalid
	}
	return err
}

func (r *postgresEventRepository) GetSession(ctx context.Context, exec SQLExecutor, id int) (*models.Session, error) {
	query := `SELECT id, event_id, name, starts_at, created_at FROM sessions WHERE id = $1`
	var s models.Session
	err := executor(r.db, exec).QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.EventID, &s.Name, &s.StartsAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session %d: %w", id, err)
	}
	return &s, nil
}
