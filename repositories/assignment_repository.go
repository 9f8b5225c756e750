package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tkd-competition/models"
)

var (
	ErrRefereeAssignmentNotFound = errors.New("referee assignment not found")
	ErrAssignmentMatchInvalid    = errors.New("assignment match conflict or invalid")
)

type AssignmentRepository interface {
	UpsertReferees(ctx context.Context, exec SQLExecutor, a *models.RefereeAssignment) error
	GetReferees(ctx context.Context, exec SQLExecutor, matchID int) (*models.RefereeAssignment, error)
	UpsertEquipment(ctx context.Context, exec SQLExecutor, a *models.EquipmentAssignment) error
	ListEquipment(ctx context.Context, exec SQLExecutor, matchID int) ([]models.EquipmentAssignment, error)
	// DeleteByMatch removes both referee and equipment rows of a match.
	DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresAssignmentRepository struct {
	db *sql.DB
}

func NewPostgresAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &postgresAssignmentRepository{db: db}
}

func (r *postgresAssignmentRepository) UpsertReferees(ctx context.Context, exec SQLExecutor, a *models.RefereeAssignment) error {
	query := `
		INSERT INTO referee_assignments (match_id, ref_j1_id, ref_j2_id, ref_j3_id, ref_cr_id, ref_rj_id, ref_ta_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id) DO UPDATE SET
			ref_j1_id = EXCLUDED.ref_j1_id,
			ref_j2_id = EXCLUDED.ref_j2_id,
			ref_j3_id = EXCLUDED.ref_j3_id,
			ref_cr_id = EXCLUDED.ref_cr_id,
			ref_rj_id = EXCLUDED.ref_rj_id,
			ref_ta_id = EXCLUDED.ref_ta_id
		RETURNING id`
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		a.MatchID, a.RefJ1ID, a.RefJ2ID, a.RefJ3ID, a.RefCRID, a.RefRJID, a.RefTAID,
	).Scan(&a.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrAssignmentMatchInvalid
		}
		return fmt.Errorf("failed to upsert referees for match %d: %w", a.MatchID, err)
	}
	return nil
}

func (r *postgresAssignmentRepository) GetReferees(ctx context.Context, exec SQLExecutor, matchID int) (*models.RefereeAssignment, error) {
	query := `
		SELECT id, match_id, ref_j1_id, ref_j2_id, ref_j3_id, ref_cr_id, ref_rj_id, ref_ta_id
		FROM referee_assignments WHERE match_id = $1`
	var a models.RefereeAssignment
	err := executor(r.db, exec).QueryRowContext(ctx, query, matchID).Scan(
		&a.ID, &a.MatchID, &a.RefJ1ID, &a.RefJ2ID, &a.RefJ3ID, &a.RefCRID, &a.RefRJID, &a.RefTAID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefereeAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get referees for match %d: %w", matchID, err)
	}
	return &a, nil
}

func (r *postgresAssignmentRepository) UpsertEquipment(ctx context.Context, exec SQLExecutor, a *models.EquipmentAssignment) error {
	query := `
		INSERT INTO equipment_assignments (match_id, competitor_id, chest_sensor_id, head_sensor_id, device_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id, competitor_id) DO UPDATE SET
			chest_sensor_id = EXCLUDED.chest_sensor_id,
			head_sensor_id = EXCLUDED.head_sensor_id,
			device_type = EXCLUDED.device_type
		RETURNING id`
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		a.MatchID, a.CompetitorID, a.ChestSensorID, a.HeadSensorID, a.DeviceType,
	).Scan(&a.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrAssignmentMatchInvalid
		}
		return fmt.Errorf("failed to upsert equipment for match %d: %w", a.MatchID, err)
	}
	return nil
}

func (r *postgresAssignmentRepository) ListEquipment(ctx context.Context, exec SQLExecutor, matchID int) ([]models.EquipmentAssignment, error) {
	query := `
		SELECT id, match_id, competitor_id, chest_sensor_id, head_sensor_id, device_type
		FROM equipment_assignments WHERE match_id = $1 ORDER BY id`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment for match %d: %w", matchID, err)
	}
	defer rows.Close()

	out := make([]models.EquipmentAssignment, 0)
	for rows.Next() {
		var a models.EquipmentAssignment
		if err := rows.Scan(&a.ID, &a.MatchID, &a.CompetitorID, &a.ChestSensorID, &a.HeadSensorID, &a.DeviceType); err != nil {
			return nil, fmt.Errorf("failed to scan equipment row: %w", err)
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during equipment rows iteration: %w", err)
	}
	return out, nil
}

func (r *postgresAssignmentRepository) DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	ex := executor(r.db, exec)
	if _, err := ex.ExecContext(ctx, `DELETE FROM referee_assignments WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("failed to delete referee assignment of match %d: %w", matchID, err)
	}
	if _, err := ex.ExecContext(ctx, `DELETE FROM equipment_assignments WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("failed to delete equipment assignments of match %d: %w", matchID, err)
	}
	return nil
}
