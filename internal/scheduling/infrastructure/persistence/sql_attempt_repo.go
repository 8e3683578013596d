package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/scheduling/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/database"
)

// SQLAttemptRepository persists assignment attempts.
type SQLAttemptRepository struct {
	db database.Session
}

func NewSQLAttemptRepository(conn database.Connection) *SQLAttemptRepository {
	return &SQLAttemptRepository{db: database.NewSession(conn)}
}

func (r *SQLAttemptRepository) Create(ctx context.Context, a domain.AssignmentAttempt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO assignment_attempts (
			id, appointment_id, slot_id, mechanic_id, task_id,
			start_at, end_at, accepted, reason, message, attempted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.AppointmentID, a.SlotID, a.MechanicID, a.TaskID,
		a.Start.UTC(), a.End.UTC(), a.Accepted, string(a.Reason), a.Message, a.AttemptedAt.UTC(),
	)
	return err
}

func (r *SQLAttemptRepository) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]domain.AssignmentAttempt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, appointment_id, slot_id, mechanic_id, task_id,
		       start_at, end_at, accepted, reason, message, attempted_at
		FROM assignment_attempts
		WHERE appointment_id = ?
		ORDER BY attempted_at, id`, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []domain.AssignmentAttempt
	for rows.Next() {
		var (
			a      domain.AssignmentAttempt
			reason string
		)
		if err := rows.Scan(&a.ID, &a.AppointmentID, &a.SlotID, &a.MechanicID, &a.TaskID,
			&a.Start, &a.End, &a.Accepted, &reason, &a.Message, &a.AttemptedAt); err != nil {
			return nil, err
		}
		a.Reason = domain.Reason(reason)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
