package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	scheduling "github.com/pipisou/garage/internal/scheduling/domain"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/database"
)

// SQLCommittedBookingReader lists a mechanic's scheduled slots across every
// appointment in a committed status. It rides the (mechanic_id, start_at)
// index rather than scanning appointments.
type SQLCommittedBookingReader struct {
	db database.Session
}

func NewSQLCommittedBookingReader(conn database.Connection) *SQLCommittedBookingReader {
	return &SQLCommittedBookingReader{db: database.NewSession(conn)}
}

func (r *SQLCommittedBookingReader) ListCommitted(ctx context.Context, mechanicID uuid.UUID, statuses []string) ([]scheduling.Booking, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(statuses)+1)
	args = append(args, mechanicID)
	for _, s := range statuses {
		args = append(args, s)
	}

	rows, err := r.db.Query(ctx, `
		SELECT t.appointment_id, t.id, t.start_at, t.end_at
		FROM appointment_tasks t
		JOIN appointments a ON a.id = t.appointment_id
		WHERE t.mechanic_id = ?
		  AND t.start_at IS NOT NULL
		  AND t.end_at IS NOT NULL
		  AND a.status IN (`+database.Placeholders(len(statuses))+`)
		ORDER BY t.start_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("list committed bookings: %w", err)
	}
	defer rows.Close()

	var bookings []scheduling.Booking
	for rows.Next() {
		var (
			b          scheduling.Booking
			start, end time.Time
		)
		if err := rows.Scan(&b.AppointmentID, &b.SlotID, &start, &end); err != nil {
			return nil, err
		}
		b.MechanicID = mechanicID
		b.Interval = sharedDomain.TimeRange{Start: start.UTC(), End: end.UTC()}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
