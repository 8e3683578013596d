package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/database"
	"github.com/pipisou/garage/internal/workforce/domain"
)

// SQLMechanicRepository stores mechanics with their schedules and absences.
type SQLMechanicRepository struct {
	db database.Session
}

func NewSQLMechanicRepository(conn database.Connection) *SQLMechanicRepository {
	return &SQLMechanicRepository{db: database.NewSession(conn)}
}

// workDayRow is the JSON shape of one entry of work_schedules.days.
type workDayRow struct {
	Day        string                  `json:"day"`
	Start      sharedDomain.ClockTime  `json:"start"`
	End        sharedDomain.ClockTime  `json:"end"`
	PauseStart *sharedDomain.ClockTime `json:"pause_start,omitempty"`
	PauseEnd   *sharedDomain.ClockTime `json:"pause_end,omitempty"`
}

func (r *SQLMechanicRepository) Save(ctx context.Context, m *domain.Mechanic) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO mechanics (id, first_name, last_name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			updated_at = excluded.updated_at`,
		m.ID(), m.FirstName(), m.LastName(), m.Email(), m.CreatedAt().UTC(), m.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save mechanic: %w", err)
	}

	if s := m.Schedule(); s != nil {
		if err := r.saveSchedule(ctx, m.ID(), s); err != nil {
			return err
		}
	}
	return r.replaceAbsences(ctx, m.ID(), m.Absences())
}

func (r *SQLMechanicRepository) saveSchedule(ctx context.Context, mechanicID uuid.UUID, s *domain.WorkSchedule) error {
	days := make([]workDayRow, 0, len(s.Days()))
	for _, d := range s.Days() {
		days = append(days, workDayRow{
			Day:        d.Day.String(),
			Start:      d.Start,
			End:        d.End,
			PauseStart: d.PauseStart,
			PauseEnd:   d.PauseEnd,
		})
	}
	payload, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("encode work days: %w", err)
	}

	// Schedules are immutable once written; a new one supersedes the old.
	_, err = r.db.Exec(ctx, `
		INSERT INTO work_schedules (id, mechanic_id, effective_from, days, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		s.ID(), mechanicID, s.EffectiveFrom().String(), string(payload), s.CreatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save work schedule: %w", err)
	}
	return nil
}

func (r *SQLMechanicRepository) replaceAbsences(ctx context.Context, mechanicID uuid.UUID, absences []*domain.Absence) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM absences WHERE mechanic_id = ?`, mechanicID); err != nil {
		return fmt.Errorf("clear absences: %w", err)
	}
	for _, a := range absences {
		_, err := r.db.Exec(ctx, `
			INSERT INTO absences (id, mechanic_id, absence_date, start_time, end_time, reason, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ID(), mechanicID, a.Date().String(), a.Start().String(), a.End().String(), a.Reason(), a.CreatedAt().UTC(),
		)
		if err != nil {
			return fmt.Errorf("save absence: %w", err)
		}
	}
	return nil
}

func (r *SQLMechanicRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Mechanic, error) {
	var (
		mid                  uuid.UUID
		first, last, email   string
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, created_at, updated_at
		FROM mechanics WHERE id = ?`, id,
	).Scan(&mid, &first, &last, &email, &createdAt, &updatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find mechanic: %w", err)
	}
	return r.assemble(ctx, mid, first, last, email, createdAt, updatedAt)
}

func (r *SQLMechanicRepository) List(ctx context.Context) ([]*domain.Mechanic, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, first_name, last_name, email, created_at, updated_at
		FROM mechanics ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, fmt.Errorf("list mechanics: %w", err)
	}

	type mechanicRow struct {
		id                   uuid.UUID
		first, last, email   string
		createdAt, updatedAt time.Time
	}
	var found []mechanicRow
	for rows.Next() {
		var row mechanicRow
		if err := rows.Scan(&row.id, &row.first, &row.last, &row.email, &row.createdAt, &row.updatedAt); err != nil {
			_ = rows.Close()
			return nil, err
		}
		found = append(found, row)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// Close before issuing the per-mechanic queries; SQLite runs on one connection.
	_ = rows.Close()

	mechanics := make([]*domain.Mechanic, 0, len(found))
	for _, row := range found {
		m, err := r.assemble(ctx, row.id, row.first, row.last, row.email, row.createdAt, row.updatedAt)
		if err != nil {
			return nil, err
		}
		mechanics = append(mechanics, m)
	}
	return mechanics, nil
}

func (r *SQLMechanicRepository) assemble(ctx context.Context, id uuid.UUID, first, last, email string, createdAt, updatedAt time.Time) (*domain.Mechanic, error) {
	schedule, err := r.latestSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	absences, err := r.absences(ctx, id)
	if err != nil {
		return nil, err
	}
	base := sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), 0)
	return domain.RehydrateMechanic(base, first, last, email, schedule, absences), nil
}

// latestSchedule returns the most recently created schedule, the only one
// availability checks consult.
func (r *SQLMechanicRepository) latestSchedule(ctx context.Context, mechanicID uuid.UUID) (*domain.WorkSchedule, error) {
	var (
		id            uuid.UUID
		effectiveFrom string
		payload       string
		createdAt     time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, effective_from, days, created_at
		FROM work_schedules
		WHERE mechanic_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, mechanicID,
	).Scan(&id, &effectiveFrom, &payload, &createdAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find work schedule: %w", err)
	}

	from, err := sharedDomain.ParseDate(effectiveFrom)
	if err != nil {
		return nil, fmt.Errorf("work schedule %s: %w", id, err)
	}
	var rows []workDayRow
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		return nil, fmt.Errorf("decode work days: %w", err)
	}
	days := make([]domain.WorkDay, 0, len(rows))
	for _, row := range rows {
		day, err := domain.ParseWeekday(row.Day)
		if err != nil {
			return nil, err
		}
		days = append(days, domain.WorkDay{
			Day:        day,
			Start:      row.Start,
			End:        row.End,
			PauseStart: row.PauseStart,
			PauseEnd:   row.PauseEnd,
		})
	}
	return domain.RehydrateWorkSchedule(id, from, days, createdAt), nil
}

func (r *SQLMechanicRepository) absences(ctx context.Context, mechanicID uuid.UUID) ([]*domain.Absence, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, absence_date, start_time, end_time, reason, created_at
		FROM absences
		WHERE mechanic_id = ?
		ORDER BY absence_date, start_time`, mechanicID)
	if err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}
	defer rows.Close()

	var absences []*domain.Absence
	for rows.Next() {
		var (
			id                     uuid.UUID
			date, start, end, note string
			createdAt              time.Time
		)
		if err := rows.Scan(&id, &date, &start, &end, &note, &createdAt); err != nil {
			return nil, err
		}
		d, err := sharedDomain.ParseDate(date)
		if err != nil {
			return nil, err
		}
		from, err := sharedDomain.ParseClockTime(start)
		if err != nil {
			return nil, err
		}
		to, err := sharedDomain.ParseClockTime(end)
		if err != nil {
			return nil, err
		}
		absences = append(absences, domain.RehydrateAbsence(id, d, from, to, note, createdAt))
	}
	return absences, rows.Err()
}
