package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/appointments/domain"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/database"
)

const appointmentColumns = `id, client_id, quote_id, status, requested_dates, chosen_date,
	consumed_articles, version, created_at, updated_at`

// SQLAppointmentRepository stores appointments in appointments and their
// slots in appointment_tasks.
type SQLAppointmentRepository struct {
	db database.Session
}

var (
	_ domain.Repository                            = (*SQLAppointmentRepository)(nil)
	_ sharedDomain.Repository[*domain.Appointment] = (*SQLAppointmentRepository)(nil)
)

func NewSQLAppointmentRepository(conn database.Connection) *SQLAppointmentRepository {
	return &SQLAppointmentRepository{db: database.NewSession(conn)}
}

type requestedRow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Save writes the appointment with an optimistic version check, then
// rewrites its slots.
func (r *SQLAppointmentRepository) Save(ctx context.Context, a *domain.Appointment) error {
	requested := make([]requestedRow, 0, len(a.RequestedDates()))
	for _, d := range a.RequestedDates() {
		requested = append(requested, requestedRow{Start: d.Start.UTC(), End: d.End.UTC()})
	}
	requestedJSON, err := json.Marshal(requested)
	if err != nil {
		return fmt.Errorf("encode requested dates: %w", err)
	}
	articles := a.ConsumedArticles()
	if articles == nil {
		articles = []domain.ConsumedArticle{}
	}
	articlesJSON, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("encode consumed articles: %w", err)
	}

	expected := a.Version()
	res, err := r.db.Exec(ctx, `
		UPDATE appointments SET
			status = ?, requested_dates = ?, chosen_date = ?, consumed_articles = ?,
			version = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		string(a.Status()), string(requestedJSON), utcOrNil(a.ChosenDate()), string(articlesJSON),
		expected+1, a.UpdatedAt().UTC(), a.ID(), expected,
	)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if n == 0 {
		if err := r.insert(ctx, a, string(requestedJSON), string(articlesJSON)); err != nil {
			return err
		}
	}

	if err := r.replaceTasks(ctx, a); err != nil {
		return err
	}
	a.MarkSaved()
	return nil
}

func (r *SQLAppointmentRepository) insert(ctx context.Context, a *domain.Appointment, requestedJSON, articlesJSON string) error {
	var exists int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE id = ?`, a.ID()).Scan(&exists); err != nil {
		return fmt.Errorf("check appointment: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s at version %d", domain.ErrConcurrentModification, a.ID(), a.Version())
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID(), a.ClientID(), a.QuoteID(), string(a.Status()), requestedJSON, utcOrNil(a.ChosenDate()),
		articlesJSON, a.Version()+1, a.CreatedAt().UTC(), a.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *SQLAppointmentRepository) replaceTasks(ctx context.Context, a *domain.Appointment) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM appointment_tasks WHERE appointment_id = ?`, a.ID()); err != nil {
		return fmt.Errorf("clear appointment tasks: %w", err)
	}
	for pos, t := range a.Tasks() {
		var mechanic uuid.NullUUID
		if t.MechanicID != nil {
			mechanic = uuid.NullUUID{UUID: *t.MechanicID, Valid: true}
		}
		_, err := r.db.Exec(ctx, `
			INSERT INTO appointment_tasks (id, appointment_id, position, task_id, mechanic_id, start_at, end_at, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.SlotID, a.ID(), pos, t.TaskID, mechanic, utcOrNil(t.Start), utcOrNil(t.End), string(t.Status),
		)
		if err != nil {
			return fmt.Errorf("save appointment task: %w", err)
		}
	}
	return nil
}

func (r *SQLAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	row, err := scanAppointmentRow(r.db.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return r.assemble(ctx, row)
}

func (r *SQLAppointmentRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Appointment, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.ClientID != uuid.Nil {
		where = append(where, "client_id = ?")
		args = append(args, filter.ClientID)
	}
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	var found []appointmentRow
	for rows.Next() {
		row, err := scanAppointmentRow(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		found = append(found, row)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	out := make([]*domain.Appointment, 0, len(found))
	for _, row := range found {
		a, err := r.assemble(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Delete removes the appointment; its slots go with it.
func (r *SQLAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM appointment_tasks WHERE appointment_id = ?`, id); err != nil {
		return fmt.Errorf("delete appointment tasks: %w", err)
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

type appointmentRow struct {
	id, clientID, quoteID uuid.UUID
	status                string
	requested, articles   string
	chosenDate            *time.Time
	version               int
	createdAt, updatedAt  time.Time
}

func scanAppointmentRow(row database.Row) (appointmentRow, error) {
	var a appointmentRow
	err := row.Scan(&a.id, &a.clientID, &a.quoteID, &a.status, &a.requested, &a.chosenDate,
		&a.articles, &a.version, &a.createdAt, &a.updatedAt)
	return a, err
}

func (r *SQLAppointmentRepository) assemble(ctx context.Context, row appointmentRow) (*domain.Appointment, error) {
	var requested []requestedRow
	if err := json.Unmarshal([]byte(row.requested), &requested); err != nil {
		return nil, fmt.Errorf("decode requested dates: %w", err)
	}
	ranges := make([]sharedDomain.TimeRange, 0, len(requested))
	for _, q := range requested {
		ranges = append(ranges, sharedDomain.TimeRange{Start: q.Start, End: q.End})
	}

	var articles []domain.ConsumedArticle
	if err := json.Unmarshal([]byte(row.articles), &articles); err != nil {
		return nil, fmt.Errorf("decode consumed articles: %w", err)
	}

	tasks, err := r.tasks(ctx, row.id)
	if err != nil {
		return nil, err
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(
		sharedDomain.RehydrateBaseEntity(row.id, row.createdAt, row.updatedAt), row.version)
	return domain.RehydrateAppointment(base, row.clientID, row.quoteID, domain.Status(row.status),
		ranges, utcPtr(row.chosenDate), tasks, articles), nil
}

func (r *SQLAppointmentRepository) tasks(ctx context.Context, appointmentID uuid.UUID) ([]domain.TaskAssignment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, task_id, mechanic_id, start_at, end_at, status
		FROM appointment_tasks
		WHERE appointment_id = ?
		ORDER BY position`, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("list appointment tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.TaskAssignment
	for rows.Next() {
		var (
			t          domain.TaskAssignment
			mechanic   uuid.NullUUID
			start, end *time.Time
			status     string
		)
		if err := rows.Scan(&t.SlotID, &t.TaskID, &mechanic, &start, &end, &status); err != nil {
			return nil, err
		}
		if mechanic.Valid {
			id := mechanic.UUID
			t.MechanicID = &id
		}
		t.Start, t.End = utcPtr(start), utcPtr(end)
		t.Status = domain.TaskStatus(status)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func utcOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
