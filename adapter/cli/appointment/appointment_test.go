package appointment

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipisou/garage/adapter/cli"
	internalApp "github.com/pipisou/garage/internal/app"
	appointmentCommands "github.com/pipisou/garage/internal/appointments/application/commands"
	"github.com/pipisou/garage/internal/appointments/application/queries"
	catalogCommands "github.com/pipisou/garage/internal/catalog/application/commands"
	quoteCommands "github.com/pipisou/garage/internal/quotes/application/commands"
	workforceCommands "github.com/pipisou/garage/internal/workforce/application/commands"
	"github.com/pipisou/garage/pkg/config"
)

type fixture struct {
	app        *cli.App
	mechanicID uuid.UUID
	taskID     uuid.UUID
	quoteID    uuid.UUID
}

// setupTestApp wires a SQLite-backed container with one mechanic working
// Mondays 08:00-17:00 and a quote for one 30 minute task.
func setupTestApp(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		AppEnv:      "test",
		SQLitePath:  filepath.Join(t.TempDir(), "cli.db"),
		EventBroker: "none",
	}
	container, err := internalApp.NewContainer(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(container.Close)

	app := cli.NewApp(container)
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })

	mechanic, err := container.CreateMechanicHandler.Handle(ctx, workforceCommands.CreateMechanicCommand{FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)
	_, err = container.SetScheduleHandler.Handle(ctx, workforceCommands.SetScheduleCommand{
		MechanicID:    mechanic.MechanicID,
		EffectiveFrom: "2024-01-01",
		Days:          []workforceCommands.WorkDayInput{{Day: "monday", Start: "08:00", End: "17:00"}},
	})
	require.NoError(t, err)
	task, err := container.CreateTaskDefinitionHandler.Handle(ctx, catalogCommands.CreateTaskDefinitionCommand{
		Description: "Oil change", PriceCents: 8990, EstimatedMinutes: 30,
	})
	require.NoError(t, err)
	quote, err := container.CreateQuoteHandler.Handle(ctx, quoteCommands.CreateQuoteCommand{
		ClientID: uuid.New(), VehicleID: uuid.New(), TaskIDs: []uuid.UUID{task.TaskID},
	})
	require.NoError(t, err)

	return &fixture{app: app, mechanicID: mechanic.MechanicID, taskID: task.TaskID, quoteID: quote.QuoteID}
}

func (f *fixture) appointment(t *testing.T) *appointmentCommands.CreateAppointmentResult {
	t.Helper()
	created, err := f.app.CreateAppointmentHandler.Handle(context.Background(), appointmentCommands.CreateAppointmentCommand{QuoteID: f.quoteID})
	require.NoError(t, err)
	return created
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := cli.Root()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMain(m *testing.M) {
	cli.AddCommand(Cmd)
	m.Run()
}

func TestCreateCmd_CreatesAppointment(t *testing.T) {
	f := setupTestApp(t)
	requestedDates = nil

	out, err := run(t, "appointment", "create", f.quoteID.String(),
		"--date", "2024-06-17 08:00/2024-06-17 12:00")
	require.NoError(t, err)
	assert.Contains(t, out, "with 1 slots")

	list, err := f.app.ListAppointmentsHandler.Handle(context.Background(), queries.ListAppointmentsQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].RequestedDates, 1)
	assert.Equal(t, 8, list[0].RequestedDates[0].Start.Hour())
}

func TestCreateCmd_InvalidRange(t *testing.T) {
	f := setupTestApp(t)
	requestedDates = nil

	_, err := run(t, "appointment", "create", f.quoteID.String(), "--date", "2024-06-17 12:00")
	assert.ErrorContains(t, err, "START/END")
}

func TestAssignCmd(t *testing.T) {
	f := setupTestApp(t)
	created := f.appointment(t)
	slot := created.SlotIDs[0].String()
	mechanic := f.mechanicID.String()

	t.Run("rejects a window shorter than duration plus margin", func(t *testing.T) {
		slotFlags = nil
		out, err := run(t, "appointment", "assign", created.AppointmentID.String(),
			"--slot", slot+",mechanic="+mechanic+",start=2024-06-17T08:00,end=2024-06-17T08:20")
		assert.ErrorContains(t, err, "rejected")
		assert.Contains(t, out, "insufficient_duration")
	})

	t.Run("applies a valid assignment", func(t *testing.T) {
		slotFlags = nil
		out, err := run(t, "appointment", "assign", created.AppointmentID.String(),
			"--slot", slot+",mechanic="+mechanic+",start=2024-06-17T08:00,end=2024-06-17T08:40")
		require.NoError(t, err)
		assert.Contains(t, out, "ok")

		view, err := f.app.GetAppointmentHandler.Handle(context.Background(), queries.GetAppointmentQuery{AppointmentID: created.AppointmentID})
		require.NoError(t, err)
		require.NotNil(t, view.Slots[0].MechanicID)
		assert.Equal(t, f.mechanicID, *view.Slots[0].MechanicID)
	})

	t.Run("requires a slot", func(t *testing.T) {
		slotFlags = nil
		_, err := run(t, "appointment", "assign", created.AppointmentID.String())
		assert.ErrorContains(t, err, "--slot")
	})
}

func TestParseSlotFlag(t *testing.T) {
	f := setupTestApp(t)
	id := uuid.New()

	u, err := parseSlotFlag(id.String()+",start=2024-06-17 09:00", f.app.Calendar)
	require.NoError(t, err)
	assert.Equal(t, id, u.SlotID)
	assert.Nil(t, u.MechanicID)
	require.NotNil(t, u.Start)
	assert.Equal(t, 9, u.Start.Hour())
	assert.Nil(t, u.End)

	_, err = parseSlotFlag(id.String()+",colour=red", f.app.Calendar)
	assert.ErrorContains(t, err, "unknown slot field")

	_, err = parseSlotFlag("not-a-uuid", f.app.Calendar)
	assert.Error(t, err)
}

func TestArticlesCmd_ConsolidatesAndSkips(t *testing.T) {
	f := setupTestApp(t)
	created := f.appointment(t)
	article, err := f.app.RegisterArticleHandler.Handle(context.Background(), catalogCommands.RegisterArticleCommand{Name: "Brake pad"})
	require.NoError(t, err)
	id := article.ArticleID.String()

	lineFlags = nil
	out, err := run(t, "appointment", "articles", created.AppointmentID.String(),
		"--line", id+":2:12,50:8:ACME",
		"--line", "garbage",
		"--line", id+":3:12.5:8,00:ACME")
	require.NoError(t, err)
	assert.Contains(t, out, "5 x Brake pad @ 12.50 (ACME)")
	assert.Contains(t, out, "skipped line 2")
	assert.Contains(t, out, "1 articles saved")
}

func TestParseLineFlag_PadsMissingFields(t *testing.T) {
	line := parseLineFlag("abc:2")
	assert.Equal(t, "abc", line.ArticleID)
	assert.Equal(t, "2", line.Quantity)
	assert.Empty(t, line.SalePrice)
	assert.Empty(t, line.Supplier)

	line = parseLineFlag("abc:1:1:1:ACME: Paris")
	assert.Equal(t, "ACME: Paris", line.Supplier)
}

func TestLifecycleCmds(t *testing.T) {
	f := setupTestApp(t)
	created := f.appointment(t)
	id := created.AppointmentID.String()

	out, err := run(t, "appointment", "validate", id, "2024-06-17 08:00")
	require.NoError(t, err)
	assert.Contains(t, out, "validated for 2024-06-17 08:00")

	newDates = nil
	out, err = run(t, "appointment", "request-dates", id, "--date", "2024-06-18 08:00/2024-06-18 12:00")
	require.NoError(t, err)
	assert.Contains(t, out, "now pending with 1 requested ranges")

	_, err = run(t, "appointment", "status", id, "paid")
	require.NoError(t, err)
	_, err = run(t, "appointment", "status", id, "lost")
	assert.Error(t, err)

	out, err = run(t, "appointment", "invoice", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Total:      89.90")
	assert.Contains(t, out, "Amount due: 0.00")

	_, err = run(t, "appointment", "task-status", id, created.SlotIDs[0].String(), "done")
	require.NoError(t, err)
}

func TestDeleteCmd_RequiresForce(t *testing.T) {
	f := setupTestApp(t)
	created := f.appointment(t)
	id := created.AppointmentID.String()

	force = false
	out, err := run(t, "appointment", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "--force")
	_, err = f.app.GetAppointmentHandler.Handle(context.Background(), queries.GetAppointmentQuery{AppointmentID: created.AppointmentID})
	require.NoError(t, err)

	out, err = run(t, "appointment", "delete", id, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted appointment")
	force = false
}

func TestAttemptsCmd_Empty(t *testing.T) {
	f := setupTestApp(t)
	created := f.appointment(t)

	out, err := run(t, "appointment", "attempts", created.AppointmentID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "No scheduling attempts recorded.")
}
