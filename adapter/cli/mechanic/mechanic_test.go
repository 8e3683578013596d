package mechanic

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipisou/garage/adapter/cli"
	internalApp "github.com/pipisou/garage/internal/app"
	"github.com/pipisou/garage/internal/workforce/application/queries"
	"github.com/pipisou/garage/pkg/config"
)

func setupTestApp(t *testing.T) *cli.App {
	t.Helper()
	cfg := &config.Config{
		AppEnv:      "test",
		SQLitePath:  filepath.Join(t.TempDir(), "cli.db"),
		EventBroker: "none",
	}
	container, err := internalApp.NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(container.Close)

	app := cli.NewApp(container)
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return app
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

func TestParseDayFlag(t *testing.T) {
	day, err := parseDayFlag("monday=08:00-17:00,12:00-13:00")
	require.NoError(t, err)
	assert.Equal(t, "monday", day.Day)
	assert.Equal(t, "08:00", day.Start)
	assert.Equal(t, "17:00", day.End)
	assert.Equal(t, "12:00", day.PauseStart)
	assert.Equal(t, "13:00", day.PauseEnd)

	day, err = parseDayFlag("friday=09:00-12:00")
	require.NoError(t, err)
	assert.Empty(t, day.PauseStart)

	for _, bad := range []string{"monday", "monday=0800", "monday=08:00-17:00,noon"} {
		_, err := parseDayFlag(bad)
		assert.Error(t, err, bad)
	}
}

func TestMechanicCommands(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()

	email = ""
	out, err := run(t, "mechanic", "create", "Jane", "Doe", "--email", "jane@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered mechanic: Jane Doe")

	mechanics, err := app.ListMechanicsHandler.Handle(ctx)
	require.NoError(t, err)
	require.Len(t, mechanics, 1)
	id := mechanics[0].ID.String()

	out, err = run(t, "mechanic", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no schedule")

	dayFlags = nil
	out, err = run(t, "mechanic", "schedule", id, "--from", "2024-06-01",
		"--day", "monday=08:00-17:00,12:00-13:00",
		"--day", "tuesday=08:00-12:00")
	require.NoError(t, err)
	assert.Contains(t, out, "2 working days")

	out, err = run(t, "mechanic", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Mon,Tue")

	absenceStart, absenceEnd, absenceReason = "", "", ""
	_, err = run(t, "mechanic", "absence", "add", id, "2024-06-24", "--reason", "training")
	require.NoError(t, err)

	out, err = run(t, "mechanic", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "pause 12:00-13:00")
	assert.Contains(t, out, "Absent 2024-06-24")

	m, err := app.GetMechanicHandler.Handle(ctx, queries.GetMechanicQuery{MechanicID: mechanics[0].ID})
	require.NoError(t, err)
	require.Len(t, m.Absences, 1)

	_, err = run(t, "mechanic", "absence", "remove", id, m.Absences[0].ID.String())
	require.NoError(t, err)
	m, err = app.GetMechanicHandler.Handle(ctx, queries.GetMechanicQuery{MechanicID: mechanics[0].ID})
	require.NoError(t, err)
	assert.Empty(t, m.Absences)
}

func TestShowCmd_InvalidID(t *testing.T) {
	setupTestApp(t)
	_, err := run(t, "mechanic", "show", "nope")
	assert.ErrorContains(t, err, "invalid mechanic id")
}
