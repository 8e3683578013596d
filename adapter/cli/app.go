package cli

import (
	"errors"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/app"
)

// ErrNotInitialized is returned by commands run without a database.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// App holds the CLI application dependencies.
type App struct {
	*app.Container

	// ActorID is stamped on the domain events of every command.
	ActorID uuid.UUID
}

// NewApp exposes the container's handlers to the commands.
func NewApp(c *app.Container) *App {
	return &App{Container: c}
}

// SetActorID updates the actor recorded on events.
func (a *App) SetActorID(id uuid.UUID) {
	a.ActorID = id
}

// cliApp is the global CLI application instance
var cliApp *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	cliApp = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return cliApp
}

// RequireApp returns the application or ErrNotInitialized.
func RequireApp() (*App, error) {
	if cliApp == nil || cliApp.Container == nil {
		return nil, ErrNotInitialized
	}
	return cliApp, nil
}
