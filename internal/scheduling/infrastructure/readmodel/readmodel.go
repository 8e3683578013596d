// Package readmodel adapts the workforce and catalog stores to the lookups
// the assignment validator needs.
package readmodel

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	catalogDomain "github.com/pipisou/garage/internal/catalog/domain"
	"github.com/pipisou/garage/internal/scheduling/domain"
	workforceDomain "github.com/pipisou/garage/internal/workforce/domain"
)

// WorkforceAvailability reads mechanic availability from the workforce store.
type WorkforceAvailability struct {
	mechanics workforceDomain.MechanicRepository
}

func NewWorkforceAvailability(mechanics workforceDomain.MechanicRepository) *WorkforceAvailability {
	return &WorkforceAvailability{mechanics: mechanics}
}

func (a *WorkforceAvailability) Availability(ctx context.Context, mechanicID uuid.UUID) (*domain.Availability, error) {
	mechanic, err := a.mechanics.FindByID(ctx, mechanicID)
	if err != nil {
		return nil, fmt.Errorf("load mechanic %s: %w", mechanicID, err)
	}
	if mechanic == nil {
		return nil, fmt.Errorf("mechanic %s: %w", mechanicID, domain.ErrNotFound)
	}

	out := &domain.Availability{MechanicID: mechanic.ID()}
	// Without a schedule the mechanic has no working day at all.
	if s := mechanic.Schedule(); s != nil {
		for _, d := range s.Days() {
			out.Days = append(out.Days, domain.WorkingDay{
				Day:        d.Day,
				Start:      d.Start,
				End:        d.End,
				PauseStart: d.PauseStart,
				PauseEnd:   d.PauseEnd,
			})
		}
	}
	for _, abs := range mechanic.Absences() {
		out.Absences = append(out.Absences, domain.AbsenceWindow{
			Date:  abs.Date(),
			Start: abs.Start(),
			End:   abs.End(),
		})
	}
	return out, nil
}

// CatalogRequirements reads task durations from the catalogue.
type CatalogRequirements struct {
	tasks catalogDomain.TaskDefinitionRepository
}

func NewCatalogRequirements(tasks catalogDomain.TaskDefinitionRepository) *CatalogRequirements {
	return &CatalogRequirements{tasks: tasks}
}

func (c *CatalogRequirements) Requirement(ctx context.Context, taskID uuid.UUID) (*domain.TaskRequirement, error) {
	task, err := c.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("load task definition %s: %w", taskID, err)
	}
	if task == nil {
		return nil, fmt.Errorf("task definition %s: %w", taskID, domain.ErrNotFound)
	}
	return &domain.TaskRequirement{
		TaskID:           task.ID(),
		EstimatedMinutes: task.EstimatedMinutes(),
		MarginMinutes:    task.MarginMinutes(),
	}, nil
}
