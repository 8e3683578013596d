package domain

import (
	"errors"
	"fmt"
	"strings"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// DefaultMarginMinutes is added to the estimate when no margin is given.
const DefaultMarginMinutes = 10

var (
	ErrTaskDefinitionNotFound = errors.New("task definition not found")
	ErrInvalidTaskDefinition  = errors.New("invalid task definition")
)

// TaskDefinition is a priced unit of work from the workshop catalogue.
type TaskDefinition struct {
	sharedDomain.BaseAggregateRoot
	description      string
	priceCents       int64
	estimatedMinutes int
	marginMinutes    int
}

// NewTaskDefinition validates and creates a catalogue entry. A nil margin
// means DefaultMarginMinutes.
func NewTaskDefinition(description string, priceCents int64, estimatedMinutes int, marginMinutes *int) (*TaskDefinition, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidTaskDefinition)
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("%w: negative price", ErrInvalidTaskDefinition)
	}
	if estimatedMinutes <= 0 {
		return nil, fmt.Errorf("%w: estimated duration must be positive", ErrInvalidTaskDefinition)
	}
	margin := DefaultMarginMinutes
	if marginMinutes != nil {
		margin = *marginMinutes
	}
	if margin < 0 {
		return nil, fmt.Errorf("%w: margin must be >= 0", ErrInvalidTaskDefinition)
	}
	return &TaskDefinition{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		description:       description,
		priceCents:        priceCents,
		estimatedMinutes:  estimatedMinutes,
		marginMinutes:     margin,
	}, nil
}

func RehydrateTaskDefinition(base sharedDomain.BaseAggregateRoot, description string, priceCents int64, estimatedMinutes, marginMinutes int) *TaskDefinition {
	return &TaskDefinition{
		BaseAggregateRoot: base,
		description:       description,
		priceCents:        priceCents,
		estimatedMinutes:  estimatedMinutes,
		marginMinutes:     marginMinutes,
	}
}

func (t *TaskDefinition) Description() string   { return t.description }
func (t *TaskDefinition) PriceCents() int64     { return t.priceCents }
func (t *TaskDefinition) EstimatedMinutes() int { return t.estimatedMinutes }
func (t *TaskDefinition) MarginMinutes() int    { return t.marginMinutes }

// RequiredMinutes is the shortest slot the task fits in.
func (t *TaskDefinition) RequiredMinutes() int {
	return t.estimatedMinutes + t.marginMinutes
}
