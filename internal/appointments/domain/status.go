package domain

import "fmt"

// Status is the lifecycle state of an appointment. Any status may be set
// directly; only invoicing and conflict detection look at it.
type Status string

const (
	StatusPending                Status = "pending"
	StatusValidated              Status = "validated"
	StatusPresent                Status = "present"
	StatusAbsent                 Status = "absent"
	StatusPaid                   Status = "paid"
	StatusReprogrammedInterval   Status = "reprogrammed-interval"
	StatusReprogrammedChosenDate Status = "reprogrammed-chosen-date"
)

var statuses = []Status{
	StatusPending,
	StatusValidated,
	StatusPresent,
	StatusAbsent,
	StatusPaid,
	StatusReprogrammedInterval,
	StatusReprogrammedChosenDate,
}

func (s Status) IsValid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// TaskStatus tracks the progress of one task slot.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch st := TaskStatus(s); st {
	case TaskPending, TaskInProgress, TaskDone:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, s)
	}
}
