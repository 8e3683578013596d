package domain

import "fmt"

// BatchPolicy decides what happens to accepted slots when a sibling slot in
// the same request is rejected.
type BatchPolicy string

const (
	// BatchPerSlot commits every accepted slot and reports rejections per slot.
	BatchPerSlot BatchPolicy = "per_slot"
	// BatchAllOrNothing rolls back the whole request on the first rejection.
	BatchAllOrNothing BatchPolicy = "all_or_nothing"
)

func ParseBatchPolicy(s string) (BatchPolicy, error) {
	switch p := BatchPolicy(s); p {
	case BatchPerSlot, BatchAllOrNothing:
		return p, nil
	case "":
		return BatchPerSlot, nil
	default:
		return "", fmt.Errorf("unknown batch policy %q", s)
	}
}

// AbsenceMatching decides how a recorded absence blocks a candidate.
type AbsenceMatching string

const (
	// AbsenceMatchFullDay blocks any candidate starting on the absence date.
	AbsenceMatchFullDay AbsenceMatching = "full_day"
	// AbsenceMatchWindow blocks only candidates overlapping the absence hours.
	AbsenceMatchWindow AbsenceMatching = "window"
)

func ParseAbsenceMatching(s string) (AbsenceMatching, error) {
	switch m := AbsenceMatching(s); m {
	case AbsenceMatchFullDay, AbsenceMatchWindow:
		return m, nil
	case "":
		return AbsenceMatchFullDay, nil
	default:
		return "", fmt.Errorf("unknown absence matching %q", s)
	}
}

// Policy groups the tunable scheduling rules.
type Policy struct {
	Batch             BatchPolicy
	Absence           AbsenceMatching
	CommittedStatuses []string
}

// DefaultCommittedStatuses are the appointment statuses whose slots block
// other bookings.
var DefaultCommittedStatuses = []string{"present"}

func DefaultPolicy() Policy {
	return Policy{
		Batch:             BatchPerSlot,
		Absence:           AbsenceMatchFullDay,
		CommittedStatuses: DefaultCommittedStatuses,
	}
}
