package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// instantLayouts are tried in order. Layouts without a zone are read in the
// scheduling timezone.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseID parses a UUID argument, naming what in the error.
func ParseID(what, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", what, s, err)
	}
	return id, nil
}

// ParseIDs parses a list of UUID arguments.
func ParseIDs(what string, values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := ParseID(what, v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseInstant reads an RFC 3339 timestamp or a local "YYYY-MM-DD HH:MM".
func ParseInstant(s string, cal sharedDomain.Calendar) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, cal.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, use YYYY-MM-DD HH:MM or RFC 3339", s)
}

// ParseRange reads "START/END" into a time range.
func ParseRange(s string, cal sharedDomain.Calendar) (sharedDomain.TimeRange, error) {
	from, to, ok := strings.Cut(s, "/")
	if !ok {
		return sharedDomain.TimeRange{}, fmt.Errorf("invalid range %q, use START/END", s)
	}
	start, err := ParseInstant(from, cal)
	if err != nil {
		return sharedDomain.TimeRange{}, err
	}
	end, err := ParseInstant(to, cal)
	if err != nil {
		return sharedDomain.TimeRange{}, err
	}
	return sharedDomain.NewTimeRange(start, end)
}

// FormatInstant prints t in the scheduling timezone, or "-" when nil.
func FormatInstant(t *time.Time, cal sharedDomain.Calendar) string {
	if t == nil {
		return "-"
	}
	return cal.In(*t).Format("2006-01-02 15:04")
}

// FormatCents prints an amount in cents as units with two decimals.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
