package domain

import (
	"time"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// CheckWorkingHours verifies that both ends of r fall on working days, inside
// the working hours and outside any pause window. Times are resolved in cal.
func CheckWorkingHours(cal sharedDomain.Calendar, a *Availability, r sharedDomain.TimeRange) error {
	startDay, ok := a.Day(cal.DayOfWeek(r.Start))
	if !ok {
		return Reject(ReasonOutsideWorkingHours, "mechanic does not work on %s", cal.DayOfWeek(r.Start))
	}
	endDay, ok := a.Day(cal.DayOfWeek(r.End))
	if !ok {
		return Reject(ReasonOutsideWorkingHours, "mechanic does not work on %s", cal.DayOfWeek(r.End))
	}

	// Compare instants, not clock times, so sub-minute overruns are caught.
	if shiftStart := cal.At(cal.DateOf(r.Start), startDay.Start); r.Start.Before(shiftStart) {
		return Reject(ReasonOutsideWorkingHours, "starts at %s before the %s shift begins at %s",
			cal.In(r.Start).Format(time.TimeOnly), startDay.Day, startDay.Start)
	}
	if shiftEnd := cal.At(cal.DateOf(r.End), endDay.End); r.End.After(shiftEnd) {
		return Reject(ReasonOutsideWorkingHours, "ends at %s after the %s shift ends at %s",
			cal.In(r.End).Format(time.TimeOnly), endDay.Day, endDay.End)
	}

	days := []sharedDomain.Date{cal.DateOf(r.Start)}
	if endDate := cal.DateOf(r.End); endDate != days[0] {
		days = append(days, endDate)
	}
	for _, date := range days {
		day, _ := a.Day(cal.DayOfWeek(cal.At(date, sharedDomain.ClockTime{})))
		pauseStart, pauseEnd, ok := day.Pause()
		if !ok {
			continue
		}
		pause := sharedDomain.TimeRange{Start: cal.At(date, pauseStart), End: cal.At(date, pauseEnd)}
		if pause.Overlaps(r) {
			return Reject(ReasonOutsideWorkingHours, "overlaps the %s pause %s-%s", day.Day, pauseStart, pauseEnd)
		}
	}
	return nil
}

// CheckAbsence rejects r when an absence blocks it under matching.
func CheckAbsence(cal sharedDomain.Calendar, matching AbsenceMatching, a *Availability, r sharedDomain.TimeRange) error {
	startDate := cal.DateOf(r.Start)
	for _, abs := range a.Absences {
		switch matching {
		case AbsenceMatchWindow:
			window := sharedDomain.TimeRange{Start: cal.At(abs.Date, abs.Start), End: cal.At(abs.Date, abs.End)}
			if window.Overlaps(r) {
				return Reject(ReasonMechanicAbsent, "mechanic is absent on %s from %s to %s", abs.Date, abs.Start, abs.End)
			}
		default:
			if abs.Date == startDate {
				return Reject(ReasonMechanicAbsent, "mechanic is absent on %s", abs.Date)
			}
		}
	}
	return nil
}

// CheckOverlap rejects r when it overlaps a booking of another slot.
func CheckOverlap(idx *BookingIndex, c Candidate, r sharedDomain.TimeRange) error {
	if b, ok := idx.FirstConflict(r, c.SlotID); ok {
		return Reject(ReasonSchedulingConflict, "mechanic already booked from %s to %s (slot %s)",
			b.Interval.Start.Format("2006-01-02 15:04"), b.Interval.End.Format("2006-01-02 15:04"), b.SlotID)
	}
	return nil
}

// CheckDuration rejects r when it is shorter than estimate plus margin.
// Durations are compared in whole minutes, rounding down.
func CheckDuration(req TaskRequirement, r sharedDomain.TimeRange) error {
	if got, want := r.DurationMinutes(), req.RequiredMinutes(); got < want {
		return Reject(ReasonInsufficientDuration, "%d minutes booked, %d required (%d estimated + %d margin)",
			got, want, req.EstimatedMinutes, req.MarginMinutes)
	}
	return nil
}
