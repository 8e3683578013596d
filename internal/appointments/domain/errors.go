package domain

import "errors"

var (
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrSlotNotFound           = errors.New("task slot not found")
	ErrInvalidStatus          = errors.New("invalid appointment status")
	ErrInvalidTaskStatus      = errors.New("invalid task status")
	ErrInvalidAppointment     = errors.New("invalid appointment")
	ErrMalformedArticleLine   = errors.New("malformed article line")
	ErrConcurrentModification = errors.New("appointment was modified concurrently")
)
