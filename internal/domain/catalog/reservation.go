package catalog

import (
	"errors"
	"time"
)

var (
	ErrUnknownReservation = errors.New("catalog: unknown reservation token")
	ErrAlreadyFinalized   = errors.New("catalog: reservation already finalized")
)

type ReservationState string

const (
	ReservationReserved  ReservationState = "reserved"
	ReservationReleased  ReservationState = "released"
	ReservationCommitted ReservationState = "committed"
)

// ReservationLine is one provisionally decremented stock position.
type ReservationLine struct {
	ProductID string
	Quantity  int
}

// Reservation is the opaque handle for a provisional stock decrement. While in
// the reserved state it can be released (stock restored) or committed
// (decrement made permanent); both are terminal.
type Reservation struct {
	Token     string
	Lines     []ReservationLine
	State     ReservationState
	CreatedAt time.Time
}

// Finalized reports whether the reservation can no longer be reversed.
func (r *Reservation) Finalized() bool {
	return r.State != ReservationReserved
}
