package booking

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrNotParticipant    = errors.New("you are not a participant of this booking")
	ErrNotBookingArtist  = errors.New("only the booking's artist can do this")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotEditable       = errors.New("appointment can no longer be edited")
	ErrBookingClosed     = errors.New("booking is already closed")
	ErrVersionConflict   = errors.New("booking was modified concurrently, reload and retry")
	ErrInvalidDate       = errors.New("invalid appointment date or time")
	ErrDateInPast        = errors.New("appointment date must be in the future")
)
