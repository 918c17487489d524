package booking

// Trigger identifies the event driving a status change.
type Trigger string

const (
	// TriggerSchedule fires when the artist sets date, price and deposit.
	TriggerSchedule Trigger = "schedule"
	// TriggerExpire fires when a dateless request outlives its window.
	TriggerExpire Trigger = "expire"
	// TriggerReschedule fires when the artist changes the date or time.
	TriggerReschedule Trigger = "reschedule"
	// TriggerCancel fires when either participant cancels.
	TriggerCancel Trigger = "cancel"
	// TriggerComplete fires when the appointment date has passed.
	TriggerComplete Trigger = "complete"
)

// transitions is the full table of legal edges. Every handler and sweep job
// consults it through Transition; no status write happens outside this table.
var transitions = map[Status]map[Trigger]Status{
	StatusPending: {
		TriggerSchedule: StatusScheduled,
		TriggerExpire:   StatusExpired,
		TriggerCancel:   StatusCancelled,
	},
	StatusScheduled: {
		TriggerReschedule: StatusRescheduled,
		TriggerCancel:     StatusCancelled,
		TriggerComplete:   StatusCompleted,
	},
	// Rescheduled behaves identically to scheduled for all downstream rules;
	// it exists to signal the other participant that the date changed.
	StatusRescheduled: {
		TriggerReschedule: StatusRescheduled,
		TriggerCancel:     StatusCancelled,
		TriggerComplete:   StatusCompleted,
	},
}

// Transition returns the status resulting from applying trigger to current.
// Illegal edges, including anything out of a terminal status, return
// ErrInvalidTransition and leave the caller's state untouched.
func Transition(current Status, trigger Trigger) (Status, error) {
	edges, ok := transitions[current]
	if !ok {
		return current, ErrInvalidTransition
	}
	next, ok := edges[trigger]
	if !ok {
		return current, ErrInvalidTransition
	}
	return next, nil
}

// CanTransition reports whether the edge is legal without applying it.
func CanTransition(current Status, trigger Trigger) bool {
	_, err := Transition(current, trigger)
	return err == nil
}
