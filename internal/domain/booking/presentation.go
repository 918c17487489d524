package booking

// StatusView is what the UI shows for a booking status from one side of the
// marketplace: a label and whether tapping it opens the details screen.
type StatusView struct {
	Label     string `json:"label"`
	Clickable bool   `json:"clickable"`
}

var clientViews = map[Status]StatusView{
	StatusPending:     {Label: "Request sent", Clickable: false},
	StatusExpired:     {Label: "Request expired", Clickable: false},
	StatusScheduled:   {Label: "Appointment confirmed", Clickable: true},
	StatusRescheduled: {Label: "Appointment rescheduled", Clickable: true},
	StatusCancelled:   {Label: "Cancelled", Clickable: false},
	StatusCompleted:   {Label: "Completed - leave a review", Clickable: true},
}

var artistViews = map[Status]StatusView{
	StatusPending:     {Label: "New request", Clickable: true},
	StatusExpired:     {Label: "Request expired", Clickable: false},
	StatusScheduled:   {Label: "Upcoming appointment", Clickable: true},
	StatusRescheduled: {Label: "Rescheduled appointment", Clickable: true},
	StatusCancelled:   {Label: "Cancelled", Clickable: false},
	StatusCompleted:   {Label: "Completed", Clickable: true},
}

// ViewFor maps a (status, viewer role) pair to its presentation.
// Unknown combinations fall back to the raw status, not clickable.
func ViewFor(status Status, role string) StatusView {
	var views map[Status]StatusView
	switch role {
	case "artist":
		views = artistViews
	default:
		views = clientViews
	}
	if view, ok := views[status]; ok {
		return view
	}
	return StatusView{Label: string(status), Clickable: false}
}
