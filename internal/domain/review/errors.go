package review

import "errors"

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrAlreadyReviewed     = errors.New("this booking has already been reviewed")
	ErrNotBookingClient    = errors.New("only the booking's client can leave a review")
	ErrBookingNotCompleted = errors.New("booking is not completed yet")
)
