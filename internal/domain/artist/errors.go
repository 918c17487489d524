package artist

import "errors"

var (
	ErrProfileNotFound      = errors.New("artist profile not found")
	ErrProfileAlreadyExists = errors.New("artist profile already exists")
	ErrTooManyImages        = errors.New("portfolio image limit reached")
)
