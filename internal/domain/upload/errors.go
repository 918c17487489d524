package upload

import "errors"

var (
	ErrStorageNotConfigured = errors.New("object storage is not configured")
	ErrNotObjectOwner       = errors.New("you do not own this object")
)
