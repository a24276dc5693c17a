package church

import "errors"

var (
	ErrChurchNotFound = errors.New("church not found")
	ErrInvalidChurch  = errors.New("invalid church")
	ErrForbidden      = errors.New("forbidden")
)
