package assignment

import "errors"

var (
	ErrDuplicateAssignment    = errors.New("assignment already pending")
	ErrAssignmentNotFound     = errors.New("assignment not found")
	ErrIdentityConflict       = errors.New("account exists with a different password")
	ErrChurchNotFound         = errors.New("church not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrTemporarilyUnavailable = errors.New("assignments temporarily unavailable")
)
