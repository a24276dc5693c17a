package churchuser

import "errors"

var (
	ErrChurchUserNotFound     = errors.New("church user not found")
	ErrInvalidRole            = errors.New("invalid church user role")
	ErrRoleBinding            = errors.New("role does not match church binding")
	ErrNotPastor              = errors.New("church user is not a pastor")
	ErrForbidden              = errors.New("forbidden")
	ErrTemporarilyUnavailable = errors.New("church users temporarily unavailable")
	ErrInvalidRegistration    = errors.New("invalid registration")
	ErrIdentityConflict       = errors.New("account exists with a different password")
	ErrRegistrationDisabled   = errors.New("self registration is not configured")
)
