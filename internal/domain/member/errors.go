package member

import "errors"

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidMember  = errors.New("invalid member")
	ErrInvalidFilter  = errors.New("invalid member filter")
	ErrForbidden      = errors.New("forbidden")
)
