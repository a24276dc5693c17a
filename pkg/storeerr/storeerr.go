// Package storeerr tags errors coming out of persistence adapters with a kind
// so callers can decide whether an operation may be retried.
package storeerr

import (
	"context"
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindPermanent Kind = iota
	KindTransient
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "permanent"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func Transient(op string, err error) error {
	return New(KindTransient, op, err)
}

func Permanent(op string, err error) error {
	return New(KindPermanent, op, err)
}

func Conflict(op string, err error) error {
	return New(KindConflict, op, err)
}

func NotFound(op string, err error) error {
	return New(KindNotFound, op, err)
}

// KindOf reports the outermost tag on err. Untagged context cancellation and
// deadline errors count as transient; any other untagged error is permanent.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}
	return KindPermanent
}

func IsTransient(err error) bool {
	return err != nil && KindOf(err) == KindTransient
}

func IsPermanent(err error) bool {
	return err != nil && KindOf(err) == KindPermanent
}

func IsConflict(err error) bool {
	return err != nil && KindOf(err) == KindConflict
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}
