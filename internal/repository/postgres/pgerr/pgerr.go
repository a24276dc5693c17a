// Package pgerr maps postgres and driver errors onto storeerr kinds.
package pgerr

import (
	"context"
	"errors"
	"net"
	"strings"

	"church-admin-go/pkg/storeerr"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

// Classify tags err with the storeerr kind matching its cause.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	return storeerr.New(KindOf(err), op, err)
}

func KindOf(err error) storeerr.Kind {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storeerr.KindNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return storeerr.KindTransient
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return kindOfCode(pgErr.Code)
	}

	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return storeerr.KindTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return storeerr.KindTransient
	}
	return storeerr.KindPermanent
}

func kindOfCode(code string) storeerr.Kind {
	switch code {
	case CodeUniqueViolation:
		return storeerr.KindConflict
	case CodeForeignKeyViolation:
		return storeerr.KindNotFound
	}

	switch {
	case strings.HasPrefix(code, "08"), // connection exception
		strings.HasPrefix(code, "40"), // transaction rollback, serialization failure
		strings.HasPrefix(code, "53"), // insufficient resources
		strings.HasPrefix(code, "57"): // operator intervention, query canceled
		return storeerr.KindTransient
	default:
		return storeerr.KindPermanent
	}
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation
}
