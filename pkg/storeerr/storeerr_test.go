package storeerr

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

var errDuplicate = errors.New("duplicate")

func TestKindOfTagged(t *testing.T) {
	err := Conflict("assignment.insert", errDuplicate)
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", KindOf(err))
	}
	if !errors.Is(err, errDuplicate) {
		t.Fatalf("expected sentinel to be preserved")
	}

	wrapped := fmt.Errorf("create: %w", err)
	if !IsConflict(wrapped) {
		t.Fatalf("expected conflict through wrapping")
	}
}

func TestKindOfUntagged(t *testing.T) {
	if !IsTransient(context.Canceled) {
		t.Fatalf("expected context.Canceled to be transient")
	}
	if !IsTransient(fmt.Errorf("query: %w", context.DeadlineExceeded)) {
		t.Fatalf("expected deadline to be transient")
	}
	if !IsPermanent(errors.New("boom")) {
		t.Fatalf("expected untagged error to be permanent")
	}
	if IsTransient(nil) || IsPermanent(nil) {
		t.Fatalf("nil must not match any kind")
	}
}

func TestNewNil(t *testing.T) {
	if err := Transient("op", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestErrorMessage(t *testing.T) {
	err := Transient("assignment.list", errors.New("conn reset"))
	if got := err.Error(); got != "assignment.list: transient: conn reset" {
		t.Fatalf("unexpected message %q", got)
	}
}
