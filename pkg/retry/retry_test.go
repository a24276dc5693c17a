package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"church-admin-go/pkg/storeerr"
)

func testPolicy() Policy {
	return Policy{MaxRetries: 2, BaseDelay: time.Millisecond}
}

func TestDoRetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	var retries []int
	policy := testPolicy()
	policy.OnRetry = func(op string, attempt int, err error) {
		retries = append(retries, attempt)
	}

	got, err := Do(context.Background(), policy, "assignment.list", func(ctx context.Context) ([]string, error) {
		calls++
		if calls < 3 {
			return nil, storeerr.Transient("assignment.list", errors.New("request aborted"))
		}
		return []string{"a1"}, nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 || got[0] != "a1" {
		t.Fatalf("unexpected result %v", got)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(retries) != 2 || retries[0] != 1 || retries[1] != 2 {
		t.Fatalf("expected retries [1 2], got %v", retries)
	}
}

func TestDoStopsAfterMaxRetries(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), testPolicy(), "assignment.list", func(ctx context.Context) (int, error) {
		calls++
		return 0, storeerr.Transient("assignment.list", errors.New("conn reset"))
	})
	if !IsExhausted(err) {
		t.Fatalf("expected exhausted error, got %v", err)
	}
	if !storeerr.IsTransient(err) {
		t.Fatalf("expected exhausted error to stay transient")
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoDoesNotRetryPermanent(t *testing.T) {
	calls := 0
	missing := errors.New("relation does not exist")
	_, err := Do(context.Background(), testPolicy(), "assignment.list", func(ctx context.Context) (int, error) {
		calls++
		return 0, storeerr.Permanent("assignment.list", missing)
	})
	if !errors.Is(err, missing) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if IsExhausted(err) {
		t.Fatalf("permanent error must not be reported as exhausted")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDoStopsWhenCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	policy := Policy{MaxRetries: 2, BaseDelay: time.Hour}

	_, err := Do(ctx, policy, "churchuser.lookup", func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, context.Canceled
	})
	if !IsExhausted(err) {
		t.Fatalf("expected exhausted error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDoAttemptTimeoutIsTransient(t *testing.T) {
	calls := 0
	policy := Policy{MaxRetries: 1, BaseDelay: time.Millisecond, AttemptTimeout: 5 * time.Millisecond}

	got, err := Do(context.Background(), policy, "church.get", func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			<-ctx.Done()
			return "", errors.New("driver: query interrupted")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "ok" || calls != 2 {
		t.Fatalf("expected second attempt to succeed, got %q after %d calls", got, calls)
	}
}

func TestDoBackoffIsLinear(t *testing.T) {
	var delays []time.Duration
	policy := Policy{
		MaxRetries: 2,
		BaseDelay:  10 * time.Millisecond,
		Sleep: func(ctx context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		},
	}

	calls := 0
	_, err := Do(context.Background(), policy, "church.list", func(ctx context.Context) (int, error) {
		calls++
		return 0, storeerr.Transient("church.list", errors.New("connection reset by peer"))
	})
	if !IsExhausted(err) {
		t.Fatalf("expected exhausted error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(delays) != 2 || delays[0] != 10*time.Millisecond || delays[1] != 20*time.Millisecond {
		t.Fatalf("expected delays [10ms 20ms], got %v", delays)
	}
}

func TestDoSleepErrorStopsRetrying(t *testing.T) {
	policy := Policy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			return context.Canceled
		},
	}

	calls := 0
	_, err := Do(context.Background(), policy, "church.list", func(ctx context.Context) (int, error) {
		calls++
		return 0, storeerr.Transient("church.list", errors.New("connection reset by peer"))
	})
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) || exhausted.Attempts != 1 {
		t.Fatalf("expected exhausted after 1 attempt, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}
