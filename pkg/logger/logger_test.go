package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCriticalLevelRendered(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "text")

	log.Critical("db: down")

	if !strings.Contains(buf.String(), "level=CRITICAL") {
		t.Fatalf("expected CRITICAL level, got %q", buf.String())
	}
}

func TestBusinessErrorSkipsNil(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "text")

	log.BusinessError("assignments.create: duplicate", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged, got %q", buf.String())
	}

	log.BusinessError("assignments.create: duplicate", errors.New("dup"), "church_id", "c1")
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "church_id=c1") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if got := parseLevel("", "development"); got != slog.LevelDebug {
		t.Fatalf("expected debug in development, got %v", got)
	}
	if got := parseLevel("", "production"); got != slog.LevelInfo {
		t.Fatalf("expected info in production, got %v", got)
	}
	if got := parseLevel("fatal", "production"); got != LevelCritical {
		t.Fatalf("expected critical, got %v", got)
	}
}

func TestFromContextFallback(t *testing.T) {
	fallback := Discard()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatalf("expected fallback logger")
	}

	scoped := fallback.With("request_id", "r1")
	ctx := WithContext(context.Background(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Fatalf("expected scoped logger")
	}
}

func TestStdLoggerForwardsLines(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "text")

	StdLogger(log, "http: server error").Printf("tls handshake error from %s", "10.0.0.1:5555")

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "tls handshake error from 10.0.0.1:5555") {
		t.Fatalf("unexpected output %q", out)
	}
}
