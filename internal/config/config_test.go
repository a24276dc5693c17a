package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"church-admin-go/pkg/logger"
)

func TestParseEnv(t *testing.T) {
	input := strings.Join([]string{
		"# comment",
		"",
		"export AUTH_PROVIDER=local",
		`AUTH_JWT_SECRET="line\nbreak"`,
		"NATS_URL='nats://localhost:4222'",
		"REDIS_ADDR=localhost:6379 # local redis",
		"DB_DSN=postgres://u:p@h/db?sslmode=disable#frag",
		"=missing-key",
		"not-a-pair",
	}, "\n")

	entries, err := parseEnv(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseEnv: %v", err)
	}

	want := []envEntry{
		{key: "AUTH_PROVIDER", value: "local"},
		{key: "AUTH_JWT_SECRET", value: "line\nbreak"},
		{key: "NATS_URL", value: "nats://localhost:4222"},
		{key: "REDIS_ADDR", value: "localhost:6379"},
		{key: "DB_DSN", value: "postgres://u:p@h/db?sslmode=disable#frag"},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(entries), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], entries[i])
		}
	}
}

func TestLoadPrefersProcessEnvOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "AUTH_JWT_SECRET=from-file\nHTTP_PORT=9999\nSTORE_RETRY_MAX=4\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv(envFileVar, path)
	t.Setenv("AUTH_PROVIDER", "local")
	t.Setenv("HTTP_PORT", "7000")
	// Variables loaded from the file are process-wide; register them for cleanup.
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("STORE_RETRY_MAX", "")
	os.Unsetenv("AUTH_JWT_SECRET")
	os.Unsetenv("STORE_RETRY_MAX")

	cfg, err := Load(logger.Discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != "7000" {
		t.Fatalf("expected process env to win, got %q", cfg.HTTPPort)
	}
	if cfg.Auth.JWTSecret != "from-file" {
		t.Fatalf("expected secret from file, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Store.RetryMax != 4 {
		t.Fatalf("expected retry max 4, got %d", cfg.Store.RetryMax)
	}
	if cfg.Store.RetryBaseDelay != 250*time.Millisecond {
		t.Fatalf("expected default base delay, got %s", cfg.Store.RetryBaseDelay)
	}
}

func TestLoadMissingExplicitEnvFile(t *testing.T) {
	t.Setenv(envFileVar, filepath.Join(t.TempDir(), "absent.env"))
	if _, err := Load(logger.Discard()); err == nil {
		t.Fatalf("expected error for missing ENV_FILE")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "local with secret",
			cfg:  Config{Auth: AuthConfig{Provider: AuthProviderLocal, JWTSecret: "s"}},
		},
		{
			name:    "local without secret",
			cfg:     Config{Auth: AuthConfig{Provider: AuthProviderLocal}},
			wantErr: true,
		},
		{
			name: "supabase configured",
			cfg: Config{
				Auth:     AuthConfig{Provider: AuthProviderSupabase},
				Supabase: SupabaseConfig{URL: "https://x.supabase.co", PublishableKey: "k"},
			},
		},
		{
			name:    "supabase missing key",
			cfg:     Config{Auth: AuthConfig{Provider: AuthProviderSupabase}, Supabase: SupabaseConfig{URL: "https://x"}},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Auth: AuthConfig{Provider: "ldap"}},
			wantErr: true,
		},
		{
			name:    "negative retries",
			cfg:     Config{Auth: AuthConfig{Provider: AuthProviderLocal, JWTSecret: "s"}, Store: StoreConfig{RetryMax: -1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetEnvListTrimsEmptyItems(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	got := getEnvList("CORS_ALLOWED_ORIGINS", nil)
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", got)
	}
}

func TestDBConfigDSN(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "church", SSLMode: "disable", TimeZone: "UTC"}
	want := "host=db user=u password=p dbname=church port=5432 sslmode=disable TimeZone=UTC"
	if got := cfg.GetDSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	cfg.DSN = "postgres://override"
	if got := cfg.GetDSN(); got != "postgres://override" {
		t.Fatalf("expected explicit dsn, got %q", got)
	}
}
