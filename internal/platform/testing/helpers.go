package testing

import (
	"io"
	"log/slog"
	"testing"

	"github.com/kei-test/mega/internal/platform/config"
)

// SetupTestConfig returns a config suitable for tests: in-memory database,
// no log file, no redis, fixed token secret.
func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.DSN = ":memory:"
	cfg.Log.Dir = ""
	cfg.Log.File = ""
	cfg.Redis.Addr = ""
	cfg.Auth.Secret = "test-secret"
	return cfg
}

// Logger returns a silent structured logger for tests.
func Logger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

func AssertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}
