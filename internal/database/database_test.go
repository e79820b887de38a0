package database

import (
	"path/filepath"
	"testing"
)

func TestConfigDSN(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: "5432", User: "u", Password: "p", DBName: "fintrack", SSLMode: "disable"}

	if got, want := cfg.DSN(), "host=localhost port=5432 user=u password=p dbname=fintrack sslmode=disable"; got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	if got, want := cfg.URL(), "postgres://u:p@localhost:5432/fintrack?sslmode=disable"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestNewManager_UnsupportedDriver(t *testing.T) {
	if _, err := NewManager(&Config{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestNewManager_SQLiteMigrate(t *testing.T) {
	cfg := &Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "test.db")}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = m.Close() }()

	if err := m.Migrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	for _, table := range []string{"users", "budgets", "expenses", "subscriptions", "audit_logs"} {
		if !m.DB().Migrator().HasTable(table) {
			t.Errorf("expected table %q to exist", table)
		}
	}
}
