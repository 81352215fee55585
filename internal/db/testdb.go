package db

import (
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
)

// OpenTestDB connects to TEST_DSN and applies migrations, or skips the test
// when no database is configured.
func OpenTestDB(t testing.TB, migrationsPath string) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DSN")
	if dsn == "" {
		t.Skip("TEST_DSN not set; skipping integration test")
	}

	database, err := Connect(dsn)
	if err != nil {
		t.Skipf("cannot connect to test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := RunMigrations(database, migrationsPath); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return database
}

// Truncate empties the given tables.
func Truncate(t testing.TB, database *sqlx.DB, tables ...string) {
	t.Helper()
	for _, table := range tables {
		if _, err := database.Exec("TRUNCATE TABLE " + table + " CASCADE"); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
}
