package shared

import (
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		if err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}
		if count == 0 {
			t.Error("expected at least one migration to be applied")
		}

		for _, table := range []string{"users", "roles", "roster", "invitations"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		var newCount int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&newCount)
		if err != nil {
			t.Fatalf("failed to query schema_migrations after rollback: %v", err)
		}
		if newCount >= count {
			t.Errorf("expected migration count to decrease after rollback, got %d (was %d)", newCount, count)
		}

		if _, err := db.Exec("SELECT 1 FROM invitations LIMIT 1"); err == nil {
			t.Error("invitations table should be dropped by rollback")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		if err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})

	t.Run("MigrationStatuses", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		statuses, err := MigrationStatuses(db)
		if err != nil {
			t.Fatalf("failed to read statuses: %v", err)
		}
		for _, s := range statuses {
			if s.Applied {
				t.Errorf("migration %d should not be applied on a fresh database", s.Version)
			}
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		statuses, err = MigrationStatuses(db)
		if err != nil {
			t.Fatalf("failed to read statuses: %v", err)
		}
		if len(statuses) != 3 {
			t.Fatalf("expected 3 migrations, got %d", len(statuses))
		}
		if statuses[0].Name != "create_users" {
			t.Errorf("expected first migration create_users, got %s", statuses[0].Name)
		}
		for _, s := range statuses {
			if !s.Applied {
				t.Errorf("migration %d should be applied", s.Version)
			}
		}
	})

	t.Run("Every Migration Applies To A Fresh Database", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := createMigrationsTable(db); err != nil {
			t.Fatalf("failed to create migrations table: %v", err)
		}

		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}
		for _, m := range migrations {
			if err := applyMigration(db, m); err != nil {
				t.Fatalf("migration %d (%s) failed on a fresh database: %v", m.Version, m.Name, err)
			}
		}

		var indexes int
		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'ix_invitation_pending_unique'").Scan(&indexes)
		if err != nil {
			t.Fatalf("failed to query sqlite_master: %v", err)
		}
		if indexes != 1 {
			t.Error("expected the pending invitation index to exist")
		}
	})

	t.Run("Comments Containing Semicolons", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		script := "-- first table; holds nothing\nCREATE TABLE a (id TEXT); -- trailing; note\nCREATE TABLE b (id TEXT);\n"

		tx, err := db.Begin()
		if err != nil {
			t.Fatalf("failed to begin: %v", err)
		}
		defer tx.Rollback()

		if err := execStatements(tx, script); err != nil {
			t.Fatalf("expected comments to be ignored, got %v", err)
		}
		for _, table := range []string{"a", "b"} {
			if _, err := tx.Exec("SELECT 1 FROM " + table); err != nil {
				t.Errorf("table %s should exist: %v", table, err)
			}
		}
	})
}
