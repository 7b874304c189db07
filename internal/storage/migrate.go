// ABOUTME: Forward-only schema migrations with a version ledger.
// ABOUTME: Every migration is additive; none are ever skipped or swallowed.
package storage

import (
	"fmt"
	"time"
)

// migration is one forward step. Statements must be idempotent in
// effect (CREATE TABLE IF NOT EXISTS, ALTER TABLE ADD COLUMN) but are
// only ever executed once per database, guarded by the
// schema_migrations version row - unlike a swallowed "column already
// exists" error, a migration that fails here is a real bug and
// surfaces to the caller.
type migration struct {
	version int
	stmt    string
}

// migrations lists every schema version in ascending order, starting
// with the base schema as version 1. Append-only: once released, a
// migration here must never change.
var migrations = []migration{
	{version: 1, stmt: baseSchema},
}

// Migrate applies any migration whose version is not yet recorded in
// schema_migrations, in ascending order, each inside its own
// transaction.
func (d *DB) Migrate() error {
	if _, err := d.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := d.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		tx, err := d.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
			m.version, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}
	return nil
}

// ValidateSchema asserts expectedTables is a subset of the tables
// actually present, failing fast before a sync begins rather than
// mid-run on a missing table.
func (d *DB) ValidateSchema() error {
	rows, err := d.db.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan table name: %w", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, t := range expectedTables {
		if !present[t] {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema validation failed, missing tables: %v", missing)
	}
	return nil
}
