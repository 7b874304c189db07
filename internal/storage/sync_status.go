// ABOUTME: sync_status ledger CRUD: per (user_id, sync_date, metric_kind) state tracking.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arborhealth/vitalsync/internal/models"
)

// CreateSyncStatus inserts a PENDING row if one doesn't already exist;
// a no-op otherwise, so re-planning a sync never resets a ledger row a
// prior run already advanced.
func (d *DB) CreateSyncStatus(userID int64, date string, kind models.MetricKind) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := d.db.Exec(`
		INSERT INTO sync_status (user_id, sync_date, metric_kind, state, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, sync_date, metric_kind) DO NOTHING
	`, userID, date, string(kind), string(models.StatePending), now)
	if err != nil {
		return fmt.Errorf("create sync status: %w", err)
	}
	return nil
}

// UpdateSyncStatus transitions a ledger row's state. errMsg is stored
// only for FAILED; it is cleared on any other state.
func (d *DB) UpdateSyncStatus(userID int64, date string, kind models.MetricKind, state models.SyncState, errMsg string) error {
	var storedErr any
	if state == models.StateFailed && errMsg != "" {
		storedErr = errMsg
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := d.db.Exec(`
		INSERT INTO sync_status (user_id, sync_date, metric_kind, state, synced_at, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, sync_date, metric_kind) DO UPDATE SET
			state=excluded.state, synced_at=excluded.synced_at, error_message=excluded.error_message
	`, userID, date, string(kind), string(state), now, storedErr, now)
	if err != nil {
		return fmt.Errorf("update sync status: %w", err)
	}
	return nil
}

// GetSyncStatus returns the ledger row for (user_id, date, kind), or
// nil if none exists yet.
func (d *DB) GetSyncStatus(userID int64, date string, kind models.MetricKind) (*models.SyncStatus, error) {
	var s models.SyncStatus
	var metricKind, state, createdAt string
	var syncedAt, errMsg sql.NullString
	err := d.db.QueryRow(`
		SELECT user_id, sync_date, metric_kind, state, synced_at, error_message, created_at
		FROM sync_status WHERE user_id = ? AND sync_date = ? AND metric_kind = ?
	`, userID, date, string(kind)).Scan(&s.UserID, &s.SyncDate, &metricKind, &state, &syncedAt, &errMsg, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sync status: %w", err)
	}
	s.MetricKind = models.MetricKind(metricKind)
	s.State = models.SyncState(state)
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if syncedAt.Valid {
		t, _ := time.Parse(time.RFC3339, syncedAt.String)
		s.SyncedAt = &t
	}
	if errMsg.Valid {
		msg := errMsg.String
		s.ErrorMessage = &msg
	}
	return &s, nil
}

// SyncStatusExists reports whether a ledger row exists for (user_id,
// date, kind), regardless of state.
func (d *DB) SyncStatusExists(userID int64, date string, kind models.MetricKind) (bool, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(1) FROM sync_status WHERE user_id = ? AND sync_date = ? AND metric_kind = ?`,
		userID, date, string(kind)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sync status exists: %w", err)
	}
	return n > 0, nil
}

// GetPendingMetrics returns the metric kinds still in PENDING state for
// (user_id, date).
func (d *DB) GetPendingMetrics(userID int64, date string) ([]models.MetricKind, error) {
	rows, err := d.db.Query(`
		SELECT metric_kind FROM sync_status WHERE user_id = ? AND sync_date = ? AND state = ?
	`, userID, date, string(models.StatePending))
	if err != nil {
		return nil, fmt.Errorf("get pending metrics: %w", err)
	}
	defer rows.Close()

	var out []models.MetricKind
	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return nil, fmt.Errorf("scan pending metric: %w", err)
		}
		out = append(out, models.MetricKind(kind))
	}
	return out, rows.Err()
}

// ResetFailedToPending transitions every FAILED ledger row for user_id
// back to PENDING, clearing its error message, so the next sync_range
// call retries them. Returns the number of rows reset.
func (d *DB) ResetFailedToPending(userID int64) (int, error) {
	res, err := d.db.Exec(`
		UPDATE sync_status SET state = ?, error_message = NULL
		WHERE user_id = ? AND state = ?
	`, string(models.StatePending), userID, string(models.StateFailed))
	if err != nil {
		return 0, fmt.Errorf("reset failed to pending: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset failed to pending rows affected: %w", err)
	}
	return int(n), nil
}

// CountSyncStatusByState returns the number of ledger rows per state
// for user_id, for the status command's summary line.
func (d *DB) CountSyncStatusByState(userID int64) (map[models.SyncState]int, error) {
	rows, err := d.db.Query(`
		SELECT state, COUNT(1) FROM sync_status WHERE user_id = ? GROUP BY state
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("count sync status by state: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.SyncState]int)
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("scan sync status count: %w", err)
		}
		counts[models.SyncState(state)] = n
	}
	return counts, rows.Err()
}

// RecentFailed returns up to limit FAILED ledger rows for user_id,
// most recently synced first, for the status command's failure list.
func (d *DB) RecentFailed(userID int64, limit int) ([]models.SyncStatus, error) {
	rows, err := d.db.Query(`
		SELECT user_id, sync_date, metric_kind, state, synced_at, error_message, created_at
		FROM sync_status WHERE user_id = ? AND state = ?
		ORDER BY synced_at DESC, sync_date DESC LIMIT ?
	`, userID, string(models.StateFailed), limit)
	if err != nil {
		return nil, fmt.Errorf("recent failed: %w", err)
	}
	defer rows.Close()

	var out []models.SyncStatus
	for rows.Next() {
		var s models.SyncStatus
		var metricKind, state, createdAt string
		var syncedAt, errMsg sql.NullString
		if err := rows.Scan(&s.UserID, &s.SyncDate, &metricKind, &state, &syncedAt, &errMsg, &createdAt); err != nil {
			return nil, fmt.Errorf("scan recent failed: %w", err)
		}
		s.MetricKind = models.MetricKind(metricKind)
		s.State = models.SyncState(state)
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if syncedAt.Valid {
			t, _ := time.Parse(time.RFC3339, syncedAt.String)
			s.SyncedAt = &t
		}
		if errMsg.Valid {
			msg := errMsg.String
			s.ErrorMessage = &msg
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
