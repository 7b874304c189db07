// ABOUTME: timeseries_points CRUD, merged on (user_id, metric_kind, timestamp_ms).
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/arborhealth/vitalsync/internal/models"
)

// StoreTimeseriesBatch inserts points inside one transaction, skipping
// none (the extractor already drops null-value samples before this is
// called) and merging on the composite primary key.
func (d *DB) StoreTimeseriesBatch(userID int64, kind models.MetricKind, points []models.TimeSeriesPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("store timeseries batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range points {
		var meta []byte
		if len(p.Meta) > 0 {
			meta, err = json.Marshal(p.Meta)
			if err != nil {
				return fmt.Errorf("marshal timeseries metadata: %w", err)
			}
		}
		_, err := tx.Exec(`
			INSERT INTO timeseries_points (user_id, metric_kind, timestamp_ms, value, metadata)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (user_id, metric_kind, timestamp_ms) DO UPDATE SET
				value=excluded.value, metadata=excluded.metadata
		`, userID, string(kind), p.TimestampMS, p.Value, nullableBytes(meta))
		if err != nil {
			return fmt.Errorf("store timeseries point at %d: %w", p.TimestampMS, err)
		}
	}
	return tx.Commit()
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// GetTimeseries returns points for (user_id, kind) with timestamp_ms in
// [startMS, endMS], ordered ascending.
func (d *DB) GetTimeseries(userID int64, kind models.MetricKind, startMS, endMS int64) ([]models.TimeSeriesPoint, error) {
	rows, err := d.db.Query(`
		SELECT user_id, metric_kind, timestamp_ms, value, metadata
		FROM timeseries_points
		WHERE user_id = ? AND metric_kind = ? AND timestamp_ms BETWEEN ? AND ?
		ORDER BY timestamp_ms ASC
	`, userID, string(kind), startMS, endMS)
	if err != nil {
		return nil, fmt.Errorf("get timeseries: %w", err)
	}
	defer rows.Close()

	var out []models.TimeSeriesPoint
	for rows.Next() {
		var p models.TimeSeriesPoint
		var kindStr string
		var meta *string
		if err := rows.Scan(&p.UserID, &kindStr, &p.TimestampMS, &p.Value, &meta); err != nil {
			return nil, fmt.Errorf("scan timeseries point: %w", err)
		}
		p.Kind = models.MetricKind(kindStr)
		if meta != nil {
			_ = json.Unmarshal([]byte(*meta), &p.Meta)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
