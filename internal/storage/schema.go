// ABOUTME: SQLite schema definition.
// ABOUTME: Tables for daily health summaries, activities, and the sync ledger.
package storage

// baseSchema is migration version 1: the full table set as of the first
// release. Later versions only ever add columns or tables — see migrate.go.
const baseSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	applied_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS daily_health (
	user_id                      INTEGER NOT NULL,
	date                         TEXT NOT NULL,
	total_steps                  INTEGER,
	step_goal                    INTEGER,
	total_distance_meters        REAL,
	floors_climbed               INTEGER,
	total_calories               INTEGER,
	active_calories              INTEGER,
	bmr_calories                 INTEGER,
	resting_heart_rate           INTEGER,
	max_heart_rate                INTEGER,
	min_heart_rate                INTEGER,
	average_heart_rate            INTEGER,
	avg_stress_level             INTEGER,
	max_stress_level             INTEGER,
	body_battery_high            INTEGER,
	body_battery_low             INTEGER,
	sleep_duration_hours         REAL,
	deep_sleep_hours             REAL,
	light_sleep_hours            REAL,
	rem_sleep_hours              REAL,
	awake_hours                  REAL,
	deep_sleep_percentage        REAL,
	light_sleep_percentage       REAL,
	rem_sleep_percentage         REAL,
	awake_percentage             REAL,
	average_spo2                 REAL,
	average_respiration          REAL,
	training_readiness_score     INTEGER,
	training_readiness_level     TEXT,
	training_readiness_feedback  TEXT,
	hrv_weekly_avg               REAL,
	hrv_last_night_avg           REAL,
	hrv_status                   TEXT,
	avg_waking_respiration_value REAL,
	avg_sleep_respiration_value  REAL,
	lowest_respiration_value     REAL,
	highest_respiration_value    REAL,
	sleep_score                  INTEGER,
	sleep_score_qualifier        TEXT,
	sleep_bedtime                TEXT,
	sleep_wake_time              TEXT,
	sleep_need_minutes           INTEGER,
	skin_temp_deviation_c        REAL,
	intensity_minutes_moderate   INTEGER,
	intensity_minutes_vigorous   INTEGER,
	created_at                   TEXT NOT NULL,
	updated_at                   TEXT NOT NULL,
	PRIMARY KEY (user_id, date)
);

CREATE TABLE IF NOT EXISTS activities (
	user_id           INTEGER NOT NULL,
	activity_id       TEXT NOT NULL,
	activity_date     TEXT NOT NULL,
	activity_name     TEXT,
	activity_type     TEXT,
	duration_seconds  INTEGER,
	avg_heart_rate    INTEGER,
	max_heart_rate    INTEGER,
	training_load     REAL,
	start_time        TEXT,
	distance_meters   REAL,
	calories          INTEGER,
	elevation_gain    REAL,
	elevation_loss    REAL,
	avg_speed         REAL,
	max_speed         REAL,
	avg_power         REAL,
	max_power         REAL,
	total_sets        INTEGER,
	total_reps        INTEGER,
	total_weight_kg   REAL,
	details_synced    INTEGER NOT NULL DEFAULT 0,
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL,
	PRIMARY KEY (user_id, activity_id)
);

CREATE TABLE IF NOT EXISTS exercise_sets (
	user_id           INTEGER NOT NULL,
	activity_id       TEXT NOT NULL,
	set_order         INTEGER NOT NULL,
	exercise_category TEXT,
	exercise_name     TEXT,
	set_type          TEXT,
	repetition_count  INTEGER,
	weight_grams      REAL,
	duration_seconds  REAL,
	start_time        TEXT,
	created_at        TEXT NOT NULL,
	PRIMARY KEY (user_id, activity_id, set_order)
);

CREATE TABLE IF NOT EXISTS activity_splits (
	user_id                 INTEGER NOT NULL,
	activity_id             TEXT NOT NULL,
	lap_index               INTEGER NOT NULL,
	start_time              TEXT,
	duration_seconds        REAL,
	moving_duration_seconds REAL,
	distance_meters         REAL,
	avg_speed               REAL,
	max_speed               REAL,
	avg_moving_speed        REAL,
	avg_heart_rate          INTEGER,
	max_heart_rate          INTEGER,
	elevation_gain          REAL,
	elevation_loss          REAL,
	max_elevation           REAL,
	min_elevation           REAL,
	avg_cadence             REAL,
	max_cadence             REAL,
	calories                REAL,
	start_latitude          REAL,
	start_longitude         REAL,
	end_latitude            REAL,
	end_longitude           REAL,
	intensity_type          TEXT,
	created_at              TEXT NOT NULL,
	PRIMARY KEY (user_id, activity_id, lap_index)
);

CREATE TABLE IF NOT EXISTS timeseries_points (
	user_id       INTEGER NOT NULL,
	metric_kind   TEXT NOT NULL,
	timestamp_ms  INTEGER NOT NULL,
	value         REAL NOT NULL,
	metadata      TEXT,
	PRIMARY KEY (user_id, metric_kind, timestamp_ms)
);

CREATE TABLE IF NOT EXISTS body_composition (
	user_id               INTEGER NOT NULL,
	sample_pk             TEXT NOT NULL,
	measurement_date      TEXT,
	timestamp_gmt         TEXT,
	weight_grams          REAL,
	bmi                   REAL,
	body_fat_percentage   REAL,
	body_water_percentage REAL,
	bone_mass_grams       REAL,
	muscle_mass_grams     REAL,
	visceral_fat          REAL,
	metabolic_age         INTEGER,
	physique_rating       REAL,
	source_type           TEXT,
	PRIMARY KEY (user_id, sample_pk)
);

CREATE TABLE IF NOT EXISTS sync_status (
	user_id       INTEGER NOT NULL,
	sync_date     TEXT NOT NULL,
	metric_kind   TEXT NOT NULL,
	state         TEXT NOT NULL,
	synced_at     TEXT,
	error_message TEXT,
	created_at    TEXT NOT NULL,
	PRIMARY KEY (user_id, sync_date, metric_kind)
);

CREATE INDEX IF NOT EXISTS idx_daily_health_user_date ON daily_health(user_id, date);
CREATE INDEX IF NOT EXISTS idx_activities_user_date ON activities(user_id, activity_date DESC);
CREATE INDEX IF NOT EXISTS idx_activities_details_pending ON activities(user_id, details_synced);
CREATE INDEX IF NOT EXISTS idx_timeseries_user_kind_ts ON timeseries_points(user_id, metric_kind, timestamp_ms);
CREATE INDEX IF NOT EXISTS idx_sync_status_user_date ON sync_status(user_id, sync_date);
`

// expectedTables is the table set ValidateSchema checks for before a
// sync begins.
var expectedTables = []string{
	"schema_migrations",
	"daily_health",
	"activities",
	"exercise_sets",
	"activity_splits",
	"timeseries_points",
	"body_composition",
	"sync_status",
}
