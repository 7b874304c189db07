// ABOUTME: Export functionality for synced health data.
// ABOUTME: Supports JSON, YAML, and Markdown rendering for the CLI export command.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/arborhealth/vitalsync/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData is the full export format for one user's synced range.
type ExportData struct {
	Version        string                       `json:"version" yaml:"version"`
	ExportedAt     time.Time                    `json:"exported_at" yaml:"exported_at"`
	Tool           string                       `json:"tool" yaml:"tool"`
	HealthMetrics  []*models.DailyHealthRow     `json:"health_metrics" yaml:"health_metrics"`
	Activities     []*models.Activity           `json:"activities" yaml:"activities"`
	BodyComposition []models.BodyCompositionEntry `json:"body_composition" yaml:"body_composition"`
}

// GetAllData retrieves every daily_health, activities, and
// body_composition row for userID within [start, end] for export.
func (d *DB) GetAllData(userID int64, start, end string) (*ExportData, error) {
	metrics, err := d.GetHealthMetrics(userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get health metrics: %w", err)
	}
	activities, err := d.GetActivities(userID, start, end, nil)
	if err != nil {
		return nil, fmt.Errorf("get activities: %w", err)
	}

	rows, err := d.db.Query(`
		SELECT user_id, sample_pk, measurement_date, timestamp_gmt, weight_grams, bmi,
			body_fat_percentage, body_water_percentage, bone_mass_grams, muscle_mass_grams,
			visceral_fat, metabolic_age, physique_rating, source_type
		FROM body_composition WHERE user_id = ? AND measurement_date BETWEEN ? AND ?
		ORDER BY measurement_date ASC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get body composition: %w", err)
	}
	defer rows.Close()

	var bodyComp []models.BodyCompositionEntry
	for rows.Next() {
		var e models.BodyCompositionEntry
		if err := rows.Scan(
			&e.UserID, &e.SamplePK, &e.MeasurementDate, &e.TimestampGMT, &e.WeightGrams, &e.BMI,
			&e.BodyFatPercentage, &e.BodyWaterPercentage, &e.BoneMassGrams, &e.MuscleMassGrams,
			&e.VisceralFat, &e.MetabolicAge, &e.PhysiqueRating, &e.SourceType,
		); err != nil {
			return nil, fmt.Errorf("scan body composition: %w", err)
		}
		bodyComp = append(bodyComp, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ExportData{
		Version:         "1.0",
		ExportedAt:      time.Now().UTC(),
		Tool:            "vitalsync",
		HealthMetrics:   metrics,
		Activities:      activities,
		BodyComposition: bodyComp,
	}, nil
}

// ExportJSON renders GetAllData as indented JSON.
func (d *DB) ExportJSON(userID int64, start, end string) ([]byte, error) {
	data, err := d.GetAllData(userID, start, end)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML renders GetAllData as YAML.
func (d *DB) ExportYAML(userID int64, start, end string) ([]byte, error) {
	data, err := d.GetAllData(userID, start, end)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportMarkdown renders a human-readable summary table for the CLI
// export command.
func (d *DB) ExportMarkdown(userID int64, start, end string) (string, error) {
	data, err := d.GetAllData(userID, start, end)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Health Sync Export — %s to %s\n\n", start, end))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", data.ExportedAt.Format(time.RFC3339)))

	sb.WriteString("## Daily Health\n\n")
	sb.WriteString("| Date | Steps | Resting HR | Sleep (h) | Avg Stress |\n")
	sb.WriteString("|------|-------|------------|-----------|------------|\n")
	for _, m := range data.HealthMetrics {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			m.Date, formatInt64(m.TotalSteps), formatInt64(m.RestingHeartRate),
			formatFloat64(m.SleepDurationHours), formatInt64(m.AvgStressLevel)))
	}

	if len(data.Activities) > 0 {
		sb.WriteString("\n## Activities\n\n")
		sb.WriteString("| Date | Name | Type | Duration (s) | Distance (m) |\n")
		sb.WriteString("|------|------|------|---------------|--------------|\n")
		for _, a := range data.Activities {
			name := ""
			if a.ActivityName != nil {
				name = *a.ActivityName
			}
			typ := ""
			if a.ActivityType != nil {
				typ = *a.ActivityType
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				a.ActivityDate, name, typ, formatInt64(a.DurationSeconds), formatFloat64(a.DistanceMeters)))
		}
	}

	if len(data.BodyComposition) > 0 {
		sb.WriteString("\n## Body Composition\n\n")
		sb.WriteString("| Date | Weight (g) | BMI | Body Fat % |\n")
		sb.WriteString("|------|------------|-----|------------|\n")
		for _, e := range data.BodyComposition {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				e.MeasurementDate, formatFloat64(e.WeightGrams), formatFloat64(e.BMI), formatFloat64(e.BodyFatPercentage)))
		}
	}

	return sb.String(), nil
}

func formatInt64(v *int64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func formatFloat64(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
