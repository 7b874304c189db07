// ABOUTME: body_composition CRUD, keyed on the vendor-assigned sample_pk.
package storage

import (
	"fmt"

	"github.com/arborhealth/vitalsync/internal/models"
)

// UpsertBodyComposition inserts entries that don't already exist
// (store_if_not_exists semantics - the range endpoint returns the same
// sample_pk repeatedly across overlapping range calls) and returns how
// many were newly stored and how many were already present (skipped).
func (d *DB) UpsertBodyComposition(userID int64, entries []models.BodyCompositionEntry) (stored int, skipped int, err error) {
	for _, e := range entries {
		exists, err := d.BodyCompositionExists(userID, e.SamplePK)
		if err != nil {
			return stored, skipped, err
		}
		if exists {
			skipped++
			continue
		}
		_, err = d.db.Exec(`
			INSERT INTO body_composition (
				user_id, sample_pk, measurement_date, timestamp_gmt, weight_grams, bmi,
				body_fat_percentage, body_water_percentage, bone_mass_grams, muscle_mass_grams,
				visceral_fat, metabolic_age, physique_rating, source_type
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			userID, e.SamplePK, e.MeasurementDate, e.TimestampGMT, e.WeightGrams, e.BMI,
			e.BodyFatPercentage, e.BodyWaterPercentage, e.BoneMassGrams, e.MuscleMassGrams,
			e.VisceralFat, e.MetabolicAge, e.PhysiqueRating, e.SourceType,
		)
		if err != nil {
			return stored, skipped, fmt.Errorf("upsert body composition %s: %w", e.SamplePK, err)
		}
		stored++
	}
	return stored, skipped, nil
}

// BodyCompositionExists reports whether a body_composition row already
// exists for (user_id, sample_pk).
func (d *DB) BodyCompositionExists(userID int64, samplePK string) (bool, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(1) FROM body_composition WHERE user_id = ? AND sample_pk = ?`, userID, samplePK).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("body composition exists: %w", err)
	}
	return n > 0, nil
}
