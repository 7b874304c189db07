package metrics

import (
	"encoding/json"
	"fmt"

	"github.com/arborhealth/vitalsync/internal/models"
)

type exerciseWire struct {
	Category    *string  `json:"category"`
	Name        *string  `json:"name"`
	Probability *float64 `json:"probability"`
}

type exerciseSetWire struct {
	SetType         *string        `json:"setType"`
	RepetitionCount *int64         `json:"repetitionCount"`
	Weight          *float64       `json:"weight"`
	Duration        *float64       `json:"duration"`
	StartTime       *string        `json:"startTime"`
	Exercises       []exerciseWire `json:"exercises"`
}

type exerciseSetsWire struct {
	ExerciseSets []exerciseSetWire `json:"exerciseSets"`
}

// ParseExerciseSets maps the raw exerciseSets[] array from an
// activity-details response onto ExerciseSet rows. Each set carries a
// list of candidate exercises; the one with the highest reported
// probability is taken as the category/name.
func ParseExerciseSets(activityID string, raw json.RawMessage) ([]models.ExerciseSet, error) {
	var w exerciseSetsWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("parse exercise sets: %w", err)
	}

	out := make([]models.ExerciseSet, 0, len(w.ExerciseSets))
	for i, s := range w.ExerciseSets {
		set := models.ExerciseSet{
			ActivityID:      activityID,
			SetOrder:        int64(i),
			SetType:         s.SetType,
			RepetitionCount: s.RepetitionCount,
			WeightGrams:     s.Weight,
			DurationSeconds: s.Duration,
			StartTime:       s.StartTime,
		}
		if category, name := bestExercise(s.Exercises); category != "" || name != "" {
			if category != "" {
				set.ExerciseCategory = &category
			}
			if name != "" {
				set.ExerciseName = &name
			}
		}
		out = append(out, set)
	}
	return out, nil
}

// bestExercise picks the highest-probability candidate from an exercise
// set's exercises list.
func bestExercise(exercises []exerciseWire) (category, name string) {
	bestProb := -1.0
	for _, ex := range exercises {
		p := 0.0
		if ex.Probability != nil {
			p = *ex.Probability
		}
		if p > bestProb {
			bestProb = p
			if ex.Category != nil {
				category = *ex.Category
			}
			if ex.Name != nil {
				name = *ex.Name
			}
		}
	}
	return category, name
}
