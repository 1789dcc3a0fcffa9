package models

import "time"

// WorkoutRecord is one logged set. Volume is computed when the record is
// written and is never recomputed from WeightPerRep and Reps on read.
type WorkoutRecord struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	ExerciseName string    `json:"workout_name"`
	MuscleGroup  string    `json:"muscle_group"`
	WeightPerRep float64   `json:"weight_for_rep"`
	Reps         int       `json:"reps"`
	Volume       float64   `json:"volume"`
	CreatedAt    time.Time `json:"created_at"`
}

type MuscleGroupVolume struct {
	MuscleGroup  string          `json:"muscle_group"`
	TotalVolume  float64         `json:"total_volume"`
	SharePercent float64         `json:"share_percent"`
	Entries      []WorkoutRecord `json:"entries"`
}
