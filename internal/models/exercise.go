package models

const DefaultExerciseImageURL = "https://example.com/default.png"

// Exercise is a read-only catalog row of Workouts_Table.
type Exercise struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
	ImageURL    string `json:"image_url"`
}
