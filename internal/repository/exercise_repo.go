package repository

import (
	"context"

	"github.com/tritonlifts/api/internal/models"
)

type ExerciseRepository struct {
	db DBTX
}

func NewExerciseRepository(db DBTX) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

// ListMuscleGroups returns the distinct muscle-group labels of the catalog in
// ascending order.
func (r *ExerciseRepository) ListMuscleGroups(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT "Muscle Name"
		FROM "Workouts_Table"
		ORDER BY "Muscle Name" ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]string, 0)
	for rows.Next() {
		var group string
		if err := rows.Scan(&group); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return groups, nil
}

// List returns catalog rows. An empty muscleGroup returns the whole catalog;
// otherwise labels are matched exactly.
func (r *ExerciseRepository) List(ctx context.Context, muscleGroup string) ([]models.Exercise, error) {
	query := `
		SELECT id, "Exercise Name", "Muscle Name", COALESCE("Image Source", '')
		FROM "Workouts_Table"
		WHERE ($1 = '' OR "Muscle Name" = $1)
		ORDER BY "Muscle Name" ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, muscleGroup)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]models.Exercise, 0)
	for rows.Next() {
		var exercise models.Exercise
		if err := rows.Scan(
			&exercise.ID,
			&exercise.Name,
			&exercise.MuscleGroup,
			&exercise.ImageURL,
		); err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

func (r *ExerciseRepository) GetByID(ctx context.Context, id int64) (*models.Exercise, error) {
	query := `
		SELECT id, "Exercise Name", "Muscle Name", COALESCE("Image Source", '')
		FROM "Workouts_Table"
		WHERE id = $1
	`

	var exercise models.Exercise
	err := r.db.QueryRow(ctx, query, id).Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.MuscleGroup,
		&exercise.ImageURL,
	)
	if err != nil {
		return nil, err
	}

	return &exercise, nil
}
