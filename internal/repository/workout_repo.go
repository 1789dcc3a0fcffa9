package repository

import (
	"context"

	"github.com/tritonlifts/api/internal/models"
)

type CreateWorkoutInput struct {
	UserID       int64
	ExerciseName string
	MuscleGroup  string
	WeightPerRep float64
	Reps         int
	Volume       float64
}

type WorkoutRepository struct {
	db DBTX
}

func NewWorkoutRepository(db DBTX) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

func (r *WorkoutRepository) Create(ctx context.Context, input CreateWorkoutInput) (*models.WorkoutRecord, error) {
	query := `
		INSERT INTO "User_Workouts" (user_id, workout_name, muscle_group, weight_for_rep, reps, volume)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	record := models.WorkoutRecord{
		UserID:       input.UserID,
		ExerciseName: input.ExerciseName,
		MuscleGroup:  input.MuscleGroup,
		WeightPerRep: input.WeightPerRep,
		Reps:         input.Reps,
		Volume:       input.Volume,
	}
	err := r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.ExerciseName,
		input.MuscleGroup,
		input.WeightPerRep,
		input.Reps,
		input.Volume,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// ListByUser returns the user's records oldest first. A NULL volume written
// by another client reads as 0.
func (r *WorkoutRepository) ListByUser(ctx context.Context, userID int64) ([]models.WorkoutRecord, error) {
	query := `
		SELECT id, user_id, workout_name, muscle_group, weight_for_rep, reps, COALESCE(volume, 0), created_at
		FROM "User_Workouts"
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.WorkoutRecord, 0)
	for rows.Next() {
		var record models.WorkoutRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.ExerciseName,
			&record.MuscleGroup,
			&record.WeightPerRep,
			&record.Reps,
			&record.Volume,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
