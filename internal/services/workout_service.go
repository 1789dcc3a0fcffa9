package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tritonlifts/api/internal/models"
	"github.com/tritonlifts/api/internal/repository"
	"github.com/tritonlifts/api/internal/session"
	"github.com/tritonlifts/api/internal/telemetry/metrics"
	"github.com/tritonlifts/api/internal/telemetry/tracing"
	"github.com/tritonlifts/api/pkg/utils"
)

type workoutStore interface {
	Create(ctx context.Context, input repository.CreateWorkoutInput) (*models.WorkoutRecord, error)
	ListByUser(ctx context.Context, userID int64) ([]models.WorkoutRecord, error)
}

type exerciseLookup interface {
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
}

type WorkoutService struct {
	workouts workoutStore
	catalog  exerciseLookup
	sessions session.Store
	metrics  *metrics.Manager
}

// LogWorkoutInput carries the set as typed by the user. Blank fields fall back
// to the session draft for the exercise.
type LogWorkoutInput struct {
	ExerciseID int64
	Weight     string
	Reps       string
}

func NewWorkoutService(
	workouts workoutStore,
	catalog exerciseLookup,
	sessions session.Store,
	metricsManager *metrics.Manager,
) *WorkoutService {
	return &WorkoutService{
		workouts: workouts,
		catalog:  catalog,
		sessions: sessions,
		metrics:  metricsManager,
	}
}

func (s *WorkoutService) LogWorkout(
	ctx context.Context,
	sess *session.Session,
	input LogWorkoutInput,
) (record *models.WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutService.logWorkout")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if sess == nil || input.ExerciseID <= 0 {
		return nil, ErrInvalidInput
	}

	draft := sess.Draft(input.ExerciseID)
	rawWeight := firstNonBlank(input.Weight, draft.Weight)
	rawReps := firstNonBlank(input.Reps, draft.Reps)

	weight, reps, err := parseSet(rawWeight, rawReps)
	if err != nil {
		return nil, err
	}

	exercise, err := s.catalog.GetExercise(ctx, input.ExerciseID)
	if err != nil {
		return nil, err
	}

	record, err = s.workouts.Create(ctx, repository.CreateWorkoutInput{
		UserID:       sess.UserID,
		ExerciseName: exercise.Name,
		MuscleGroup:  exercise.MuscleGroup,
		WeightPerRep: weight,
		Reps:         reps,
		Volume:       weight * float64(reps),
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":     sess.UserID,
			"exercise_id": input.ExerciseID,
		}).Error("workout: insert failed")
		return nil, fmt.Errorf("create workout: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CounterWorkoutsLogged.Inc()
	}

	if _, hadDraft := sess.Drafts[input.ExerciseID]; hadDraft {
		sess.ClearDraft(input.ExerciseID)
		if err := s.sessions.Save(ctx, sess); err != nil {
			logrus.WithError(err).WithField("user_id", sess.UserID).Warn("workout: draft reset not saved")
		}
	}

	return record, nil
}

func (s *WorkoutService) ListWorkouts(ctx context.Context, userID int64) ([]models.WorkoutRecord, error) {
	records, err := s.workouts.ListByUser(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("workout: list failed")
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return records, nil
}

func (s *WorkoutService) Dashboard(ctx context.Context, userID int64) (VolumeSummary, error) {
	records, err := s.ListWorkouts(ctx, userID)
	if err != nil {
		return VolumeSummary{}, err
	}
	return AggregateVolume(records), nil
}

func (s *WorkoutService) SaveDraft(
	ctx context.Context,
	sess *session.Session,
	exerciseID int64,
	draft session.SetDraft,
) error {
	if sess == nil {
		return ErrInvalidInput
	}
	if _, err := s.catalog.GetExercise(ctx, exerciseID); err != nil {
		return err
	}

	sess.SetDraft(exerciseID, draft)
	return s.sessions.Save(ctx, sess)
}

func (s *WorkoutService) ClearDraft(ctx context.Context, sess *session.Session, exerciseID int64) error {
	if sess == nil || exerciseID <= 0 {
		return ErrInvalidInput
	}

	sess.ClearDraft(exerciseID)
	return s.sessions.Save(ctx, sess)
}

func parseSet(rawWeight, rawReps string) (float64, int, error) {
	weight, weightErr := utils.ParseFloat(rawWeight)
	reps, repsErr := utils.ParseInt(rawReps)

	if errors.Is(weightErr, utils.ErrBlank) || errors.Is(repsErr, utils.ErrBlank) {
		return 0, 0, ErrMissingInput
	}
	if weightErr != nil || repsErr != nil {
		return 0, 0, ErrInvalidNumber
	}

	return weight, reps, nil
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
