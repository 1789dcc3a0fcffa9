package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tritonlifts/api/internal/models"
	"github.com/tritonlifts/api/internal/repository"
	"github.com/tritonlifts/api/internal/session"
	"github.com/tritonlifts/api/internal/telemetry/metrics"
)

type stubWorkoutRepo struct {
	createResult *models.WorkoutRecord
	createErr    error
	createCalls  int
	lastCreate   repository.CreateWorkoutInput
	listResult   []models.WorkoutRecord
	listErr      error
}

func (r *stubWorkoutRepo) Create(_ context.Context, input repository.CreateWorkoutInput) (*models.WorkoutRecord, error) {
	r.createCalls++
	r.lastCreate = input
	if r.createErr != nil {
		return nil, r.createErr
	}
	if r.createResult != nil {
		return r.createResult, nil
	}
	return &models.WorkoutRecord{
		ID:           1,
		UserID:       input.UserID,
		ExerciseName: input.ExerciseName,
		MuscleGroup:  input.MuscleGroup,
		WeightPerRep: input.WeightPerRep,
		Reps:         input.Reps,
		Volume:       input.Volume,
		CreatedAt:    time.Now(),
	}, nil
}

func (r *stubWorkoutRepo) ListByUser(_ context.Context, _ int64) ([]models.WorkoutRecord, error) {
	return r.listResult, r.listErr
}

type stubExerciseLookup struct {
	exercise *models.Exercise
	err      error
}

func (l *stubExerciseLookup) GetExercise(_ context.Context, _ int64) (*models.Exercise, error) {
	return l.exercise, l.err
}

func benchPress() *stubExerciseLookup {
	return &stubExerciseLookup{exercise: &models.Exercise{ID: 7, Name: "Bench Press", MuscleGroup: "Chest"}}
}

func openTestSession(t *testing.T, store session.Store) *session.Session {
	t.Helper()
	sess, err := store.Open(context.Background(), &models.User{ID: 42, Email: "lifter@example.com"})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return sess
}

func TestLogWorkoutComputesVolume(t *testing.T) {
	repo := &stubWorkoutRepo{}
	store := session.NewMemoryStore(time.Hour)
	m := metrics.NewTestManager()
	service := NewWorkoutService(repo, benchPress(), store, m)

	sess := openTestSession(t, store)
	record, err := service.LogWorkout(context.Background(), sess, LogWorkoutInput{
		ExerciseID: 7,
		Weight:     "80",
		Reps:       "10",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if record.Volume != 800 {
		t.Fatalf("expected volume 800, got %v", record.Volume)
	}
	if repo.lastCreate.UserID != 42 || repo.lastCreate.ExerciseName != "Bench Press" || repo.lastCreate.MuscleGroup != "Chest" {
		t.Fatalf("unexpected insert input: %+v", repo.lastCreate)
	}
}

func TestLogWorkoutRejectsMissingFields(t *testing.T) {
	repo := &stubWorkoutRepo{}
	store := session.NewMemoryStore(time.Hour)
	service := NewWorkoutService(repo, benchPress(), store, nil)
	sess := openTestSession(t, store)

	cases := []LogWorkoutInput{
		{ExerciseID: 7, Weight: "", Reps: "10"},
		{ExerciseID: 7, Weight: "80", Reps: "  "},
		{ExerciseID: 7},
	}
	for _, input := range cases {
		_, err := service.LogWorkout(context.Background(), sess, input)
		if !errors.Is(err, ErrMissingInput) {
			t.Fatalf("expected ErrMissingInput for %+v, got %v", input, err)
		}
	}

	if repo.createCalls != 0 {
		t.Fatalf("expected no writes, got %d", repo.createCalls)
	}
}

func TestLogWorkoutRejectsNonNumeric(t *testing.T) {
	repo := &stubWorkoutRepo{}
	store := session.NewMemoryStore(time.Hour)
	service := NewWorkoutService(repo, benchPress(), store, nil)
	sess := openTestSession(t, store)

	_, err := service.LogWorkout(context.Background(), sess, LogWorkoutInput{ExerciseID: 7, Weight: "heavy", Reps: "10"})
	if !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Fatalf("expected no writes, got %d", repo.createCalls)
	}
}

func TestLogWorkoutUsesDraftAndResetsIt(t *testing.T) {
	repo := &stubWorkoutRepo{}
	store := session.NewMemoryStore(time.Hour)
	service := NewWorkoutService(repo, benchPress(), store, nil)
	sess := openTestSession(t, store)

	if err := service.SaveDraft(context.Background(), sess, 7, session.SetDraft{Weight: "50", Reps: "12"}); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	record, err := service.LogWorkout(context.Background(), sess, LogWorkoutInput{ExerciseID: 7})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if record.Volume != 600 {
		t.Fatalf("expected volume 600, got %v", record.Volume)
	}

	stored, err := store.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if !stored.Draft(7).IsZero() {
		t.Fatalf("expected draft reset, got %+v", stored.Draft(7))
	}
}

func TestLogWorkoutKeepsDraftOnWriteFailure(t *testing.T) {
	repo := &stubWorkoutRepo{createErr: errors.New("insert failed")}
	store := session.NewMemoryStore(time.Hour)
	service := NewWorkoutService(repo, benchPress(), store, nil)
	sess := openTestSession(t, store)
	sess.SetDraft(7, session.SetDraft{Weight: "50", Reps: "12"})

	if _, err := service.LogWorkout(context.Background(), sess, LogWorkoutInput{ExerciseID: 7}); err == nil {
		t.Fatalf("expected write error")
	}
	if sess.Draft(7).Weight != "50" {
		t.Fatalf("expected draft kept after failure")
	}
}

func TestLogWorkoutUnknownExercise(t *testing.T) {
	repo := &stubWorkoutRepo{}
	store := session.NewMemoryStore(time.Hour)
	service := NewWorkoutService(repo, &stubExerciseLookup{err: ErrNotFound}, store, nil)
	sess := openTestSession(t, store)

	_, err := service.LogWorkout(context.Background(), sess, LogWorkoutInput{ExerciseID: 99, Weight: "1", Reps: "1"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDashboardEmptyHistory(t *testing.T) {
	service := NewWorkoutService(&stubWorkoutRepo{}, benchPress(), session.NewMemoryStore(time.Hour), nil)

	summary, err := service.Dashboard(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !summary.Empty() {
		t.Fatalf("expected empty summary")
	}
}

func TestDashboardReadFailure(t *testing.T) {
	service := NewWorkoutService(&stubWorkoutRepo{listErr: errors.New("timeout")}, benchPress(), session.NewMemoryStore(time.Hour), nil)

	if _, err := service.Dashboard(context.Background(), 42); err == nil {
		t.Fatalf("expected error")
	}
}

func TestClearDraft(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	service := NewWorkoutService(&stubWorkoutRepo{}, benchPress(), store, nil)
	sess := openTestSession(t, store)
	sess.SetDraft(7, session.SetDraft{Weight: "5"})

	if err := service.ClearDraft(context.Background(), sess, 7); err != nil {
		t.Fatalf("clear draft: %v", err)
	}
	stored, _ := store.Get(context.Background(), sess.ID)
	if len(stored.Drafts) != 0 {
		t.Fatalf("expected no drafts, got %+v", stored.Drafts)
	}
}
