package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tritonlifts/api/internal/models"
	"github.com/tritonlifts/api/internal/services"
	"github.com/tritonlifts/api/internal/session"
)

const emptyDashboardMessage = "No data to show yet."

type workoutService interface {
	LogWorkout(ctx context.Context, sess *session.Session, input services.LogWorkoutInput) (*models.WorkoutRecord, error)
	ListWorkouts(ctx context.Context, userID int64) ([]models.WorkoutRecord, error)
	Dashboard(ctx context.Context, userID int64) (services.VolumeSummary, error)
	SaveDraft(ctx context.Context, sess *session.Session, exerciseID int64, draft session.SetDraft) error
	ClearDraft(ctx context.Context, sess *session.Session, exerciseID int64) error
}

type WorkoutHandler struct {
	service workoutService
}

// typedNumber keeps a JSON string or number as the text the user typed.
type typedNumber string

func (n *typedNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*n = typedNumber(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*n = typedNumber(number.String())
	return nil
}

type logWorkoutRequest struct {
	ExerciseID int64       `json:"exercise_id"`
	Weight     typedNumber `json:"weight"`
	Reps       typedNumber `json:"reps"`
}

type draftRequest struct {
	Weight typedNumber `json:"weight"`
	Reps   typedNumber `json:"reps"`
}

func NewWorkoutHandler(service workoutService) *WorkoutHandler {
	return &WorkoutHandler{service: service}
}

func (h *WorkoutHandler) LogWorkout(c *fiber.Ctx) error {
	sess, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	var req logWorkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	record, err := h.service.LogWorkout(c.UserContext(), sess, services.LogWorkoutInput{
		ExerciseID: req.ExerciseID,
		Weight:     string(req.Weight),
		Reps:       string(req.Reps),
	})
	if err != nil {
		return mapWorkoutError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Workout logged successfully!",
		"workout": record,
	})
}

func (h *WorkoutHandler) ListWorkouts(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	records, err := h.service.ListWorkouts(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    "Failed to fetch workouts. Please try again.",
			"workouts": []models.WorkoutRecord{},
		})
	}

	return c.JSON(fiber.Map{"workouts": records})
}

func (h *WorkoutHandler) Dashboard(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	summary, err := h.service.Dashboard(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "Failed to load dashboard. Please try again.",
			"groups": []models.MuscleGroupVolume{},
		})
	}

	if summary.Empty() {
		return c.JSON(fiber.Map{
			"message":    emptyDashboardMessage,
			"groups":     []models.MuscleGroupVolume{},
			"max_volume": summary.MaxVolume(),
		})
	}

	return c.JSON(fiber.Map{
		"groups":     summary.Groups,
		"max_volume": summary.MaxVolume(),
	})
}

func (h *WorkoutHandler) ListDrafts(c *fiber.Ctx) error {
	sess, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	drafts := make(map[string]session.SetDraft, len(sess.Drafts))
	for exerciseID, draft := range sess.Drafts {
		drafts[strconv.FormatInt(exerciseID, 10)] = draft
	}

	return c.JSON(fiber.Map{"drafts": drafts})
}

func (h *WorkoutHandler) PutDraft(c *fiber.Ctx) error {
	sess, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	exerciseID, err := strconv.ParseInt(c.Params("exercise_id"), 10, 64)
	if err != nil || exerciseID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	draft := session.SetDraft{Weight: string(req.Weight), Reps: string(req.Reps)}
	if err := h.service.SaveDraft(c.UserContext(), sess, exerciseID, draft); err != nil {
		return mapWorkoutError(c, err)
	}

	return c.JSON(fiber.Map{"exercise_id": exerciseID, "draft": draft})
}

func (h *WorkoutHandler) DeleteDraft(c *fiber.Ctx) error {
	sess, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	exerciseID, err := strconv.ParseInt(c.Params("exercise_id"), 10, 64)
	if err != nil || exerciseID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	if err := h.service.ClearDraft(c.UserContext(), sess, exerciseID); err != nil {
		return mapWorkoutError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func mapWorkoutError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrMissingInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please fill in all fields."})
	case errors.Is(err, services.ErrInvalidNumber):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Weight and reps must be numbers."})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exercise not found"})
	case errors.Is(err, session.ErrSessionNotFound):
		return unauthorized(c)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to log workout. Please try again."})
	}
}
