package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tritonlifts/api/internal/models"
	"github.com/tritonlifts/api/internal/services"
)

type catalogService interface {
	ListMuscleGroups(ctx context.Context) ([]string, error)
	ListExercises(ctx context.Context, muscleGroup string) ([]models.Exercise, error)
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
}

type CatalogHandler struct {
	service catalogService
}

func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) ListMuscleGroups(c *fiber.Ctx) error {
	groups, err := h.service.ListMuscleGroups(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":         "Failed to fetch muscle groups. Please try again.",
			"muscle_groups": []string{},
		})
	}

	return c.JSON(fiber.Map{"muscle_groups": groups})
}

func (h *CatalogHandler) ListExercises(c *fiber.Ctx) error {
	muscleGroup := c.Query("muscle_group")

	exercises, err := h.service.ListExercises(c.UserContext(), muscleGroup)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":     "Failed to fetch exercises. Please try again.",
			"exercises": []models.Exercise{},
		})
	}

	return c.JSON(fiber.Map{
		"muscle_group": muscleGroup,
		"exercises":    exercises,
	})
}

func (h *CatalogHandler) GetExercise(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	exercise, err := h.service.GetExercise(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exercise not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch exercise. Please try again."})
	}

	return c.JSON(fiber.Map{"exercise": exercise})
}
