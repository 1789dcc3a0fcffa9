package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/coocood/freecache"
	"github.com/sirupsen/logrus"
	"github.com/tritonlifts/api/internal/models"
	"github.com/tritonlifts/api/internal/telemetry/metrics"
	"github.com/tritonlifts/api/internal/telemetry/tracing"
)

const (
	muscleGroupsCacheKey   = "catalog:groups"
	exercisesCacheKeyStart = "catalog:exercises:"
	exerciseCacheKeyStart  = "catalog:exercise:"
)

type exerciseReader interface {
	ListMuscleGroups(ctx context.Context) ([]string, error)
	List(ctx context.Context, muscleGroup string) ([]models.Exercise, error)
	GetByID(ctx context.Context, id int64) (*models.Exercise, error)
}

// CatalogService reads the exercise catalog. Listings are cached since the
// catalog is reference data this service never writes.
type CatalogService struct {
	exercises    exerciseReader
	cache        *freecache.Cache
	cacheTTLSecs int
	metrics      *metrics.Manager
}

func NewCatalogService(
	exercises exerciseReader,
	cache *freecache.Cache,
	cacheTTL time.Duration,
	metricsManager *metrics.Manager,
) *CatalogService {
	return &CatalogService{
		exercises:    exercises,
		cache:        cache,
		cacheTTLSecs: int(cacheTTL / time.Second),
		metrics:      metricsManager,
	}
}

func (s *CatalogService) ListMuscleGroups(ctx context.Context) (groups []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalogService.listMuscleGroups")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if s.cacheGet(muscleGroupsCacheKey, &groups) {
		return groups, nil
	}

	groups, err = s.exercises.ListMuscleGroups(ctx)
	if err != nil {
		logrus.WithError(err).Error("catalog: list muscle groups failed")
		return nil, fmt.Errorf("list muscle groups: %w", err)
	}

	s.cacheSet(muscleGroupsCacheKey, groups)
	return groups, nil
}

// ListExercises returns the catalog rows whose label equals muscleGroup
// exactly. An empty muscleGroup lists everything.
func (s *CatalogService) ListExercises(ctx context.Context, muscleGroup string) (exercises []models.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalogService.listExercises")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	key := exercisesCacheKeyStart + muscleGroup
	if s.cacheGet(key, &exercises) {
		return exercises, nil
	}

	exercises, err = s.exercises.List(ctx, muscleGroup)
	if err != nil {
		logrus.WithError(err).WithField("muscle_group", muscleGroup).Error("catalog: list exercises failed")
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	for i := range exercises {
		applyDefaultImage(&exercises[i])
	}

	s.cacheSet(key, exercises)
	return exercises, nil
}

func (s *CatalogService) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	key := exerciseCacheKeyStart + strconv.FormatInt(id, 10)
	var cached models.Exercise
	if s.cacheGet(key, &cached) {
		return &cached, nil
	}

	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		logrus.WithError(err).WithField("exercise_id", id).Error("catalog: get exercise failed")
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	applyDefaultImage(exercise)

	s.cacheSet(key, exercise)
	return exercise, nil
}

func applyDefaultImage(exercise *models.Exercise) {
	if exercise.ImageURL == "" {
		exercise.ImageURL = models.DefaultExerciseImageURL
	}
}

func (s *CatalogService) cacheGet(key string, dst any) bool {
	if s.cache == nil || s.cacheTTLSecs <= 0 {
		return false
	}

	raw, err := s.cache.Get([]byte(key))
	if err != nil {
		s.countCache(false)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("catalog: dropping undecodable cache entry")
		s.cache.Del([]byte(key))
		s.countCache(false)
		return false
	}

	s.countCache(true)
	return true
}

func (s *CatalogService) cacheSet(key string, value any) {
	if s.cache == nil || s.cacheTTLSecs <= 0 {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set([]byte(key), raw, s.cacheTTLSecs); err != nil {
		logrus.WithError(err).WithField("key", key).Debug("catalog: cache set failed")
	}
}

func (s *CatalogService) countCache(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CounterCatalogCacheHits.Inc()
		return
	}
	s.metrics.CounterCatalogCacheMisses.Inc()
}
