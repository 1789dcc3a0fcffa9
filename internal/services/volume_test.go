package services

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tritonlifts/api/internal/models"
)

func TestAggregateVolumeEmpty(t *testing.T) {
	summary := AggregateVolume(nil)
	assert.True(t, summary.Empty())
	assert.Equal(t, 1.0, summary.MaxVolume())
	assert.Empty(t, summary.Volumes())
}

func TestAggregateVolumeGroupsInFirstSeenOrder(t *testing.T) {
	records := []models.WorkoutRecord{
		{ID: 1, MuscleGroup: "Chest", WeightPerRep: 80, Reps: 10, Volume: 800},
		{ID: 2, MuscleGroup: "Biceps", WeightPerRep: 20, Reps: 10, Volume: 200},
		{ID: 3, MuscleGroup: "Chest", WeightPerRep: 60, Reps: 5, Volume: 300},
		{ID: 4, MuscleGroup: "chest", WeightPerRep: 10, Reps: 1, Volume: 10},
	}

	summary := AggregateVolume(records)
	require.Len(t, summary.Groups, 3)

	assert.Equal(t, "Chest", summary.Groups[0].MuscleGroup)
	assert.Equal(t, 1100.0, summary.Groups[0].TotalVolume)
	assert.Equal(t, []int64{1, 3}, []int64{summary.Groups[0].Entries[0].ID, summary.Groups[0].Entries[1].ID})
	assert.InDelta(t, 100.0, summary.Groups[0].SharePercent, 1e-9)

	assert.Equal(t, "Biceps", summary.Groups[1].MuscleGroup)
	assert.InDelta(t, 200.0/1100.0*100, summary.Groups[1].SharePercent, 1e-9)

	assert.Equal(t, "chest", summary.Groups[2].MuscleGroup)
	assert.Equal(t, 1100.0, summary.MaxVolume())
}

func TestAggregateVolumeUsesStoredVolume(t *testing.T) {
	summary := AggregateVolume([]models.WorkoutRecord{
		{MuscleGroup: "Back", WeightPerRep: 100, Reps: 10, Volume: 5},
	})
	assert.Equal(t, 5.0, summary.Volumes()["Back"])
}

func TestAggregateVolumeZeroVolumeGroupIsNotEmpty(t *testing.T) {
	summary := AggregateVolume([]models.WorkoutRecord{{MuscleGroup: "Legs"}})
	assert.False(t, summary.Empty())
	assert.Equal(t, 1.0, summary.MaxVolume())
	assert.Equal(t, 0.0, summary.Groups[0].SharePercent)
}

func TestAggregateVolumeTotalsMatchPerLabelSums(t *testing.T) {
	faker := gofakeit.New(42)
	labels := []string{"Chest", "Biceps", "Shoulders", "Back", "Legs"}

	for round := 0; round < 50; round++ {
		n := faker.Number(0, 40)
		records := make([]models.WorkoutRecord, 0, n)
		want := make(map[string]float64)
		for i := 0; i < n; i++ {
			weight := float64(faker.Number(0, 200))
			reps := faker.Number(0, 30)
			label := faker.RandomString(labels)
			records = append(records, models.WorkoutRecord{
				ID:           int64(i + 1),
				MuscleGroup:  label,
				WeightPerRep: weight,
				Reps:         reps,
				Volume:       weight * float64(reps),
			})
			want[label] += weight * float64(reps)
		}

		summary := AggregateVolume(records)
		assert.Equal(t, n == 0, summary.Empty())
		assert.Equal(t, want, summary.Volumes())

		entries := 0
		for _, group := range summary.Groups {
			entries += len(group.Entries)
			assert.LessOrEqual(t, group.SharePercent, 100.0)
		}
		assert.Equal(t, n, entries)
	}
}
