package services

import "github.com/tritonlifts/api/internal/models"

// VolumeSummary is the per muscle group breakdown shown on the dashboard.
type VolumeSummary struct {
	Groups []models.MuscleGroupVolume `json:"groups"`
}

// AggregateVolume groups records by their exact muscle group label and sums
// the stored volume of each. Groups appear in the order their label is first
// seen; entries keep input order.
func AggregateVolume(records []models.WorkoutRecord) VolumeSummary {
	index := make(map[string]int)
	groups := make([]models.MuscleGroupVolume, 0)

	for _, record := range records {
		i, ok := index[record.MuscleGroup]
		if !ok {
			i = len(groups)
			index[record.MuscleGroup] = i
			groups = append(groups, models.MuscleGroupVolume{
				MuscleGroup: record.MuscleGroup,
				Entries:     make([]models.WorkoutRecord, 0, 1),
			})
		}
		groups[i].TotalVolume += record.Volume
		groups[i].Entries = append(groups[i].Entries, record)
	}

	summary := VolumeSummary{Groups: groups}
	maxVolume := summary.MaxVolume()
	for i := range summary.Groups {
		summary.Groups[i].SharePercent = summary.Groups[i].TotalVolume / maxVolume * 100
	}

	return summary
}

func (v VolumeSummary) Empty() bool {
	return len(v.Groups) == 0
}

// MaxVolume is the largest group total, never less than 1.
func (v VolumeSummary) MaxVolume() float64 {
	maxVolume := 1.0
	for _, group := range v.Groups {
		if group.TotalVolume > maxVolume {
			maxVolume = group.TotalVolume
		}
	}
	return maxVolume
}

func (v VolumeSummary) Volumes() map[string]float64 {
	volumes := make(map[string]float64, len(v.Groups))
	for _, group := range v.Groups {
		volumes[group.MuscleGroup] = group.TotalVolume
	}
	return volumes
}
