package derivation

import (
	"fmt"
	"time"

	"projectmonitor/models"
)

// maxExtrapolation caps the predicted remaining time so tiny progress values
// cannot overflow time.Duration.
const maxExtrapolation = 100 * 365 * 24 * time.Hour

// Forecast is the predicted completion of a project.
type Forecast struct {
	ProjectID        string    `json:"project_id"`
	StartDate        string    `json:"start_date"`
	EndDate          string    `json:"end_date"`
	ProjectProgress  float64   `json:"project_progress"`
	PredictedEndDate time.Time `json:"predicted_end_date"`
	IsOverdue        bool      `json:"is_overdue"`
	KPIProgress      *float64  `json:"kpi_progress,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// ProgressFraction converts a stored 0-100 percentage into [0, 1].
func ProgressFraction(percent float64) float64 {
	return clamp(percent/100, 0, 1)
}

// PredictEndDate extrapolates linearly: it assumes the velocity implied by the
// recorded progress stays constant, which is naive when progress is uneven.
// With zero progress nothing is divided and now is returned.
func PredictEndDate(start, end time.Time, fraction float64, now time.Time) time.Time {
	if fraction <= 0 {
		return now
	}
	remaining := float64(end.Sub(start)) / fraction
	if remaining > float64(maxExtrapolation) {
		remaining = float64(maxExtrapolation)
	}
	if remaining < -float64(maxExtrapolation) {
		remaining = -float64(maxExtrapolation)
	}
	return now.Add(time.Duration(remaining))
}

// ProjectForecast derives the predicted end date and overdue flag of a project
// from its stored progress percentage.
func ProjectForecast(project models.Project, now time.Time) (Forecast, error) {
	start, err := time.Parse(models.DateLayout, project.StartDate)
	if err != nil {
		return Forecast{}, fmt.Errorf("invalid start_date %q: %w", project.StartDate, err)
	}
	end, err := time.Parse(models.DateLayout, project.EndDate)
	if err != nil {
		return Forecast{}, fmt.Errorf("invalid end_date %q: %w", project.EndDate, err)
	}

	predicted := PredictEndDate(start, end, ProgressFraction(project.ProjectProgress), now)

	return Forecast{
		ProjectID:        project.ID.Hex(),
		StartDate:        project.StartDate,
		EndDate:          project.EndDate,
		ProjectProgress:  project.ProjectProgress,
		PredictedEndDate: predicted,
		IsOverdue:        predicted.After(end),
		GeneratedAt:      now,
	}, nil
}
