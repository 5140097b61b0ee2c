package derivation

import (
	"testing"
	"time"

	"projectmonitor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func update(kpiID primitive.ObjectID, final float64, when string) models.KPIUpdate {
	return models.KPIUpdate{
		ID:        primitive.NewObjectID(),
		KPIID:     kpiID,
		Initial:   final - 1,
		Final:     final,
		UpdatedAt: at(when),
	}
}

func TestCurrentValue(t *testing.T) {
	kpi := models.KPI{ID: primitive.NewObjectID(), Baseline: 10, Target: 50}

	t.Run("no updates returns baseline", func(t *testing.T) {
		assert.Equal(t, 10.0, CurrentValue(kpi, nil))
	})

	t.Run("latest by timestamp, not by arrival", func(t *testing.T) {
		updates := []models.KPIUpdate{
			update(kpi.ID, 30, "2024-05-01T00:00:00Z"),
			update(kpi.ID, 42, "2024-07-01T00:00:00Z"),
			update(kpi.ID, 20, "2024-03-01T00:00:00Z"),
		}
		assert.Equal(t, 42.0, CurrentValue(kpi, updates))
	})

	t.Run("updates of other KPIs are ignored", func(t *testing.T) {
		other := primitive.NewObjectID()
		updates := []models.KPIUpdate{
			update(kpi.ID, 15, "2024-01-01T00:00:00Z"),
			update(other, 99, "2025-01-01T00:00:00Z"),
		}
		assert.Equal(t, 15.0, CurrentValue(kpi, updates))
	})

	t.Run("equal timestamps resolve to the later id", func(t *testing.T) {
		first := update(kpi.ID, 11, "2024-05-01T00:00:00Z")
		second := update(kpi.ID, 12, "2024-05-01T00:00:00Z")
		require.True(t, second.ID.Hex() > first.ID.Hex())

		assert.Equal(t, 12.0, CurrentValue(kpi, []models.KPIUpdate{second, first}))
		assert.Equal(t, 12.0, CurrentValue(kpi, []models.KPIUpdate{first, second}))
	})
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		name     string
		kpi      models.KPI
		current  float64
		expected float64
	}{
		{name: "at baseline", kpi: models.KPI{Baseline: 10, Target: 50}, current: 10, expected: 0},
		{name: "half way", kpi: models.KPI{Baseline: 10, Target: 50}, current: 30, expected: 50},
		{name: "beyond target", kpi: models.KPI{Baseline: 10, Target: 50}, current: 80, expected: 100},
		{name: "below baseline", kpi: models.KPI{Baseline: 10, Target: 50}, current: 0, expected: 0},
		{name: "decreasing target", kpi: models.KPI{Baseline: 40, Target: 20}, current: 30, expected: 50},
		{name: "flat target reached", kpi: models.KPI{Baseline: 5, Target: 5}, current: 5, expected: 100},
		{name: "flat target missed", kpi: models.KPI{Baseline: 5, Target: 5}, current: 4, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Completion(tt.kpi, tt.current), 1e-9)
		})
	}
}

func TestSummarizeAll(t *testing.T) {
	a := models.KPI{ID: primitive.NewObjectID(), Baseline: 0, Target: 100}
	b := models.KPI{ID: primitive.NewObjectID(), Baseline: 0, Target: 10}
	updates := []models.KPIUpdate{
		update(a.ID, 25, "2024-02-01T00:00:00Z"),
		update(a.ID, 75, "2024-04-01T00:00:00Z"),
	}

	statuses := SummarizeAll([]models.KPI{a, b}, updates)
	require.Len(t, statuses, 2)

	assert.Equal(t, 75.0, statuses[0].Current)
	assert.Equal(t, 75.0, statuses[0].Completion)
	assert.Equal(t, 2, statuses[0].UpdateCount)
	require.NotNil(t, statuses[0].LastUpdatedAt)
	assert.True(t, statuses[0].LastUpdatedAt.Equal(at("2024-04-01T00:00:00Z")))

	assert.Equal(t, 0.0, statuses[1].Current)
	assert.Nil(t, statuses[1].LastUpdatedAt)

	mean, ok := MeanCompletion(statuses)
	assert.True(t, ok)
	assert.Equal(t, 37.5, mean)

	_, ok = MeanCompletion(nil)
	assert.False(t, ok)
}

func TestPreview_DoesNotMutateHistory(t *testing.T) {
	kpi := models.KPI{ID: primitive.NewObjectID(), Baseline: 0, Target: 10}
	stored := []models.KPIUpdate{update(kpi.ID, 4, "2024-02-01T00:00:00Z")}

	pending := models.KPIUpdate{Final: 8, UpdatedAt: at("2024-03-01T00:00:00Z")}
	status := Preview(kpi, stored, pending)

	assert.Equal(t, 8.0, status.Current)
	assert.Equal(t, 80.0, status.Completion)
	assert.Len(t, stored, 1)
	assert.Equal(t, 4.0, CurrentValue(kpi, stored))

	older := models.KPIUpdate{Final: 1, UpdatedAt: at("2023-12-01T00:00:00Z")}
	assert.Equal(t, 4.0, Preview(kpi, stored, older).Current)
}

func TestSeries_OrderedByTime(t *testing.T) {
	id := primitive.NewObjectID()
	updates := []models.KPIUpdate{
		update(id, 3, "2024-03-01T00:00:00Z"),
		update(id, 1, "2024-01-01T00:00:00Z"),
		update(id, 2, "2024-02-01T00:00:00Z"),
	}

	points := Series(updates)
	require.Len(t, points, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{points[0].Value, points[1].Value, points[2].Value})
	assert.Equal(t, 3.0, updates[0].Final, "input order must be preserved")
}

func TestPredictEndDate(t *testing.T) {
	start := at("2024-01-01T00:00:00Z")
	end := at("2024-12-31T00:00:00Z")
	now := at("2024-06-01T12:00:00Z")

	t.Run("zero progress returns now without dividing", func(t *testing.T) {
		assert.True(t, PredictEndDate(start, end, 0, now).Equal(now))
	})

	t.Run("half progress doubles the planned span", func(t *testing.T) {
		expected := now.Add(2 * 365 * 24 * time.Hour)
		assert.True(t, PredictEndDate(start, end, 0.5, now).Equal(expected))
		assert.True(t, PredictEndDate(start, end, 0.5, now).Equal(PredictEndDate(start, end, 0.5, now)))
	})

	t.Run("strictly earlier as progress grows", func(t *testing.T) {
		prev := PredictEndDate(start, end, 0.1, now)
		for _, f := range []float64{0.2, 0.35, 0.5, 0.75, 0.9, 1} {
			next := PredictEndDate(start, end, f, now)
			assert.True(t, next.Before(prev), "fraction %v", f)
			prev = next
		}
	})

	t.Run("tiny progress is capped", func(t *testing.T) {
		assert.True(t, PredictEndDate(start, end, 1e-12, now).Equal(now.Add(maxExtrapolation)))
	})
}

func TestProjectForecast(t *testing.T) {
	project := models.Project{
		ID:        primitive.NewObjectID(),
		StartDate: "2024-01-01",
		EndDate:   "2024-12-31",
	}

	t.Run("zero progress", func(t *testing.T) {
		now := at("2024-03-01T00:00:00Z")
		f, err := ProjectForecast(project, now)
		require.NoError(t, err)
		assert.WithinDuration(t, now, f.PredictedEndDate, time.Second)
		assert.False(t, f.IsOverdue)
	})

	t.Run("low progress past midpoint is overdue", func(t *testing.T) {
		p := project
		p.ProjectProgress = 10
		f, err := ProjectForecast(p, at("2024-08-01T00:00:00Z"))
		require.NoError(t, err)
		assert.True(t, f.IsOverdue)
	})

	t.Run("full progress at the start is not overdue", func(t *testing.T) {
		p := project
		p.ProjectProgress = 100
		f, err := ProjectForecast(p, at("2024-01-01T00:00:00Z"))
		require.NoError(t, err)
		assert.True(t, f.PredictedEndDate.Equal(at("2024-12-31T00:00:00Z")))
		assert.False(t, f.IsOverdue)
	})

	t.Run("malformed dates", func(t *testing.T) {
		p := project
		p.EndDate = "end of year"
		_, err := ProjectForecast(p, time.Now())
		assert.ErrorContains(t, err, "invalid end_date")
	})
}

func TestProgressFraction(t *testing.T) {
	assert.Equal(t, 0.0, ProgressFraction(-5))
	assert.Equal(t, 0.5, ProgressFraction(50))
	assert.Equal(t, 1.0, ProgressFraction(140))
}
