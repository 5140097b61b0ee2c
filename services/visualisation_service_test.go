package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"projectmonitor/derivation"
	"projectmonitor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type visualisationFixture struct {
	svc            VisualisationService
	visualisations *memVisualisations
	updates        *memKPIUpdates
	project        *models.Project
	kpi            *models.KPI
	foreignKPI     *models.KPI
}

func newVisualisationFixture(t *testing.T) *visualisationFixture {
	t.Helper()
	ctx := context.Background()
	projects, kpis, updates, visualisations := newMemProjects(), newMemKPIs(), &memKPIUpdates{}, newMemVisualisations()

	project := &models.Project{Name: "Water points"}
	require.NoError(t, projects.Create(ctx, project))
	other := &models.Project{Name: "School meals"}
	require.NoError(t, projects.Create(ctx, other))

	kpi := &models.KPI{ProjectID: project.ID, Indicator: "Wells drilled", Baseline: 0, Target: 20}
	require.NoError(t, kpis.Create(ctx, kpi))
	foreign := &models.KPI{ProjectID: other.ID, Indicator: "Meals served", Baseline: 0, Target: 1000}
	require.NoError(t, kpis.Create(ctx, foreign))

	return &visualisationFixture{
		svc:            NewVisualisationService(visualisations, projects, kpis, updates, zap.NewNop()),
		visualisations: visualisations,
		updates:        updates,
		project:        project,
		kpi:            kpi,
		foreignKPI:     foreign,
	}
}

func (f *visualisationFixture) kpiChart() *models.VisualisationRequest {
	return &models.VisualisationRequest{
		ProjectID:  f.project.ID.Hex(),
		Category:   models.CategoryKPI,
		KPIID:      f.kpi.ID.Hex(),
		Title:      "Wells over time",
		Type:       "line",
		Component1: "DateTime",
		Component2: "Value",
		Columns:    []string{"DateTime", "Value"},
	}
}

func (f *visualisationFixture) fileChart() *models.VisualisationRequest {
	return &models.VisualisationRequest{
		ProjectID:  f.project.ID.Hex(),
		Category:   models.CategoryFile,
		File:       json.RawMessage(`[{"district":"North","wells":4}]`),
		Title:      "Wells by district",
		Type:       "bar",
		Component1: "district",
		Component2: "wells",
		Columns:    []string{"district", "wells"},
	}
}

func TestVisualisationService_KPIChartFilledAtReadTime(t *testing.T) {
	ctx := context.Background()
	f := newVisualisationFixture(t)

	chart, err := f.svc.Create(ctx, f.kpiChart())
	require.NoError(t, err)
	require.NotNil(t, chart.KPIID)
	assert.Empty(t, f.visualisations.items[chart.ID].File, "kpi charts store no payload")

	for _, u := range []struct {
		final float64
		at    time.Time
	}{
		{final: 9, at: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{final: 3, at: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	} {
		require.NoError(t, f.updates.Create(ctx, &models.KPIUpdate{KPIID: f.kpi.ID, ProjectID: f.project.ID, Final: u.final, UpdatedAt: u.at}))
	}

	charts, err := f.svc.ListByProject(ctx, staffSession(f.project.ID), f.project.ID)
	require.NoError(t, err)
	require.Len(t, charts, 1)

	var points []derivation.SeriesPoint
	require.NoError(t, json.Unmarshal(charts[0].File, &points))
	require.Len(t, points, 2)
	assert.Equal(t, 3.0, points[0].Value)
	assert.Equal(t, 9.0, points[1].Value)

	t.Run("new updates show up without rewriting the chart", func(t *testing.T) {
		require.NoError(t, f.updates.Create(ctx, &models.KPIUpdate{KPIID: f.kpi.ID, Final: 12, UpdatedAt: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)}))

		charts, err := f.svc.ListByProject(ctx, adminSession(), f.project.ID)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(charts[0].File, &points))
		assert.Len(t, points, 3)
		assert.Equal(t, 12.0, points[2].Value)
	})
}

func TestVisualisationService_DataSourceRules(t *testing.T) {
	ctx := context.Background()
	f := newVisualisationFixture(t)

	tests := []struct {
		name    string
		mutate  func(*visualisationFixture) *models.VisualisationRequest
		wantErr error
	}{
		{
			name: "kpi chart without kpi_id",
			mutate: func(f *visualisationFixture) *models.VisualisationRequest {
				req := f.kpiChart()
				req.KPIID = ""
				return req
			},
			wantErr: ErrValidation,
		},
		{
			name: "kpi chart with a file payload",
			mutate: func(f *visualisationFixture) *models.VisualisationRequest {
				req := f.kpiChart()
				req.File = json.RawMessage(`[1,2]`)
				return req
			},
			wantErr: ErrValidation,
		},
		{
			name: "file chart referencing a kpi",
			mutate: func(f *visualisationFixture) *models.VisualisationRequest {
				req := f.fileChart()
				req.KPIID = f.kpi.ID.Hex()
				return req
			},
			wantErr: ErrValidation,
		},
		{
			name: "file chart with malformed payload",
			mutate: func(f *visualisationFixture) *models.VisualisationRequest {
				req := f.fileChart()
				req.File = json.RawMessage(`{"district":`)
				return req
			},
			wantErr: ErrValidation,
		},
		{
			name: "kpi of another project",
			mutate: func(f *visualisationFixture) *models.VisualisationRequest {
				req := f.kpiChart()
				req.KPIID = f.foreignKPI.ID.Hex()
				return req
			},
			wantErr: ErrValidation,
		},
		{
			name: "unknown kpi",
			mutate: func(f *visualisationFixture) *models.VisualisationRequest {
				req := f.kpiChart()
				req.KPIID = primitive.NewObjectID().Hex()
				return req
			},
			wantErr: ErrNotFound,
		},
		{
			name: "malformed kpi id",
			mutate: func(f *visualisationFixture) *models.VisualisationRequest {
				req := f.kpiChart()
				req.KPIID = "kpi-1"
				return req
			},
			wantErr: ErrInvalidID,
		},
		{
			name: "unknown project",
			mutate: func(f *visualisationFixture) *models.VisualisationRequest {
				req := f.fileChart()
				req.ProjectID = primitive.NewObjectID().Hex()
				return req
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.mutate(f))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.visualisations.items)
		})
	}

	t.Run("file chart keeps its payload", func(t *testing.T) {
		chart, err := f.svc.Create(ctx, f.fileChart())
		require.NoError(t, err)
		assert.Nil(t, chart.KPIID)
		assert.JSONEq(t, `[{"district":"North","wells":4}]`, string(chart.File))
	})
}

func TestVisualisationService_UpdateSwitchesSource(t *testing.T) {
	ctx := context.Background()
	f := newVisualisationFixture(t)

	chart, err := f.svc.Create(ctx, f.fileChart())
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, chart.ID, f.kpiChart())
	require.NoError(t, err)
	assert.Equal(t, models.CategoryKPI, updated.Category)
	require.NotNil(t, updated.KPIID)
	assert.Equal(t, f.kpi.ID, *updated.KPIID)
	assert.Empty(t, f.visualisations.items[chart.ID].File)
	assert.Equal(t, "Wells over time", f.visualisations.items[chart.ID].Title)

	_, err = f.svc.Update(ctx, primitive.NewObjectID(), f.fileChart())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, chart.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, chart.ID), ErrNotFound)
}

func TestVisualisationService_ListRequiresVisibility(t *testing.T) {
	ctx := context.Background()
	f := newVisualisationFixture(t)
	_, err := f.svc.Create(ctx, f.fileChart())
	require.NoError(t, err)

	_, err = f.svc.ListByProject(ctx, staffSession(), f.project.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	charts, err := f.svc.ListByProject(ctx, staffSession(f.project.ID), f.project.ID)
	require.NoError(t, err)
	assert.Len(t, charts, 1)
}
