package services

import (
	"context"
	"fmt"
	"time"

	"projectmonitor/derivation"
	"projectmonitor/models"
	repository "projectmonitor/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type KPIService interface {
	CreateKPI(ctx context.Context, req *models.CreateKPIRequest) (*models.KPI, error)
	GetKPIsByProject(ctx context.Context, session *models.Session, projectID primitive.ObjectID) ([]derivation.KPIStatus, error)
	EditKPI(ctx context.Context, id primitive.ObjectID, req *models.EditKPIRequest) (*models.KPI, error)
	DeleteKPI(ctx context.Context, id primitive.ObjectID) error
	// Update history methods
	RecordUpdate(ctx context.Context, session *models.Session, kpiID primitive.ObjectID, req *models.KPIUpdateRequest) (*models.KPIUpdate, error)
	GetUpdates(ctx context.Context, session *models.Session, kpiID primitive.ObjectID) ([]models.KPIUpdate, error)
	GetUpdatesForProject(ctx context.Context, session *models.Session, projectID primitive.ObjectID) ([]models.KPIUpdate, error)
	GetLatestUpdate(ctx context.Context, session *models.Session, kpiID primitive.ObjectID) (*models.KPIUpdate, error)
	GetSeries(ctx context.Context, session *models.Session, kpiID primitive.ObjectID) ([]derivation.SeriesPoint, error)
	DeleteUpdate(ctx context.Context, id primitive.ObjectID) error
	// Preview derives the status a pending update would produce without storing it.
	Preview(ctx context.Context, session *models.Session, kpiID primitive.ObjectID, req *models.KPIPreviewRequest) (*derivation.KPIStatus, error)
}

type kpiService struct {
	kpis     repository.KPIRepository
	updates  repository.KPIUpdateRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	users    repository.UserRepository
	now      func() time.Time
	logger   *zap.Logger
}

func NewKPIService(kpis repository.KPIRepository, updates repository.KPIUpdateRepository, projects repository.ProjectRepository, tasks repository.TaskRepository, users repository.UserRepository, logger *zap.Logger) KPIService {
	return &kpiService{
		kpis:     kpis,
		updates:  updates,
		projects: projects,
		tasks:    tasks,
		users:    users,
		now:      time.Now,
		logger:   logger.With(zap.String("component", "kpis")),
	}
}

func (s *kpiService) CreateKPI(ctx context.Context, req *models.CreateKPIRequest) (*models.KPI, error) {
	projectID, err := ParseID("project_id", req.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, notFound("project", err)
	}

	kpi := &models.KPI{
		ProjectID:     projectID,
		Indicator:     req.Indicator,
		WhatItTracks:  req.WhatItTracks,
		LogframeLevel: req.LogframeLevel,
		Explanation:   req.Explanation,
		Baseline:      *req.Baseline,
		Target:        *req.Target,
	}
	if err := s.kpis.Create(ctx, kpi); err != nil {
		return nil, err
	}

	s.logger.Info("kpi created", zap.String("kpi_id", kpi.ID.Hex()), zap.String("project_id", projectID.Hex()))
	return kpi, nil
}

func (s *kpiService) GetKPIsByProject(ctx context.Context, session *models.Session, projectID primitive.ObjectID) ([]derivation.KPIStatus, error) {
	if !session.CanView(projectID) {
		return nil, ErrForbidden
	}

	kpis, err := s.kpis.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	updates, err := s.updates.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return derivation.SummarizeAll(kpis, updates), nil
}

func (s *kpiService) EditKPI(ctx context.Context, id primitive.ObjectID, req *models.EditKPIRequest) (*models.KPI, error) {
	kpi, err := s.kpis.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("kpi", err)
	}

	kpi.Indicator = req.Indicator
	kpi.WhatItTracks = req.WhatItTracks
	kpi.LogframeLevel = req.LogframeLevel
	kpi.Explanation = req.Explanation
	kpi.Baseline = *req.Baseline
	kpi.Target = *req.Target

	if err := s.kpis.Update(ctx, kpi); err != nil {
		return nil, notFound("kpi", err)
	}
	return kpi, nil
}

func (s *kpiService) DeleteKPI(ctx context.Context, id primitive.ObjectID) error {
	if err := s.kpis.Delete(ctx, id); err != nil {
		return notFound("kpi", err)
	}
	s.logger.Info("kpi deleted", zap.String("kpi_id", id.Hex()))
	return nil
}

func (s *kpiService) RecordUpdate(ctx context.Context, session *models.Session, kpiID primitive.ObjectID, req *models.KPIUpdateRequest) (*models.KPIUpdate, error) {
	taskID, err := ParseID("task_id", req.TaskID)
	if err != nil {
		return nil, err
	}
	kpi, err := s.visibleKPI(ctx, session, kpiID)
	if err != nil {
		return nil, err
	}

	updatedBy, err := s.reporter(ctx, session, req.UpdatedBy)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, notFound("task", err)
	}
	if task.ProjectID != kpi.ProjectID {
		return nil, fmt.Errorf("task %s does not belong to the kpi's project: %w", taskID.Hex(), ErrValidation)
	}

	update := &models.KPIUpdate{
		ProjectID: kpi.ProjectID,
		TaskID:    taskID,
		KPIID:     kpi.ID,
		Initial:   *req.Initial,
		Final:     *req.Final,
		UpdatedAt: req.UpdatedAt.UTC(),
		Note:      req.Note,
		UpdatedBy: updatedBy,
	}
	if err := s.updates.Create(ctx, update); err != nil {
		return nil, err
	}

	s.logger.Info("kpi update recorded",
		zap.String("kpi_id", kpi.ID.Hex()),
		zap.String("update_id", update.ID.Hex()),
		zap.Float64("final", update.Final),
	)
	return update, nil
}

// reporter resolves who an observation is attributed to. Non-admins record in
// their own name; admins may name any existing user.
func (s *kpiService) reporter(ctx context.Context, session *models.Session, requested string) (primitive.ObjectID, error) {
	id, err := ParseID("updated_by", requested)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if id == session.UserID {
		return id, nil
	}
	if session.Role != models.RoleAdmin {
		return primitive.NilObjectID, fmt.Errorf("updates can only be recorded in your own name: %w", ErrForbidden)
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return primitive.NilObjectID, notFound("user", err)
	}
	return id, nil
}

func (s *kpiService) GetUpdates(ctx context.Context, session *models.Session, kpiID primitive.ObjectID) ([]models.KPIUpdate, error) {
	if _, err := s.visibleKPI(ctx, session, kpiID); err != nil {
		return nil, err
	}
	updates, err := s.updates.ListByKPI(ctx, kpiID)
	if err != nil {
		return nil, err
	}
	return derivation.History(updates), nil
}

func (s *kpiService) GetUpdatesForProject(ctx context.Context, session *models.Session, projectID primitive.ObjectID) ([]models.KPIUpdate, error) {
	if !session.CanView(projectID) {
		return nil, ErrForbidden
	}
	updates, err := s.updates.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return derivation.History(updates), nil
}

func (s *kpiService) GetLatestUpdate(ctx context.Context, session *models.Session, kpiID primitive.ObjectID) (*models.KPIUpdate, error) {
	if _, err := s.visibleKPI(ctx, session, kpiID); err != nil {
		return nil, err
	}
	latest, err := s.updates.Latest(ctx, kpiID)
	if err != nil {
		return nil, notFound("kpi update", err)
	}
	return latest, nil
}

func (s *kpiService) GetSeries(ctx context.Context, session *models.Session, kpiID primitive.ObjectID) ([]derivation.SeriesPoint, error) {
	if _, err := s.visibleKPI(ctx, session, kpiID); err != nil {
		return nil, err
	}
	updates, err := s.updates.ListByKPI(ctx, kpiID)
	if err != nil {
		return nil, err
	}
	return derivation.Series(updates), nil
}

func (s *kpiService) DeleteUpdate(ctx context.Context, id primitive.ObjectID) error {
	if err := s.updates.Delete(ctx, id); err != nil {
		return notFound("kpi update", err)
	}
	s.logger.Info("kpi update deleted", zap.String("update_id", id.Hex()))
	return nil
}

func (s *kpiService) Preview(ctx context.Context, session *models.Session, kpiID primitive.ObjectID, req *models.KPIPreviewRequest) (*derivation.KPIStatus, error) {
	kpi, err := s.visibleKPI(ctx, session, kpiID)
	if err != nil {
		return nil, err
	}
	updates, err := s.updates.ListByKPI(ctx, kpiID)
	if err != nil {
		return nil, err
	}

	pending := models.KPIUpdate{Final: *req.Final, UpdatedAt: s.now().UTC()}
	if req.UpdatedAt != nil {
		pending.UpdatedAt = req.UpdatedAt.UTC()
	}
	status := derivation.Preview(*kpi, updates, pending)
	return &status, nil
}

// visibleKPI loads a KPI and checks the session may see its project.
func (s *kpiService) visibleKPI(ctx context.Context, session *models.Session, id primitive.ObjectID) (*models.KPI, error) {
	kpi, err := s.kpis.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("kpi", err)
	}
	if !session.CanView(kpi.ProjectID) {
		return nil, ErrForbidden
	}
	return kpi, nil
}
