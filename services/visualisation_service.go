package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"projectmonitor/derivation"
	"projectmonitor/models"
	repository "projectmonitor/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type VisualisationService interface {
	Create(ctx context.Context, req *models.VisualisationRequest) (*models.Visualisation, error)
	// ListByProject returns the project's charts; KPI charts carry the KPI's
	// current update series as their data.
	ListByProject(ctx context.Context, session *models.Session, projectID primitive.ObjectID) ([]models.Visualisation, error)
	Update(ctx context.Context, id primitive.ObjectID, req *models.VisualisationRequest) (*models.Visualisation, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type visualisationService struct {
	visualisations repository.VisualisationRepository
	projects       repository.ProjectRepository
	kpis           repository.KPIRepository
	kpiUpdates     repository.KPIUpdateRepository
	logger         *zap.Logger
}

func NewVisualisationService(visualisations repository.VisualisationRepository, projects repository.ProjectRepository, kpis repository.KPIRepository, kpiUpdates repository.KPIUpdateRepository, logger *zap.Logger) VisualisationService {
	return &visualisationService{
		visualisations: visualisations,
		projects:       projects,
		kpis:           kpis,
		kpiUpdates:     kpiUpdates,
		logger:         logger.With(zap.String("component", "visualisations")),
	}
}

func (s *visualisationService) Create(ctx context.Context, req *models.VisualisationRequest) (*models.Visualisation, error) {
	projectID, err := ParseID("project_id", req.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, notFound("project", err)
	}

	v := &models.Visualisation{ProjectID: projectID}
	if err := s.apply(ctx, v, req); err != nil {
		return nil, err
	}
	if err := s.visualisations.Create(ctx, v); err != nil {
		return nil, err
	}
	s.logger.Info("visualisation saved", zap.String("visualisation_id", v.ID.Hex()), zap.String("category", v.Category))
	return v, nil
}

func (s *visualisationService) ListByProject(ctx context.Context, session *models.Session, projectID primitive.ObjectID) ([]models.Visualisation, error) {
	if !session.CanView(projectID) {
		return nil, ErrForbidden
	}

	visualisations, err := s.visualisations.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	for i := range visualisations {
		v := &visualisations[i]
		if v.Category != models.CategoryKPI || v.KPIID == nil {
			continue
		}
		updates, err := s.kpiUpdates.ListByKPI(ctx, *v.KPIID)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(derivation.Series(updates))
		if err != nil {
			return nil, fmt.Errorf("failed to encode kpi series: %w", err)
		}
		v.File = data
	}
	return visualisations, nil
}

func (s *visualisationService) Update(ctx context.Context, id primitive.ObjectID, req *models.VisualisationRequest) (*models.Visualisation, error) {
	v, err := s.visualisations.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("visualisation", err)
	}
	if err := s.apply(ctx, v, req); err != nil {
		return nil, err
	}
	if err := s.visualisations.Replace(ctx, v); err != nil {
		return nil, notFound("visualisation", err)
	}
	return v, nil
}

func (s *visualisationService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.visualisations.Delete(ctx, id); err != nil {
		return notFound("visualisation", err)
	}
	return nil
}

// apply copies the request onto v. The data source is exclusive: a KPI chart
// stores no file payload and a file chart references no KPI.
func (s *visualisationService) apply(ctx context.Context, v *models.Visualisation, req *models.VisualisationRequest) error {
	v.Category = req.Category
	v.File = nil
	v.KPIID = nil

	switch req.Category {
	case models.CategoryKPI:
		if req.KPIID == "" {
			return fmt.Errorf("kpi_id is required for KPI charts: %w", ErrValidation)
		}
		if hasPayload(req.File) {
			return fmt.Errorf("KPI charts take their data from the kpi, not a file: %w", ErrValidation)
		}
		kpiID, err := ParseID("kpi_id", req.KPIID)
		if err != nil {
			return err
		}
		kpi, err := s.kpis.GetByID(ctx, kpiID)
		if err != nil {
			return notFound("kpi", err)
		}
		if kpi.ProjectID != v.ProjectID {
			return fmt.Errorf("kpi belongs to another project: %w", ErrValidation)
		}
		v.KPIID = &kpiID
	case models.CategoryFile:
		if req.KPIID != "" {
			return fmt.Errorf("file charts cannot reference a kpi: %w", ErrValidation)
		}
		if !json.Valid(req.File) {
			return fmt.Errorf("file must be valid JSON: %w", ErrValidation)
		}
		v.File = req.File
	default:
		return fmt.Errorf("unknown category %q: %w", req.Category, ErrValidation)
	}

	v.Title = req.Title
	v.Type = req.Type
	v.Component1 = req.Component1
	v.Component2 = req.Component2
	v.Columns = req.Columns
	v.Colors = req.Colors
	v.Width = req.Width
	v.Height = req.Height
	return nil
}

func hasPayload(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
