package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"projectmonitor/derivation"
	"projectmonitor/models"
	repository "projectmonitor/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ProjectService interface {
	// CreateForClient creates a project and assigns it to the given client user.
	CreateForClient(ctx context.Context, clientID primitive.ObjectID, req *models.ProjectRequest) (*models.Project, error)
	Get(ctx context.Context, session *models.Session, id primitive.ObjectID) (*models.Project, error)
	// List returns the projects visible to the session. Admins may narrow the
	// result to one client's assignments.
	List(ctx context.Context, session *models.Session, clientID *primitive.ObjectID) ([]models.Project, error)
	Update(ctx context.Context, id primitive.ObjectID, req *models.ProjectRequest) (*models.Project, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Forecast(ctx context.Context, session *models.Session, id primitive.ObjectID) (*derivation.Forecast, error)
	Stats(ctx context.Context, session *models.Session) (*models.ProjectStats, error)
}

type projectService struct {
	projects   repository.ProjectRepository
	users      repository.UserRepository
	kpis       repository.KPIRepository
	kpiUpdates repository.KPIUpdateRepository
	now        func() time.Time
	logger     *zap.Logger
}

func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository, kpis repository.KPIRepository, kpiUpdates repository.KPIUpdateRepository, logger *zap.Logger) ProjectService {
	return &projectService{
		projects:   projects,
		users:      users,
		kpis:       kpis,
		kpiUpdates: kpiUpdates,
		now:        time.Now,
		logger:     logger.With(zap.String("component", "projects")),
	}
}

func (s *projectService) CreateForClient(ctx context.Context, clientID primitive.ObjectID, req *models.ProjectRequest) (*models.Project, error) {
	client, err := s.users.GetByID(ctx, clientID)
	if err != nil {
		return nil, notFound("client", err)
	}
	if client.Role != models.RoleClient {
		return nil, fmt.Errorf("user %s is not a client: %w", clientID.Hex(), ErrValidation)
	}

	project := &models.Project{}
	if err := applyProjectRequest(project, req); err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, project); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("project name already exists: %w", ErrDuplicate)
		}
		return nil, err
	}

	if err := s.users.AddAssignedProject(ctx, clientID, project.ID); err != nil {
		// CLEANUP: an unassigned project would be invisible to its client
		if cleanupErr := s.projects.Delete(context.Background(), project.ID); cleanupErr != nil {
			s.logger.Error("failed to remove unassigned project", zap.String("project_id", project.ID.Hex()), zap.Error(cleanupErr))
		}
		return nil, fmt.Errorf("failed to assign project to client: %w", err)
	}

	s.logger.Info("project created", zap.String("project_id", project.ID.Hex()), zap.String("client_id", clientID.Hex()))
	return project, nil
}

func (s *projectService) Get(ctx context.Context, session *models.Session, id primitive.ObjectID) (*models.Project, error) {
	if !session.CanView(id) {
		return nil, ErrForbidden
	}
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("project", err)
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, session *models.Session, clientID *primitive.ObjectID) ([]models.Project, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}

	if clientID != nil && *clientID != session.UserID {
		if session.Role != models.RoleAdmin {
			return nil, ErrForbidden
		}
		client, err := s.users.GetByID(ctx, *clientID)
		if err != nil {
			return nil, notFound("client", err)
		}
		return s.projects.GetByIDs(ctx, client.AssignedProjects)
	}

	if session.Role == models.RoleAdmin && clientID == nil {
		return s.projects.GetAll(ctx)
	}
	return s.projects.GetByIDs(ctx, session.AssignedProjects)
}

func (s *projectService) Update(ctx context.Context, id primitive.ObjectID, req *models.ProjectRequest) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("project", err)
	}
	if err := applyProjectRequest(project, req); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, project); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("project name already exists: %w", ErrDuplicate)
		}
		return nil, notFound("project", err)
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return notFound("project", err)
	}
	s.logger.Info("project deleted", zap.String("project_id", id.Hex()))
	return nil
}

func (s *projectService) Forecast(ctx context.Context, session *models.Session, id primitive.ObjectID) (*derivation.Forecast, error) {
	project, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}

	forecast, err := derivation.ProjectForecast(*project, s.now())
	if err != nil {
		return nil, err
	}

	kpis, err := s.kpis.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	updates, err := s.kpiUpdates.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if mean, ok := derivation.MeanCompletion(derivation.SummarizeAll(kpis, updates)); ok {
		forecast.KPIProgress = &mean
	}
	return &forecast, nil
}

func (s *projectService) Stats(ctx context.Context, session *models.Session) (*models.ProjectStats, error) {
	projects, err := s.List(ctx, session, nil)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &models.ProjectStats{Total: len(projects)}
	for _, p := range projects {
		if p.ProjectProgress >= 100 {
			stats.Completed++
			continue
		}
		stats.Ongoing++
		forecast, err := derivation.ProjectForecast(p, now)
		if err != nil {
			s.logger.Warn("skipping forecast of project with bad dates", zap.String("project_id", p.ID.Hex()), zap.Error(err))
			continue
		}
		if forecast.IsOverdue {
			stats.Overdue++
		}
	}
	return stats, nil
}

func applyProjectRequest(project *models.Project, req *models.ProjectRequest) error {
	start, err := time.Parse(models.DateLayout, req.StartDate)
	if err != nil {
		return fmt.Errorf("start_date: %w", ErrValidation)
	}
	end, err := time.Parse(models.DateLayout, req.EndDate)
	if err != nil {
		return fmt.Errorf("end_date: %w", ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("end_date must not be before start_date: %w", ErrValidation)
	}

	project.Name = strings.TrimSpace(req.Name)
	project.StartDate = req.StartDate
	project.EndDate = req.EndDate
	project.Description = req.Description
	project.States = req.States
	if req.ProjectProgress != nil {
		project.ProjectProgress = *req.ProjectProgress
	}
	return nil
}
