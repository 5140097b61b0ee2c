package services

import (
	"context"

	"projectmonitor/models"
	repository "projectmonitor/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type TaskService interface {
	Create(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error)
	ListByProject(ctx context.Context, session *models.Session, projectID primitive.ObjectID) ([]models.Task, error)
	Edit(ctx context.Context, id primitive.ObjectID, req *models.EditTaskRequest) (*models.Task, error)
	UpdateDescription(ctx context.Context, session *models.Session, id primitive.ObjectID, description string) (*models.Task, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type taskService struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	logger   *zap.Logger
}

func NewTaskService(tasks repository.TaskRepository, projects repository.ProjectRepository, logger *zap.Logger) TaskService {
	return &taskService{
		tasks:    tasks,
		projects: projects,
		logger:   logger.With(zap.String("component", "tasks")),
	}
}

func (s *taskService) Create(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error) {
	projectID, err := ParseID("project_id", req.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, notFound("project", err)
	}

	task := &models.Task{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Info("task created", zap.String("task_id", task.ID.Hex()), zap.String("project_id", projectID.Hex()))
	return task, nil
}

func (s *taskService) ListByProject(ctx context.Context, session *models.Session, projectID primitive.ObjectID) ([]models.Task, error) {
	if !session.CanView(projectID) {
		return nil, ErrForbidden
	}
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Edit(ctx context.Context, id primitive.ObjectID, req *models.EditTaskRequest) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("task", err)
	}
	task.Title = req.Title
	task.Description = req.Description

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, notFound("task", err)
	}
	return task, nil
}

func (s *taskService) UpdateDescription(ctx context.Context, session *models.Session, id primitive.ObjectID, description string) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("task", err)
	}
	if !session.CanView(task.ProjectID) {
		return nil, ErrForbidden
	}

	if err := s.tasks.UpdateDescription(ctx, id, description); err != nil {
		return nil, notFound("task", err)
	}
	task.Description = description
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return notFound("task", err)
	}
	s.logger.Info("task deleted", zap.String("task_id", id.Hex()))
	return nil
}
