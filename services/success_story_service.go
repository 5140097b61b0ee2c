package services

import (
	"context"
	"time"

	"projectmonitor/models"
	repository "projectmonitor/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type SuccessStoryService interface {
	Create(ctx context.Context, req *models.SuccessStoryRequest) (*models.SuccessStory, error)
	ListByProject(ctx context.Context, session *models.Session, projectID primitive.ObjectID) ([]models.SuccessStory, error)
	Update(ctx context.Context, id primitive.ObjectID, req *models.SuccessStoryRequest) (*models.SuccessStory, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type successStoryService struct {
	stories  repository.SuccessStoryRepository
	projects repository.ProjectRepository
	now      func() time.Time
	logger   *zap.Logger
}

func NewSuccessStoryService(stories repository.SuccessStoryRepository, projects repository.ProjectRepository, logger *zap.Logger) SuccessStoryService {
	return &successStoryService{
		stories:  stories,
		projects: projects,
		now:      time.Now,
		logger:   logger.With(zap.String("component", "success_stories")),
	}
}

func (s *successStoryService) Create(ctx context.Context, req *models.SuccessStoryRequest) (*models.SuccessStory, error) {
	story := &models.SuccessStory{}
	if err := s.apply(ctx, story, req); err != nil {
		return nil, err
	}
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}
	s.logger.Info("success story saved", zap.String("story_id", story.ID.Hex()), zap.String("project_id", story.ProjectID.Hex()))
	return story, nil
}

func (s *successStoryService) ListByProject(ctx context.Context, session *models.Session, projectID primitive.ObjectID) ([]models.SuccessStory, error) {
	if !session.CanView(projectID) {
		return nil, ErrForbidden
	}
	return s.stories.ListByProject(ctx, projectID)
}

func (s *successStoryService) Update(ctx context.Context, id primitive.ObjectID, req *models.SuccessStoryRequest) (*models.SuccessStory, error) {
	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("success story", err)
	}
	if err := s.apply(ctx, story, req); err != nil {
		return nil, err
	}
	if err := s.stories.Replace(ctx, story); err != nil {
		return nil, notFound("success story", err)
	}
	return story, nil
}

func (s *successStoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.stories.Delete(ctx, id); err != nil {
		return notFound("success story", err)
	}
	return nil
}

func (s *successStoryService) apply(ctx context.Context, story *models.SuccessStory, req *models.SuccessStoryRequest) error {
	projectID, err := ParseID("projectid", req.ProjectID)
	if err != nil {
		return err
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return notFound("project", err)
	}

	story.ProjectID = projectID
	story.Name = req.Name
	story.Location = req.Location
	story.Text = req.Text
	story.Images = req.Images
	if story.Images == nil {
		story.Images = []models.Image{}
	}
	switch {
	case req.Date != nil:
		story.Date = req.Date.UTC()
	case story.Date.IsZero():
		story.Date = s.now().UTC()
	}
	return nil
}
