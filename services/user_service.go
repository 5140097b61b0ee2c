package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"projectmonitor/models"
	repository "projectmonitor/repositories"
	"projectmonitor/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const generatedPasswordLength = 12

type UserService interface {
	ListClients(ctx context.Context) ([]models.User, error)
	// AddUser creates an account with a generated password and mails it. A
	// failed delivery does not undo the account; emailSent reports it.
	AddUser(ctx context.Context, req *models.CreateUserRequest) (user *models.User, emailSent bool, err error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	UpdateProfile(ctx context.Context, session *models.Session, req *models.UpdateProfileRequest) (*models.User, error)
	ResetPassword(ctx context.Context, id primitive.ObjectID) (emailSent bool, err error)
	AssignProject(ctx context.Context, userID, projectID primitive.ObjectID) error
}

type userService struct {
	users    repository.UserRepository
	projects repository.ProjectRepository
	sessions repository.SessionRepository
	mailer   Mailer
	logger   *zap.Logger
}

func NewUserService(users repository.UserRepository, projects repository.ProjectRepository, sessions repository.SessionRepository, mailer Mailer, logger *zap.Logger) UserService {
	return &userService{
		users:    users,
		projects: projects,
		sessions: sessions,
		mailer:   mailer,
		logger:   logger.With(zap.String("component", "users")),
	}
}

func (s *userService) ListClients(ctx context.Context) ([]models.User, error) {
	return s.users.ListByRole(ctx, models.RoleClient)
}

func (s *userService) AddUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, bool, error) {
	user := &models.User{
		Username:    strings.TrimSpace(req.Username),
		Email:       normalizeEmail(req.Email),
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
	}
	if err := s.checkConflict(ctx, user, primitive.NilObjectID); err != nil {
		return nil, false, err
	}

	password, hash, err := generatePassword()
	if err != nil {
		return nil, false, err
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, false, fmt.Errorf("user already exists: %w", ErrDuplicate)
		}
		return nil, false, err
	}
	s.logger.Info("user created", zap.String("user_id", user.ID.Hex()), zap.String("role", string(user.Role)))

	return user, s.deliver(ctx, user, password), nil
}

func (s *userService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return notFound("user", err)
	}
	if err := s.sessions.DeleteByUser(ctx, id); err != nil {
		s.logger.Warn("failed to revoke sessions of deleted user", zap.String("user_id", id.Hex()), zap.Error(err))
	}
	s.logger.Info("user deleted", zap.String("user_id", id.Hex()))
	return nil
}

func (s *userService) UpdateProfile(ctx context.Context, session *models.Session, req *models.UpdateProfileRequest) (*models.User, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, notFound("user", err)
	}

	if req.Username != "" {
		user.Username = strings.TrimSpace(req.Username)
	}
	if req.Email != "" {
		user.Email = normalizeEmail(req.Email)
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}

	if err := s.checkConflict(ctx, user, user.ID); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("profile conflicts with another user: %w", ErrDuplicate)
		}
		return nil, notFound("user", err)
	}
	return user, nil
}

func (s *userService) ResetPassword(ctx context.Context, id primitive.ObjectID) (bool, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return false, notFound("user", err)
	}

	password, hash, err := generatePassword()
	if err != nil {
		return false, err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return false, notFound("user", err)
	}
	if err := s.sessions.DeleteByUser(ctx, id); err != nil {
		s.logger.Warn("failed to revoke sessions after password reset", zap.String("user_id", id.Hex()), zap.Error(err))
	}

	return s.deliver(ctx, user, password), nil
}

func (s *userService) AssignProject(ctx context.Context, userID, projectID primitive.ObjectID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFound("user", err)
	}
	if user.Role == models.RoleAdmin {
		return fmt.Errorf("admins see every project and cannot be assigned one: %w", ErrValidation)
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return notFound("project", err)
	}
	if err := s.users.AddAssignedProject(ctx, userID, projectID); err != nil {
		return notFound("user", err)
	}
	s.logger.Info("project assigned", zap.String("user_id", userID.Hex()), zap.String("project_id", projectID.Hex()))
	return nil
}

func (s *userService) checkConflict(ctx context.Context, user *models.User, exclude primitive.ObjectID) error {
	existing, err := s.users.FindConflict(ctx, user.Username, user.Email, user.PhoneNumber, exclude)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	field := "phone_number"
	switch {
	case existing.Email == user.Email:
		field = "email"
	case existing.Username == user.Username:
		field = "username"
	}
	return fmt.Errorf("%s already in use: %w", field, ErrDuplicate)
}

func (s *userService) deliver(ctx context.Context, user *models.User, password string) bool {
	if err := s.mailer.SendCredentials(ctx, user.Email, user.Username, password); err != nil {
		s.logger.Warn("credentials email not delivered", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		return false
	}
	return true
}

func generatePassword() (plain, hash string, err error) {
	plain, err = utils.RandomPassword(generatedPasswordLength)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate password: %w", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}
	return plain, string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
