package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"projectmonitor/models"
	repository "projectmonitor/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SessionClaims is the signed cookie payload. The token carries no role: it only
// names a session, and the session store is the source of truth.
type SessionClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.Session, error)
	Logout(ctx context.Context, session *models.Session) error
	// Resolve turns a session token into the live session, refreshing the role
	// and project assignments from the user record.
	Resolve(ctx context.Context, token string) (*models.Session, error)
	CurrentUser(ctx context.Context, session *models.Session) (*models.User, error)
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, secret string, ttl time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With(zap.String("component", "auth")),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", user.ID.Hex()))
		return "", nil, ErrInvalidCredentials
	}

	now := s.now()
	session := &models.Session{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		Email:            user.Email,
		Role:             user.Role,
		AssignedProjects: user.AssignedProjects,
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session, s.ttl); err != nil {
		return "", nil, err
	}

	token, err := s.sign(session)
	if err != nil {
		s.sessions.Delete(context.Background(), session.ID)
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.Hex()), zap.String("role", string(user.Role)))
	return token, session, nil
}

func (s *authService) Logout(ctx context.Context, session *models.Session) error {
	if session == nil {
		return ErrUnauthenticated
	}
	// an expired session is already logged out
	if err := s.sessions.Delete(ctx, session.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	s.logger.Info("user logged out", zap.String("user_id", session.UserID.Hex()))
	return nil
}

func (s *authService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil || userID != session.UserID {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// the account was removed while the session was alive
			s.sessions.Delete(ctx, session.ID)
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	session.Email = user.Email
	session.Role = user.Role
	session.AssignedProjects = user.AssignedProjects
	return session, nil
}

func (s *authService) CurrentUser(ctx context.Context, session *models.Session) (*models.User, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

func (s *authService) sign(session *models.Session) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   session.UserID.Hex(),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}
