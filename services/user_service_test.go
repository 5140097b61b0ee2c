package services

import (
	"context"
	"errors"
	"testing"

	"projectmonitor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newUserServiceForTest(mailer Mailer) (UserService, *memUsers, *memProjects, *memSessions) {
	users, projects, sessions := newMemUsers(), newMemProjects(), newMemSessions()
	return NewUserService(users, projects, sessions, mailer, zap.NewNop()), users, projects, sessions
}

func TestUserService_AddUser(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hashed generated password and mails it", func(t *testing.T) {
		mailer := new(MockMailer)
		svc, users, _, _ := newUserServiceForTest(mailer)

		var sent string
		mailer.On("SendCredentials", mock.Anything, "asha@example.org", "asha", mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { sent = args.String(3) }).
			Return(nil).Once()

		user, emailSent, err := svc.AddUser(ctx, &models.CreateUserRequest{
			Username:    "asha",
			Email:       "  Asha@Example.org ",
			Role:        models.RoleFieldStaff,
			PhoneNumber: "9876543210",
		})
		require.NoError(t, err)
		assert.True(t, emailSent)
		assert.Equal(t, "asha@example.org", user.Email)

		stored, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, sent, generatedPasswordLength)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(sent)))
		mailer.AssertExpectations(t)
	})

	t.Run("duplicate email differing only in case is rejected", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("SendCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		svc, users, _, _ := newUserServiceForTest(mailer)

		_, _, err := svc.AddUser(ctx, &models.CreateUserRequest{
			Username: "ravi", Email: "ravi@example.org", Role: models.RoleClient, PhoneNumber: "1111111111",
		})
		require.NoError(t, err)

		_, _, err = svc.AddUser(ctx, &models.CreateUserRequest{
			Username: "ravi2", Email: "RAVI@example.org", Role: models.RoleClient, PhoneNumber: "2222222222",
		})
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.ErrorContains(t, err, "email")
		assert.Len(t, users.items, 1)
	})

	t.Run("failed delivery keeps the account", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("SendCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("smtp down"))
		svc, users, _, _ := newUserServiceForTest(mailer)

		user, emailSent, err := svc.AddUser(ctx, &models.CreateUserRequest{
			Username: "meera", Email: "meera@example.org", Role: models.RoleClient, PhoneNumber: "3333333333",
		})
		require.NoError(t, err)
		assert.False(t, emailSent)
		assert.Contains(t, users.items, user.ID)
	})
}

func TestUserService_DeleteUserRevokesSessions(t *testing.T) {
	ctx := context.Background()
	svc, users, _, sessions := newUserServiceForTest(new(MockMailer))

	user := &models.User{Username: "gone", Email: "gone@example.org", PhoneNumber: "4444444444", Role: models.RoleClient}
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, sessions.Create(ctx, &models.Session{ID: "s1", UserID: user.ID}, 0))

	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	assert.Empty(t, sessions.items)

	assert.ErrorIs(t, svc.DeleteUser(ctx, user.ID), ErrNotFound)
}

func TestUserService_AssignProject(t *testing.T) {
	ctx := context.Background()
	svc, users, projects, _ := newUserServiceForTest(new(MockMailer))

	staff := &models.User{Username: "staff", Email: "staff@example.org", PhoneNumber: "5555555555", Role: models.RoleFieldStaff}
	admin := &models.User{Username: "root", Email: "root@example.org", PhoneNumber: "6666666666", Role: models.RoleAdmin}
	require.NoError(t, users.Create(ctx, staff))
	require.NoError(t, users.Create(ctx, admin))
	project := &models.Project{Name: "Water"}
	require.NoError(t, projects.Create(ctx, project))

	require.NoError(t, svc.AssignProject(ctx, staff.ID, project.ID))
	require.NoError(t, svc.AssignProject(ctx, staff.ID, project.ID))
	stored, _ := users.GetByID(ctx, staff.ID)
	assert.Len(t, stored.AssignedProjects, 1)

	assert.ErrorIs(t, svc.AssignProject(ctx, admin.ID, project.ID), ErrValidation)
	assert.ErrorIs(t, svc.AssignProject(ctx, staff.ID, adminSession().UserID), ErrNotFound)
}

func TestUserService_UpdateProfileConflict(t *testing.T) {
	ctx := context.Background()
	svc, users, _, _ := newUserServiceForTest(new(MockMailer))

	a := &models.User{Username: "alpha", Email: "a@example.org", PhoneNumber: "1000000000", Role: models.RoleClient}
	b := &models.User{Username: "beta", Email: "b@example.org", PhoneNumber: "2000000000", Role: models.RoleClient}
	require.NoError(t, users.Create(ctx, a))
	require.NoError(t, users.Create(ctx, b))

	session := &models.Session{UserID: b.ID, Role: models.RoleClient}
	_, err := svc.UpdateProfile(ctx, session, &models.UpdateProfileRequest{Username: "alpha"})
	assert.ErrorIs(t, err, ErrDuplicate)

	updated, err := svc.UpdateProfile(ctx, session, &models.UpdateProfileRequest{Email: "B.New@Example.org"})
	require.NoError(t, err)
	assert.Equal(t, "b.new@example.org", updated.Email)
	assert.Equal(t, "beta", updated.Username)
}
