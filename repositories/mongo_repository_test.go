package repository

import (
	"context"
	"testing"
	"time"

	"projectmonitor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestKPIUpdateRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns an id", func(mt *mtest.T) {
		repo := NewKPIUpdateRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		update := &models.KPIUpdate{KPIID: primitive.NewObjectID(), Final: 3}
		require.NoError(mt, repo.Create(context.Background(), update))
		assert.False(mt, update.ID.IsZero())
	})

	mt.Run("latest decodes the first sorted document", func(mt *mtest.T) {
		repo := NewKPIUpdateRepository(mt.DB)
		kpiID := primitive.NewObjectID()
		when := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.kpi_updates", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "kpi_id", Value: kpiID},
			{Key: "final", Value: 42.0},
			{Key: "updated_at", Value: when},
		}))

		latest, err := repo.Latest(context.Background(), kpiID)
		require.NoError(mt, err)
		assert.Equal(mt, 42.0, latest.Final)
		assert.True(mt, latest.UpdatedAt.Equal(when))
	})

	mt.Run("latest without history is not found", func(mt *mtest.T) {
		repo := NewKPIUpdateRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.kpi_updates", mtest.FirstBatch))

		_, err := repo.Latest(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete of a missing update", func(mt *mtest.T) {
		repo := NewKPIUpdateRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, repo.Delete(context.Background(), primitive.NewObjectID()), ErrNotFound)
	})
}

func TestUserRepository_DuplicateKey(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unique index violation", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: email_1",
		}))

		err := repo.Create(context.Background(), &models.User{Email: "dup@example.org"})
		assert.ErrorIs(mt, err, ErrDuplicateKey)
	})
}

func TestTaskRepository_ListByProject(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes every batch document", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB)
		projectID := primitive.NewObjectID()

		first := mtest.CreateCursorResponse(1, "db.tasks", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "project_id", Value: projectID},
			{Key: "title", Value: "Survey"},
		})
		second := mtest.CreateCursorResponse(0, "db.tasks", mtest.NextBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "project_id", Value: projectID},
			{Key: "title", Value: "Install pumps"},
		})
		mt.AddMockResponses(first, second)

		tasks, err := repo.ListByProject(context.Background(), projectID)
		require.NoError(mt, err)
		require.Len(mt, tasks, 2)
		assert.Equal(mt, "Install pumps", tasks[1].Title)
	})
}
