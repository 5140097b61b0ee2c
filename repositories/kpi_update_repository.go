package repository

import (
	"context"

	"projectmonitor/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// KPIUpdateRepository is append-only: updates can be created, read and
// deleted, never modified.
type KPIUpdateRepository interface {
	Create(ctx context.Context, update *models.KPIUpdate) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.KPIUpdate, error)
	ListByKPI(ctx context.Context, kpiID primitive.ObjectID) ([]models.KPIUpdate, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.KPIUpdate, error)
	Latest(ctx context.Context, kpiID primitive.ObjectID) (*models.KPIUpdate, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type kpiUpdateRepository struct {
	collection *mongo.Collection
}

func NewKPIUpdateRepository(db *mongo.Database) KPIUpdateRepository {
	return &kpiUpdateRepository{
		collection: db.Collection("kpi_updates"),
	}
}

func (r *kpiUpdateRepository) Create(ctx context.Context, update *models.KPIUpdate) error {
	update.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, update)
	return translate(err)
}

func (r *kpiUpdateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.KPIUpdate, error) {
	var update models.KPIUpdate
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&update); err != nil {
		return nil, translate(err)
	}
	return &update, nil
}

func (r *kpiUpdateRepository) ListByKPI(ctx context.Context, kpiID primitive.ObjectID) ([]models.KPIUpdate, error) {
	return r.find(ctx, bson.M{"kpi_id": kpiID})
}

func (r *kpiUpdateRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.KPIUpdate, error) {
	return r.find(ctx, bson.M{"project_id": projectID})
}

// Latest sorts server side by updated_at then _id, both descending, matching
// the in-memory tie-break of the derivation package.
func (r *kpiUpdateRepository) Latest(ctx context.Context, kpiID primitive.ObjectID) (*models.KPIUpdate, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "updated_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	var update models.KPIUpdate
	if err := r.collection.FindOne(ctx, bson.M{"kpi_id": kpiID}, opts).Decode(&update); err != nil {
		return nil, translate(err)
	}
	return &update, nil
}

func (r *kpiUpdateRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *kpiUpdateRepository) find(ctx context.Context, filter bson.M) ([]models.KPIUpdate, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	updates := []models.KPIUpdate{}
	if err = cursor.All(ctx, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}
