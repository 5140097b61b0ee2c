package repository

import (
	"context"

	"projectmonitor/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type VisualisationRepository interface {
	Create(ctx context.Context, v *models.Visualisation) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Visualisation, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Visualisation, error)
	Replace(ctx context.Context, v *models.Visualisation) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type visualisationRepository struct {
	collection *mongo.Collection
}

func NewVisualisationRepository(db *mongo.Database) VisualisationRepository {
	return &visualisationRepository{
		collection: db.Collection("visualisations"),
	}
}

func (r *visualisationRepository) Create(ctx context.Context, v *models.Visualisation) error {
	v.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, v)
	return translate(err)
}

func (r *visualisationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Visualisation, error) {
	var v models.Visualisation
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *visualisationRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Visualisation, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []models.Visualisation{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *visualisationRepository) Replace(ctx context.Context, v *models.Visualisation) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *visualisationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
