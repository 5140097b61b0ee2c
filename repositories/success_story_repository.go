package repository

import (
	"context"

	"projectmonitor/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SuccessStoryRepository interface {
	Create(ctx context.Context, story *models.SuccessStory) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SuccessStory, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.SuccessStory, error)
	Replace(ctx context.Context, story *models.SuccessStory) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type successStoryRepository struct {
	collection *mongo.Collection
}

func NewSuccessStoryRepository(db *mongo.Database) SuccessStoryRepository {
	return &successStoryRepository{
		collection: db.Collection("success_stories"),
	}
}

func (r *successStoryRepository) Create(ctx context.Context, story *models.SuccessStory) error {
	story.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, story)
	return translate(err)
}

func (r *successStoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SuccessStory, error) {
	var story models.SuccessStory
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&story); err != nil {
		return nil, translate(err)
	}
	return &story, nil
}

// ListByProject returns stories newest first.
func (r *successStoryRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.SuccessStory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"projectid": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stories := []models.SuccessStory{}
	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *successStoryRepository) Replace(ctx context.Context, story *models.SuccessStory) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": story.ID}, story)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *successStoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
