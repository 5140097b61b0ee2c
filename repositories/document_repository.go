package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"projectmonitor/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Document, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// GridFS methods
	UploadFile(ctx context.Context, filename string, fileData io.Reader, uploadedBy string, contentType string) (primitive.ObjectID, error)
	DownloadFile(ctx context.Context, fileID primitive.ObjectID) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, fileID primitive.ObjectID) error
}

type documentRepository struct {
	collection *mongo.Collection
	bucket     *gridfs.Bucket
}

func NewDocumentRepository(db *mongo.Database) (DocumentRepository, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("documents"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GridFS bucket: %w", err)
	}

	return &documentRepository{
		collection: db.Collection("documents"),
		bucket:     bucket,
	}, nil
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	doc.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, doc)
	return translate(err)
}

func (r *documentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	var doc models.Document
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (r *documentRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Document, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []models.Document{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepository) UploadFile(ctx context.Context, filename string, fileData io.Reader, uploadedBy string, contentType string) (primitive.ObjectID, error) {
	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{
		"uploadedBy":  uploadedBy,
		"uploadedAt":  time.Now(),
		"contentType": contentType,
	})

	stream, err := r.bucket.OpenUploadStream(filename, uploadOpts)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to open GridFS upload stream: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		stream.SetWriteDeadline(deadline)
	}
	if _, err := io.Copy(stream, fileData); err != nil {
		stream.Abort()
		return primitive.NilObjectID, fmt.Errorf("failed to upload file to GridFS: %w", err)
	}
	if err := stream.Close(); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to finalize GridFS upload: %w", err)
	}

	fileID, ok := stream.FileID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected GridFS file id type")
	}
	return fileID, nil
}

func (r *documentRepository) DownloadFile(ctx context.Context, fileID primitive.ObjectID) (io.ReadCloser, error) {
	stream, err := r.bucket.OpenDownloadStream(fileID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to download file from GridFS: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		stream.SetReadDeadline(deadline)
	}
	return stream, nil
}

func (r *documentRepository) DeleteFile(ctx context.Context, fileID primitive.ObjectID) error {
	if err := r.bucket.Delete(fileID); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
