package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// collectionIndexes lists the indexes each collection needs. Unique indexes
// enforce identity constraints at write time; the rest back project-scoped
// lookups.
var collectionIndexes = map[string][]mongo.IndexModel{
	// UNIQUENESS: username, email, phone_number
	// Used by: user creation and profile edits
	"users": {
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("uniq_username").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone_number", Value: 1}},
			Options: options.Index().SetName("uniq_phone_number").SetUnique(true),
		},
	},

	// UNIQUENESS: project name
	"projects": {
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("uniq_name").SetUnique(true),
		},
	},

	"tasks": {
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_project_id"),
		},
	},

	"kpis": {
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_project_id"),
		},
	},

	// HISTORY: latest update per KPI
	// Used by: getLatestKpiUpdate sort, update history listing
	"kpi_updates": {
		{
			Keys: bson.D{
				{Key: "kpi_id", Value: 1},
				{Key: "updated_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().SetName("idx_kpi_id_updated_at"),
		},
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_project_id"),
		},
	},

	"documents": {
		{
			Keys:    bson.D{{Key: "projectId", Value: 1}},
			Options: options.Index().SetName("idx_project_id"),
		},
	},

	"success_stories": {
		{
			Keys: bson.D{
				{Key: "projectid", Value: 1},
				{Key: "date", Value: -1},
			},
			Options: options.Index().SetName("idx_projectid_date"),
		},
	},

	"visualisations": {
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_project_id"),
		},
	},
}

// CreateIndexes creates every index. A failed unique index is fatal because
// uniqueness would otherwise go unenforced.
func CreateIndexes(db *mongo.Database, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for name, indexes := range collectionIndexes {
		created, err := db.Collection(name).Indexes().CreateMany(ctx, indexes)
		if err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
		logger.Debug("indexes ensured", zap.String("collection", name), zap.Strings("indexes", created))
	}

	logger.Info("database indexes created successfully")
	return nil
}
