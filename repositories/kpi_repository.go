package repository

import (
	"context"

	"projectmonitor/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type KPIRepository interface {
	Create(ctx context.Context, kpi *models.KPI) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.KPI, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.KPI, error)
	Update(ctx context.Context, kpi *models.KPI) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type kpiRepository struct {
	collection *mongo.Collection
}

func NewKPIRepository(db *mongo.Database) KPIRepository {
	return &kpiRepository{
		collection: db.Collection("kpis"),
	}
}

func (r *kpiRepository) Create(ctx context.Context, kpi *models.KPI) error {
	kpi.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, kpi)
	return translate(err)
}

func (r *kpiRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.KPI, error) {
	var kpi models.KPI
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&kpi); err != nil {
		return nil, translate(err)
	}
	return &kpi, nil
}

func (r *kpiRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.KPI, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	kpis := []models.KPI{}
	if err = cursor.All(ctx, &kpis); err != nil {
		return nil, err
	}
	return kpis, nil
}

func (r *kpiRepository) Update(ctx context.Context, kpi *models.KPI) error {
	update := bson.M{
		"$set": bson.M{
			"indicator":      kpi.Indicator,
			"what_it_tracks": kpi.WhatItTracks,
			"logframe_level": kpi.LogframeLevel,
			"explanation":    kpi.Explanation,
			"baseline":       kpi.Baseline,
			"target":         kpi.Target,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": kpi.ID}, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *kpiRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
