package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SuccessStory struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID primitive.ObjectID `json:"projectid" bson:"projectid"`
	Name      string             `json:"name" bson:"name"`
	Location  string             `json:"location" bson:"location"`
	Text      string             `json:"text" bson:"text"`
	Images    []Image            `json:"images" bson:"images"`
	Date      time.Time          `json:"date" bson:"date"`
}

type Image struct {
	Name string `json:"name" bson:"name" validate:"required"`
	Type string `json:"type" bson:"type" validate:"required"`
	Data string `json:"data" bson:"data" validate:"required"`
}

type SuccessStoryRequest struct {
	ProjectID string     `json:"projectid" validate:"required"`
	Name      string     `json:"name" validate:"required"`
	Location  string     `json:"location"`
	Text      string     `json:"text"`
	Images    []Image    `json:"images" validate:"dive"`
	Date      *time.Time `json:"date"`
}
