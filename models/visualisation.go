package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryKPI  = "KPI"
	CategoryFile = "file"
)

type Visualisation struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	ProjectID  primitive.ObjectID  `json:"project_id" bson:"project_id"`
	File       json.RawMessage     `json:"file,omitempty" bson:"file,omitempty"`
	Category   string              `json:"category" bson:"category"`
	KPIID      *primitive.ObjectID `json:"kpi_id,omitempty" bson:"kpi_id,omitempty"`
	Title      string              `json:"title" bson:"title"`
	Type       string              `json:"type" bson:"type"`
	Component1 string              `json:"component_1" bson:"component_1"`
	Component2 string              `json:"component_2" bson:"component_2"`
	Columns    []string            `json:"columns" bson:"columns"`
	Colors     ChartColors         `json:"colors" bson:"colors"`
	Width      float64             `json:"width" bson:"width"`
	Height     float64             `json:"height" bson:"height"`
}

type ChartColors struct {
	BackgroundColor []string `json:"backgroundColor" bson:"backgroundColor"`
	BorderColor     []string `json:"borderColor" bson:"borderColor"`
}

type VisualisationRequest struct {
	ProjectID  string          `json:"project_id"`
	File       json.RawMessage `json:"file" validate:"required_if=Category file"`
	Category   string          `json:"category" validate:"required,oneof=KPI file"`
	KPIID      string          `json:"kpi_id" validate:"required_if=Category KPI"`
	Title      string          `json:"title" validate:"required"`
	Type       string          `json:"type" validate:"required,oneof=bar line pie scatter"`
	Component1 string          `json:"component_1" validate:"required"`
	Component2 string          `json:"component_2" validate:"required"`
	Columns    []string        `json:"columns" validate:"required,min=1"`
	Colors     ChartColors     `json:"colors"`
	Width      float64         `json:"width" validate:"min=0"`
	Height     float64         `json:"height" validate:"min=0"`
}
