package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type KPI struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID     primitive.ObjectID `json:"project_id" bson:"project_id"`
	Indicator     string             `json:"indicator" bson:"indicator"`
	WhatItTracks  string             `json:"what_it_tracks" bson:"what_it_tracks"`
	LogframeLevel string             `json:"logframe_level" bson:"logframe_level"`
	Explanation   string             `json:"explanation" bson:"explanation"`
	Baseline      float64            `json:"baseline" bson:"baseline"`
	Target        float64            `json:"target" bson:"target"`
}

type CreateKPIRequest struct {
	ProjectID     string   `json:"project_id" validate:"required"`
	Indicator     string   `json:"indicator" validate:"required"`
	WhatItTracks  string   `json:"what_it_tracks" validate:"required"`
	LogframeLevel string   `json:"logframe_level" validate:"required"`
	Explanation   string   `json:"explanation"`
	Baseline      *float64 `json:"baseline" validate:"required"`
	Target        *float64 `json:"target" validate:"required"`
}

type EditKPIRequest struct {
	Indicator     string   `json:"indicator" validate:"required"`
	WhatItTracks  string   `json:"what_it_tracks" validate:"required"`
	LogframeLevel string   `json:"logframe_level" validate:"required"`
	Explanation   string   `json:"explanation"`
	Baseline      *float64 `json:"baseline" validate:"required"`
	Target        *float64 `json:"target" validate:"required"`
}

// KPIUpdate is one observation of a KPI recorded during a task. Updates are
// never edited in place; a correction is a new update.
type KPIUpdate struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID primitive.ObjectID `json:"project_id" bson:"project_id"`
	TaskID    primitive.ObjectID `json:"task_id" bson:"task_id"`
	KPIID     primitive.ObjectID `json:"kpi_id" bson:"kpi_id"`
	Initial   float64            `json:"initial" bson:"initial"`
	Final     float64            `json:"final" bson:"final"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
	Note      string             `json:"note" bson:"note"`
	UpdatedBy primitive.ObjectID `json:"updated_by" bson:"updated_by"`
}

type KPIUpdateRequest struct {
	TaskID    string     `json:"task_id" validate:"required"`
	Initial   *float64   `json:"initial" validate:"required"`
	Final     *float64   `json:"final" validate:"required"`
	UpdatedAt *time.Time `json:"updated_at" validate:"required"`
	Note      string     `json:"note"`
	UpdatedBy string     `json:"updated_by" validate:"required"`
}

type KPIPreviewRequest struct {
	Final     *float64   `json:"final" validate:"required"`
	UpdatedAt *time.Time `json:"updated_at"`
}
