package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Document struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	ProjectID   primitive.ObjectID  `json:"projectId" bson:"projectId"`
	TaskID      *primitive.ObjectID `json:"taskId,omitempty" bson:"taskId,omitempty"`
	KPIUpdateID *primitive.ObjectID `json:"kpiUpdateId,omitempty" bson:"kpiUpdateId,omitempty"`
	FileID      primitive.ObjectID  `json:"fileId" bson:"fileId"` // GridFS file ID
	Filename    string              `json:"filename" bson:"filename"`
	MimeType    string              `json:"mimeType" bson:"mimeType"`
	Size        int64               `json:"size" bson:"size"`
	Metadata    map[string]string   `json:"metadata" bson:"metadata"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	CreatedBy   primitive.ObjectID  `json:"createdBy" bson:"createdBy"`
}

// DocumentContent is a document record together with its base64 encoded bytes.
type DocumentContent struct {
	Document
	BinaryData string `json:"binaryData"`
}

type UploadResult struct {
	ID                primitive.ObjectID `json:"id"`
	Metadata          map[string]string  `json:"metadata"`
	MetadataExtracted bool               `json:"metadataExtracted"`
}
