package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the ISO calendar date format used for project timelines.
const DateLayout = "2006-01-02"

type Project struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	StartDate       string             `json:"start_date" bson:"start_date"`
	EndDate         string             `json:"end_date" bson:"end_date"`
	ProjectProgress float64            `json:"project_progress" bson:"project_progress"`
	Description     string             `json:"description" bson:"description"`
	States          []string           `json:"states" bson:"states"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

type ProjectRequest struct {
	Name            string   `json:"name" validate:"required"`
	StartDate       string   `json:"start_date" validate:"required,isodate"`
	EndDate         string   `json:"end_date" validate:"required,isodate"`
	ProjectProgress *float64 `json:"project_progress" validate:"omitempty,min=0,max=100"`
	Description     string   `json:"description" validate:"required"`
	States          []string `json:"states" validate:"required,min=1,dive,region"`
}

type ProjectStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Ongoing   int `json:"ongoing"`
	Overdue   int `json:"overdue"`
}

// Regions lists the accepted values for Project.States.
var Regions = []string{
	"Andhra Pradesh",
	"Arunachal Pradesh",
	"Assam",
	"Bihar",
	"Chhattisgarh",
	"Goa",
	"Gujarat",
	"Haryana",
	"Himachal Pradesh",
	"Jharkhand",
	"Karnataka",
	"Kerala",
	"Madhya Pradesh",
	"Maharashtra",
	"Manipur",
	"Meghalaya",
	"Mizoram",
	"Nagaland",
	"Odisha",
	"Punjab",
	"Rajasthan",
	"Sikkim",
	"Tamil Nadu",
	"Telangana",
	"Tripura",
	"Uttar Pradesh",
	"Uttarakhand",
	"West Bengal",
	"Andaman and Nicobar Islands",
	"Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu",
	"Lakshadweep",
	"Delhi",
	"Puducherry",
	"Ladakh",
	"Jammu and Kashmir",
}

func IsRegion(name string) bool {
	for _, r := range Regions {
		if r == name {
			return true
		}
	}
	return false
}
