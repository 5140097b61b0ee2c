package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleClient     Role = "client"
	RoleFieldStaff Role = "field staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleFieldStaff:
		return true
	}
	return false
}

type User struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username         string               `json:"username" bson:"username"`
	PasswordHash     string               `json:"-" bson:"passwordHash"`
	Email            string               `json:"email" bson:"email"`
	Role             Role                 `json:"role" bson:"role"`
	PhoneNumber      string               `json:"phone_number" bson:"phone_number"`
	AssignedProjects []primitive.ObjectID `json:"assigned_projects" bson:"assigned_projects"`
}

func (u *User) HasProject(projectID primitive.ObjectID) bool {
	for _, id := range u.AssignedProjects {
		if id == projectID {
			return true
		}
	}
	return false
}

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Role        Role   `json:"role" validate:"required,role"`
	PhoneNumber string `json:"phone_number" validate:"required,len=10,numeric"`
}

type UpdateProfileRequest struct {
	Username    string `json:"username" validate:"omitempty,min=3,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,len=10,numeric"`
}

type AssignProjectRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
