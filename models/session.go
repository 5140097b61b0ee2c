package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is the authenticated caller, passed explicitly into every handler
// through the request context.
type Session struct {
	ID               string               `json:"id"`
	UserID           primitive.ObjectID   `json:"user_id"`
	Email            string               `json:"email"`
	Role             Role                 `json:"role"`
	AssignedProjects []primitive.ObjectID `json:"assigned_projects,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	ExpiresAt        time.Time            `json:"expires_at"`
}

// CanView reports whether the session may read data of the given project.
// Admins see every project; other roles only their assigned ones.
func (s *Session) CanView(projectID primitive.ObjectID) bool {
	if s == nil {
		return false
	}
	if s.Role == RoleAdmin {
		return true
	}
	for _, id := range s.AssignedProjects {
		if id == projectID {
			return true
		}
	}
	return false
}
