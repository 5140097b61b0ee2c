package middlewares

import (
	"net/http"

	"projectmonitor/models"
	"projectmonitor/utils"
)

// Operation names a guarded REST operation in the access policy.
type Operation string

const (
	OpSession Operation = "session"

	OpUserManage  Operation = "user.manage"
	OpProfileEdit Operation = "user.profile"

	OpProjectCreate Operation = "project.create"
	OpProjectEdit   Operation = "project.edit"
	OpProjectDelete Operation = "project.delete"
	OpProjectRead   Operation = "project.read"

	OpTaskCreate   Operation = "task.create"
	OpTaskEdit     Operation = "task.edit"
	OpTaskDescribe Operation = "task.describe"
	OpTaskDelete   Operation = "task.delete"
	OpTaskRead     Operation = "task.read"

	OpKPICreate       Operation = "kpi.create"
	OpKPIEdit         Operation = "kpi.edit"
	OpKPIDelete       Operation = "kpi.delete"
	OpKPIRecordUpdate Operation = "kpi.update.record"
	OpKPIDeleteUpdate Operation = "kpi.update.delete"
	OpKPIRead         Operation = "kpi.read"

	OpDocumentUpload Operation = "document.upload"
	OpDocumentDelete Operation = "document.delete"
	OpDocumentRead   Operation = "document.read"

	OpStoryWrite Operation = "story.write"
	OpStoryRead  Operation = "story.read"

	OpVisualisationWrite Operation = "visualisation.write"
	OpVisualisationRead  Operation = "visualisation.read"
)

var (
	adminOnly     = []models.Role{models.RoleAdmin}
	adminAndStaff = []models.Role{models.RoleAdmin, models.RoleFieldStaff}
	anyRole       = []models.Role{models.RoleAdmin, models.RoleClient, models.RoleFieldStaff}
)

// Policy lists the roles allowed to perform each operation. Project scoping of
// reads is applied by the services on top of this table.
var Policy = map[Operation][]models.Role{
	OpSession: anyRole,

	OpUserManage:  adminOnly,
	OpProfileEdit: anyRole,

	OpProjectCreate: adminOnly,
	OpProjectEdit:   adminOnly,
	OpProjectDelete: adminOnly,
	OpProjectRead:   anyRole,

	OpTaskCreate:   adminOnly,
	OpTaskEdit:     adminOnly,
	OpTaskDescribe: anyRole,
	OpTaskDelete:   adminOnly,
	OpTaskRead:     anyRole,

	OpKPICreate:       adminOnly,
	OpKPIEdit:         adminOnly,
	OpKPIDelete:       adminOnly,
	OpKPIRecordUpdate: adminAndStaff,
	OpKPIDeleteUpdate: adminOnly,
	OpKPIRead:         anyRole,

	OpDocumentUpload: anyRole,
	OpDocumentDelete: adminOnly,
	OpDocumentRead:   anyRole,

	OpStoryWrite: adminOnly,
	OpStoryRead:  anyRole,

	OpVisualisationWrite: adminOnly,
	OpVisualisationRead:  anyRole,
}

type Decision int

const (
	Allowed Decision = iota
	Unauthorized
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Authorize decides whether session may act given the allowed roles.
func Authorize(session *models.Session, allowed []models.Role) Decision {
	if session == nil {
		return Unauthorized
	}
	for _, role := range allowed {
		if session.Role == role {
			return Allowed
		}
	}
	return Forbidden
}

// AuthorizeOperation looks op up in Policy. Unknown operations are forbidden.
func AuthorizeOperation(session *models.Session, op Operation) Decision {
	return Authorize(session, Policy[op])
}

// Require rejects requests whose session may not perform op. It expects
// Authenticate to run first. A forbidden caller keeps its session.
func Require(op Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch AuthorizeOperation(GetSessionFromContext(r.Context()), op) {
			case Unauthorized:
				utils.HandleMessageResponse(w, "Authentication required", http.StatusUnauthorized)
			case Forbidden:
				utils.HandleMessageResponse(w, "You do not have permission to perform this action", http.StatusForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
