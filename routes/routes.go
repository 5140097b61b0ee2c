package routes

import (
	"net/http"

	"projectmonitor/handlers"
	"projectmonitor/middlewares"
	service "projectmonitor/services"

	"go.uber.org/zap"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	User          *handlers.UserHandler
	Project       *handlers.ProjectHandler
	Task          *handlers.TaskHandler
	KPI           *handlers.KPIHandler
	Document      *handlers.DocumentHandler
	SuccessStory  *handlers.SuccessStoryHandler
	Visualisation *handlers.VisualisationHandler
}

// Setup registers every route under /api. Guarded routes authenticate the
// session and then check the operation's role allow-list.
func Setup(h Handlers, auth service.AuthService, logger *zap.Logger, clientURL string) http.Handler {
	mux := http.NewServeMux()

	authenticate := middlewares.Authenticate(auth, logger)
	guard := func(op middlewares.Operation, fn http.HandlerFunc) http.Handler {
		return authenticate(middlewares.Require(op)(fn))
	}

	// Auth routes
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.Handle("POST /api/auth/logout", guard(middlewares.OpSession, h.Auth.Logout))
	mux.Handle("GET /api/auth/me", guard(middlewares.OpSession, h.Auth.Me))

	// User routes
	mux.Handle("GET /api/user/clients", guard(middlewares.OpUserManage, h.User.GetClients))
	mux.Handle("POST /api/user/add", guard(middlewares.OpUserManage, h.User.AddUser))
	mux.Handle("DELETE /api/user/delete/{id}", guard(middlewares.OpUserManage, h.User.DeleteUser))
	mux.Handle("POST /api/user/reset-password/{id}", guard(middlewares.OpUserManage, h.User.ResetPassword))
	mux.Handle("PUT /api/user/assign/{id}", guard(middlewares.OpUserManage, h.User.AssignProject))
	mux.Handle("PUT /api/user/profile", guard(middlewares.OpProfileEdit, h.User.UpdateProfile))

	// Project routes
	mux.Handle("POST /api/projects/addProject/{clientId}", guard(middlewares.OpProjectCreate, h.Project.AddProject))
	mux.Handle("GET /api/projects/get/{projectId}", guard(middlewares.OpProjectRead, h.Project.GetProject))
	mux.Handle("GET /api/projects/getProjects", guard(middlewares.OpProjectRead, h.Project.GetProjects))
	mux.Handle("PUT /api/projects/edit/{projectId}", guard(middlewares.OpProjectEdit, h.Project.EditProject))
	mux.Handle("DELETE /api/projects/deleteProject/{projectId}", guard(middlewares.OpProjectDelete, h.Project.DeleteProject))
	mux.Handle("GET /api/projects/forecast/{projectId}", guard(middlewares.OpProjectRead, h.Project.GetForecast))
	mux.Handle("GET /api/projects/stats", guard(middlewares.OpProjectRead, h.Project.GetStats))

	// Task routes
	mux.Handle("POST /api/task/create", guard(middlewares.OpTaskCreate, h.Task.CreateTask))
	mux.Handle("GET /api/task/getTasks/{project_id}", guard(middlewares.OpTaskRead, h.Task.GetTasks))
	mux.Handle("PUT /api/task/edit/{id}", guard(middlewares.OpTaskEdit, h.Task.EditTask))
	mux.Handle("PUT /api/task/updateDescription/{id}", guard(middlewares.OpTaskDescribe, h.Task.UpdateDescription))
	mux.Handle("DELETE /api/task/delete/{id}", guard(middlewares.OpTaskDelete, h.Task.DeleteTask))

	// KPI routes
	mux.Handle("POST /api/kpi/create", guard(middlewares.OpKPICreate, h.KPI.CreateKPI))
	mux.Handle("GET /api/kpi/getKpis/{project_id}", guard(middlewares.OpKPIRead, h.KPI.GetKPIs))
	mux.Handle("PUT /api/kpi/edit/{id}", guard(middlewares.OpKPIEdit, h.KPI.EditKPI))
	mux.Handle("DELETE /api/kpi/delete/{id}", guard(middlewares.OpKPIDelete, h.KPI.DeleteKPI))
	// KPI update history routes
	mux.Handle("PUT /api/kpi/update/{kpi_id}", guard(middlewares.OpKPIRecordUpdate, h.KPI.RecordUpdate))
	mux.Handle("GET /api/kpi/getKpiUpdates/{kpi_id}", guard(middlewares.OpKPIRead, h.KPI.GetUpdates))
	mux.Handle("GET /api/kpi/getKpiUpdatesForProject/{project_id}", guard(middlewares.OpKPIRead, h.KPI.GetUpdatesForProject))
	mux.Handle("GET /api/kpi/getLatestKpiUpdate/{kpi_id}", guard(middlewares.OpKPIRead, h.KPI.GetLatestUpdate))
	mux.Handle("GET /api/kpi/getKpiUpdatesAsData/{kpi_id}", guard(middlewares.OpKPIRead, h.KPI.GetUpdatesAsData))
	mux.Handle("DELETE /api/kpi/deleteUpdate/{id}", guard(middlewares.OpKPIDeleteUpdate, h.KPI.DeleteUpdate))
	mux.Handle("POST /api/kpi/preview/{kpi_id}", guard(middlewares.OpKPIRead, h.KPI.Preview))

	// Document routes
	mux.Handle("POST /api/document/upload", guard(middlewares.OpDocumentUpload, h.Document.Upload))
	mux.Handle("GET /api/document/get/{id}", guard(middlewares.OpDocumentRead, h.Document.GetDocument))
	mux.Handle("GET /api/document/getDocuments/{project_id}", guard(middlewares.OpDocumentRead, h.Document.GetDocuments))
	mux.Handle("DELETE /api/document/delete/{id}", guard(middlewares.OpDocumentDelete, h.Document.DeleteDocument))

	// Success story routes
	mux.Handle("POST /api/success-story/save-success-story", guard(middlewares.OpStoryWrite, h.SuccessStory.Save))
	mux.Handle("GET /api/success-story/get-success-stories/{projectid}", guard(middlewares.OpStoryRead, h.SuccessStory.GetByProject))
	mux.Handle("PUT /api/success-story/update-success-story/{id}", guard(middlewares.OpStoryWrite, h.SuccessStory.Update))
	mux.Handle("DELETE /api/success-story/delete-success-story/{id}", guard(middlewares.OpStoryWrite, h.SuccessStory.Delete))

	// Visualisation routes
	mux.Handle("POST /api/visualisation/save-visualisation", guard(middlewares.OpVisualisationWrite, h.Visualisation.Save))
	mux.Handle("GET /api/visualisation/get-visualisations/{project_id}", guard(middlewares.OpVisualisationRead, h.Visualisation.GetByProject))
	mux.Handle("PUT /api/visualisation/update-visualisation/{id}", guard(middlewares.OpVisualisationWrite, h.Visualisation.Update))
	mux.Handle("DELETE /api/visualisation/delete-visualisation/{id}", guard(middlewares.OpVisualisationWrite, h.Visualisation.Delete))

	var handler http.Handler = mux
	handler = middlewares.CORS(clientURL)(handler)
	handler = middlewares.RequestLogger(logger)(handler)
	return handler
}
