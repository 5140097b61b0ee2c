package handlers

import (
	"net/http"

	middleware "projectmonitor/middlewares"
	"projectmonitor/models"
	service "projectmonitor/services"
	"projectmonitor/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectHandler struct {
	service service.ProjectService
}

func NewProjectHandler(service service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		service: service,
	}
}

func (h *ProjectHandler) AddProject(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientId", "client")
	if !ok {
		return
	}

	var req models.ProjectRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	project, err := h.service.CreateForClient(ctx, clientID, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleCreatedResponse(w, "Project created successfully", project.ID.Hex(), project)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectId", "project")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	project, err := h.service.Get(ctx, middleware.GetSessionFromContext(r.Context()), id)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Project retrieved successfully", project, http.StatusOK)
}

func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	var clientID *primitive.ObjectID
	if raw := r.URL.Query().Get("clientId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			utils.HandleMessageResponse(w, "Invalid client ID format", http.StatusBadRequest)
			return
		}
		clientID = &id
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	projects, err := h.service.List(ctx, middleware.GetSessionFromContext(r.Context()), clientID)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Projects retrieved successfully", projects, http.StatusOK)
}

func (h *ProjectHandler) EditProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectId", "project")
	if !ok {
		return
	}

	var req models.ProjectRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	project, err := h.service.Update(ctx, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Project updated successfully", project, http.StatusOK)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectId", "project")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		handleError(w, err)
		return
	}
	utils.HandleMessageResponse(w, "Project deleted successfully", http.StatusOK)
}

func (h *ProjectHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectId", "project")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	forecast, err := h.service.Forecast(ctx, middleware.GetSessionFromContext(r.Context()), id)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Forecast computed successfully", forecast, http.StatusOK)
}

func (h *ProjectHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	stats, err := h.service.Stats(ctx, middleware.GetSessionFromContext(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Project statistics retrieved successfully", stats, http.StatusOK)
}
