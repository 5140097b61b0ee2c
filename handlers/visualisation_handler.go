package handlers

import (
	"net/http"

	middleware "projectmonitor/middlewares"
	"projectmonitor/models"
	service "projectmonitor/services"
	"projectmonitor/utils"
)

type VisualisationHandler struct {
	service service.VisualisationService
}

func NewVisualisationHandler(service service.VisualisationService) *VisualisationHandler {
	return &VisualisationHandler{
		service: service,
	}
}

func (h *VisualisationHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.VisualisationRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	v, err := h.service.Create(ctx, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleCreatedResponse(w, "Visualisation saved successfully", v.ID.Hex(), v)
}

func (h *VisualisationHandler) GetByProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "project_id", "project")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	visualisations, err := h.service.ListByProject(ctx, middleware.GetSessionFromContext(r.Context()), projectID)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Visualisations retrieved successfully", visualisations, http.StatusOK)
}

func (h *VisualisationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "visualisation")
	if !ok {
		return
	}

	var req models.VisualisationRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	v, err := h.service.Update(ctx, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Visualisation updated successfully", v, http.StatusOK)
}

func (h *VisualisationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "visualisation")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		handleError(w, err)
		return
	}
	utils.HandleMessageResponse(w, "Visualisation deleted successfully", http.StatusOK)
}
