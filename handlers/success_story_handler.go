package handlers

import (
	"net/http"

	middleware "projectmonitor/middlewares"
	"projectmonitor/models"
	service "projectmonitor/services"
	"projectmonitor/utils"
)

type SuccessStoryHandler struct {
	service service.SuccessStoryService
}

func NewSuccessStoryHandler(service service.SuccessStoryService) *SuccessStoryHandler {
	return &SuccessStoryHandler{
		service: service,
	}
}

func (h *SuccessStoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.SuccessStoryRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	story, err := h.service.Create(ctx, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleCreatedResponse(w, "Success story saved successfully", story.ID.Hex(), story)
}

func (h *SuccessStoryHandler) GetByProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "projectid", "project")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	stories, err := h.service.ListByProject(ctx, middleware.GetSessionFromContext(r.Context()), projectID)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Success stories retrieved successfully", stories, http.StatusOK)
}

func (h *SuccessStoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "success story")
	if !ok {
		return
	}

	var req models.SuccessStoryRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	story, err := h.service.Update(ctx, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Success story updated successfully", story, http.StatusOK)
}

func (h *SuccessStoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "success story")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		handleError(w, err)
		return
	}
	utils.HandleMessageResponse(w, "Success story deleted successfully", http.StatusOK)
}
