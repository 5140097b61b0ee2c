package handlers

import (
	"encoding/json"
	"net/http"

	middleware "projectmonitor/middlewares"
	service "projectmonitor/services"
	"projectmonitor/utils"
)

type DocumentHandler struct {
	service        service.DocumentService
	maxUploadBytes int64
}

func NewDocumentHandler(service service.DocumentService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.HandleMessageResponse(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.HandleMessageResponse(w, "Failed to get file from form", http.StatusBadRequest)
		return
	}
	defer file.Close()

	projectID := r.FormValue("projectId")
	if projectID == "" {
		utils.HandleValidationResponse(w, http.StatusBadRequest, map[string]string{"projectId": "required"})
		return
	}

	var metadata map[string]string
	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			utils.HandleMessageResponse(w, "metadata must be a JSON object of strings", http.StatusBadRequest)
			return
		}
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := h.service.Upload(ctx, middleware.GetSessionFromContext(r.Context()), service.UploadInput{
		ProjectID:   projectID,
		TaskID:      r.FormValue("taskId"),
		KPIUpdateID: r.FormValue("kpiUpdateId"),
		Filename:    header.Filename,
		File:        file,
		Metadata:    metadata,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleCreatedResponse(w, "Document uploaded successfully", result.ID.Hex(), result)
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "document")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	doc, err := h.service.Get(ctx, middleware.GetSessionFromContext(r.Context()), id)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Document retrieved successfully", doc, http.StatusOK)
}

func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "project_id", "project")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	docs, err := h.service.ListByProject(ctx, middleware.GetSessionFromContext(r.Context()), projectID)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Documents retrieved successfully", docs, http.StatusOK)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "document")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		handleError(w, err)
		return
	}
	utils.HandleMessageResponse(w, "Document deleted successfully", http.StatusOK)
}
