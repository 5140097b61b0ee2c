package handlers

import (
	"net/http"

	middleware "projectmonitor/middlewares"
	"projectmonitor/models"
	service "projectmonitor/services"
	"projectmonitor/utils"
)

type KPIHandler struct {
	service service.KPIService
}

func NewKPIHandler(service service.KPIService) *KPIHandler {
	return &KPIHandler{
		service: service,
	}
}

func (h *KPIHandler) CreateKPI(w http.ResponseWriter, r *http.Request) {
	var req models.CreateKPIRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	kpi, err := h.service.CreateKPI(ctx, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleCreatedResponse(w, "KPI created successfully", kpi.ID.Hex(), kpi)
}

func (h *KPIHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "project_id", "project")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	kpis, err := h.service.GetKPIsByProject(ctx, middleware.GetSessionFromContext(r.Context()), projectID)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "KPIs retrieved successfully", kpis, http.StatusOK)
}

func (h *KPIHandler) EditKPI(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "KPI")
	if !ok {
		return
	}

	var req models.EditKPIRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	kpi, err := h.service.EditKPI(ctx, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "KPI updated successfully", kpi, http.StatusOK)
}

func (h *KPIHandler) DeleteKPI(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "KPI")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.service.DeleteKPI(ctx, id); err != nil {
		handleError(w, err)
		return
	}
	utils.HandleMessageResponse(w, "KPI deleted successfully", http.StatusOK)
}

func (h *KPIHandler) RecordUpdate(w http.ResponseWriter, r *http.Request) {
	kpiID, ok := pathID(w, r, "kpi_id", "KPI")
	if !ok {
		return
	}

	var req models.KPIUpdateRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	update, err := h.service.RecordUpdate(ctx, middleware.GetSessionFromContext(r.Context()), kpiID, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleCreatedResponse(w, "KPI update recorded successfully", update.ID.Hex(), update)
}

func (h *KPIHandler) GetUpdates(w http.ResponseWriter, r *http.Request) {
	kpiID, ok := pathID(w, r, "kpi_id", "KPI")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	updates, err := h.service.GetUpdates(ctx, middleware.GetSessionFromContext(r.Context()), kpiID)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "KPI updates retrieved successfully", updates, http.StatusOK)
}

func (h *KPIHandler) GetUpdatesForProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "project_id", "project")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	updates, err := h.service.GetUpdatesForProject(ctx, middleware.GetSessionFromContext(r.Context()), projectID)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "KPI updates retrieved successfully", updates, http.StatusOK)
}

func (h *KPIHandler) GetLatestUpdate(w http.ResponseWriter, r *http.Request) {
	kpiID, ok := pathID(w, r, "kpi_id", "KPI")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	update, err := h.service.GetLatestUpdate(ctx, middleware.GetSessionFromContext(r.Context()), kpiID)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Latest KPI update retrieved successfully", update, http.StatusOK)
}

func (h *KPIHandler) GetUpdatesAsData(w http.ResponseWriter, r *http.Request) {
	kpiID, ok := pathID(w, r, "kpi_id", "KPI")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	series, err := h.service.GetSeries(ctx, middleware.GetSessionFromContext(r.Context()), kpiID)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "KPI series retrieved successfully", series, http.StatusOK)
}

func (h *KPIHandler) DeleteUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "KPI update")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.service.DeleteUpdate(ctx, id); err != nil {
		handleError(w, err)
		return
	}
	utils.HandleMessageResponse(w, "KPI update deleted successfully", http.StatusOK)
}

func (h *KPIHandler) Preview(w http.ResponseWriter, r *http.Request) {
	kpiID, ok := pathID(w, r, "kpi_id", "KPI")
	if !ok {
		return
	}

	var req models.KPIPreviewRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	status, err := h.service.Preview(ctx, middleware.GetSessionFromContext(r.Context()), kpiID, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "KPI preview computed successfully", status, http.StatusOK)
}
