package handlers

import (
	"net/http"

	middleware "projectmonitor/middlewares"
	"projectmonitor/models"
	service "projectmonitor/services"
	"projectmonitor/utils"
)

type TaskHandler struct {
	service service.TaskService
}

func NewTaskHandler(service service.TaskService) *TaskHandler {
	return &TaskHandler{
		service: service,
	}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	task, err := h.service.Create(ctx, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleCreatedResponse(w, "Task created successfully", task.ID.Hex(), task)
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "project_id", "project")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	tasks, err := h.service.ListByProject(ctx, middleware.GetSessionFromContext(r.Context()), projectID)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Tasks retrieved successfully", tasks, http.StatusOK)
}

func (h *TaskHandler) EditTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "task")
	if !ok {
		return
	}

	var req models.EditTaskRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	task, err := h.service.Edit(ctx, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Task updated successfully", task, http.StatusOK)
}

func (h *TaskHandler) UpdateDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "task")
	if !ok {
		return
	}

	var req models.TaskDescriptionRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	task, err := h.service.UpdateDescription(ctx, middleware.GetSessionFromContext(r.Context()), id, req.Description)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Task description updated successfully", task, http.StatusOK)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "task")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		handleError(w, err)
		return
	}
	utils.HandleMessageResponse(w, "Task deleted successfully", http.StatusOK)
}
