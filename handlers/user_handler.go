package handlers

import (
	"net/http"

	middleware "projectmonitor/middlewares"
	"projectmonitor/models"
	service "projectmonitor/services"
	"projectmonitor/utils"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

type addUserResponse struct {
	User      *models.User `json:"user"`
	EmailSent bool         `json:"emailSent"`
}

func (h *UserHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	clients, err := h.service.ListClients(ctx)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Clients retrieved successfully", clients, http.StatusOK)
}

func (h *UserHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, emailSent, err := h.service.AddUser(ctx, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	message := "User created successfully"
	if !emailSent {
		message = "User created, but the credentials email could not be sent"
	}
	utils.HandleCreatedResponse(w, message, user.ID.Hex(), addUserResponse{User: user, EmailSent: emailSent})
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.service.DeleteUser(ctx, id); err != nil {
		handleError(w, err)
		return
	}
	utils.HandleMessageResponse(w, "User deleted successfully", http.StatusOK)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := h.service.UpdateProfile(ctx, middleware.GetSessionFromContext(r.Context()), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Profile updated successfully", user, http.StatusOK)
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	emailSent, err := h.service.ResetPassword(ctx, id)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "Password reset successfully", map[string]bool{"emailSent": emailSent}, http.StatusOK)
}

func (h *UserHandler) AssignProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	var req models.AssignProjectRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}
	projectID, err := service.ParseID("project_id", req.ProjectID)
	if err != nil {
		handleError(w, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.service.AssignProject(ctx, userID, projectID); err != nil {
		handleError(w, err)
		return
	}
	utils.HandleMessageResponse(w, "Project assigned successfully", http.StatusOK)
}
