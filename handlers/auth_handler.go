package handlers

import (
	"net/http"
	"time"

	middleware "projectmonitor/middlewares"
	"projectmonitor/models"
	service "projectmonitor/services"
	"projectmonitor/utils"
)

type AuthHandler struct {
	service      service.AuthService
	cookieSecure bool
}

func NewAuthHandler(service service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		service:      service,
		cookieSecure: cookieSecure,
	}
}

type loginResponse struct {
	Token   string          `json:"token"`
	Session *models.Session `json:"session"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	token, session, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		handleError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	utils.HandleDataResponse(w, "Login successful", loginResponse{Token: token, Session: session}, http.StatusOK)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.service.Logout(ctx, middleware.GetSessionFromContext(r.Context())); err != nil {
		handleError(w, err)
		return
	}

	middleware.ClearSessionCookie(w, h.cookieSecure)
	utils.HandleMessageResponse(w, "Logged out successfully", http.StatusOK)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := h.service.CurrentUser(ctx, middleware.GetSessionFromContext(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}
	utils.HandleDataResponse(w, "User retrieved successfully", user, http.StatusOK)
}
