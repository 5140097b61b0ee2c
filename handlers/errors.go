package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	service "projectmonitor/services"
	"projectmonitor/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const requestTimeout = 10 * time.Second

// handleError maps service errors onto HTTP statuses. Unclassified errors are
// store failures and surface as 500 with the underlying message.
func handleError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrDuplicate),
		errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	utils.HandleMessageResponse(w, err.Error(), status)
}

// pathID parses a path parameter as an ObjectID, answering 400 when malformed.
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(r.PathValue(name))
	if err != nil {
		utils.HandleMessageResponse(w, "Invalid "+label+" ID format", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}
