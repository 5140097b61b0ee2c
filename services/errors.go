package services

import (
	"errors"
	"fmt"

	repository "projectmonitor/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidID          = errors.New("invalid identifier")
	ErrNotFound           = repository.ErrNotFound
	ErrDuplicate          = repository.ErrDuplicateKey
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ParseID converts a hex identifier, failing with ErrInvalidID before any lookup.
func ParseID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s %q", ErrInvalidID, field, hex)
	}
	return id, nil
}

// notFound wraps a repository miss with the kind of record that was missing.
func notFound(kind string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %w", kind, ErrNotFound)
	}
	return err
}
