package service

import (
	"errors"
	"fmt"

	"studytour/internal/microservices/http-api/repository"
)

// Error kinds returned by every service. Callers match with errors.Is; the
// wrapped message says what went wrong.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	// ErrQueryFailed marks a storage failure; the request may be retried.
	ErrQueryFailed = errors.New("query failed")
)

const (
	MaxPageSize     = 100
	DefaultPageSize = 12
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storageError maps a repository error onto the service error kinds.
// what names the entity for not-found and conflict messages.
func storageError(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	default:
		return fmt.Errorf("%w: %s: %w", ErrQueryFailed, what, err)
	}
}

// checkPage validates 1-based pagination.
func checkPage(page, pageSize int) error {
	if page < 1 {
		return validationError("page must be >= 1, got %d", page)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return validationError("page_size must be between 1 and %d, got %d", MaxPageSize, pageSize)
	}
	return nil
}

func requireUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: login required", ErrUnauthorized)
	}
	return nil
}
