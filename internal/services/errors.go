package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/jobboard-service/internal/validator"
)

var (
	ErrValidationFailed     = validator.ErrValidation
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrDuplicateApplication = errors.New("you have already applied for this job")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrUnauthorized         = errors.New("authentication required")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrProfileRequired      = errors.New("complete your employer profile first")
	ErrEmployerRequired     = errors.New("please select a company")
	ErrPersistence          = errors.New("could not save your changes, please try again")
	ErrStorage              = errors.New("could not store the uploaded file")
)

var (
	ErrJobNotFound         = fmt.Errorf("job %w", ErrNotFound)
	ErrApplicationNotFound = fmt.Errorf("application %w", ErrNotFound)
	ErrProfileNotFound     = fmt.Errorf("employer profile %w", ErrNotFound)
	ErrCVNotFound          = fmt.Errorf("cv %w", ErrNotFound)
)

// PermissionError describes a failed role or ownership check
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d may not %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}

// persistenceError logs a store failure with its full context and returns
// the generic error shown to users.
func persistenceError(ctx context.Context, logger *slog.Logger, operation string, err error) error {
	logger.ErrorContext(ctx, "Persistence failure", "operation", operation, "error", err)
	return fmt.Errorf("%w (%s)", ErrPersistence, operation)
}

func storageError(ctx context.Context, logger *slog.Logger, operation string, err error) error {
	logger.ErrorContext(ctx, "Storage failure", "operation", operation, "error", err)
	return fmt.Errorf("%w (%s)", ErrStorage, operation)
}
