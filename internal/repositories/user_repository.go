package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
)

// UserRepository interface for user operations
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	// GetByEmail is an exact, case-sensitive match
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)

	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	ExistsByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (bool, error)

	// Delete fails with ErrReferenced while applications reference the user
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}
