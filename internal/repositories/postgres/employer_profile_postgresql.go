package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/jobboard-service/internal/models"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
)

type EmployerProfilePostgreSQL struct {
	db *gorm.DB
}

func NewEmployerProfilePostgreSQL(db *gorm.DB) repositories.EmployerProfileRepository {
	return &EmployerProfilePostgreSQL{db: db}
}

func (e *EmployerProfilePostgreSQL) Create(ctx context.Context, tx *gorm.DB, profile *models.EmployerProfile) error {
	db := getDB(e.db, tx)
	if err := db.WithContext(ctx).Create(profile).Error; err != nil {
		return handleDBError(err, "create employer profile")
	}
	return nil
}

func (e *EmployerProfilePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.EmployerProfile, error) {
	db := getDB(e.db, tx)
	var profile models.EmployerProfile

	if err := db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, handleDBError(err, "get employer profile by id")
	}

	return &profile, nil
}

func (e *EmployerProfilePostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.EmployerProfile, error) {
	db := getDB(e.db, tx)
	var profile models.EmployerProfile

	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, handleDBError(err, "get employer profile by user")
	}

	return &profile, nil
}

// Update saves every column, including nil description/contact info
func (e *EmployerProfilePostgreSQL) Update(ctx context.Context, tx *gorm.DB, profile *models.EmployerProfile) error {
	db := getDB(e.db, tx)
	if err := db.WithContext(ctx).Omit("User", "Jobs").Save(profile).Error; err != nil {
		return handleDBError(err, "update employer profile")
	}
	return nil
}

func (e *EmployerProfilePostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.EmployerProfile, error) {
	db := getDB(e.db, tx)
	var profiles []*models.EmployerProfile

	if err := db.WithContext(ctx).Order("company_name ASC").Find(&profiles).Error; err != nil {
		return nil, handleDBError(err, "list employer profiles")
	}

	return profiles, nil
}
