package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/jobboard-service/internal/repositories"
	"github.com/SAP-F-2025/jobboard-service/pkg"
)

// getDB returns the transaction DB if provided, otherwise the default DB
func getDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// handleDBError wraps err with the operation name, translating store
// conditions the services care about into repository sentinels.
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", operation, repositories.ErrNotFound)
	case pkg.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", operation, repositories.ErrDuplicate)
	case pkg.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", operation, repositories.ErrReferenced)
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

// applyPagination applies limit/offset; a zero limit returns every row
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

// requireRowsAffected turns an update that matched nothing into ErrNotFound
func requireRowsAffected(result *gorm.DB, operation string) error {
	if result.Error != nil {
		return handleDBError(result.Error, operation)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", operation, repositories.ErrNotFound)
	}
	return nil
}
