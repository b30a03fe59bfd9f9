package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veloretail/bulkcart-backend/pkg/db/models"
	"github.com/veloretail/bulkcart-backend/pkg/pagination"
)

// Repository exposes read operations over the product catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads one active product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns up to limit active products after the cursor position,
// ordered oldest first so pages are stable under inserts.
func (r *Repository) List(ctx context.Context, cursor *pagination.Cursor, limit int, corporateOnlyVisible bool) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("is_active").
		Order("created_at ASC, id ASC").
		Limit(limit)

	if !corporateOnlyVisible {
		query = query.Where("NOT corporate_only")
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
