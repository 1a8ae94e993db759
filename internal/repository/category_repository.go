package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cityreport-backend/internal/repository/common"
)

// CategoryRepository справочник категорий обращений.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository создаёт экземпляр репозитория.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetByID возвращает категорию.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return common.GetByID[models.Category](ctx, r.db, "categories", id, apperror.ErrCategoryNotFound)
}

// List возвращает все категории по алфавиту.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, `SELECT id, name FROM categories ORDER BY name`); err != nil {
		return nil, common.DBError("category repository: list", err)
	}
	return categories, nil
}
