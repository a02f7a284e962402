package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

// 在庫ありの商品を持つカテゴリだけを、商品数つきで名前順に返す
func (r *CategoryGormRepository) ListWithStock(ctx context.Context) ([]repo.CategoryWithStock, error) {
	type row struct {
		model.Category
		InStockItemCount int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Table("categories").
		Select("categories.*, count(items.id) as in_stock_item_count").
		Joins("join items on items.category_id = categories.id and items.quantity_available > 0").
		Group("categories.id").
		Having("count(items.id) > 0").
		Order("categories.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]repo.CategoryWithStock, 0, len(rows))
	for _, rw := range rows {
		out = append(out, repo.CategoryWithStock{
			Category:         rw.Category,
			InStockItemCount: rw.InStockItemCount,
		})
	}
	return out, nil
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}
