package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type ItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewItemGormRepository(db *gorm.DB) *ItemGormRepository {
	return &ItemGormRepository{db: db}
}

// 在庫ありの商品を検索つきで一覧
func (r *ItemGormRepository) ListInStock(ctx context.Context, q repo.ItemListQuery) ([]model.Item, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("quantity_available > 0")

	if q.Q != "" {
		like := "%" + q.Q + "%"
		db = db.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if q.CategoryID != nil {
		db = db.Where("category_id = ?", *q.CategoryID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch q.Sort {
	case "price_asc":
		db = db.Order("price asc")
	case "price_desc":
		db = db.Order("price desc")
	case "date_old":
		db = db.Order("date_listed asc")
	default:
		//新着順
		db = db.Order("date_listed desc")
	}

	offset := (q.Page - 1) * q.Limit

	var items []model.Item
	if err := db.Offset(offset).Limit(q.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *ItemGormRepository) ListBySellerID(ctx context.Context, sellerID int64) ([]model.Item, error) {
	var items []model.Item

	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("date_listed desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemGormRepository) FindByID(ctx context.Context, id int64) (model.Item, error) {
	var item model.Item

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return item, nil
}

func (r *ItemGormRepository) Create(ctx context.Context, item model.Item) (model.Item, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return model.Item{}, err
	}
	return item, nil
}

func (r *ItemGormRepository) Update(ctx context.Context, item model.Item) error {
	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"title":              item.Title,
			"description":        item.Description,
			"price":              item.Price,
			"image_url":          item.ImageURL,
			"category_id":        item.CategoryID,
			"quantity_available": item.QuantityAvailable,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細側はFKのカスケードで消える
func (r *ItemGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Item{}, id)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫が足りるときだけ減らす
func (r *ItemGormRepository) DecreaseStockIfEnough(ctx context.Context, itemID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ? AND quantity_available >= ?", itemID, qty).
		Update("quantity_available", gorm.Expr("quantity_available - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}
