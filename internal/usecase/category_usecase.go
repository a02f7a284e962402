package usecase

import (
	"context"
	"net/http"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
	itemRepo     repo.ItemRepository
}

// DI
func NewCategoryUsecase(categoryRepo repo.CategoryRepository, itemRepo repo.ItemRepository) *CategoryUsecase {
	return &CategoryUsecase{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
	}
}

type CategoryOutput struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	InStockItemCount int64  `json:"in_stock_item_count"`
}

type CategoryDetailOutput struct {
	Category model.Category `json:"category"`
	Items    []model.Item   `json:"items"`
}

// 在庫ありの商品を持つカテゴリだけを名前順で返す
func (u *CategoryUsecase) ListCategories(ctx context.Context) ([]CategoryOutput, error) {
	rows, err := u.categoryRepo.ListWithStock(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]CategoryOutput, 0, len(rows))
	for _, r := range rows {
		outs = append(outs, CategoryOutput{
			ID:               r.Category.ID,
			Name:             r.Category.Name,
			Description:      r.Category.Description,
			InStockItemCount: r.InStockItemCount,
		})
	}
	return outs, nil
}

// カテゴリ詳細（在庫ありの商品つき、並び替え対応）
func (u *CategoryUsecase) GetCategoryDetail(ctx context.Context, categoryID int64, sort string) (CategoryDetailOutput, error) {
	if categoryID <= 0 {
		return CategoryDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	switch sort {
	case "", "date_new", "date_old", "price_asc", "price_desc":
	default:
		return CategoryDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	category, err := u.categoryRepo.FindByID(ctx, categoryID)
	if err == repo.ErrNotFound {
		return CategoryDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CategoryDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, _, err := u.itemRepo.ListInStock(ctx, repo.ItemListQuery{
		Page:       1,
		Limit:      100,
		CategoryID: &categoryID,
		Sort:       sort,
	})
	if err != nil {
		return CategoryDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CategoryDetailOutput{Category: category, Items: items}, nil
}
