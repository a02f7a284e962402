package usecase

import (
	"context"
	"net/http"
	"strings"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/shopspring/decimal"
)

type ItemUsecase struct {
	itemRepo     repo.ItemRepository
	categoryRepo repo.CategoryRepository
}

// DI
func NewItemUsecase(itemRepo repo.ItemRepository, categoryRepo repo.CategoryRepository) *ItemUsecase {
	return &ItemUsecase{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
	}
}

// GET /itemsの入力DTO
type ListItemsInput struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	Sort       string
}

type ItemListOutput struct {
	Items []model.Item `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type CreateItemInput struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	ImageURL          *string         `json:"image_url"`
	CategoryID        int64           `json:"category_id"`
	QuantityAvailable int64           `json:"quantity_available"`
}

type UpdateItemInput struct {
	Title             *string          `json:"title"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	ImageURL          *string          `json:"image_url"`
	CategoryID        *int64           `json:"category_id"`
	QuantityAvailable *int64           `json:"quantity_available"`
}

// 在庫ありの商品一覧（検索・カテゴリ絞り込み・並び替え）
func (u *ItemUsecase) ListPublicItems(ctx context.Context, in ListItemsInput) (ItemListOutput, error) {
	if in.Page < 1 {
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	switch in.Sort {
	case "", "date_new", "date_old", "price_asc", "price_desc":
	default:
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.itemRepo.ListInStock(ctx, repo.ItemListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Q:          in.Q,
		CategoryID: in.CategoryID,
		Sort:       in.Sort,
	})
	if err != nil {
		return ItemListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ItemListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *ItemUsecase) GetItem(ctx context.Context, itemID int64) (model.Item, error) {
	if itemID <= 0 {
		return model.Item{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.itemRepo.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return model.Item{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return item, nil
}

// 出品（seller = ログインユーザー）
func (u *ItemUsecase) CreateItem(ctx context.Context, sellerID int64, in CreateItemInput) (model.Item, error) {
	if sellerID <= 0 {
		return model.Item{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Title) == "" || len(in.Title) > 255 {
		return model.Item{}, NewHTTPError(http.StatusBadRequest, "invalid title")
	}
	if in.Price.IsNegative() {
		return model.Item{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.QuantityAvailable < 0 {
		return model.Item{}, NewHTTPError(http.StatusBadRequest, "invalid quantity_available")
	}

	//カテゴリの存在確認
	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if err == repo.ErrNotFound {
			return model.Item{}, NewHTTPError(http.StatusBadRequest, "invalid category_id")
		}
		return model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item := model.Item{
		Title:             in.Title,
		Description:       in.Description,
		Price:             in.Price.Round(2),
		ImageURL:          in.ImageURL,
		SellerID:          sellerID,
		CategoryID:        in.CategoryID,
		QuantityAvailable: in.QuantityAvailable,
	}

	created, err := u.itemRepo.Create(ctx, item)
	if err != nil {
		return model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// 自分の出品だけ更新できる
func (u *ItemUsecase) UpdateItem(ctx context.Context, sellerID int64, itemID int64, in UpdateItemInput) (model.Item, error) {
	if sellerID <= 0 {
		return model.Item{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return model.Item{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.itemRepo.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return model.Item{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他人の出品は「存在しない扱い」にする
	if item.SellerID != sellerID {
		return model.Item{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" || len(*in.Title) > 255 {
			return model.Item{}, NewHTTPError(http.StatusBadRequest, "invalid title")
		}
		item.Title = *in.Title
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return model.Item{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
		}
		item.Price = in.Price.Round(2)
	}
	if in.ImageURL != nil {
		item.ImageURL = in.ImageURL
	}
	if in.CategoryID != nil {
		if _, err := u.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if err == repo.ErrNotFound {
				return model.Item{}, NewHTTPError(http.StatusBadRequest, "invalid category_id")
			}
			return model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		item.CategoryID = *in.CategoryID
	}
	if in.QuantityAvailable != nil {
		if *in.QuantityAvailable < 0 {
			return model.Item{}, NewHTTPError(http.StatusBadRequest, "invalid quantity_available")
		}
		item.QuantityAvailable = *in.QuantityAvailable
	}

	if err := u.itemRepo.Update(ctx, item); err != nil {
		if err == repo.ErrNotFound {
			return model.Item{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return item, nil
}

// 自分の出品だけ削除できる。カートに入っている明細も一緒に消える
func (u *ItemUsecase) DeleteItem(ctx context.Context, sellerID int64, itemID int64) error {
	if sellerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.itemRepo.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if item.SellerID != sellerID {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.itemRepo.Delete(ctx, itemID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
