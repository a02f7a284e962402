package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

// 公開一覧の検索条件
type ItemListQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	Sort       string // date_new / date_old / price_asc / price_desc
}

// 商品の永続化だけを約束。
type ItemRepository interface {
	// 在庫ありの商品のみ
	ListInStock(ctx context.Context, q ItemListQuery) ([]model.Item, int64, error)
	ListBySellerID(ctx context.Context, sellerID int64) ([]model.Item, error)
	FindByID(ctx context.Context, id int64) (model.Item, error)

	Create(ctx context.Context, item model.Item) (model.Item, error)
	Update(ctx context.Context, item model.Item) error
	// 明細もカスケードで消える
	Delete(ctx context.Context, id int64) error

	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, itemID int64, qty int64) (bool, error)
}
