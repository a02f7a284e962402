package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

// 在庫ありの商品数つきカテゴリ
type CategoryWithStock struct {
	Category         model.Category
	InStockItemCount int64
}

type CategoryRepository interface {
	// 在庫ありの商品を1つ以上持つカテゴリを名前順で返す
	ListWithStock(ctx context.Context) ([]CategoryWithStock, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
}
