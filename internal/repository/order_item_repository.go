package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type OrderItemRepository interface {
	// Itemを読み込んだ状態で返す
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	// 指定注文に属する明細だけを対象にする（他人の注文の明細は見えない）
	FindByIDInOrder(ctx context.Context, orderItemID int64, orderID int64) (model.OrderItem, error)
	// 同一商品は数量加算
	AddQuantity(ctx context.Context, orderID int64, itemID int64, addQty int64) error
	UpdateQuantity(ctx context.Context, orderItemID int64, qty int64) error
	DeleteByIDInOrder(ctx context.Context, orderItemID int64, orderID int64) error
}
