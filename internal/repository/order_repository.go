package repository

import (
	"context"

	"marketplace/internal/domain/model"

	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	// status=cartの注文を取得し、無ければ作成
	GetOrCreateCartByBuyerID(ctx context.Context, buyerID int64) (model.Order, error)
	// カート行をロックして取得（同一買い手のカート操作を直列化する）
	FindCartByBuyerID(ctx context.Context, buyerID int64) (model.Order, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// 確定済み注文を新しい順で
	ListShippedByBuyerID(ctx context.Context, buyerID int64) ([]model.Order, error)

	// cart→shippedのみ。すでにcartでなければErrNotFound
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	// 合計の書き込みはここだけ。値は必ずPriceOrderの結果を渡す
	UpdateTotals(ctx context.Context, orderID int64, total decimal.Decimal, discountAmount decimal.Decimal) error
	SetDiscount(ctx context.Context, orderID int64, discountID *int64) error
}
