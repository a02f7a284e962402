package repository

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// 買い手のカート（status=cart）を取得し、無ければ作成。
// (buyer_id) WHERE status='cart' の部分ユニークインデックスがあるので
// 同時に作っても2つにはならない。負けた側は作成に失敗して再検索する。
func (r *OrderGormRepository) GetOrCreateCartByBuyerID(ctx context.Context, buyerID int64) (model.Order, error) {
	var order model.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("buyer_id = ? AND status = ?", buyerID, model.OrderStatusCart).
			First(&order).Error

		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		//無ければ作る
		now := time.Now()
		newOrder := model.Order{
			BuyerID:        buyerID,
			Status:         model.OrderStatusCart,
			TotalAmount:    decimal.Zero,
			DiscountAmount: decimal.Zero,
			OrderDate:      now,
			UpdatedAt:      now,
		}

		if err := tx.Create(&newOrder).Error; err != nil {
			//同時作成で負けたらもう一度探す
			retryErr := tx.
				Where("buyer_id = ? AND status = ?", buyerID, model.OrderStatusCart).
				First(&order).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		order = newOrder
		return nil
	})

	if err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// カート行をFOR UPDATEでロックして返す。
// チェックアウトとカート編集が同じ行で直列化されるので、
// 二重チェックアウトや確定後の明細追加が起きない。
// 先行トランザクションがshippedにした後は条件を満たさずErrNotFoundになる。
func (r *OrderGormRepository) FindCartByBuyerID(ctx context.Context, buyerID int64) (model.Order, error) {
	var order model.Order

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("buyer_id = ? AND status = ?", buyerID, model.OrderStatusCart).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var order model.Order

	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// 確定済みの注文を新しい順に
func (r *OrderGormRepository) ListShippedByBuyerID(ctx context.Context, buyerID int64) ([]model.Order, error) {
	var orders []model.Order

	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND status = ?", buyerID, model.OrderStatusShipped).
		Order("order_date desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// 遷移はcart→shippedの一方向だけ。shippedは終端なので、
// すでにcartでない行は更新せずErrNotFoundを返す
func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusCart).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) UpdateTotals(ctx context.Context, orderID int64, total decimal.Decimal, discountAmount decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"total_amount":    total,
			"discount_amount": discountAmount,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) SetDiscount(ctx context.Context, orderID int64, discountID *int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("discount_id", discountID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
