package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderLineOutput struct {
	ItemID   int64           `json:"item_id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

type OrderOutput struct {
	ID             int64             `json:"id"`
	BuyerID        int64             `json:"buyer_id"`
	Status         string            `json:"status"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	OrderDate      time.Time         `json:"order_date"`
	Items          []OrderLineOutput `json:"items"`
}

// Checkout はカートをshippedへ遷移させる。
// 在庫の条件付き減算→割引使用回数の加算→ステータス更新、を
// ひとつのトランザクションで行う。どれかの商品で在庫が足りなければ
// 全部ロールバック（部分出荷はしない）。shippedは終端で、以降カート
// 操作の対象にはならない（カート側は常にstatus=cartで引くため）。
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート行のロックを取る。同じカートへの同時チェックアウトは
		//ここで直列化され、負けた側は（先行がshippedにした後）NotFoundになる
		order, err := r.Orders().FindCartByBuyerID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lines, err := r.OrderItems().ListByOrderID(ctx, order.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(lines) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//在庫は確定時に再チェックしながら減らす
		for _, l := range lines {
			ok, err := r.Items().DecreaseStockIfEnough(ctx, l.ItemID, l.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				//明細に載っている在庫数は古い可能性があるので今の値を引き直す
				available := l.Item.QuantityAvailable
				if current, err := r.Items().FindByID(ctx, l.ItemID); err == nil {
					available = current.QuantityAvailable
				}
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("not enough stock for %s (available %d)",
						l.Item.Title, available))
			}
		}

		//割引の使用回数はここで初めて加算する（カート編集では加算しない）。
		//確定時点で無効になっていたら数えない
		if order.DiscountID != nil {
			d, err := r.Discounts().FindByID(ctx, *order.DiscountID)
			if err != nil && err != repo.ErrNotFound {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err == nil && d.IsValid(time.Now()) {
				if err := r.Discounts().IncrementUsedCount(ctx, d.ID); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		//すでにcartでなければ更新されない（ロックがあるので通常は起きない）
		if err := r.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusShipped); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.Status = model.OrderStatusShipped
		out = toOrderOutput(order, lines)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 確定済み注文の一覧（新しい順）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListShippedByBuyerID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			lines, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, lines))
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//他人の注文とカートは「存在しない扱い」にする
		if o.BuyerID != userID || o.Status != model.OrderStatusShipped {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		lines, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, lines)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, lines []model.OrderItem) OrderOutput {
	outLines := make([]OrderLineOutput, 0, len(lines))
	subtotal := decimal.Zero
	for _, l := range lines {
		outLines = append(outLines, OrderLineOutput{
			ItemID:   l.ItemID,
			Title:    l.Item.Title,
			Price:    l.Item.Price,
			Quantity: l.Quantity,
		})
		subtotal = subtotal.Add(l.Item.Price.Mul(decimal.NewFromInt(l.Quantity)))
	}

	return OrderOutput{
		ID:             o.ID,
		BuyerID:        o.BuyerID,
		Status:         string(o.Status),
		Subtotal:       subtotal.Round(2),
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
		OrderDate:      o.OrderDate,
		Items:          outLines,
	}
}
