package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// カートの変更は全部トランザクション内で行い、変更後に必ず合計を再計算する。
type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

type CartLineResponse struct {
	ID        int64           `json:"id"`
	ItemID    int64           `json:"item_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	OrderID        int64              `json:"order_id"`
	Items          []CartLineResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountCode   *string            `json:"discount_code"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Total          decimal.Decimal    `json:"total"`
}

type AddCartInput struct {
	ItemID   int64
	Quantity int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカート取得（無ければcartを作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().GetOrCreateCartByBuyerID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = u.recalcTotals(ctx, r, order)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
// 在庫チェック→明細upsert→合計再計算、をひとつのトランザクションで行う。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid item_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().GetOrCreateCartByBuyerID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		item, err := r.Items().FindByID(ctx, in.ItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "invalid item")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//既にカートに入っている数量も合わせて在庫と比べる
		lines, err := r.OrderItems().ListByOrderID(ctx, order.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		var existingQty int64 = 0
		for _, l := range lines {
			if l.ItemID == in.ItemID {
				existingQty = l.Quantity
				break
			}
		}

		if existingQty+in.Quantity > item.QuantityAvailable {
			return stockInsufficientError(item)
		}

		if err := r.OrderItems().AddQuantity(ctx, order.ID, in.ItemID, in.Quantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = u.recalcTotals(ctx, r, order)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 数量変更（所有チェック＋在庫チェック）。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, orderItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindCartByBuyerID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//他人の注文の明細は存在しない扱い
		line, err := r.OrderItems().FindByIDInOrder(ctx, orderItemID, order.ID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if in.Quantity > line.Item.QuantityAvailable {
			return stockInsufficientError(line.Item)
		}

		if err := r.OrderItems().UpdateQuantity(ctx, line.ID, in.Quantity); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = u.recalcTotals(ctx, r, order)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 明細削除
func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, orderItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindCartByBuyerID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().DeleteByIDInOrder(ctx, orderItemID, order.ID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = u.recalcTotals(ctx, r, order)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 割引コード適用。
// 見つからない／期限切れ・使い切りはメッセージを分ける。
func (u *CartUsecase) ApplyDiscount(ctx context.Context, userID int64, code string) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid discount code")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().GetOrCreateCartByBuyerID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		d, err := r.Discounts().FindActiveByCode(ctx, code)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "invalid discount code")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !d.IsValid(time.Now()) {
			return NewHTTPError(http.StatusBadRequest, "discount code expired or exhausted")
		}

		if err := r.Orders().SetDiscount(ctx, order.ID, &d.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order.DiscountID = &d.ID

		out, err = u.recalcTotals(ctx, r, order)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 割引解除
func (u *CartUsecase) RemoveDiscount(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().GetOrCreateCartByBuyerID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().SetDiscount(ctx, order.ID, nil); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order.DiscountID = nil

		out, err = u.recalcTotals(ctx, r, order)
		return err
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// recalcTotals は明細から合計を計算し直して保存し、カートのレスポンスを作る。
// total_amount / discount_amount を書くのはここだけ。
func (u *CartUsecase) recalcTotals(ctx context.Context, r repo.TxRepos, order model.Order) (CartResponse, error) {
	lines, err := r.OrderItems().ListByOrderID(ctx, order.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//割引は毎回取り直して有効性を評価する（期限は時間依存）
	var d *model.Discount
	if order.DiscountID != nil {
		found, err := r.Discounts().FindByID(ctx, *order.DiscountID)
		if err == nil {
			d = &found
		} else if err != repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	priced := make([]model.PricedLine, 0, len(lines))
	respItems := make([]CartLineResponse, 0, len(lines))
	for _, l := range lines {
		priced = append(priced, model.PricedLine{
			UnitPrice: l.Item.Price,
			Quantity:  l.Quantity,
		})
		respItems = append(respItems, CartLineResponse{
			ID:        l.ID,
			ItemID:    l.ItemID,
			Title:     l.Item.Title,
			Price:     l.Item.Price,
			Quantity:  l.Quantity,
			LineTotal: l.Item.Price.Mul(decimal.NewFromInt(l.Quantity)).Round(2),
		})
	}

	totals := model.PriceOrder(priced, d, time.Now())

	if err := r.Orders().UpdateTotals(ctx, order.ID, totals.Total, totals.DiscountAmount); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := CartResponse{
		OrderID:        order.ID,
		Items:          respItems,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
	}
	if d != nil {
		resp.DiscountCode = &d.Code
	}
	return resp, nil
}

// 在庫不足。メッセージに残数を入れる
func stockInsufficientError(item model.Item) error {
	return NewHTTPError(http.StatusBadRequest,
		fmt.Sprintf("requested quantity exceeds available stock for %s (available %d)",
			item.Title, item.QuantityAvailable))
}
