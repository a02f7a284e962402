package usecase_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func cartOrder(id int64, buyerID int64) model.Order {
	return model.Order{ID: id, BuyerID: buyerID, Status: model.OrderStatusCart}
}

func TestCartUsecase_GetCart_EmptyCart(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTxManager()
	uc := usecase.NewCartUsecase(tx)

	order := cartOrder(10, 1)
	tx.repos.orders.On("GetOrCreateCartByBuyerID", mock.Anything, int64(1)).Return(order, nil)
	tx.repos.orderItems.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{}, nil)
	tx.repos.orders.On("UpdateTotals", mock.Anything, int64(10), mock.Anything, mock.Anything).Return(nil)

	out, err := uc.GetCart(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), out.OrderID)
	assert.Empty(t, out.Items)
	assert.True(t, out.Subtotal.IsZero())
	assert.True(t, out.Total.IsZero())
	assert.Nil(t, out.DiscountCode)
}

func TestCartUsecase_AddToCart_AccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTxManager()
	uc := usecase.NewCartUsecase(tx)

	order := cartOrder(10, 1)
	item := model.Item{ID: 5, Title: "Keyboard", Price: decimal.NewFromFloat(89.50), QuantityAvailable: 3}
	existing := model.OrderItem{ID: 100, OrderID: 10, ItemID: 5, Item: item, Quantity: 2}

	tx.repos.orders.On("GetOrCreateCartByBuyerID", mock.Anything, int64(1)).Return(order, nil)
	tx.repos.items.On("FindByID", mock.Anything, int64(5)).Return(item, nil)
	//1回目は在庫チェック、2回目は再計算用
	tx.repos.orderItems.On("ListByOrderID", mock.Anything, int64(10)).
		Return([]model.OrderItem{existing}, nil).Once()
	tx.repos.orderItems.On("AddQuantity", mock.Anything, int64(10), int64(5), int64(1)).Return(nil)
	tx.repos.orderItems.On("ListByOrderID", mock.Anything, int64(10)).
		Return([]model.OrderItem{{ID: 100, OrderID: 10, ItemID: 5, Item: item, Quantity: 3}}, nil).Once()
	tx.repos.orders.On("UpdateTotals", mock.Anything, int64(10), mock.Anything, mock.Anything).Return(nil)

	out, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: 5, Quantity: 1})
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(3), out.Items[0].Quantity)
	// 89.50 * 3
	assert.True(t, out.Subtotal.Equal(decimal.NewFromFloat(268.50)))
	assert.True(t, out.Total.Equal(decimal.NewFromFloat(268.50)))

	tx.repos.orderItems.AssertExpectations(t)
}

// カート内の数量＋追加分が在庫を超えたら拒否する。明細は書かない
func TestCartUsecase_AddToCart_StockInsufficient(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTxManager()
	uc := usecase.NewCartUsecase(tx)

	order := cartOrder(10, 1)
	item := model.Item{ID: 5, Title: "Keyboard", Price: decimal.NewFromFloat(89.50), QuantityAvailable: 3}
	existing := model.OrderItem{ID: 100, OrderID: 10, ItemID: 5, Item: item, Quantity: 2}

	tx.repos.orders.On("GetOrCreateCartByBuyerID", mock.Anything, int64(1)).Return(order, nil)
	tx.repos.items.On("FindByID", mock.Anything, int64(5)).Return(item, nil)
	tx.repos.orderItems.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{existing}, nil)

	_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: 5, Quantity: 2})
	assertErrContains(t, err, "available 3")

	tx.repos.orderItems.AssertNotCalled(t, "AddQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	tx.repos.orders.AssertNotCalled(t, "UpdateTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_UnknownItem(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTxManager()
	uc := usecase.NewCartUsecase(tx)

	tx.repos.orders.On("GetOrCreateCartByBuyerID", mock.Anything, int64(1)).Return(cartOrder(10, 1), nil)
	tx.repos.items.On("FindByID", mock.Anything, int64(99)).Return(model.Item{}, repo.ErrNotFound)

	_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: 99, Quantity: 1})
	assertErrContains(t, err, "invalid item")
}

func TestCartUsecase_AddToCart_InvalidQuantity(t *testing.T) {
	uc := usecase.NewCartUsecase(newFakeTxManager())

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ItemID: 5, Quantity: 0})
	assertErrContains(t, err, "invalid quantity")
}

// 他人のカート明細は存在しない扱い
func TestCartUsecase_UpdateCartItem_NotInMyCart(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTxManager()
	uc := usecase.NewCartUsecase(tx)

	tx.repos.orders.On("FindCartByBuyerID", mock.Anything, int64(1)).Return(cartOrder(10, 1), nil)
	tx.repos.orderItems.On("FindByIDInOrder", mock.Anything, int64(555), int64(10)).
		Return(model.OrderItem{}, repo.ErrNotFound)

	_, err := uc.UpdateCartItem(ctx, 1, 555, usecase.UpdateCartItemInput{Quantity: 1})
	assertErrContains(t, err, "not found")
}

func TestCartUsecase_UpdateCartItem_StockInsufficient(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTxManager()
	uc := usecase.NewCartUsecase(tx)

	item := model.Item{ID: 5, Title: "Cable", Price: decimal.NewFromFloat(7.80), QuantityAvailable: 2}
	line := model.OrderItem{ID: 100, OrderID: 10, ItemID: 5, Item: item, Quantity: 1}

	tx.repos.orders.On("FindCartByBuyerID", mock.Anything, int64(1)).Return(cartOrder(10, 1), nil)
	tx.repos.orderItems.On("FindByIDInOrder", mock.Anything, int64(100), int64(10)).Return(line, nil)

	_, err := uc.UpdateCartItem(ctx, 1, 100, usecase.UpdateCartItemInput{Quantity: 5})
	assertErrContains(t, err, "available 2")

	tx.repos.orderItems.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_DeleteCartItem_RecalculatesTotals(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTxManager()
	uc := usecase.NewCartUsecase(tx)

	tx.repos.orders.On("FindCartByBuyerID", mock.Anything, int64(1)).Return(cartOrder(10, 1), nil)
	tx.repos.orderItems.On("DeleteByIDInOrder", mock.Anything, int64(100), int64(10)).Return(nil)
	tx.repos.orderItems.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{}, nil)
	tx.repos.orders.On("UpdateTotals", mock.Anything, int64(10), mock.Anything, mock.Anything).Return(nil)

	out, err := uc.DeleteCartItem(ctx, 1, 100)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.True(t, out.Total.IsZero())

	tx.repos.orders.AssertExpectations(t)
}

func TestCartUsecase_ApplyDiscount_UnknownCode(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTxManager()
	uc := usecase.NewCartUsecase(tx)

	tx.repos.orders.On("GetOrCreateCartByBuyerID", mock.Anything, int64(1)).Return(cartOrder(10, 1), nil)
	tx.repos.discounts.On("FindActiveByCode", mock.Anything, "NOPE").Return(model.Discount{}, repo.ErrNotFound)

	_, err := uc.ApplyDiscount(ctx, 1, "NOPE")
	assertErrContains(t, err, "invalid discount code")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

// コードは存在するが期限切れ：404ではなく400でメッセージを分ける
func TestCartUsecase_ApplyDiscount_Expired(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTxManager()
	uc := usecase.NewCartUsecase(tx)

	expired := time.Now().Add(-time.Hour)
	d := model.Discount{
		ID: 7, Code: "OLD", Type: model.DiscountTypePercentage,
		Amount: decimal.NewFromInt(10), Active: true, ExpirationDate: &expired,
	}

	tx.repos.orders.On("GetOrCreateCartByBuyerID", mock.Anything, int64(1)).Return(cartOrder(10, 1), nil)
	tx.repos.discounts.On("FindActiveByCode", mock.Anything, "OLD").Return(d, nil)

	_, err := uc.ApplyDiscount(ctx, 1, "OLD")
	assertErrContains(t, err, "discount code expired or exhausted")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)

	tx.repos.orders.AssertNotCalled(t, "SetDiscount", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_ApplyDiscount_PercentageTotals(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTxManager()
	uc := usecase.NewCartUsecase(tx)

	item := model.Item{ID: 5, Title: "Book", Price: decimal.NewFromFloat(33.33), QuantityAvailable: 10}
	line := model.OrderItem{ID: 100, OrderID: 10, ItemID: 5, Item: item, Quantity: 1}
	d := model.Discount{
		ID: 7, Code: "WELCOME10", Type: model.DiscountTypePercentage,
		Amount: decimal.NewFromInt(10), Active: true,
	}

	tx.repos.orders.On("GetOrCreateCartByBuyerID", mock.Anything, int64(1)).Return(cartOrder(10, 1), nil)
	tx.repos.discounts.On("FindActiveByCode", mock.Anything, "WELCOME10").Return(d, nil)
	tx.repos.orders.On("SetDiscount", mock.Anything, int64(10), mock.Anything).Return(nil)
	tx.repos.orderItems.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{line}, nil)
	tx.repos.discounts.On("FindByID", mock.Anything, int64(7)).Return(d, nil)
	tx.repos.orders.On("UpdateTotals", mock.Anything, int64(10), mock.Anything, mock.Anything).Return(nil)

	out, err := uc.ApplyDiscount(ctx, 1, "WELCOME10")
	assert.NoError(t, err)
	assert.NotNil(t, out.DiscountCode)
	assert.Equal(t, "WELCOME10", *out.DiscountCode)
	assert.True(t, out.Subtotal.Equal(decimal.NewFromFloat(33.33)))
	assert.True(t, out.DiscountAmount.Equal(decimal.NewFromFloat(3.33)))
	assert.True(t, out.Total.Equal(decimal.NewFromFloat(30.00)))
}

func TestCartUsecase_RemoveDiscount_ZeroesDiscount(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTxManager()
	uc := usecase.NewCartUsecase(tx)

	item := model.Item{ID: 5, Title: "Book", Price: decimal.NewFromFloat(20.00), QuantityAvailable: 10}
	line := model.OrderItem{ID: 100, OrderID: 10, ItemID: 5, Item: item, Quantity: 1}

	discountID := int64(7)
	order := cartOrder(10, 1)
	order.DiscountID = &discountID

	tx.repos.orders.On("GetOrCreateCartByBuyerID", mock.Anything, int64(1)).Return(order, nil)
	tx.repos.orders.On("SetDiscount", mock.Anything, int64(10), (*int64)(nil)).Return(nil)
	tx.repos.orderItems.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{line}, nil)
	tx.repos.orders.On("UpdateTotals", mock.Anything, int64(10), mock.Anything, mock.Anything).Return(nil)

	out, err := uc.RemoveDiscount(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, out.DiscountCode)
	assert.True(t, out.DiscountAmount.IsZero())
	assert.True(t, out.Total.Equal(decimal.NewFromFloat(20.00)))

	tx.repos.orders.AssertExpectations(t)
	//割引を外したあとはFindByIDを引かない
	tx.repos.discounts.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
