package usecase_test

import (
	"context"
	"strings"
	"testing"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) GetOrCreateCartByBuyerID(ctx context.Context, buyerID int64) (model.Order, error) {
	args := m.Called(ctx, buyerID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindCartByBuyerID(ctx context.Context, buyerID int64) (model.Order, error) {
	args := m.Called(ctx, buyerID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListShippedByBuyerID(ctx context.Context, buyerID int64) ([]model.Order, error) {
	args := m.Called(ctx, buyerID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateTotals(ctx context.Context, orderID int64, total decimal.Decimal, discountAmount decimal.Decimal) error {
	args := m.Called(ctx, orderID, total, discountAmount)
	return args.Error(0)
}

func (m *OrderRepoMock) SetDiscount(ctx context.Context, orderID int64, discountID *int64) error {
	args := m.Called(ctx, orderID, discountID)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	lines, _ := args.Get(0).([]model.OrderItem)
	return lines, args.Error(1)
}

func (m *OrderItemRepoMock) FindByIDInOrder(ctx context.Context, orderItemID int64, orderID int64) (model.OrderItem, error) {
	args := m.Called(ctx, orderItemID, orderID)
	l, _ := args.Get(0).(model.OrderItem)
	return l, args.Error(1)
}

func (m *OrderItemRepoMock) AddQuantity(ctx context.Context, orderID int64, itemID int64, addQty int64) error {
	args := m.Called(ctx, orderID, itemID, addQty)
	return args.Error(0)
}

func (m *OrderItemRepoMock) UpdateQuantity(ctx context.Context, orderItemID int64, qty int64) error {
	args := m.Called(ctx, orderItemID, qty)
	return args.Error(0)
}

func (m *OrderItemRepoMock) DeleteByIDInOrder(ctx context.Context, orderItemID int64, orderID int64) error {
	args := m.Called(ctx, orderItemID, orderID)
	return args.Error(0)
}

type ItemRepoMock struct{ mock.Mock }

func (m *ItemRepoMock) ListInStock(ctx context.Context, q repo.ItemListQuery) ([]model.Item, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Item)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ItemRepoMock) ListBySellerID(ctx context.Context, sellerID int64) ([]model.Item, error) {
	args := m.Called(ctx, sellerID)
	items, _ := args.Get(0).([]model.Item)
	return items, args.Error(1)
}

func (m *ItemRepoMock) FindByID(ctx context.Context, id int64) (model.Item, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(model.Item)
	return it, args.Error(1)
}

func (m *ItemRepoMock) Create(ctx context.Context, item model.Item) (model.Item, error) {
	args := m.Called(ctx, item)
	created, _ := args.Get(0).(model.Item)
	return created, args.Error(1)
}

func (m *ItemRepoMock) Update(ctx context.Context, item model.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *ItemRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ItemRepoMock) DecreaseStockIfEnough(ctx context.Context, itemID int64, qty int64) (bool, error) {
	args := m.Called(ctx, itemID, qty)
	return args.Bool(0), args.Error(1)
}

type DiscountRepoMock struct{ mock.Mock }

func (m *DiscountRepoMock) FindActiveByCode(ctx context.Context, code string) (model.Discount, error) {
	args := m.Called(ctx, code)
	d, _ := args.Get(0).(model.Discount)
	return d, args.Error(1)
}

func (m *DiscountRepoMock) FindByID(ctx context.Context, id int64) (model.Discount, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(model.Discount)
	return d, args.Error(1)
}

func (m *DiscountRepoMock) IncrementUsedCount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) ListWithStock(ctx context.Context) ([]repo.CategoryWithStock, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]repo.CategoryWithStock)
	return rows, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

// =====================
// Fake TransactionManager
// =====================

// fnをそのまま実行するだけ（commit/rollbackはしない）。
// fnがerrorを返したらそれが呼び出し元へ返るところだけ本物と同じ。
type fakeTxRepos struct {
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	items      *ItemRepoMock
	discounts  *DiscountRepoMock
}

func (f fakeTxRepos) Orders() repo.OrderRepository         { return f.orders }
func (f fakeTxRepos) OrderItems() repo.OrderItemRepository { return f.orderItems }
func (f fakeTxRepos) Items() repo.ItemRepository           { return f.items }
func (f fakeTxRepos) Discounts() repo.DiscountRepository   { return f.discounts }

type fakeTxManager struct {
	repos fakeTxRepos
}

func newFakeTxManager() *fakeTxManager {
	return &fakeTxManager{
		repos: fakeTxRepos{
			orders:     new(OrderRepoMock),
			orderItems: new(OrderItemRepoMock),
			items:      new(ItemRepoMock),
			discounts:  new(DiscountRepoMock),
		},
	}
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(f.repos)
}

func assertErrContains(t *testing.T, err error, s string) {
	t.Helper()
	assert.Error(t, err)
	if err != nil {
		assert.True(t, strings.Contains(err.Error(), s),
			"error %q should contain %q", err.Error(), s)
	}
}
