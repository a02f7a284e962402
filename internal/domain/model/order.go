package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	//買い物中のカート
	OrderStatusCart OrderStatus = "cart"
	//確定済み（終端状態）
	OrderStatusShipped OrderStatus = "shipped"
)

// 注文。status=cartの間はカートとして編集できる。
// 1ユーザーにつきcartは1つ（buyer_idの部分ユニークインデックスで担保）。
// total_amount/discount_amountは明細と割引から導出した値で、
// 明細を変更したら必ず再計算して保存する。
type Order struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID   int64     `gorm:"not null;index" json:"buyer_id"`
	Buyer     User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	OrderDate time.Time `gorm:"not null;autoCreateTime" json:"order_date"`

	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total_amount"`

	//適用中の割引（割引が消されたらNULLに戻る）
	DiscountID *int64    `gorm:"index" json:"discount_id"`
	Discount   *Discount `gorm:"constraint:OnDelete:SET NULL" json:"-"`

	DiscountAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"discount_amount"`

	Status    OrderStatus `gorm:"type:varchar(20);not null;index;default:'cart'" json:"status"`
	UpdatedAt time.Time   `gorm:"not null;autoUpdateTime" json:"-"`
}
