package model

import "time"

// 注文の明細。(order, item)の組は1行で、同じ商品の追加は数量加算。
// Orderが消えれば明細も消える。Itemが消えた場合も明細ごと消える
// （他人のカートにも影響する破壊的カスケード）。
type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;index;uniqueIndex:uq_order_items_order_item" json:"order_id"`
	Order   Order `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ItemID  int64 `gorm:"not null;index;uniqueIndex:uq_order_items_order_item" json:"item_id"`
	Item    Item  `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	//数量（1以上）
	Quantity int64 `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
