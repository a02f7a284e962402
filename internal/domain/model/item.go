package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 出品された商品
type Item struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	//価格（小数2桁）
	Price decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`

	//商品画像のURL（無くてもよい）
	ImageURL *string `gorm:"type:varchar(500)" json:"image_url"`

	//出品者
	SellerID int64 `gorm:"not null;index" json:"seller_id"`
	Seller   User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CategoryID int64    `gorm:"not null;index" json:"category_id"`
	Category   Category `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	DateListed time.Time `gorm:"not null;autoCreateTime;index" json:"date_listed"`

	//在庫数（0以上）
	QuantityAvailable int64 `gorm:"not null;default:1" json:"quantity_available"`

	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
