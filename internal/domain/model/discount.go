package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	//合計に対する割合（amountは%）
	DiscountTypePercentage DiscountType = "percentage"
	//固定額
	DiscountTypeFixed DiscountType = "fixed"
)

// 割引コード。作成・更新は管理側で行い、コアからは読み取りのみ
// （used_countのカウントアップを除く）。
type Discount struct {
	ID     int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code   string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Type   DiscountType    `gorm:"type:varchar(20);not null" json:"type"`
	Amount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Active bool            `gorm:"not null;default:true" json:"active"`

	//有効期限（nilなら無期限）
	ExpirationDate *time.Time `gorm:"index" json:"expiration_date"`

	//使用回数の上限（nilなら無制限）
	UsageLimit *int64 `json:"usage_limit"`
	UsedCount  int64  `gorm:"not null;default:0" json:"used_count"`
}

// IsValid は割引が使えるかどうか。
// 有効フラグ＋期限内＋使用回数が上限未満、をその時点の時刻で判定する。
// 期限は時間依存なので使う場所ごとに毎回評価する（キャッシュしない）。
func (d Discount) IsValid(now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.ExpirationDate != nil && now.After(*d.ExpirationDate) {
		return false
	}
	if d.UsageLimit != nil && d.UsedCount >= *d.UsageLimit {
		return false
	}
	return true
}
