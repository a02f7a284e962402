package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 合計計算に使う明細1行分（商品の現在価格 × 数量）
type PricedLine struct {
	UnitPrice decimal.Decimal
	Quantity  int64
}

// 合計計算の結果
type OrderTotals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// PriceOrder は明細と割引から注文合計を計算する純関数。
// ここが total_amount / discount_amount の唯一の計算元。
//
//	subtotal = Σ 単価×数量
//	percentage: discount = amount/100 × subtotal
//	fixed:      discount = amount
//	total = subtotal - discount（0未満にはならない）
//
// 割引が無効（期限切れ・使い切り等）なら割引額0のまま返す。
// 金額は小数2桁に丸める。
func PriceOrder(lines []PricedLine, d *Discount, now time.Time) OrderTotals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	subtotal = subtotal.Round(2)

	t := OrderTotals{
		Subtotal:       subtotal,
		DiscountAmount: decimal.Zero,
		Total:          subtotal,
	}

	if d == nil || !d.IsValid(now) {
		return t
	}

	switch d.Type {
	case DiscountTypePercentage:
		t.DiscountAmount = d.Amount.Div(decimal.NewFromInt(100)).Mul(subtotal).Round(2)
	case DiscountTypeFixed:
		t.DiscountAmount = d.Amount.Round(2)
	default:
		return t
	}

	total := subtotal.Sub(t.DiscountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	t.Total = total.Round(2)

	return t
}
