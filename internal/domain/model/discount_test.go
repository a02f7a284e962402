package model_test

import (
	"testing"
	"time"

	"marketplace/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscountIsValid_Active(t *testing.T) {
	d := model.Discount{
		Code:   "WELCOME10",
		Type:   model.DiscountTypePercentage,
		Amount: decimal.NewFromInt(10),
		Active: true,
	}

	assert.True(t, d.IsValid(time.Now()))
}

func TestDiscountIsValid_Inactive(t *testing.T) {
	d := model.Discount{
		Code:   "OLD",
		Type:   model.DiscountTypeFixed,
		Amount: decimal.NewFromInt(5),
		Active: false,
	}

	assert.False(t, d.IsValid(time.Now()))
}

// activeでも期限が過ぎていたら使えない
func TestDiscountIsValid_ExpiredButActive(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	d := model.Discount{
		Code:           "SPRING5",
		Type:           model.DiscountTypeFixed,
		Amount:         decimal.NewFromInt(5),
		Active:         true,
		ExpirationDate: &expired,
	}

	assert.False(t, d.IsValid(time.Now()))
}

func TestDiscountIsValid_ExpiresExactlyNow(t *testing.T) {
	now := time.Now()
	d := model.Discount{
		Code:           "EDGE",
		Type:           model.DiscountTypeFixed,
		Amount:         decimal.NewFromInt(5),
		Active:         true,
		ExpirationDate: &now,
	}

	//期限ちょうどはまだ有効
	assert.True(t, d.IsValid(now))
	assert.False(t, d.IsValid(now.Add(time.Nanosecond)))
}

func TestDiscountIsValid_UsageLimit(t *testing.T) {
	limit := int64(3)
	d := model.Discount{
		Code:       "LIMITED",
		Type:       model.DiscountTypePercentage,
		Amount:     decimal.NewFromInt(20),
		Active:     true,
		UsageLimit: &limit,
		UsedCount:  2,
	}

	assert.True(t, d.IsValid(time.Now()))

	d.UsedCount = 3
	assert.False(t, d.IsValid(time.Now()))
}

func TestDiscountIsValid_NoLimitNoExpiry(t *testing.T) {
	d := model.Discount{
		Code:      "FOREVER",
		Type:      model.DiscountTypePercentage,
		Amount:    decimal.NewFromInt(1),
		Active:    true,
		UsedCount: 100000,
	}

	assert.True(t, d.IsValid(time.Now()))
}
