package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type DiscountRepository interface {
	// コードは大文字小文字を区別しない。activeなものだけ返す
	FindActiveByCode(ctx context.Context, code string) (model.Discount, error)
	FindByID(ctx context.Context, id int64) (model.Discount, error)

	// チェックアウト時のみ呼ぶ（カート編集で二重加算しない）
	IncrementUsedCount(ctx context.Context, id int64) error
}
