package db

import (
	"fmt"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser,
		cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate はスキーマを揃える。
// AutoMigrateの後に、1ユーザー1カートを守る部分ユニークインデックスを張る
// （get-or-createだけではレースで2つ作れてしまうため）。
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Item{},
		&model.Discount{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		return err
	}

	return gormDB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_orders_one_cart_per_buyer
		 ON orders (buyer_id) WHERE status = 'cart'`,
	).Error
}
