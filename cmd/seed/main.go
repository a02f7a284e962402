package main

import (
	"time"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/infra/db"
	"marketplace/internal/logger"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 開発用の初期データ投入。何度実行しても増殖しない（FirstOrCreate）。
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	lg, err := logger.New(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer lg.Sync()

	gormDB, err := db.Connect(cfg)
	if err != nil {
		lg.Fatal("db connect failed", zap.Error(err))
	}

	if err := db.Migrate(gormDB); err != nil {
		lg.Fatal("migrate failed", zap.Error(err))
	}

	if err := seedCategories(gormDB); err != nil {
		lg.Fatal("seed categories failed", zap.Error(err))
	}
	if err := seedDiscounts(gormDB); err != nil {
		lg.Fatal("seed discounts failed", zap.Error(err))
	}
	if err := seedDemoUserAndItems(gormDB); err != nil {
		lg.Fatal("seed demo data failed", zap.Error(err))
	}

	lg.Info("seed done")
}

func seedCategories(gormDB *gorm.DB) error {
	categories := []model.Category{
		{Name: "Books", Description: "Fiction, non-fiction and textbooks"},
		{Name: "Electronics", Description: "Gadgets and accessories"},
		{Name: "Clothing", Description: "Apparel and footwear"},
		{Name: "Home", Description: "Furniture and kitchenware"},
	}

	for _, c := range categories {
		if err := gormDB.Where(model.Category{Name: c.Name}).
			FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedDiscounts(gormDB *gorm.DB) error {
	expiry := time.Now().AddDate(0, 3, 0)
	limit := int64(100)

	discounts := []model.Discount{
		{
			Code:   "WELCOME10",
			Type:   model.DiscountTypePercentage,
			Amount: decimal.NewFromInt(10),
			Active: true,
		},
		{
			Code:           "SPRING5",
			Type:           model.DiscountTypeFixed,
			Amount:         decimal.NewFromInt(5),
			Active:         true,
			ExpirationDate: &expiry,
			UsageLimit:     &limit,
		},
	}

	for _, d := range discounts {
		if err := gormDB.Where(model.Discount{Code: d.Code}).
			FirstOrCreate(&d).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedDemoUserAndItems(gormDB *gorm.DB) error {
	pwHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	seller := model.User{
		Email:        "demo@example.com",
		PasswordHash: string(pwHash),
		Address:      "1-2-3 Demo Street, Tokyo",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := gormDB.Where(model.User{Email: seller.Email}).
		FirstOrCreate(&seller).Error; err != nil {
		return err
	}

	var books model.Category
	if err := gormDB.Where(model.Category{Name: "Books"}).First(&books).Error; err != nil {
		return err
	}
	var electronics model.Category
	if err := gormDB.Where(model.Category{Name: "Electronics"}).First(&electronics).Error; err != nil {
		return err
	}

	items := []model.Item{
		{
			Title:             "The Go Programming Language",
			Description:       "Lightly used, no markings",
			Price:             decimal.NewFromFloat(29.99),
			SellerID:          seller.ID,
			CategoryID:        books.ID,
			QuantityAvailable: 5,
		},
		{
			Title:             "Mechanical Keyboard",
			Description:       "87 keys, brown switches",
			Price:             decimal.NewFromFloat(89.50),
			SellerID:          seller.ID,
			CategoryID:        electronics.ID,
			QuantityAvailable: 3,
		},
		{
			Title:             "USB-C Cable 2m",
			Description:       "Unopened",
			Price:             decimal.NewFromFloat(7.80),
			SellerID:          seller.ID,
			CategoryID:        electronics.ID,
			QuantityAvailable: 20,
		},
	}

	for _, it := range items {
		if err := gormDB.Where(model.Item{Title: it.Title, SellerID: seller.ID}).
			FirstOrCreate(&it).Error; err != nil {
			return err
		}
	}
	return nil
}
