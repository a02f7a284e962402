package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/infra/db"
	infrarepo "marketplace/internal/infra/repository"
	"marketplace/internal/logger"
	"marketplace/internal/server"
	"marketplace/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envが無ければ環境変数だけで動く
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

	//repository
	userRepo := infrarepo.NewUserGormRepository(gormDB)
	categoryRepo := infrarepo.NewCategoryGormRepository(gormDB)
	itemRepo := infrarepo.NewItemGormRepository(gormDB)
	txManager := infrarepo.NewTxManagerGorm(gormDB)

	//usecase
	authUc := usecase.NewAuthUsecase(cfg, userRepo)
	itemUc := usecase.NewItemUsecase(itemRepo, categoryRepo)
	categoryUc := usecase.NewCategoryUsecase(categoryRepo, itemRepo)
	cartUc := usecase.NewCartUsecase(txManager)
	orderUc := usecase.NewOrderUsecase(txManager)
	profileUc := usecase.NewProfileUsecase(userRepo, itemRepo, txManager)

	//handler
	authHandler := handler.NewAuthHandler(authUc, profileUc)
	itemHandler := handler.NewItemHandler(itemUc)
	categoryHandler := handler.NewCategoryHandler(categoryUc)
	cartHandler := handler.NewCartHandler(cartUc)
	orderHandler := handler.NewOrderHandler(orderUc)

	srv := server.New(cfg, lg)
	e := srv.Echo()

	authHandler.RegisterRoutes(e, cfg)
	itemHandler.RegisterRoutes(e, cfg)
	categoryHandler.RegisterRoutes(e)
	cartHandler.RegisterRoutes(e, cfg)
	orderHandler.RegisterRoutes(e, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Info("server starting", zap.String("port", cfg.Port))

	if err := srv.Start(ctx); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}
