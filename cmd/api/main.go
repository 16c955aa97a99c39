package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/wangpython/gogroupbuy-backend/api/routes"
	"github.com/wangpython/gogroupbuy-backend/internal/auth"
	"github.com/wangpython/gogroupbuy-backend/internal/customers"
	"github.com/wangpython/gogroupbuy-backend/internal/notifications"
	"github.com/wangpython/gogroupbuy-backend/internal/orders"
	"github.com/wangpython/gogroupbuy-backend/internal/products"
	"github.com/wangpython/gogroupbuy-backend/pkg/cloudinary"
	"github.com/wangpython/gogroupbuy-backend/pkg/config"
	"github.com/wangpython/gogroupbuy-backend/pkg/db"
	"github.com/wangpython/gogroupbuy-backend/pkg/db/models"
	"github.com/wangpython/gogroupbuy-backend/pkg/line"
	"github.com/wangpython/gogroupbuy-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.FeatureFlags.AutoMigrate {
		err := dbClient.DB().AutoMigrate(
			&models.Merchant{},
			&models.Customer{},
			&models.Product{},
			&models.Order{},
		)
		if err != nil {
			logg.Error(context.Background(), "failed to run auto-migration", err)
			os.Exit(1)
		}
		logg.Info(context.Background(), "auto-migration complete")
	}

	lineClient, err := line.NewClient(
		cfg.Line.ChannelAccessToken,
		line.WithBaseURL(cfg.Line.BaseURL),
		line.WithHTTPClient(&http.Client{Timeout: cfg.Line.Timeout}),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create line client", err)
		os.Exit(1)
	}

	uploader, err := cloudinary.NewClient(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.APIKey,
		cfg.Cloudinary.APISecret,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cloudinary client", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.NewRepository(dbClient.DB()), cfg.JWT, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	customersService, err := customers.NewService(customers.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	productsRepo := products.NewRepository(dbClient.DB())

	productsService, err := products.NewService(productsRepo, uploader, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), productsRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(
		notifications.NewRepository(dbClient.DB()),
		productsRepo,
		lineClient,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			authService,
			customersService,
			productsService,
			ordersService,
			notificationsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
