package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ineedcourier/order-service/internal/app"
	"github.com/ineedcourier/order-service/internal/config"
	"github.com/ineedcourier/order-service/internal/events"
	"github.com/ineedcourier/order-service/internal/handler"
	"github.com/ineedcourier/order-service/internal/middleware"
	"github.com/ineedcourier/order-service/internal/postgres"
	"github.com/ineedcourier/order-service/internal/repo"
	"github.com/ineedcourier/order-service/internal/service"
	"github.com/ineedcourier/order-service/pkg/cache"
	"github.com/ineedcourier/order-service/pkg/trm"

	"github.com/joho/godotenv"
)

func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	ordersRepo := repo.NewOrdersRepo(db)
	businessRepo := repo.NewBusinessRepo(db)
	txManager := trm.NewManager(db)

	orderCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	publisher := events.NewKafkaPublisher(logger, conf.Kafka)

	orderService := service.NewOrderService(logger, txManager, ordersRepo, orderCache, publisher)
	authService := service.NewAuthService(logger, businessRepo, conf.Auth.JWTSecret, conf.Auth.TokenTTL)

	authMiddleware := middleware.Auth(authService)
	orderHandler := handler.NewOrderHandler(logger, orderService, authMiddleware)
	authHandler := handler.NewAuthHandler(logger, authService)
	handler.RegisterMetrics()

	app := app.New(logger, conf)
	app.SetHTTPHandlers(orderHandler, authHandler)
	app.SetClosers(publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	orderCache.StartJanitor(ctx)

	app.Start(ctx)
	<-ctx.Done()
	app.Stop()
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
