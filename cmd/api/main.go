package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-booking/internal/api"
	"github.com/sanosuguru/go-table-booking/internal/api/handler"
	custommw "github.com/sanosuguru/go-table-booking/internal/api/middleware"
	"github.com/sanosuguru/go-table-booking/internal/application"
	"github.com/sanosuguru/go-table-booking/internal/config"
	"github.com/sanosuguru/go-table-booking/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-table-booking/internal/infrastructure/rabbitmq"
	redisinfra "github.com/sanosuguru/go-table-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-table-booking/internal/notifier"
	"github.com/sanosuguru/go-table-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-table-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-table-booking/internal/worker"
)

func main() {
	// .env があれば読み込む（ローカル開発用、無ければ無視）
	_ = godotenv.Load()

	cfg := config.Load()

	logger.Set(logger.NewLogger(os.Getenv("APP_ENV")))
	defer logger.Sync()

	// データベース接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	// Redis接続（失敗してもキャッシュなしで続行）
	var cache *redisinfra.AvailabilityCache
	redisClient := redisinfra.NewClient(&cfg.Redis)
	if err := redisinfra.Ping(context.Background(), redisClient); err != nil {
		logger.Warn("Redis接続に失敗（キャッシュなしで続行）", zap.Error(err))
	} else {
		cache = redisinfra.NewAvailabilityCache(redisClient)
	}

	// RabbitMQ接続（URL未設定・失敗時はイベント発行なしで続行）
	var publisher *rabbitmq.Publisher
	if cfg.RabbitMQ.URL != "" {
		publisher, err = rabbitmq.NewPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Warn("RabbitMQ接続に失敗（イベント発行なしで続行）", zap.Error(err))
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// メトリクス初期化
	m := metrics.Init()

	// リポジトリ・サービス初期化
	restaurantRepo := postgres.NewRestaurantRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	txManager := postgres.NewTxManager(db)

	restaurantService := application.NewRestaurantService(restaurantRepo, cache)
	bookingService := application.NewBookingService(txManager, bookingRepo, restaurantRepo, cache, publisher, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 空席通知（レストラン変更のライブビュー）
	availabilityNotifier := notifier.NewAvailabilityNotifier(
		restaurantRepo,
		notifier.NewPQListener(cfg.Database.DSN()),
	)
	go availabilityNotifier.Run(ctx)

	// 期限切れ予約リクレイマー
	reclaimer := worker.NewExpiredBookingReclaimer(bookingService, cfg.Worker.ReclaimInterval)
	go reclaimer.Start(ctx)

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	custommw.SetupMiddleware(e)
	e.Use(custommw.PrometheusMiddleware(m))

	healthHandler := handler.NewHealthHandler()
	restaurantHandler := handler.NewRestaurantHandler(restaurantService)
	bookingHandler := handler.NewBookingHandler(bookingService)

	e.GET("/health", healthHandler.Check)

	v1 := e.Group("/api/v1")
	v1.GET("/restaurants", restaurantHandler.List)
	v1.POST("/restaurants", restaurantHandler.Create)
	v1.GET("/restaurants/:id", restaurantHandler.GetByID)
	v1.GET("/restaurants/:id/seats", restaurantHandler.AvailableSeats)
	v1.POST("/bookings", bookingHandler.Create)
	v1.GET("/bookings", bookingHandler.GetUserBookings)
	v1.GET("/bookings/:id", bookingHandler.GetByID)
	v1.PUT("/bookings/:id", bookingHandler.Edit)
	v1.DELETE("/bookings/:id", bookingHandler.Delete)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	reclaimer.Stop()
	cancel()
	availabilityNotifier.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
