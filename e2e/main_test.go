package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-table-booking/internal/api"
	"github.com/sanosuguru/go-table-booking/internal/api/handler"
	"github.com/sanosuguru/go-table-booking/internal/api/middleware"
	"github.com/sanosuguru/go-table-booking/internal/application"
	"github.com/sanosuguru/go-table-booking/internal/config"
	"github.com/sanosuguru/go-table-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-table-booking/internal/infrastructure/redis"
)

// TestServer はE2Eテスト用のサーバー
type TestServer struct {
	Echo *echo.Echo
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

var (
	testServer  *TestServer
	testDB      *sqlx.DB
	redisClient *redis.Client
)

// TestMain はE2Eテストのエントリポイント
// パッケージ全体で1回だけサーバーを起動することで高速化
func TestMain(m *testing.M) {
	cfg := config.Load()

	// DB接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		os.Exit(0) // DB未起動時はスキップ
	}
	testDB = db

	// Redis接続（未起動の場合はキャッシュなしで続行）
	rc := redisinfra.NewClient(&cfg.Redis)
	var cache *redisinfra.AvailabilityCache
	pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	if err := redisinfra.Ping(pingCtx, rc); err == nil {
		redisClient = rc
		cache = redisinfra.NewAvailabilityCache(rc)
	}
	cancel()

	// サービス初期化
	restaurantRepo := postgres.NewRestaurantRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	txManager := postgres.NewTxManager(db)

	restaurantService := application.NewRestaurantService(restaurantRepo, cache)
	bookingService := application.NewBookingService(txManager, bookingRepo, restaurantRepo, cache, nil, nil)

	restaurantHandler := handler.NewRestaurantHandler(restaurantService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	healthHandler := handler.NewHealthHandler()

	// Echo セットアップ
	e := echo.New()
	e.Validator = api.NewValidator()
	middleware.SetupMiddleware(e)

	e.GET("/health", healthHandler.Check)

	v1 := e.Group("/api/v1")
	v1.POST("/restaurants", restaurantHandler.Create)
	v1.GET("/restaurants", restaurantHandler.List)
	v1.GET("/restaurants/:id", restaurantHandler.GetByID)
	v1.GET("/restaurants/:id/seats", restaurantHandler.AvailableSeats)

	v1.POST("/bookings", bookingHandler.Create)
	v1.GET("/bookings", bookingHandler.GetUserBookings)
	v1.GET("/bookings/:id", bookingHandler.GetByID)
	v1.PUT("/bookings/:id", bookingHandler.Edit)
	v1.DELETE("/bookings/:id", bookingHandler.Delete)

	testServer = &TestServer{Echo: e}

	// テスト実行
	code := m.Run()

	// 最終クリーンアップ
	cleanupTables()
	if redisClient != nil {
		redisClient.Close()
	}
	db.Close()

	os.Exit(code)
}

// cleanupTables はテーブルをクリーンアップ
func cleanupTables() {
	testDB.Exec("TRUNCATE TABLE bookings, restaurants RESTART IDENTITY CASCADE")
	if redisClient != nil {
		redisClient.FlushDB(context.Background())
	}
}

// getTestServer は共有サーバーを取得（テスト前にテーブルをクリーンアップ）
func getTestServer(t *testing.T) *TestServer {
	t.Helper()
	if testServer == nil {
		t.Skip("テスト環境が利用できません")
	}
	cleanupTables()
	return testServer
}

// seedRestaurant はAPIでレストランを登録してIDを返す
func seedRestaurant(t *testing.T, server *TestServer, name string, seats int) string {
	t.Helper()
	rec := server.Request(http.MethodPost, "/api/v1/restaurants", map[string]interface{}{
		"name":            name,
		"location":        "東京都",
		"available_seats": seats,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("レストラン登録に失敗: %d %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	return resp["id"].(string)
}

// bookingDate はテスト実行日からn日後の予約日文字列を返す
func bookingDate(n int) string {
	return time.Now().AddDate(0, 0, n).Format("02/01/2006")
}
