package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-booking/internal/domain/restaurant"
	redisinfra "github.com/sanosuguru/go-table-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-table-booking/internal/pkg/logger"
)

const (
	availabilityCacheTTL = 30 * time.Second
)

// RestaurantService はレストランの参照と外部シード用の登録を提供する
// 空席数の変更はここでは行わない（BookingServiceのトランザクション経由のみ）
type RestaurantService struct {
	restaurantRepo restaurant.Repository
	cache          *redisinfra.AvailabilityCache
}

// NewRestaurantService はRestaurantServiceを作成する
func NewRestaurantService(rr restaurant.Repository, cache *redisinfra.AvailabilityCache) *RestaurantService {
	return &RestaurantService{restaurantRepo: rr, cache: cache}
}

// CreateRestaurantInput はレストラン登録の入力（外部シード用）
type CreateRestaurantInput struct {
	Name           string
	ImageURL       string
	Description    string
	Location       string
	AvailableSeats int
}

// CreateRestaurant はレストランを登録する
func (s *RestaurantService) CreateRestaurant(ctx context.Context, input CreateRestaurantInput) (*restaurant.Restaurant, error) {
	r := restaurant.NewRestaurant(input.Name, input.ImageURL, input.Description, input.Location, input.AvailableSeats)
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.restaurantRepo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("レストラン登録に失敗しました: %w", err)
	}
	return r, nil
}

// GetRestaurant はIDからレストランを取得する
func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (*restaurant.Restaurant, error) {
	return s.restaurantRepo.GetByID(ctx, id)
}

// ListRestaurants はレストラン一覧を取得する
func (s *RestaurantService) ListRestaurants(ctx context.Context) ([]*restaurant.Restaurant, error) {
	return s.restaurantRepo.List(ctx)
}

// CountAvailableSeats はレストランの空席数を取得する（キャッシュ優先）
func (s *RestaurantService) CountAvailableSeats(ctx context.Context, restaurantID string) (int, error) {
	// キャッシュから取得を試みる
	if s.cache != nil {
		count, err := s.cache.GetAvailableSeats(ctx, restaurantID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("restaurant_id", restaurantID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	// ストレージから取得
	count, err := s.restaurantRepo.CountAvailableSeats(ctx, restaurantID)
	if err != nil {
		return 0, err
	}

	// キャッシュに保存
	if s.cache != nil {
		if cacheErr := s.cache.SetAvailableSeats(ctx, restaurantID, count, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}

	return count, nil
}
