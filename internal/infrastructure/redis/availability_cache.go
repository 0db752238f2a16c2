package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache はレストランの空席数キャッシュを管理する
// 真のカウンタはストレージ側にあり、キャッシュは表示用の読み取りを安くするだけ
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetAvailableSeats はレストランの空席数をキャッシュから取得する
func (c *AvailabilityCache) GetAvailableSeats(ctx context.Context, restaurantID string) (int, error) {
	key := c.availableSeatsKey(restaurantID)
	val, err := c.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableSeats はレストランの空席数をキャッシュに保存する
func (c *AvailabilityCache) SetAvailableSeats(ctx context.Context, restaurantID string, count int, ttl time.Duration) error {
	key := c.availableSeatsKey(restaurantID)
	err := c.client.Set(ctx, key, count, ttl).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はレストランのキャッシュを無効化する
// 座席数を変更するトランザクションのコミット後に必ず呼ぶ
func (c *AvailabilityCache) Invalidate(ctx context.Context, restaurantID string) error {
	key := c.availableSeatsKey(restaurantID)
	err := c.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) availableSeatsKey(restaurantID string) string {
	return fmt.Sprintf("restaurants:seats:%s", restaurantID)
}
