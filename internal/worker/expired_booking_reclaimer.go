package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-booking/internal/pkg/logger"
)

// BookingReclaimer は期限切れ予約を回収するインターフェース
type BookingReclaimer interface {
	ReclaimExpired(ctx context.Context) (int, error)
}

// ExpiredBookingReclaimer は予約日が過ぎた予約の座席を回収するワーカー
// 回収自体は予約1件ごとの独立したトランザクションで行われ、
// ここでは起動のリズムだけを管理する
type ExpiredBookingReclaimer struct {
	bookingService BookingReclaimer
	interval       time.Duration
	stopCh         chan struct{}
	doneCh         chan struct{}
}

// NewExpiredBookingReclaimer は新しいリクレイマーを作成
func NewExpiredBookingReclaimer(bs BookingReclaimer, interval time.Duration) *ExpiredBookingReclaimer {
	return &ExpiredBookingReclaimer{
		bookingService: bs,
		interval:       interval,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start はリクレイマーを開始
func (r *ExpiredBookingReclaimer) Start(ctx context.Context) {
	logger.Info("期限切れ予約リクレイマー開始",
		zap.Duration("interval", r.interval),
	)

	// 起動直後に1回実行（アプリ起動をトリガーとする回収）
	r.reclaim(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れ予約リクレイマー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("期限切れ予約リクレイマー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.reclaim(ctx)
		}
	}
}

// Stop はリクレイマーを停止
func (r *ExpiredBookingReclaimer) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// reclaim は期限切れ予約を回収する
// 失敗はログに残すだけで、バッチ全体を止めることはない
func (r *ExpiredBookingReclaimer) reclaim(ctx context.Context) {
	log := logger.Get()
	log.Debug("期限切れ予約の回収開始")

	count, err := r.bookingService.ReclaimExpired(ctx)
	if err != nil {
		log.Error("期限切れ予約の回収失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("期限切れ予約を回収", zap.Int("count", count))
	} else {
		log.Debug("期限切れ予約なし")
	}
}
