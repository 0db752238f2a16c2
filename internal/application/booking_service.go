package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-booking/internal/domain/booking"
	"github.com/sanosuguru/go-table-booking/internal/domain/restaurant"
	"github.com/sanosuguru/go-table-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-table-booking/internal/infrastructure/rabbitmq"
	redisinfra "github.com/sanosuguru/go-table-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-table-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-table-booking/internal/pkg/metrics"
)

// BookingService は座席在庫と予約レコードの整合性を守る中核サービス
// 座席数の読み書きは必ずストレージトランザクション内の再読込を経由し、
// クライアント側でのロックやカウンタのキャッシュ変更は行わない
type BookingService struct {
	txManager      transaction.Manager
	bookingRepo    booking.Repository
	restaurantRepo restaurant.Repository
	cache          *redisinfra.AvailabilityCache
	publisher      *rabbitmq.Publisher
	metrics        *metrics.Metrics
	now            func() time.Time
}

// NewBookingService はBookingServiceを作成する
// cache・publisher・metrics は nil 可（その場合は単に無効化される）
func NewBookingService(
	tm transaction.Manager,
	br booking.Repository,
	rr restaurant.Repository,
	cache *redisinfra.AvailabilityCache,
	publisher *rabbitmq.Publisher,
	m *metrics.Metrics,
) *BookingService {
	return &BookingService{
		txManager:      tm,
		bookingRepo:    br,
		restaurantRepo: rr,
		cache:          cache,
		publisher:      publisher,
		metrics:        m,
		now:            time.Now,
	}
}

// CreateBookingInput は予約作成の入力
type CreateBookingInput struct {
	UserID         string
	RestaurantName string
	Date           string
	Time           string
	NumberOfPeople int
}

// ValidateRequest は予約入力の純粋な検証を行う（I/Oなし）
func (s *BookingService) ValidateRequest(date, timeOfDay string, partySize int) error {
	return booking.ValidateRequest(date, timeOfDay, partySize, s.now())
}

// CreateBooking は予約を作成し、同一トランザクションで空席数を減算する
// レストラン名の解決はトランザクション外の前段ステップであり、
// 座席数の判定はトランザクション内の再読込の値で行う
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	// 名前→ID解決（非アトミック、完全一致の最初の1件）
	rest, err := s.restaurantRepo.GetByName(ctx, input.RestaurantName)
	if err != nil {
		s.countBooking("create", err)
		return nil, err
	}

	if input.UserID == "" {
		s.countBooking("create", booking.ErrUserNotAuthenticated)
		return nil, booking.ErrUserNotAuthenticated
	}

	b := booking.NewBooking(input.UserID, rest.ID, rest.Name, input.Date, input.Time, input.NumberOfPeople)
	if err := b.Validate(); err != nil {
		s.countBooking("create", err)
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.countBooking("create", err)
		return nil, txError(err)
	}
	defer tx.Rollback()

	// トランザクション内で空席数を再読込（コミット時点の値で判定する）
	current, err := s.restaurantRepo.GetByIDForUpdate(ctx, tx, rest.ID)
	if err != nil {
		s.countBooking("create", err)
		if errors.Is(err, restaurant.ErrRestaurantNotFound) {
			return nil, err
		}
		return nil, txError(err)
	}
	if !current.HasCapacity(b.NumberOfPeople) {
		s.countBooking("create", restaurant.ErrInsufficientSeats)
		return nil, restaurant.ErrInsufficientSeats
	}

	newSeats := current.AvailableSeats - b.NumberOfPeople
	if err := s.bookingRepo.Create(ctx, tx, b); err != nil {
		s.countBooking("create", err)
		return nil, txError(err)
	}
	if err := s.restaurantRepo.UpdateSeats(ctx, tx, rest.ID, newSeats); err != nil {
		s.countBooking("create", err)
		return nil, txError(err)
	}
	if err := tx.Commit(); err != nil {
		s.countBooking("create", err)
		return nil, txError(err)
	}

	s.afterSeatChange(ctx, rest.ID, newSeats)
	s.countBooking("create", nil)
	s.publishEvent(ctx, rabbitmq.RoutingKeyBookingCreated, b)
	return b, nil
}

// EditBookingInput は予約編集の入力
type EditBookingInput struct {
	BookingID    string
	NewDate      string
	NewTime      string
	NewPartySize int
}

// EditBooking は予約の日付・時刻・人数を更新し、人数差分 Δ を
// 同一トランザクションで空席数へ -Δ として反映する
// 時刻は再検証するが、14日以内の期間チェックは作成時のみ行う
func (s *BookingService) EditBooking(ctx context.Context, input EditBookingInput) error {
	if err := booking.ValidateTime(input.NewTime); err != nil {
		s.countBooking("edit", err)
		return err
	}
	if input.NewPartySize < 1 {
		s.countBooking("edit", booking.ErrPartySizeInvalid)
		return booking.ErrPartySizeInvalid
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.countBooking("edit", err)
		return txError(err)
	}
	defer tx.Rollback()

	b, err := s.bookingRepo.GetByIDForUpdate(ctx, tx, input.BookingID)
	if err != nil {
		s.countBooking("edit", err)
		if errors.Is(err, booking.ErrBookingNotFound) {
			return err
		}
		return txError(err)
	}
	rest, err := s.restaurantRepo.GetByIDForUpdate(ctx, tx, b.RestaurantID)
	if err != nil {
		s.countBooking("edit", err)
		if errors.Is(err, restaurant.ErrRestaurantNotFound) {
			return err
		}
		return txError(err)
	}

	// 補償調整: 新空席数 = 現空席数 + 旧人数 - 新人数
	newSeats := rest.AvailableSeats + b.NumberOfPeople - input.NewPartySize
	if newSeats < 0 {
		s.countBooking("edit", restaurant.ErrInsufficientSeats)
		return restaurant.ErrInsufficientSeats
	}

	b.Date = input.NewDate
	b.Time = input.NewTime
	b.NumberOfPeople = input.NewPartySize
	if err := s.restaurantRepo.UpdateSeats(ctx, tx, rest.ID, newSeats); err != nil {
		s.countBooking("edit", err)
		return txError(err)
	}
	if err := s.bookingRepo.UpdateDetails(ctx, tx, b); err != nil {
		s.countBooking("edit", err)
		if errors.Is(err, booking.ErrDateFormatInvalid) {
			return err
		}
		return txError(err)
	}
	if err := tx.Commit(); err != nil {
		s.countBooking("edit", err)
		return txError(err)
	}

	s.afterSeatChange(ctx, rest.ID, newSeats)
	s.countBooking("edit", nil)
	s.publishEvent(ctx, rabbitmq.RoutingKeyBookingUpdated, b)
	return nil
}

// DeleteBooking は予約を削除し、同一トランザクションで座席を復元する
// 既に削除済みの予約に対しては ErrBookingNotFound を返し、何も変更しない
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID string) error {
	b, newSeats, err := s.releaseBooking(ctx, bookingID)
	s.countBooking("delete", err)
	if err != nil {
		return err
	}
	s.afterSeatChange(ctx, b.RestaurantID, newSeats)
	s.publishEvent(ctx, rabbitmq.RoutingKeyBookingDeleted, b)
	return nil
}

// GetBooking はIDから予約を取得する
func (s *BookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// GetUserBookings はユーザーの予約一覧を取得する
func (s *BookingService) GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookingRepo.GetByUserID(ctx, userID, limit, offset)
}

// ReclaimExpired は予約日が過ぎた予約を回収し、座席を復元する
// 各予約の回収は独立したトランザクションで行い、1件の失敗が他を妨げない
// 結果はログとメトリクスにのみ現れる（ユーザーへは返さない）
func (s *BookingService) ReclaimExpired(ctx context.Context) (int, error) {
	runID := uuid.NewString()
	expired, err := s.bookingRepo.ListExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("期限切れ予約の取得に失敗: %w", err)
	}

	reclaimed := 0
	for _, b := range expired {
		released, newSeats, err := s.releaseBooking(ctx, b.ID)
		if err != nil {
			logger.Warn("期限切れ予約の回収に失敗",
				zap.String("run_id", runID),
				zap.String("booking_id", b.ID),
				zap.Error(err),
			)
			continue
		}
		reclaimed++
		s.afterSeatChange(ctx, released.RestaurantID, newSeats)
		if s.metrics != nil {
			s.metrics.ReclaimedBookingsTotal.Inc()
			s.metrics.ReclaimedSeatsTotal.Add(float64(released.NumberOfPeople))
		}
		s.publishEvent(ctx, rabbitmq.RoutingKeyBookingReclaimed, released)
		logger.Info("期限切れ予約を回収",
			zap.String("run_id", runID),
			zap.String("booking_id", released.ID),
			zap.String("restaurant_id", released.RestaurantID),
			zap.Int("restored_seats", released.NumberOfPeople),
		)
	}
	return reclaimed, nil
}

// releaseBooking は1件の予約を削除し座席を復元する共通トランザクション
// 削除と回収の両方で使う
func (s *BookingService) releaseBooking(ctx context.Context, bookingID string) (*booking.Booking, int, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, 0, txError(err)
	}
	defer tx.Rollback()

	b, err := s.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return nil, 0, err
		}
		return nil, 0, txError(err)
	}
	rest, err := s.restaurantRepo.GetByIDForUpdate(ctx, tx, b.RestaurantID)
	if err != nil {
		if errors.Is(err, restaurant.ErrRestaurantNotFound) {
			return nil, 0, err
		}
		return nil, 0, txError(err)
	}

	newSeats := rest.AvailableSeats + b.NumberOfPeople
	if err := s.restaurantRepo.UpdateSeats(ctx, tx, rest.ID, newSeats); err != nil {
		return nil, 0, txError(err)
	}
	if err := s.bookingRepo.Delete(ctx, tx, b.ID); err != nil {
		return nil, 0, txError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, txError(err)
	}
	return b, newSeats, nil
}

// afterSeatChange はコミット確定後のキャッシュ無効化とゲージ更新を行う
func (s *BookingService) afterSeatChange(ctx context.Context, restaurantID string, seats int) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, restaurantID); err != nil {
			logger.Warn("キャッシュ無効化エラー", zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.AvailableSeats.WithLabelValues(restaurantID).Set(float64(seats))
	}
}

// publishEvent は予約イベントをベストエフォートで発行する
func (s *BookingService) publishEvent(ctx context.Context, routingKey string, b *booking.Booking) {
	if s.publisher == nil {
		return
	}
	// 発行失敗は予約処理の結果に影響させない
	_ = s.publisher.Publish(ctx, routingKey, rabbitmq.BookingEvent{
		BookingID:      b.ID,
		UserID:         b.UserID,
		RestaurantID:   b.RestaurantID,
		RestaurantName: b.RestaurantName,
		Date:           b.Date,
		Time:           b.Time,
		NumberOfPeople: b.NumberOfPeople,
	})
}

// countBooking は予約操作の結果をメトリクスに記録する
func (s *BookingService) countBooking(operation string, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, restaurant.ErrInsufficientSeats):
		status = "insufficient_seats"
	case errors.Is(err, restaurant.ErrRestaurantNotFound), errors.Is(err, booking.ErrBookingNotFound):
		status = "not_found"
	case errors.Is(err, booking.ErrUserNotAuthenticated):
		status = "unauthenticated"
	case errors.Is(err, booking.ErrDateFormatInvalid), errors.Is(err, booking.ErrDateOutOfRange),
		errors.Is(err, booking.ErrTimeFormatInvalid), errors.Is(err, booking.ErrPartySizeInvalid):
		status = "invalid_input"
	default:
		status = "error"
	}
	s.metrics.BookingsTotal.WithLabelValues(operation, status).Inc()
}

// txError はストレージ由来の失敗を ErrTransactionFailed として包む
func txError(err error) error {
	return fmt.Errorf("%w: %v", booking.ErrTransactionFailed, err)
}
