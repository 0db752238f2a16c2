package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-booking/internal/pkg/logger"
)

const (
	// ExchangeName は予約ライフサイクルイベント用のエクスチェンジ名
	ExchangeName = "bookings"
	// ExchangeKind はトピックエクスチェンジ
	ExchangeKind = "topic"
)

// ルーティングキー
const (
	RoutingKeyBookingCreated   = "booking.created"
	RoutingKeyBookingUpdated   = "booking.updated"
	RoutingKeyBookingDeleted   = "booking.deleted"
	RoutingKeyBookingReclaimed = "booking.reclaimed"
)

// BookingEvent は下流（通知サービス等）へ流す予約イベントのペイロード
type BookingEvent struct {
	BookingID      string `json:"booking_id"`
	UserID         string `json:"user_id"`
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	NumberOfPeople int    `json:"number_of_people"`
}

// Publisher は予約イベントをRabbitMQへ発行する
// ベストエフォートであり、発行失敗が予約処理の結果に影響してはならない
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher はブローカーへ接続しPublisherを作成する
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("RabbitMQ接続に失敗: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("RabbitMQチャネル作成に失敗: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, ExchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("エクスチェンジ宣言に失敗: %w", err)
	}

	return &Publisher{conn: conn, channel: ch}, nil
}

// Publish は予約イベントを発行する
// エラーはログに残して呼び出し側へ返すが、呼び出し側は無視してよい
func (p *Publisher) Publish(ctx context.Context, routingKey string, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("イベントのシリアライズに失敗: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, ExchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		logger.Warn("予約イベント発行に失敗",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		return fmt.Errorf("イベント発行に失敗: %w", err)
	}

	logger.Debug("予約イベント発行",
		zap.String("routing_key", routingKey),
		zap.String("booking_id", event.BookingID),
	)
	return nil
}

// Close は接続を閉じる
func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
