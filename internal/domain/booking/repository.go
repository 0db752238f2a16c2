package booking

import (
	"context"
	"time"

	"github.com/sanosuguru/go-table-booking/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	// IDはストレージ側で採番され、エンティティに書き戻される
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Booking, error)

	// GetByIDForUpdate は予約行をロックして取得する（トランザクション必須）
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Booking, error)

	// GetByUserID はユーザーIDから予約一覧を取得する
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*Booking, error)

	// UpdateDetails は予約の日付・時刻・人数を更新する（トランザクション必須）
	UpdateDetails(ctx context.Context, tx transaction.Tx, b *Booking) error

	// Delete は予約を削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id string) error

	// ListExpired は予約日が指定日より前の予約を取得する
	ListExpired(ctx context.Context, before time.Time) ([]*Booking, error)
}
