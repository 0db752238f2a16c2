package restaurant

import (
	"context"

	"github.com/sanosuguru/go-table-booking/internal/domain/transaction"
)

// Repository はレストランリポジトリのインターフェース
type Repository interface {
	// Create は新しいレストランを作成する（外部シード用）
	Create(ctx context.Context, r *Restaurant) error

	// GetByID はIDからレストランを取得する
	GetByID(ctx context.Context, id string) (*Restaurant, error)

	// GetByName は表示名からレストランを取得する（完全一致、最初の1件）
	// 予約トランザクションの前段で行う非アトミックな名前解決にのみ使用する
	GetByName(ctx context.Context, name string) (*Restaurant, error)

	// List はレストラン一覧を取得する
	List(ctx context.Context) ([]*Restaurant, error)

	// GetByIDForUpdate はレストラン行をロックして取得する（トランザクション必須）
	// 同一レストランへの並行座席変更を直列化する唯一の手段
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Restaurant, error)

	// UpdateSeats は空席数を更新する（トランザクション必須）
	UpdateSeats(ctx context.Context, tx transaction.Tx, id string, availableSeats int) error

	// CountAvailableSeats はレストランの現在の空席数を取得する
	CountAvailableSeats(ctx context.Context, id string) (int, error)
}
