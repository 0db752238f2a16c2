package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-table-booking/internal/domain/booking"
	"github.com/sanosuguru/go-table-booking/internal/domain/transaction"
)

// bookingRow はDBの行を表す構造体
// booking_date はDATE型で保持し、境界で dd/MM/yyyy 文字列と相互変換する
// （文字列のままでは辞書順と時系列順が一致しないため）
type bookingRow struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	RestaurantID   string    `db:"restaurant_id"`
	RestaurantName string    `db:"restaurant_name"`
	BookingDate    time.Time `db:"booking_date"`
	BookingTime    string    `db:"booking_time"`
	NumberOfPeople int       `db:"number_of_people"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r *bookingRow) toEntity() *booking.Booking {
	return &booking.Booking{
		ID:             r.ID,
		UserID:         r.UserID,
		RestaurantID:   r.RestaurantID,
		RestaurantName: r.RestaurantName,
		Date:           r.BookingDate.Format(booking.DateLayout),
		Time:           r.BookingTime,
		NumberOfPeople: r.NumberOfPeople,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

const bookingColumns = `id, user_id, restaurant_id, restaurant_name, booking_date, booking_time, number_of_people, created_at, updated_at`

// BookingRepository は予約リポジトリのPostgreSQL実装
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository はBookingRepositoryを作成する
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create は新しい予約を作成し、採番されたIDをエンティティに書き戻す
func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	date, err := booking.ParseDate(b.Date)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bookings (user_id, restaurant_id, restaurant_name, booking_date, booking_time, number_of_people, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	if err := sqlxTx.QueryRowContext(ctx, query, b.UserID, b.RestaurantID, b.RestaurantName, date, b.Time, b.NumberOfPeople, b.CreatedAt, b.UpdatedAt).Scan(&b.ID); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDから予約を取得する
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	var row bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate は予約行をロックして取得する
// 編集・削除・回収が同一予約に並行しても二重復元が起きないようにする
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*booking.Booking, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, fmt.Errorf("トランザクションが不正です")
	}
	var row bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	if err := sqlxTx.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約ロック取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByUserID はユーザーIDから予約一覧を取得する
func (r *BookingRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY booking_date, booking_time LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*booking.Booking, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

// UpdateDetails は予約の日付・時刻・人数を更新する
func (r *BookingRepository) UpdateDetails(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	date, err := booking.ParseDate(b.Date)
	if err != nil {
		return err
	}
	query := `UPDATE bookings SET booking_date = $1, booking_time = $2, number_of_people = $3, updated_at = NOW() WHERE id = $4`
	result, err := sqlxTx.ExecContext(ctx, query, date, b.Time, b.NumberOfPeople, b.ID)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

// Delete は予約を削除する
func (r *BookingRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	result, err := sqlxTx.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("予約削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

// ListExpired は予約日が指定日より前の予約を取得する
func (r *BookingRepository) ListExpired(ctx context.Context, before time.Time) ([]*booking.Booking, error) {
	y, m, d := before.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_date < $1 ORDER BY booking_date`
	if err := r.db.SelectContext(ctx, &rows, query, day); err != nil {
		return nil, fmt.Errorf("期限切れ予約取得に失敗: %w", err)
	}
	result := make([]*booking.Booking, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

var _ booking.Repository = (*BookingRepository)(nil)
