package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-table-booking/internal/domain/restaurant"
	"github.com/sanosuguru/go-table-booking/internal/domain/transaction"
)

// restaurantRow はDBの行を表す構造体
type restaurantRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	ImageURL       *string   `db:"image_url"`
	Description    *string   `db:"description"`
	Location       *string   `db:"location"`
	AvailableSeats int       `db:"available_seats"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r *restaurantRow) toEntity() *restaurant.Restaurant {
	var imageURL, desc, loc string
	if r.ImageURL != nil {
		imageURL = *r.ImageURL
	}
	if r.Description != nil {
		desc = *r.Description
	}
	if r.Location != nil {
		loc = *r.Location
	}
	return &restaurant.Restaurant{
		ID:             r.ID,
		Name:           r.Name,
		ImageURL:       imageURL,
		Description:    desc,
		Location:       loc,
		AvailableSeats: r.AvailableSeats,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

const restaurantColumns = `id, name, image_url, description, location, available_seats, created_at, updated_at`

// RestaurantRepository はレストランリポジトリのPostgreSQL実装
type RestaurantRepository struct {
	db *sqlx.DB
}

// NewRestaurantRepository はRestaurantRepositoryを作成する
func NewRestaurantRepository(db *sqlx.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// Create は新しいレストランを作成する
func (r *RestaurantRepository) Create(ctx context.Context, e *restaurant.Restaurant) error {
	query := `
		INSERT INTO restaurants (name, image_url, description, location, available_seats, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var imageURL, desc, loc *string
	if e.ImageURL != "" {
		imageURL = &e.ImageURL
	}
	if e.Description != "" {
		desc = &e.Description
	}
	if e.Location != "" {
		loc = &e.Location
	}
	if err := r.db.QueryRowContext(ctx, query, e.Name, imageURL, desc, loc, e.AvailableSeats, e.CreatedAt, e.UpdatedAt).Scan(&e.ID); err != nil {
		return fmt.Errorf("レストラン作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDからレストランを取得する
func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*restaurant.Restaurant, error) {
	var row restaurantRow
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, restaurant.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("レストラン取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByName は表示名からレストランを取得する（完全一致、作成順で最初の1件）
func (r *RestaurantRepository) GetByName(ctx context.Context, name string) (*restaurant.Restaurant, error) {
	var row restaurantRow
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE name = $1 ORDER BY created_at LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, restaurant.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("レストラン名検索に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// List はレストラン一覧を名前順で取得する
func (r *RestaurantRepository) List(ctx context.Context) ([]*restaurant.Restaurant, error) {
	var rows []restaurantRow
	query := `SELECT ` + restaurantColumns + ` FROM restaurants ORDER BY name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("レストラン一覧取得に失敗: %w", err)
	}
	restaurants := make([]*restaurant.Restaurant, len(rows))
	for i, row := range rows {
		restaurants[i] = row.toEntity()
	}
	return restaurants, nil
}

// GetByIDForUpdate はレストラン行をロックして取得する
// トランザクション内での再読込により、座席数の読み書きをストレージ側で直列化する
func (r *RestaurantRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*restaurant.Restaurant, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, fmt.Errorf("トランザクションが不正です")
	}
	var row restaurantRow
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1 FOR UPDATE`
	if err := sqlxTx.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, restaurant.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("レストランロック取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// UpdateSeats は空席数を更新する
// available_seats には CHECK (available_seats >= 0) 制約があり、負の値はコミットできない
func (r *RestaurantRepository) UpdateSeats(ctx context.Context, tx transaction.Tx, id string, availableSeats int) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	query := `UPDATE restaurants SET available_seats = $1, updated_at = NOW() WHERE id = $2`
	result, err := sqlxTx.ExecContext(ctx, query, availableSeats, id)
	if err != nil {
		return fmt.Errorf("空席数更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return restaurant.ErrRestaurantNotFound
	}
	return nil
}

// CountAvailableSeats はレストランの現在の空席数を取得する
func (r *RestaurantRepository) CountAvailableSeats(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT available_seats FROM restaurants WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, restaurant.ErrRestaurantNotFound
		}
		return 0, fmt.Errorf("空席数取得に失敗: %w", err)
	}
	return count, nil
}

var _ restaurant.Repository = (*RestaurantRepository)(nil)
