package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-table-booking/internal/domain/booking"
	"github.com/sanosuguru/go-table-booking/internal/domain/restaurant"
	"github.com/sanosuguru/go-table-booking/internal/domain/transaction"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockBookingRepository implements booking.Repository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*booking.Booking, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateDetails(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) ListExpired(ctx context.Context, before time.Time) ([]*booking.Booking, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

// MockRestaurantRepository implements restaurant.Repository
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) Create(ctx context.Context, r *restaurant.Restaurant) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRestaurantRepository) GetByID(ctx context.Context, id string) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByName(ctx context.Context, name string) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) List(ctx context.Context) ([]*restaurant.Restaurant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*restaurant.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) UpdateSeats(ctx context.Context, tx transaction.Tx, id string, availableSeats int) error {
	args := m.Called(ctx, tx, id, availableSeats)
	return args.Error(0)
}

func (m *MockRestaurantRepository) CountAvailableSeats(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// === Test helper ===

type testDeps struct {
	txManager *MockTxManager
	tx        *MockTx
	bookRepo  *MockBookingRepository
	restRepo  *MockRestaurantRepository
	service   *BookingService
}

func newTestDeps() *testDeps {
	txm := new(MockTxManager)
	tx := new(MockTx)
	bookRepo := new(MockBookingRepository)
	restRepo := new(MockRestaurantRepository)

	service := NewBookingService(txm, bookRepo, restRepo, nil, nil, nil)
	// テストの基準日を固定する
	service.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}

	return &testDeps{
		txManager: txm,
		tx:        tx,
		bookRepo:  bookRepo,
		restRepo:  restRepo,
		service:   service,
	}
}

// === Tests ===

func TestBookingService_CreateBooking_Success(t *testing.T) {
	deps := newTestDeps()
	ctx := context.Background()

	input := CreateBookingInput{
		UserID:         "user-1",
		RestaurantName: "トラットリア青山",
		Date:           "05/06/2025",
		Time:           "19:00",
		NumberOfPeople: 4,
	}

	rest := &restaurant.Restaurant{ID: "rest-1", Name: "トラットリア青山", AvailableSeats: 10}
	deps.restRepo.On("GetByName", ctx, "トラットリア青山").Return(rest, nil)

	deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
	deps.tx.On("Rollback").Return(nil)
	deps.tx.On("Commit").Return(nil)

	locked := &restaurant.Restaurant{ID: "rest-1", Name: "トラットリア青山", AvailableSeats: 10}
	deps.restRepo.On("GetByIDForUpdate", ctx, deps.tx, "rest-1").Return(locked, nil)

	deps.bookRepo.On("Create", ctx, deps.tx, mock.AnythingOfType("*booking.Booking")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*booking.Booking).ID = "booking-1"
		}).
		Return(nil)
	// 10席から4人分を減算して6席になる
	deps.restRepo.On("UpdateSeats", ctx, deps.tx, "rest-1", 6).Return(nil)

	b, err := deps.service.CreateBooking(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "booking-1", b.ID)
	assert.Equal(t, "rest-1", b.RestaurantID)
	assert.Equal(t, 4, b.NumberOfPeople)

	deps.restRepo.AssertExpectations(t)
	deps.bookRepo.AssertExpectations(t)
	deps.tx.AssertCalled(t, "Commit")
}

func TestBookingService_CreateBooking_InsufficientSeats(t *testing.T) {
	deps := newTestDeps()
	ctx := context.Background()

	input := CreateBookingInput{
		UserID:         "user-1",
		RestaurantName: "トラットリア青山",
		Date:           "05/06/2025",
		Time:           "19:00",
		NumberOfPeople: 7,
	}

	rest := &restaurant.Restaurant{ID: "rest-1", Name: "トラットリア青山", AvailableSeats: 6}
	deps.restRepo.On("GetByName", ctx, "トラットリア青山").Return(rest, nil)

	deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
	deps.tx.On("Rollback").Return(nil)
	deps.restRepo.On("GetByIDForUpdate", ctx, deps.tx, "rest-1").Return(rest, nil)

	_, err := deps.service.CreateBooking(ctx, input)
	assert.ErrorIs(t, err, restaurant.ErrInsufficientSeats)

	// 予約作成も座席更新も呼ばれない
	deps.bookRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	deps.restRepo.AssertNotCalled(t, "UpdateSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	deps.tx.AssertNotCalled(t, "Commit")
	deps.tx.AssertCalled(t, "Rollback")
}

func TestBookingService_CreateBooking_RestaurantNotFound(t *testing.T) {
	deps := newTestDeps()
	ctx := context.Background()

	deps.restRepo.On("GetByName", ctx, "存在しない店").
		Return(nil, restaurant.ErrRestaurantNotFound)

	_, err := deps.service.CreateBooking(ctx, CreateBookingInput{
		UserID:         "user-1",
		RestaurantName: "存在しない店",
		Date:           "05/06/2025",
		Time:           "19:00",
		NumberOfPeople: 2,
	})
	assert.ErrorIs(t, err, restaurant.ErrRestaurantNotFound)
	deps.txManager.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestBookingService_CreateBooking_Unauthenticated(t *testing.T) {
	deps := newTestDeps()
	ctx := context.Background()

	// 認証チェックは名前解決の後に行われる
	rest := &restaurant.Restaurant{ID: "rest-1", Name: "トラットリア青山", AvailableSeats: 10}
	deps.restRepo.On("GetByName", ctx, "トラットリア青山").Return(rest, nil)

	_, err := deps.service.CreateBooking(ctx, CreateBookingInput{
		UserID:         "",
		RestaurantName: "トラットリア青山",
		Date:           "05/06/2025",
		Time:           "19:00",
		NumberOfPeople: 2,
	})
	assert.ErrorIs(t, err, booking.ErrUserNotAuthenticated)

	deps.restRepo.AssertCalled(t, "GetByName", ctx, "トラットリア青山")
	deps.txManager.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestBookingService_CreateBooking_CommitError(t *testing.T) {
	deps := newTestDeps()
	ctx := context.Background()

	rest := &restaurant.Restaurant{ID: "rest-1", Name: "トラットリア青山", AvailableSeats: 10}
	deps.restRepo.On("GetByName", ctx, "トラットリア青山").Return(rest, nil)
	deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
	deps.tx.On("Rollback").Return(nil)
	deps.restRepo.On("GetByIDForUpdate", ctx, deps.tx, "rest-1").Return(rest, nil)
	deps.bookRepo.On("Create", ctx, deps.tx, mock.AnythingOfType("*booking.Booking")).Return(nil)
	deps.restRepo.On("UpdateSeats", ctx, deps.tx, "rest-1", 8).Return(nil)
	deps.tx.On("Commit").Return(errors.New("connection lost"))

	_, err := deps.service.CreateBooking(ctx, CreateBookingInput{
		UserID:         "user-1",
		RestaurantName: "トラットリア青山",
		Date:           "05/06/2025",
		Time:           "19:00",
		NumberOfPeople: 2,
	})
	assert.ErrorIs(t, err, booking.ErrTransactionFailed)
}

func TestBookingService_EditBooking(t *testing.T) {
	t.Run("人数変更の差分が空席数に反映される", func(t *testing.T) {
		deps := newTestDeps()
		ctx := context.Background()

		deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
		deps.tx.On("Rollback").Return(nil)
		deps.tx.On("Commit").Return(nil)

		b := &booking.Booking{
			ID: "booking-1", UserID: "user-1", RestaurantID: "rest-1",
			Date: "05/06/2025", Time: "19:00", NumberOfPeople: 3,
		}
		deps.bookRepo.On("GetByIDForUpdate", ctx, deps.tx, "booking-1").Return(b, nil)

		rest := &restaurant.Restaurant{ID: "rest-1", AvailableSeats: 6}
		deps.restRepo.On("GetByIDForUpdate", ctx, deps.tx, "rest-1").Return(rest, nil)

		// 6 + 3 - 5 = 4席
		deps.restRepo.On("UpdateSeats", ctx, deps.tx, "rest-1", 4).Return(nil)
		deps.bookRepo.On("UpdateDetails", ctx, deps.tx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		err := deps.service.EditBooking(ctx, EditBookingInput{
			BookingID:    "booking-1",
			NewDate:      "06/06/2025",
			NewTime:      "20:00",
			NewPartySize: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, 5, b.NumberOfPeople)
		assert.Equal(t, "06/06/2025", b.Date)
		assert.Equal(t, "20:00", b.Time)
		deps.restRepo.AssertExpectations(t)
	})

	t.Run("人数を減らすと空席数が増える", func(t *testing.T) {
		deps := newTestDeps()
		ctx := context.Background()

		deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
		deps.tx.On("Rollback").Return(nil)
		deps.tx.On("Commit").Return(nil)

		b := &booking.Booking{
			ID: "booking-1", UserID: "user-1", RestaurantID: "rest-1",
			Date: "05/06/2025", Time: "19:00", NumberOfPeople: 6,
		}
		deps.bookRepo.On("GetByIDForUpdate", ctx, deps.tx, "booking-1").Return(b, nil)
		deps.restRepo.On("GetByIDForUpdate", ctx, deps.tx, "rest-1").
			Return(&restaurant.Restaurant{ID: "rest-1", AvailableSeats: 0}, nil)

		// 0 + 6 - 2 = 4席
		deps.restRepo.On("UpdateSeats", ctx, deps.tx, "rest-1", 4).Return(nil)
		deps.bookRepo.On("UpdateDetails", ctx, deps.tx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		err := deps.service.EditBooking(ctx, EditBookingInput{
			BookingID:    "booking-1",
			NewDate:      "05/06/2025",
			NewTime:      "19:00",
			NewPartySize: 2,
		})
		require.NoError(t, err)
	})

	t.Run("増員分の空席がない場合はエラー", func(t *testing.T) {
		deps := newTestDeps()
		ctx := context.Background()

		deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
		deps.tx.On("Rollback").Return(nil)

		b := &booking.Booking{
			ID: "booking-1", UserID: "user-1", RestaurantID: "rest-1",
			Date: "05/06/2025", Time: "19:00", NumberOfPeople: 2,
		}
		deps.bookRepo.On("GetByIDForUpdate", ctx, deps.tx, "booking-1").Return(b, nil)
		deps.restRepo.On("GetByIDForUpdate", ctx, deps.tx, "rest-1").
			Return(&restaurant.Restaurant{ID: "rest-1", AvailableSeats: 1}, nil)

		// 1 + 2 - 6 = -3 で負になる
		err := deps.service.EditBooking(ctx, EditBookingInput{
			BookingID:    "booking-1",
			NewDate:      "05/06/2025",
			NewTime:      "19:00",
			NewPartySize: 6,
		})
		assert.ErrorIs(t, err, restaurant.ErrInsufficientSeats)
		deps.restRepo.AssertNotCalled(t, "UpdateSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		deps.tx.AssertNotCalled(t, "Commit")
	})

	t.Run("時刻形式が不正な場合はトランザクションを開始しない", func(t *testing.T) {
		deps := newTestDeps()

		err := deps.service.EditBooking(context.Background(), EditBookingInput{
			BookingID:    "booking-1",
			NewDate:      "05/06/2025",
			NewTime:      "25:00",
			NewPartySize: 2,
		})
		assert.ErrorIs(t, err, booking.ErrTimeFormatInvalid)
		deps.txManager.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("人数が1未満の場合はエラー", func(t *testing.T) {
		deps := newTestDeps()

		err := deps.service.EditBooking(context.Background(), EditBookingInput{
			BookingID:    "booking-1",
			NewDate:      "05/06/2025",
			NewTime:      "19:00",
			NewPartySize: 0,
		})
		assert.ErrorIs(t, err, booking.ErrPartySizeInvalid)
		deps.txManager.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("予約が存在しない場合はエラー", func(t *testing.T) {
		deps := newTestDeps()
		ctx := context.Background()

		deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
		deps.tx.On("Rollback").Return(nil)
		deps.bookRepo.On("GetByIDForUpdate", ctx, deps.tx, "missing").
			Return(nil, booking.ErrBookingNotFound)

		err := deps.service.EditBooking(ctx, EditBookingInput{
			BookingID:    "missing",
			NewDate:      "05/06/2025",
			NewTime:      "19:00",
			NewPartySize: 2,
		})
		assert.ErrorIs(t, err, booking.ErrBookingNotFound)
	})
}

func TestBookingService_DeleteBooking(t *testing.T) {
	t.Run("削除で座席が復元される", func(t *testing.T) {
		deps := newTestDeps()
		ctx := context.Background()

		deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
		deps.tx.On("Rollback").Return(nil)
		deps.tx.On("Commit").Return(nil)

		b := &booking.Booking{
			ID: "booking-1", UserID: "user-1", RestaurantID: "rest-1",
			Date: "05/06/2025", Time: "19:00", NumberOfPeople: 4,
		}
		deps.bookRepo.On("GetByIDForUpdate", ctx, deps.tx, "booking-1").Return(b, nil)
		deps.restRepo.On("GetByIDForUpdate", ctx, deps.tx, "rest-1").
			Return(&restaurant.Restaurant{ID: "rest-1", AvailableSeats: 6}, nil)

		// 6 + 4 = 10席に戻る
		deps.restRepo.On("UpdateSeats", ctx, deps.tx, "rest-1", 10).Return(nil)
		deps.bookRepo.On("Delete", ctx, deps.tx, "booking-1").Return(nil)

		err := deps.service.DeleteBooking(ctx, "booking-1")
		require.NoError(t, err)
		deps.restRepo.AssertExpectations(t)
		deps.bookRepo.AssertExpectations(t)
	})

	t.Run("存在しない予約の削除は何も変更しない", func(t *testing.T) {
		deps := newTestDeps()
		ctx := context.Background()

		deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
		deps.tx.On("Rollback").Return(nil)
		deps.bookRepo.On("GetByIDForUpdate", ctx, deps.tx, "gone").
			Return(nil, booking.ErrBookingNotFound)

		err := deps.service.DeleteBooking(ctx, "gone")
		assert.ErrorIs(t, err, booking.ErrBookingNotFound)

		// 二重復元は起きない
		deps.restRepo.AssertNotCalled(t, "UpdateSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		deps.tx.AssertNotCalled(t, "Commit")
	})
}

func TestBookingService_ReclaimExpired(t *testing.T) {
	t.Run("期限切れ予約を回収して座席を復元する", func(t *testing.T) {
		deps := newTestDeps()
		ctx := context.Background()

		expired := []*booking.Booking{
			{ID: "booking-1", RestaurantID: "rest-1", Date: "30/05/2025", Time: "19:00", NumberOfPeople: 2},
			{ID: "booking-2", RestaurantID: "rest-1", Date: "31/05/2025", Time: "12:00", NumberOfPeople: 3},
		}
		deps.bookRepo.On("ListExpired", ctx, mock.AnythingOfType("time.Time")).Return(expired, nil)

		deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
		deps.tx.On("Rollback").Return(nil)
		deps.tx.On("Commit").Return(nil)

		deps.bookRepo.On("GetByIDForUpdate", ctx, deps.tx, "booking-1").Return(expired[0], nil)
		deps.bookRepo.On("GetByIDForUpdate", ctx, deps.tx, "booking-2").Return(expired[1], nil)
		deps.restRepo.On("GetByIDForUpdate", ctx, deps.tx, "rest-1").
			Return(&restaurant.Restaurant{ID: "rest-1", AvailableSeats: 5}, nil)
		deps.restRepo.On("UpdateSeats", ctx, deps.tx, "rest-1", 7).Return(nil).Once()
		deps.restRepo.On("UpdateSeats", ctx, deps.tx, "rest-1", 8).Return(nil).Once()
		deps.bookRepo.On("Delete", ctx, deps.tx, "booking-1").Return(nil)
		deps.bookRepo.On("Delete", ctx, deps.tx, "booking-2").Return(nil)

		count, err := deps.service.ReclaimExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("1件の失敗が他の回収を妨げない", func(t *testing.T) {
		deps := newTestDeps()
		ctx := context.Background()

		expired := []*booking.Booking{
			{ID: "booking-1", RestaurantID: "rest-1", Date: "30/05/2025", Time: "19:00", NumberOfPeople: 2},
			{ID: "booking-2", RestaurantID: "rest-1", Date: "31/05/2025", Time: "12:00", NumberOfPeople: 3},
		}
		deps.bookRepo.On("ListExpired", ctx, mock.AnythingOfType("time.Time")).Return(expired, nil)

		deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
		deps.tx.On("Rollback").Return(nil)
		deps.tx.On("Commit").Return(nil)

		// 1件目はロック取得に失敗する
		deps.bookRepo.On("GetByIDForUpdate", ctx, deps.tx, "booking-1").
			Return(nil, errors.New("deadlock detected"))
		deps.bookRepo.On("GetByIDForUpdate", ctx, deps.tx, "booking-2").Return(expired[1], nil)
		deps.restRepo.On("GetByIDForUpdate", ctx, deps.tx, "rest-1").
			Return(&restaurant.Restaurant{ID: "rest-1", AvailableSeats: 5}, nil)
		deps.restRepo.On("UpdateSeats", ctx, deps.tx, "rest-1", 8).Return(nil)
		deps.bookRepo.On("Delete", ctx, deps.tx, "booking-2").Return(nil)

		count, err := deps.service.ReclaimExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("一覧取得の失敗はエラーを返す", func(t *testing.T) {
		deps := newTestDeps()
		ctx := context.Background()

		deps.bookRepo.On("ListExpired", ctx, mock.AnythingOfType("time.Time")).
			Return(nil, errors.New("db down"))

		count, err := deps.service.ReclaimExpired(ctx)
		assert.Error(t, err)
		assert.Zero(t, count)
	})
}

func TestBookingService_ValidateRequest(t *testing.T) {
	deps := newTestDeps()

	// 基準日は 2025-06-01 に固定してある
	tests := []struct {
		name      string
		date      string
		timeOfDay string
		partySize int
		wantErr   error
	}{
		{"有効なリクエスト", "05/06/2025", "19:00", 4, nil},
		{"存在しない日付", "31/02/2025", "19:00", 2, booking.ErrDateFormatInvalid},
		{"19日後は範囲外", "20/06/2025", "19:00", 2, booking.ErrDateOutOfRange},
		{"不正な時刻", "05/06/2025", "7pm", 2, booking.ErrTimeFormatInvalid},
		{"人数ゼロ", "05/06/2025", "19:00", 0, booking.ErrPartySizeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := deps.service.ValidateRequest(tt.date, tt.timeOfDay, tt.partySize)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBookingService_GetUserBookings(t *testing.T) {
	deps := newTestDeps()
	ctx := context.Background()

	t.Run("limit未指定はデフォルト20件", func(t *testing.T) {
		deps.bookRepo.On("GetByUserID", ctx, "user-1", 20, 0).Return([]*booking.Booking{}, nil).Once()
		_, err := deps.service.GetUserBookings(ctx, "user-1", 0, 0)
		require.NoError(t, err)
	})

	t.Run("limitの上限は100件", func(t *testing.T) {
		deps.bookRepo.On("GetByUserID", ctx, "user-1", 100, 0).Return([]*booking.Booking{}, nil).Once()
		_, err := deps.service.GetUserBookings(ctx, "user-1", 500, 0)
		require.NoError(t, err)
	})

	deps.bookRepo.AssertExpectations(t)
}
