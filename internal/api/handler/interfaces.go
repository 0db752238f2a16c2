package handler

import (
	"context"

	"github.com/sanosuguru/go-table-booking/internal/application"
	"github.com/sanosuguru/go-table-booking/internal/domain/booking"
	"github.com/sanosuguru/go-table-booking/internal/domain/restaurant"
)

// RestaurantServiceInterface はレストランサービスのインターフェース
type RestaurantServiceInterface interface {
	CreateRestaurant(ctx context.Context, input application.CreateRestaurantInput) (*restaurant.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*restaurant.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]*restaurant.Restaurant, error)
	CountAvailableSeats(ctx context.Context, restaurantID string) (int, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	ValidateRequest(date, timeOfDay string, partySize int) error
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
	GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error)
	EditBooking(ctx context.Context, input application.EditBookingInput) error
	DeleteBooking(ctx context.Context, bookingID string) error
	ReclaimExpired(ctx context.Context) (int, error)
}
