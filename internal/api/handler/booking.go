package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-table-booking/internal/application"
	"github.com/sanosuguru/go-table-booking/internal/domain/booking"
	"github.com/sanosuguru/go-table-booking/internal/domain/restaurant"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

// CreateBookingRequest は予約作成リクエスト
// number_of_people は生のテキスト入力のまま受け取り、
// 未入力・解析不能な場合は1人にフォールバックする
type CreateBookingRequest struct {
	RestaurantName string `json:"restaurant_name" validate:"required" example:"Trattoria Sano"`
	Date           string `json:"date" validate:"required" example:"14/06/2025"`
	Time           string `json:"time" validate:"required" example:"19:30"`
	NumberOfPeople string `json:"number_of_people" example:"4"`
}

// EditBookingRequest は予約編集リクエスト
type EditBookingRequest struct {
	Date           string `json:"date" validate:"required" example:"15/06/2025"`
	Time           string `json:"time" validate:"required" example:"20:00"`
	NumberOfPeople string `json:"number_of_people" example:"2"`
}

type BookingResponse struct {
	ID             string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID         string `json:"user_id" example:"user-123"`
	RestaurantID   string `json:"restaurant_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	RestaurantName string `json:"restaurant_name" example:"Trattoria Sano"`
	Date           string `json:"date" example:"14/06/2025"`
	Time           string `json:"time" example:"19:30"`
	NumberOfPeople int    `json:"number_of_people" example:"4"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, UserID: b.UserID,
		RestaurantID: b.RestaurantID, RestaurantName: b.RestaurantName,
		Date: b.Date, Time: b.Time, NumberOfPeople: b.NumberOfPeople,
	}
}

// bookingErrorToHTTP はドメインエラーをHTTPエラーへ変換する
func bookingErrorToHTTP(err error) error {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound), errors.Is(err, restaurant.ErrRestaurantNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrUserNotAuthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, restaurant.ErrInsufficientSeats):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrDateFormatInvalid),
		errors.Is(err, booking.ErrDateOutOfRange),
		errors.Is(err, booking.ErrTimeFormatInvalid),
		errors.Is(err, booking.ErrPartySizeInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// Create godoc
// @Summary 予約を作成
// @Description レストラン名を解決し、空席があれば座席を確保して予約を作成します
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string "レストランが存在しない"
// @Failure 409 {object} map[string]string "空席不足"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	partySize := booking.ParsePartySize(req.NumberOfPeople)
	if err := h.service.ValidateRequest(req.Date, req.Time, partySize); err != nil {
		return bookingErrorToHTTP(err)
	}

	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		UserID:         userID,
		RestaurantName: req.RestaurantName,
		Date:           req.Date,
		Time:           req.Time,
		NumberOfPeople: partySize,
	})
	if err != nil {
		return bookingErrorToHTTP(err)
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// GetByID godoc
// @Summary 予約を取得
// @Description 指定IDの予約を取得します
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	b, err := h.service.GetBooking(c.Request().Context(), id)
	if err != nil {
		return bookingErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// GetUserBookings godoc
// @Summary ユーザーの予約一覧を取得
// @Description ログインユーザーの予約一覧を取得します
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} BookingResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) GetUserBookings(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, booking.ErrUserNotAuthenticated.Error())
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	bookings, err := h.service.GetUserBookings(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}

// Edit godoc
// @Summary 予約を編集
// @Description 日付・時刻・人数を更新し、人数差分を空席数へ反映します
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "予約ID"
// @Param request body EditBookingRequest true "更新内容"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "空席不足"
// @Router /bookings/{id} [put]
func (h *BookingHandler) Edit(c echo.Context) error {
	id := c.Param("id")
	var req EditBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.service.EditBooking(c.Request().Context(), application.EditBookingInput{
		BookingID:    id,
		NewDate:      req.Date,
		NewTime:      req.Time,
		NewPartySize: booking.ParsePartySize(req.NumberOfPeople),
	})
	if err != nil {
		return bookingErrorToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete godoc
// @Summary 予約を削除
// @Description 予約を削除し、確保していた座席を復元します
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.DeleteBooking(c.Request().Context(), id); err != nil {
		return bookingErrorToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
