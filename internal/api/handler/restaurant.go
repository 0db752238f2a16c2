package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-table-booking/internal/application"
	"github.com/sanosuguru/go-table-booking/internal/domain/restaurant"
)

type RestaurantHandler struct {
	service RestaurantServiceInterface
}

func NewRestaurantHandler(s RestaurantServiceInterface) *RestaurantHandler {
	return &RestaurantHandler{service: s}
}

// CreateRestaurantRequest はレストラン登録リクエスト（外部シード用）
type CreateRestaurantRequest struct {
	Name           string `json:"name" validate:"required" example:"Trattoria Sano"`
	ImageURL       string `json:"image_url" example:"https://example.com/sano.jpg"`
	Description    string `json:"description" example:"下町のイタリアン"`
	Location       string `json:"location" example:"東京都台東区"`
	AvailableSeats int    `json:"available_seats" validate:"gte=0" example:"20"`
}

type RestaurantResponse struct {
	ID             string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name           string `json:"name" example:"Trattoria Sano"`
	ImageURL       string `json:"image_url,omitempty"`
	Description    string `json:"description,omitempty"`
	Location       string `json:"location,omitempty"`
	AvailableSeats int    `json:"available_seats" example:"20"`
}

func toRestaurantResponse(r *restaurant.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID: r.ID, Name: r.Name, ImageURL: r.ImageURL,
		Description: r.Description, Location: r.Location,
		AvailableSeats: r.AvailableSeats,
	}
}

// Create godoc
// @Summary レストランを登録
// @Description レストランを登録します（シード用の管理操作）
// @Tags restaurants
// @Accept json
// @Produce json
// @Param request body CreateRestaurantRequest true "レストラン情報"
// @Success 201 {object} RestaurantResponse
// @Failure 400 {object} map[string]string
// @Router /restaurants [post]
func (h *RestaurantHandler) Create(c echo.Context) error {
	var req CreateRestaurantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	r, err := h.service.CreateRestaurant(c.Request().Context(), application.CreateRestaurantInput{
		Name:           req.Name,
		ImageURL:       req.ImageURL,
		Description:    req.Description,
		Location:       req.Location,
		AvailableSeats: req.AvailableSeats,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toRestaurantResponse(r))
}

// List godoc
// @Summary レストラン一覧を取得
// @Description 登録済みレストランの一覧を取得します
// @Tags restaurants
// @Produce json
// @Success 200 {array} RestaurantResponse
// @Router /restaurants [get]
func (h *RestaurantHandler) List(c echo.Context) error {
	restaurants, err := h.service.ListRestaurants(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]RestaurantResponse, len(restaurants))
	for i, r := range restaurants {
		resp[i] = toRestaurantResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary レストランを取得
// @Description 指定IDのレストランを取得します
// @Tags restaurants
// @Produce json
// @Param id path string true "レストランID"
// @Success 200 {object} RestaurantResponse
// @Failure 404 {object} map[string]string
// @Router /restaurants/{id} [get]
func (h *RestaurantHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	r, err := h.service.GetRestaurant(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, restaurant.ErrRestaurantNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toRestaurantResponse(r))
}

// AvailableSeats godoc
// @Summary 空席数を取得
// @Description レストランの現在の空席数を取得します（キャッシュあり）
// @Tags restaurants
// @Produce json
// @Param id path string true "レストランID"
// @Success 200 {object} map[string]int
// @Failure 404 {object} map[string]string
// @Router /restaurants/{id}/seats [get]
func (h *RestaurantHandler) AvailableSeats(c echo.Context) error {
	id := c.Param("id")
	count, err := h.service.CountAvailableSeats(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, restaurant.ErrRestaurantNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"available_seats": count})
}
