package restaurant

import "time"

// Restaurant はレストランエンティティを表す
// AvailableSeats はこのコアが変更する唯一の可変フィールドであり、
// 変更は必ずストレージトランザクション内で行う
type Restaurant struct {
	ID             string
	Name           string
	ImageURL       string
	Description    string
	Location       string
	AvailableSeats int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewRestaurant は新しいレストランを作成する
func NewRestaurant(name, imageURL, description, location string, availableSeats int) *Restaurant {
	now := time.Now()
	return &Restaurant{
		Name:           name,
		ImageURL:       imageURL,
		Description:    description,
		Location:       location,
		AvailableSeats: availableSeats,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// HasCapacity は指定人数分の空席があるかを返す
func (r *Restaurant) HasCapacity(partySize int) bool {
	return r.AvailableSeats >= partySize
}

// Validate はレストランの検証を行う
func (r *Restaurant) Validate() error {
	if r.Name == "" {
		return ErrNameRequired
	}
	if r.AvailableSeats < 0 {
		return ErrNegativeSeats
	}
	return nil
}
