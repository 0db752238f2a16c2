package booking

import "time"

// Booking は予約エンティティを表す
// Date は dd/MM/yyyy、Time は HH:MM の文字列表現を保持する（表示・入力境界の形式）
type Booking struct {
	ID             string
	UserID         string
	RestaurantID   string
	RestaurantName string
	Date           string
	Time           string
	NumberOfPeople int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBooking は新しい予約を作成する
func NewBooking(userID, restaurantID, restaurantName, date, timeOfDay string, numberOfPeople int) *Booking {
	now := time.Now()
	return &Booking{
		UserID:         userID,
		RestaurantID:   restaurantID,
		RestaurantName: restaurantName,
		Date:           date,
		Time:           timeOfDay,
		NumberOfPeople: numberOfPeople,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.UserID == "" {
		return ErrUserNotAuthenticated
	}
	if b.RestaurantID == "" {
		return ErrRestaurantIDRequired
	}
	if _, err := ParseDate(b.Date); err != nil {
		return err
	}
	if err := ValidateTime(b.Time); err != nil {
		return err
	}
	if b.NumberOfPeople < 1 {
		return ErrPartySizeInvalid
	}
	return nil
}

// IsExpired は予約日が指定日より前（過去日）かを返す
// 日付が解析できない場合は期限切れ扱いにしない
func (b *Booking) IsExpired(today time.Time) bool {
	d, err := ParseDate(b.Date)
	if err != nil {
		return false
	}
	y, m, day := today.Date()
	todayMidnight := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return d.Before(todayMidnight)
}
