package restaurant

import "errors"

// Restaurant ドメインのエラー定義
var (
	ErrRestaurantNotFound = errors.New("レストランが見つかりません")
	ErrInsufficientSeats  = errors.New("空席が不足しています")
	ErrNameRequired       = errors.New("レストラン名は必須です")
	ErrNegativeSeats      = errors.New("空席数は0以上である必要があります")
)
