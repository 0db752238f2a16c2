package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrDateFormatInvalid    = errors.New("日付の形式が不正です（dd/MM/yyyy）")
	ErrDateOutOfRange       = errors.New("日付は今日から14日以内である必要があります")
	ErrTimeFormatInvalid    = errors.New("時刻の形式が不正です（HH:MM）")
	ErrPartySizeInvalid     = errors.New("人数は1以上である必要があります")
	ErrUserNotAuthenticated = errors.New("ログインが必要です")
	ErrBookingNotFound      = errors.New("予約が見つかりません")
	ErrRestaurantIDRequired = errors.New("レストランIDは必須です")
	ErrTransactionFailed    = errors.New("予約トランザクションに失敗しました")
)
