package booking

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout は予約日の表記形式（dd/MM/yyyy、ゼロ埋め必須）
const DateLayout = "02/01/2006"

// MaxAdvanceDays は予約可能な最大先行日数
const MaxAdvanceDays = 14

// timePattern は24時間表記 HH:MM の厳密なパターン
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseDate は dd/MM/yyyy 形式の日付を厳密に解析する
// 存在しない日付（例: 31/02/2025）や桁落ち（例: 1/2/2025）は受け付けない
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrDateFormatInvalid
	}
	// time.Parse は桁数の揺れを許容するため、再整形して一致を確認する
	if d.Format(DateLayout) != s {
		return time.Time{}, ErrDateFormatInvalid
	}
	return d, nil
}

// ValidateDate は日付の形式と予約可能期間（今日から14日以内）を検証する
func ValidateDate(s string, today time.Time) error {
	d, err := ParseDate(s)
	if err != nil {
		return err
	}
	y, m, day := today.Date()
	todayMidnight := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(todayMidnight).Hours() / 24)
	if days < 0 || days > MaxAdvanceDays {
		return ErrDateOutOfRange
	}
	return nil
}

// ValidateTime は時刻が厳密な24時間表記 HH:MM かを検証する
func ValidateTime(s string) error {
	if !timePattern.MatchString(s) {
		return ErrTimeFormatInvalid
	}
	return nil
}

// ParsePartySize は生の入力文字列を人数に変換する
// 未入力・解析不能な場合は1にフォールバックする（エラーにしない寛容なデフォルト）
func ParsePartySize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// ValidateRequest は予約リクエストの純粋な検証を行う（副作用・I/Oなし）
// today は呼び出し側の現在日付
func ValidateRequest(date, timeOfDay string, partySize int, today time.Time) error {
	if err := ValidateDate(date, today); err != nil {
		return err
	}
	if err := ValidateTime(timeOfDay); err != nil {
		return err
	}
	if partySize < 1 {
		return ErrPartySizeInvalid
	}
	return nil
}
