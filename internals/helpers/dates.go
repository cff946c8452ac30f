package helper

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate: YYYY-MM-DD → time.Time (UTC midnight)
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// ParseDatePtr: nil / "" → nil
func ParseDatePtr(s *string) (*time.Time, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, true
	}
	t, ok := ParseDate(*s)
	if !ok {
		return nil, false
	}
	return &t, true
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// StartOfDay: tanggal kalender di zona t sendiri, dikembalikan sebagai 00:00 UTC
// (00:15 WIB/ICT tetap hari yang sama, bukan hari sebelumnya di UTC)
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
