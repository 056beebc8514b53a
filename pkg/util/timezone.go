package util

import (
	"fmt"
	"time"
)

// Fixed offsets used by the calendar. Eastern never switches to daylight time.
const (
	EasternOffsetHours = -5
	KoreaOffsetHours   = 9
)

// ParseClock parses a strict 24-hour "HH:MM" wall-clock string.
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("%w: clock %q", ErrInvalidInput, s)
	}
	hour, ok1 := twoDigits(s[0], s[1])
	minute, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: clock %q", ErrInvalidInput, s)
	}
	return hour, minute, nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// FormatClock renders a zero-padded "HH:MM".
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// FormatStamp renders "YYYY-MM-DD HH:MM".
func FormatStamp(d Date, clock string) string {
	return d.String() + " " + clock
}

// ConvertOffset moves a wall-clock reading taken at UTC+srcHours to UTC+dstHours,
// carrying the date across midnight when needed.
func ConvertOffset(d Date, clock string, srcHours, dstHours int) (Date, string, error) {
	if err := checkOffset(srcHours); err != nil {
		return Date{}, "", err
	}
	if err := checkOffset(dstHours); err != nil {
		return Date{}, "", err
	}
	h, m, err := ParseClock(clock)
	if err != nil {
		return Date{}, "", err
	}

	src := time.FixedZone(fmt.Sprintf("UTC%+d", srcHours), srcHours*3600)
	dst := time.FixedZone(fmt.Sprintf("UTC%+d", dstHours), dstHours*3600)
	at := time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, src).In(dst)

	y, mo, day := at.Date()
	return NewDate(y, mo, day), FormatClock(at.Hour(), at.Minute()), nil
}

// ConvertStamp is ConvertOffset rendered as "YYYY-MM-DD HH:MM".
func ConvertStamp(d Date, clock string, srcHours, dstHours int) (string, error) {
	od, oc, err := ConvertOffset(d, clock, srcHours, dstHours)
	if err != nil {
		return "", err
	}
	return FormatStamp(od, oc), nil
}

func checkOffset(h int) error {
	if h < -12 || h > 14 {
		return fmt.Errorf("%w: utc offset %d", ErrInvalidInput, h)
	}
	return nil
}
