package models

import (
	"fmt"
	"strconv"
	"strings"

	"FinDash/pkg/util"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Unit is the display scale of an indicator value.
type Unit string

const (
	UnitPlain     Unit = "plain"
	UnitPercent   Unit = "percent"
	UnitThousands Unit = "thousands"
	UnitMillions  Unit = "millions"
	UnitTrillions Unit = "trillions"
)

// Suffix is the character appended on display.
func (u Unit) Suffix() string {
	switch u {
	case UnitPercent:
		return "%"
	case UnitThousands:
		return "K"
	case UnitMillions:
		return "M"
	case UnitTrillions:
		return "T"
	default:
		return ""
	}
}

func unitForSuffix(b byte) (Unit, bool) {
	switch b {
	case '%':
		return UnitPercent, true
	case 'K':
		return UnitThousands, true
	case 'M':
		return UnitMillions, true
	case 'T':
		return UnitTrillions, true
	default:
		return UnitPlain, false
	}
}

// Value is a release figure such as "185K" or "+0.3%". The magnitude is kept in
// display units: "185K" has magnitude 185, not 185000.
type Value struct {
	Magnitude    decimal.Decimal
	Unit         Unit
	Places       int32
	ExplicitSign bool
}

// NewValue builds a Value from a float rounded to places.
func NewValue(f float64, unit Unit, places int32) Value {
	return Value{Magnitude: decimal.NewFromFloat(f).Round(places), Unit: unit, Places: places}
}

// ParseValue reads a display string. Plain values may carry thousands separators.
func ParseValue(s string) (Value, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Value{}, fmt.Errorf("%w: empty value", util.ErrInvalidInput)
	}

	var v Value
	body := raw
	if u, ok := unitForSuffix(body[len(body)-1]); ok {
		v.Unit = u
		body = body[:len(body)-1]
	} else {
		v.Unit = UnitPlain
	}

	neg := false
	switch {
	case strings.HasPrefix(body, "+"):
		v.ExplicitSign = true
		body = body[1:]
	case strings.HasPrefix(body, "-"):
		neg = true
		body = body[1:]
	}
	body = strings.ReplaceAll(body, ",", "")
	if body == "" || strings.ContainsAny(body, "+-eE") {
		return Value{}, fmt.Errorf("%w: value %q", util.ErrInvalidInput, s)
	}

	d, err := decimal.NewFromString(body)
	if err != nil {
		return Value{}, fmt.Errorf("%w: value %q", util.ErrInvalidInput, s)
	}
	if neg {
		d = d.Neg()
	}
	v.Magnitude = d
	if i := strings.IndexByte(body, '.'); i >= 0 {
		v.Places = int32(len(body) - i - 1)
	}
	return v, nil
}

// MustParseValue is ParseValue for static tables.
func MustParseValue(s string) Value {
	v, err := ParseValue(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the value as it was written.
func (v Value) String() string {
	digits := v.Magnitude.Abs().StringFixed(v.Places)
	if v.Unit == UnitPlain || v.Unit == "" {
		digits = groupThousands(digits)
	}
	sign := ""
	switch {
	case v.Magnitude.IsNegative():
		sign = "-"
	case v.ExplicitSign:
		sign = "+"
	}
	return sign + digits + v.Unit.Suffix()
}

func groupThousands(digits string) string {
	intPart, frac, hasFrac := strings.Cut(digits, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return digits
	}
	out := humanize.Comma(n)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// Float64 returns the magnitude in display units.
func (v Value) Float64() float64 {
	f, _ := v.Magnitude.Float64()
	return f
}

// Sub returns v - o. Both must share a unit.
func (v Value) Sub(o Value) (Value, error) {
	if v.Unit != o.Unit {
		return Value{}, fmt.Errorf("%w: unit mismatch %s vs %s", util.ErrInvalidInput, v.Unit, o.Unit)
	}
	places := v.Places
	if o.Places > places {
		places = o.Places
	}
	return Value{
		Magnitude:    v.Magnitude.Sub(o.Magnitude),
		Unit:         v.Unit,
		Places:       places,
		ExplicitSign: true,
	}, nil
}

func (v Value) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Value) UnmarshalText(b []byte) error {
	pv, err := ParseValue(string(b))
	if err != nil {
		return err
	}
	*v = pv
	return nil
}
