// Package models defines data structures for unified simulation tables.
package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Kind is the type tag of a cell value.
type Kind int

const (
	// KindNull marks an empty or absent cell.
	KindNull Kind = iota
	// KindNumber is a numeric cell.
	KindNumber
	// KindText is a free-form text cell.
	KindText
	// KindDate is a date cell. Num holds the Excel serial date.
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// Value is a tagged cell value.
type Value struct {
	// Kind is the value type.
	Kind Kind `json:"kind"`
	// Num is the numeric value for numbers and the serial for dates.
	Num float64 `json:"num,omitempty"`
	// Text is the text value, or the ISO date for dates.
	Text string `json:"text,omitempty"`
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Text returns a text value.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Date returns a date value from an Excel serial date.
func Date(serial float64) Value {
	v := Value{Kind: KindDate, Num: serial}
	if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
		v.Text = t.Format("2006-01-02")
	}
	return v
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Float coerces the value to a number. Text must parse as a plain number.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber, KindDate:
		return v.Num, true
	case KindText:
		return ParseNumber(v.Text)
	}
	return 0, false
}

// Key returns the canonical string form used for set membership.
// Keys of different kinds never collide: text that reads as a number or an ISO date,
// or that starts with an apostrophe, is keyed with a leading apostrophe the way
// Excel marks numbers entered as text.
func (v Value) Key() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindDate:
		return v.Text
	case KindText:
		if quotedText(v.Text) {
			return "'" + v.Text
		}
		return v.Text
	}
	return ""
}

func quotedText(s string) bool {
	if strings.HasPrefix(s, "'") {
		return true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText, KindDate:
		return v.Text
	}
	return ""
}

// Less orders values: numbers and dates numerically, then text lexically.
func (v Value) Less(o Value) bool {
	vn := v.Kind == KindNumber || v.Kind == KindDate
	on := o.Kind == KindNumber || o.Kind == KindDate
	switch {
	case vn && on:
		return v.Num < o.Num
	case vn != on:
		return vn
	}
	return v.Text < o.Text
}

// ParseNumber parses a plain numeric string. Thousands separators, percent
// signs and non-finite values are not numbers.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
