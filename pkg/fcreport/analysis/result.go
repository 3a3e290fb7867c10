// Package analysis derives summaries, series and matrices from a filtered table.
// Every builder returns a Result so missing columns and empty filters surface as
// explicit "unavailable" states instead of errors.
package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Status tags a Result.
type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
)

// Result is either data or the reason it could not be built.
type Result[T any] struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
	Data   T      `json:"data,omitempty"`
}

// MarshalJSON writes the data of available results, even when it is a zero value,
// and only the reason of unavailable ones.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if !r.Available() {
		return json.Marshal(struct {
			Status Status `json:"status"`
			Reason string `json:"reason"`
		}{r.Status, r.Reason})
	}
	return json.Marshal(struct {
		Status Status `json:"status"`
		Data   T      `json:"data"`
	}{r.Status, r.Data})
}

// Ok wraps data in an available result.
func Ok[T any](data T) Result[T] {
	return Result[T]{Status: StatusOK, Data: data}
}

// Unavailable returns a result carrying only a reason.
func Unavailable[T any](format string, args ...any) Result[T] {
	return Result[T]{Status: StatusUnavailable, Reason: fmt.Sprintf(format, args...)}
}

// Available reports whether the result carries data.
func (r Result[T]) Available() bool {
	return r.Status == StatusOK
}

// Float is a float64 that encodes NaN and infinities as JSON null.
type Float float64

// NaN returns the missing marker.
func NaN() Float { return Float(math.NaN()) }

// Valid reports whether the value is a finite number.
func (f Float) Valid() bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(f), 'g', -1, 64), nil
}
