package domain

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Horizon is a span (years or months) that may never be reached, e.g. a breakeven
// that never happens because the new payment is not lower.
type Horizon struct {
	Value     decimal.Decimal
	Unbounded bool
}

// Never is the unbounded horizon.
func Never() Horizon { return Horizon{Unbounded: true} }

// Finite wraps a reachable span.
func Finite(v decimal.Decimal) Horizon { return Horizon{Value: v} }

func (h Horizon) IsFinite() bool { return !h.Unbounded }

// Exceeds reports whether the horizon is longer than limit; unbounded always is.
func (h Horizon) Exceeds(limit decimal.Decimal) bool {
	return h.Unbounded || h.Value.GreaterThan(limit)
}

// Div scales a finite horizon (months to years); unbounded stays unbounded.
func (h Horizon) Div(d decimal.Decimal) Horizon {
	if h.Unbounded || d.IsZero() {
		return Never()
	}
	return Finite(h.Value.Div(d))
}

// StringFixed renders the value with the given places, or "never".
func (h Horizon) StringFixed(places int32) string {
	if h.Unbounded {
		return "never"
	}
	return h.Value.StringFixed(places)
}

func (h Horizon) String() string { return h.StringFixed(1) }

var infinityJSON = []byte(`"Infinity"`)

func (h Horizon) MarshalJSON() ([]byte, error) {
	if h.Unbounded {
		return infinityJSON, nil
	}
	return []byte(h.Value.String()), nil
}

func (h *Horizon) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, infinityJSON) || bytes.Equal(data, []byte("null")) {
		*h = Never()
		return nil
	}
	v, err := decimal.NewFromString(string(bytes.Trim(data, `"`)))
	if err != nil {
		return fmt.Errorf("horizon: %w", err)
	}
	*h = Finite(v)
	return nil
}
