package money

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Input is a request amount that may arrive as a JSON number (20000, 10.5)
// or as a storefront string ("$10.000", "12,50").
type Input struct {
	value   Money
	err     error
	present bool
}

func (in *Input) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*in = Input{}
		return nil
	}
	in.present = true

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		in.value, in.err = Parse(s)
		return nil
	}

	d, err := decimal.NewFromString(string(data))
	if err != nil {
		in.err = fmt.Errorf("%w: %s", ErrInvalidAmount, data)
		return nil
	}
	in.value = Money{amount: d}
	return nil
}

// ParseInput builds an input from storefront text.
func ParseInput(raw string) Input {
	v, err := Parse(raw)
	return Input{value: v, err: err, present: true}
}

// Present reports whether the field appeared in the payload with a non-null value.
func (in Input) Present() bool { return in.present }

// Money returns the parsed amount or the parse error.
func (in Input) Money() (Money, error) {
	if !in.present {
		return Zero, fmt.Errorf("%w: missing", ErrInvalidAmount)
	}
	if in.err != nil {
		return Zero, in.err
	}
	return in.value, nil
}
