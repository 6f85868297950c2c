package payroll

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ToDecimal normalises integers, floats, numeric strings and decimals into an
// exact decimal. Anything else, including malformed strings, yields zero.
func ToDecimal(v interface{}) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero
		}
		return *n
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case uint:
		return decimal.NewFromUint64(uint64(n))
	case uint64:
		return decimal.NewFromUint64(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case float64:
		return decimal.NewFromFloat(n)
	case json.Number:
		return parseOrZero(n.String())
	case string:
		return parseOrZero(n)
	case []byte:
		return parseOrZero(string(n))
	}
	return decimal.Zero
}

func parseOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Amount is a lenient monetary JSON field. It accepts numbers or numeric
// strings and remembers whether the client supplied it at all, so omitted
// fields can fall back to configured defaults.
type Amount struct {
	Value decimal.Decimal
	Set   bool
}

func NewAmount(v interface{}) Amount {
	return Amount{Value: ToDecimal(v), Set: true}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}

	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		*a = Amount{Value: decimal.Zero, Set: true}
		return nil
	}
	// A blank string is treated like null.
	if str, ok := raw.(string); ok && strings.TrimSpace(str) == "" {
		*a = Amount{}
		return nil
	}
	*a = Amount{Value: ToDecimal(raw), Set: true}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Set {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value.StringFixed(MoneyPlaces))
}

// Or returns the supplied value, or fallback when the field was omitted.
func (a Amount) Or(fallback decimal.Decimal) decimal.Decimal {
	if a.Set {
		return a.Value
	}
	return fallback
}
