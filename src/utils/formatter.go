package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	QuantityScale = 2
	PriceScale    = 8
	AmountScale   = 10
)

type Formatter struct {
}

// AsDecimal coerces a loosely typed response value into an exact decimal.
// Absent, empty and malformed values yield nil, never zero.
func (m *Formatter) AsDecimal(value interface{}) *decimal.Decimal {
	switch typed := value.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return &typed
	case string:
		if len(strings.TrimSpace(typed)) == 0 {
			return nil
		}

		parsed, err := decimal.NewFromString(strings.TrimSpace(typed))
		if err != nil {
			log.Printf("AsDecimal: malformed numeric string %q", typed)
			return nil
		}

		return &parsed
	case json.Number:
		parsed, err := decimal.NewFromString(typed.String())
		if err != nil {
			log.Printf("AsDecimal: malformed numeric value %q", typed.String())
			return nil
		}

		return &parsed
	case float64:
		parsed := decimal.NewFromFloat(typed)
		return &parsed
	case float32:
		parsed := decimal.NewFromFloat32(typed)
		return &parsed
	case int:
		parsed := decimal.NewFromInt(int64(typed))
		return &parsed
	case int64:
		parsed := decimal.NewFromInt(typed)
		return &parsed
	case map[string]interface{}:
		return nil
	default:
		parsed, err := decimal.NewFromString(fmt.Sprintf("%v", typed))
		if err != nil {
			log.Printf("AsDecimal: unsupported value %v", typed)
			return nil
		}

		return &parsed
	}
}

// ExtractDecimal returns the decimal value of the first candidate key that
// is present with a parseable value. A present-but-zero value wins over any
// later candidate.
func (m *Formatter) ExtractDecimal(source map[string]interface{}, keys []string) *decimal.Decimal {
	if source == nil {
		return nil
	}

	for _, key := range keys {
		value, ok := source[key]
		if !ok {
			continue
		}

		if number := m.AsDecimal(value); number != nil {
			return number
		}
	}

	return nil
}

// FormatDecimal renders a decimal without scientific notation, the exchange
// rejects exponent markers in payload fields.
func (m *Formatter) FormatDecimal(value decimal.Decimal) string {
	return value.String()
}

func (m *Formatter) FormatDecimalValue(value interface{}) string {
	number := m.AsDecimal(value)
	if number == nil {
		return fmt.Sprintf("%v", value)
	}

	return number.String()
}

// Quantize rounds half away from zero at the given scale. Re-quantizing an
// already quantized value is a no-op.
func (m *Formatter) Quantize(value decimal.Decimal, scale int32) decimal.Decimal {
	return value.Round(scale)
}

func (m *Formatter) QuantizeQuantity(value decimal.Decimal) decimal.Decimal {
	return m.Quantize(value, QuantityScale)
}

func (m *Formatter) QuantizePrice(value decimal.Decimal) decimal.Decimal {
	return m.Quantize(value, PriceScale)
}

func (m *Formatter) QuantizeAmount(value decimal.Decimal) decimal.Decimal {
	return m.Quantize(value, AmountScale)
}
