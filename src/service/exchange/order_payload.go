package exchange

import (
	"encoding/json"
	"fmt"

	uuid2 "github.com/google/uuid"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
)

const DefaultPayMethod = "FUNDING_AND_SPOT"

// Fields carried over from a quote into a pre-payment order body. Everything
// else the quote returns is advisory and must not be echoed back.
var orderQuoteFields = []string{
	"traceId",
	"clientTraceId",
	"quoteId",
	"orderId",
	"bizId",
	"matchBizNo",
	"matchBizType",
	"tradeType",
	"tradeBase",
	"tradeQuote",
	"orderType",
	"serialNo",
	"uniQuoteId",
	"quoteTime",
	"quoteExpireTime",
	"price",
	"payMethod",
}

var orderAmountFields = []string{"fromCoinAmount", "toCoinAmount"}

type OrderPayloadBuilder struct {
	Formatter *utils.Formatter
}

// Build merges quote echo fields and caller supplied base fields into a
// pre-payment order body with canonical decimal strings and guaranteed
// trace identifiers.
func (b *OrderPayloadBuilder) Build(base map[string]interface{}, quote model.Quote, payMethod string) map[string]interface{} {
	payload := make(map[string]interface{})

	for _, key := range orderQuoteFields {
		if quote.IsEmptyValue(key) {
			continue
		}

		value, _ := quote.Value(key)
		payload[key] = value
	}

	if extra, ok := quote.Value("extra"); ok && extra != nil {
		switch extra.(type) {
		case map[string]interface{}, []interface{}:
			if encoded, err := json.Marshal(extra); err == nil {
				payload["extra"] = string(encoded)
			} else {
				payload["extra"] = fmt.Sprintf("%v", extra)
			}
		case string:
			if len(extra.(string)) > 0 {
				payload["extra"] = extra
			}
		default:
			payload["extra"] = extra
		}
	}

	for key, value := range base {
		if value != nil {
			payload[key] = value
		}
	}

	if _, ok := payload["payMethod"]; !ok && len(payMethod) > 0 {
		payload["payMethod"] = payMethod
	}

	for _, amountKey := range orderAmountFields {
		value, ok := payload[amountKey]
		if !ok {
			continue
		}

		if _, isString := value.(string); isString {
			continue
		}

		payload[amountKey] = b.Formatter.FormatDecimalValue(value)
	}

	if _, ok := payload["traceId"]; !ok {
		payload["traceId"] = uuid2.New().String()
	}

	if _, ok := payload["clientTraceId"]; !ok {
		payload["clientTraceId"] = payload["traceId"]
	}

	return payload
}
