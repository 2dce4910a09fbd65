package model

import (
	"encoding/json"
	"fmt"
)

type QuoteRequest struct {
	FromToken            string `json:"fromToken"`
	FromBinanceChainId   string `json:"fromBinanceChainId"`
	FromContractAddress  string `json:"fromContractAddress,omitempty"`
	FromCoinAmount       string `json:"fromCoinAmount"`
	ToToken              string `json:"toToken"`
	ToBinanceChainId     string `json:"toBinanceChainId"`
	ToContractAddress    string `json:"toContractAddress"`
	PriorityMode         string `json:"priorityMode"`
	CustomNetworkFeeMode string `json:"customNetworkFeeMode"`
	CustomSlippage       string `json:"customSlippage"`
}

// Quote is the loosely typed swap quote returned by the exchange. Numeric
// fields arrive as strings or json.Number depending on the endpoint, so the
// raw map is kept and values are coerced on read.
type Quote map[string]interface{}

func (q Quote) Value(key string) (interface{}, bool) {
	if q == nil {
		return nil, false
	}

	value, ok := q[key]

	return value, ok
}

func (q Quote) StringValue(key string) string {
	value, ok := q.Value(key)
	if !ok || value == nil {
		return ""
	}

	switch typed := value.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	default:
		return fmt.Sprintf("%v", typed)
	}
}

func (q Quote) IsEmptyValue(key string) bool {
	value, ok := q.Value(key)
	if !ok || value == nil {
		return true
	}

	if str, isStr := value.(string); isStr && len(str) == 0 {
		return true
	}

	if obj, isMap := value.(map[string]interface{}); isMap && len(obj) == 0 {
		return true
	}

	return false
}

type QuoteResponse struct {
	Success *bool      `json:"success"`
	Code    FlexString `json:"code"`
	Message string     `json:"message"`
	Data    Quote      `json:"data"`
}
