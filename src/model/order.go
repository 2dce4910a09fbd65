package model

import (
	"encoding/json"
	"strings"
)

const (
	OrderSideBuy  = "BUY"
	OrderSideSell = "SELL"
)

// FlexString accepts both JSON strings and bare numbers. Order and trade
// identifiers switch between the two representations across endpoints.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	var strValue string
	if err := json.Unmarshal(b, &strValue); err == nil {
		*f = FlexString(strValue)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(b, &number); err != nil {
		return err
	}

	*f = FlexString(number.String())

	return nil
}

func (f FlexString) Value() string {
	return string(f)
}

type PaymentDetail struct {
	Amount            string `json:"amount"`
	PaymentWalletType string `json:"paymentWalletType"`
}

type LimitOrderPayload struct {
	BaseAsset       string          `json:"baseAsset"`
	QuoteAsset      string          `json:"quoteAsset"`
	WorkingSide     string          `json:"workingSide"`
	WorkingPrice    string          `json:"workingPrice"`
	WorkingQuantity string          `json:"workingQuantity"`
	PendingPrice    string          `json:"pendingPrice"`
	PendingSide     string          `json:"pendingSide"`
	PaymentDetails  []PaymentDetail `json:"paymentDetails"`
	TraceId         string          `json:"traceId"`
	ClientTraceId   string          `json:"clientTraceId"`
}

func (l *LimitOrderPayload) GetSymbol() string {
	return l.BaseAsset + l.QuoteAsset
}

type OrderMeta struct {
	WorkingOrderId FlexString `json:"workingOrderId"`
	PendingOrderId FlexString `json:"pendingOrderId"`
	TraceId        FlexString `json:"traceId"`
	OrderId        FlexString `json:"orderId"`
	BizId          FlexString `json:"bizId"`
}

type OrderResult struct {
	Success *bool      `json:"success"`
	Code    FlexString `json:"code"`
	Message string     `json:"message"`
	Msg     string     `json:"msg"`
	TraceId FlexString `json:"traceId"`
	OrderId FlexString `json:"orderId"`
	BizId   FlexString `json:"bizId"`
	Data    *OrderMeta `json:"data"`
}

// IsAccepted reports whether the exchange accepted the order: no explicit
// failure flag and a code that is empty, SUCCESS or a zero-equivalent.
func (o *OrderResult) IsAccepted() bool {
	if o.Success != nil && !*o.Success {
		return false
	}

	switch strings.ToUpper(o.Code.Value()) {
	case "", "SUCCESS", "000000", "0":
		return true
	}

	return false
}

func (o *OrderResult) GetErrorMessage() string {
	if len(o.Message) > 0 {
		return o.Message
	}

	if len(o.Msg) > 0 {
		return o.Msg
	}

	return "order rejected"
}

// GetTraceId walks the candidate chain the status endpoint accepts:
// top-level traceId, orderId, bizId, then the data block in the same order.
func (o *OrderResult) GetTraceId() string {
	candidates := []FlexString{o.TraceId, o.OrderId, o.BizId}

	if o.Data != nil {
		candidates = append(candidates, o.Data.TraceId, o.Data.OrderId, o.Data.BizId)
	}

	for _, candidate := range candidates {
		if len(candidate.Value()) > 0 {
			return candidate.Value()
		}
	}

	return ""
}

// PendingOrderStatus is a pointer: an absent field means the order has no
// pending leg, while a present empty value means the leg has no state yet.
type OrderStatus struct {
	OrderStatus        string  `json:"orderStatus"`
	Status             string  `json:"status"`
	PendingOrderStatus *string `json:"pendingOrderStatus"`
}

func (o *OrderStatus) ResolveStatus() string {
	if len(o.OrderStatus) > 0 {
		return o.OrderStatus
	}

	return o.Status
}

type OrderStatusResponse struct {
	Success *bool        `json:"success"`
	Code    FlexString   `json:"code"`
	Message string       `json:"message"`
	Data    *OrderStatus `json:"data"`
}

type TradeFill struct {
	OrderId         FlexString `json:"orderId"`
	Side            string     `json:"side"`
	Price           FlexString `json:"price"`
	Qty             FlexString `json:"qty"`
	QuoteQty        FlexString `json:"quoteQty"`
	Commission      FlexString `json:"commission"`
	CommissionAsset string     `json:"commissionAsset"`
}

type OrderTradesResponse struct {
	Success *bool       `json:"success"`
	Code    FlexString  `json:"code"`
	Message string      `json:"message"`
	Data    []TradeFill `json:"data"`
}
