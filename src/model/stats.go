package model

import "github.com/shopspring/decimal"

type TradeRecord struct {
	Time        int64   `json:"time"`
	BuyAmount   float64 `json:"buyAmount"`
	SellAmount  float64 `json:"sellAmount"`
	ProfitLoss  float64 `json:"profitLoss"`
	CycleNumber int64   `json:"cycleNumber"`
}

type TradingStats struct {
	StartBalance    float64       `json:"startBalance"`
	CurrentBalance  float64       `json:"currentBalance"`
	TotalVolume     float64       `json:"totalVolume"`
	CyclesCompleted int64         `json:"cyclesCompleted"`
	TotalProfit     float64       `json:"totalProfit"`
	TradeHistory    []TradeRecord `json:"tradeHistory"`
	StartTime       int64         `json:"startTime"`
	LastUpdated     int64         `json:"lastUpdated"`
}

// OrderFillRecord aggregates every observed trade fill of one submitted
// order.
type OrderFillRecord struct {
	FilledQuantity decimal.Decimal `json:"filledQuantity"`
	QuoteAmount    decimal.Decimal `json:"quoteAmount"`
}

func (o *OrderFillRecord) GetAvgFillPrice() decimal.Decimal {
	if o.FilledQuantity.IsPositive() {
		return o.QuoteAmount.Div(o.FilledQuantity)
	}

	return decimal.Zero
}

type FillState string

const (
	FillStateFilled   FillState = "FILLED"
	FillStateFailed   FillState = "FAILED"
	FillStateTimedOut FillState = "TIMED_OUT"
)
