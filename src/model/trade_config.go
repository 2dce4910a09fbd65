package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type TradeConfig struct {
	FromToken            string  `json:"fromToken"`
	ToToken              string  `json:"toToken"`
	ContractAddress      string  `json:"contractAddress"`
	FromChainId          string  `json:"fromChainId"`
	ToChainId            string  `json:"toChainId"`
	BuyAmount            float64 `json:"buyAmount"`
	BuyPrice             float64 `json:"buyPrice"`
	SellTargetAmount     float64 `json:"sellTargetAmount"`
	MaxCycles            int64   `json:"maxCycles"`
	MinUsdtRequired      float64 `json:"minUsdtRequired"`
	CycleInterval        float64 `json:"cycleIntervalSeconds"`
	RetryDelay           float64 `json:"retryDelaySeconds"`
	FillPollInterval     float64 `json:"fillPollIntervalSeconds"`
	FillTimeout          float64 `json:"fillTimeoutSeconds"`
	BaseAsset            string  `json:"baseAsset"`
	PaymentWalletType    string  `json:"paymentWalletType"`
	PendingPriceDiscount float64 `json:"pendingPriceDiscount"`
	MarketOrdersOnly     bool    `json:"marketOrdersOnly"`
	ReduceLogging        bool    `json:"reduceLogging"`
}

func DefaultTradeConfig() TradeConfig {
	return TradeConfig{
		FromToken:            "USDT",
		ToToken:              "KOGE",
		ContractAddress:      "0xe6df05ce8c8301223373cf5b969afcb1498c5528",
		FromChainId:          "56",
		ToChainId:            "56",
		BuyAmount:            10.0,
		SellTargetAmount:     10.1,
		MaxCycles:            1,
		MinUsdtRequired:      10.0,
		CycleInterval:        60.0,
		RetryDelay:           30.0,
		FillPollInterval:     10.0,
		FillTimeout:          600.0,
		BaseAsset:            "ALPHA_22",
		PaymentWalletType:    "CARD",
		PendingPriceDiscount: 0.0005,
		ReduceLogging:        true,
	}
}

func (t *TradeConfig) Validate() error {
	for name, value := range map[string]float64{
		"cycleIntervalSeconds":    t.CycleInterval,
		"retryDelaySeconds":       t.RetryDelay,
		"fillPollIntervalSeconds": t.FillPollInterval,
		"fillTimeoutSeconds":      t.FillTimeout,
	} {
		if value < 0 {
			return errors.New(fmt.Sprintf("%s must be >= 0, got %f", name, value))
		}
	}

	if t.PendingPriceDiscount < 0 || t.PendingPriceDiscount >= 1 {
		return errors.New(fmt.Sprintf(
			"pendingPriceDiscount must be in [0, 1), got %f",
			t.PendingPriceDiscount,
		))
	}

	return nil
}

func (t *TradeConfig) GetRequiredBalance() float64 {
	if t.MinUsdtRequired > t.BuyAmount {
		return t.MinUsdtRequired
	}

	return t.BuyAmount
}

func (t *TradeConfig) GetQuoteAsset() string {
	if len(t.FromToken) == 0 {
		return "USDT"
	}

	return strings.ToUpper(t.FromToken)
}

func (t *TradeConfig) GetPaymentWalletType() string {
	if len(t.PaymentWalletType) == 0 {
		return "CARD"
	}

	return strings.ToUpper(t.PaymentWalletType)
}

func (t *TradeConfig) Scan(src interface{}) error {
	return json.Unmarshal(src.([]byte), &t)
}
func (t TradeConfig) Value() (driver.Value, error) {
	jsonV, err := json.Marshal(t)
	return string(jsonV), err
}

type TradeConfigUpdate struct {
	TradeConfig TradeConfig `json:"tradeConfig"`
}
