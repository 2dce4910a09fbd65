package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTradeConfigValidate(t *testing.T) {
	assertion := assert.New(t)

	config := DefaultTradeConfig()
	assertion.NoError(config.Validate())

	config.CycleInterval = -1
	assertion.Error(config.Validate())

	config = DefaultTradeConfig()
	config.PendingPriceDiscount = 1.0
	assertion.Error(config.Validate())

	config.PendingPriceDiscount = -0.1
	assertion.Error(config.Validate())

	config.PendingPriceDiscount = 0.9999
	assertion.NoError(config.Validate())
}

func TestTradeConfigRequiredBalance(t *testing.T) {
	assertion := assert.New(t)

	config := TradeConfig{BuyAmount: 10, MinUsdtRequired: 25}
	assertion.Equal(25.0, config.GetRequiredBalance())

	config = TradeConfig{BuyAmount: 50, MinUsdtRequired: 25}
	assertion.Equal(50.0, config.GetRequiredBalance())
}

func TestTradeConfigAssetDefaults(t *testing.T) {
	assertion := assert.New(t)

	config := TradeConfig{}
	assertion.Equal("USDT", config.GetQuoteAsset())
	assertion.Equal("CARD", config.GetPaymentWalletType())

	config = TradeConfig{FromToken: "usdc", PaymentWalletType: "spot"}
	assertion.Equal("USDC", config.GetQuoteAsset())
	assertion.Equal("SPOT", config.GetPaymentWalletType())
}

func TestTradeConfigScanJsonColumn(t *testing.T) {
	assertion := assert.New(t)

	var config TradeConfig
	err := config.Scan([]byte(`{
		"fromToken": "USDT",
		"toToken": "KOGE",
		"buyAmount": 12.5,
		"maxCycles": 3,
		"reduceLogging": true
	}`))

	assertion.NoError(err)
	assertion.Equal("KOGE", config.ToToken)
	assertion.Equal(12.5, config.BuyAmount)
	assertion.Equal(int64(3), config.MaxCycles)
	assertion.True(config.ReduceLogging)

	value, err := config.Value()
	assertion.NoError(err)
	assertion.Contains(value.(string), `"toToken":"KOGE"`)
}
