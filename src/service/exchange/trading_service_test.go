package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
)

func testTradeConfig() *model.TradeConfig {
	return &model.TradeConfig{
		FromToken:         "USDT",
		ToToken:           "KOGE",
		ContractAddress:   "0xe6df05ce8c8301223373cf5b969afcb1498c5528",
		FromChainId:       "56",
		ToChainId:         "56",
		BuyAmount:         10.0,
		MinUsdtRequired:   10.0,
		MaxCycles:         1,
		FillTimeout:       600.0,
		FillPollInterval:  10.0,
		BaseAsset:         "ALPHA_22",
		PaymentWalletType: "CARD",
	}
}

func newTestTradingService(
	config *model.TradeConfig,
	binance *ExchangeApiMock,
	balanceService *BalanceServiceMock,
	fillWaiter *FillWaiterMock,
	timeService *TimeServiceMock,
) *TradingService {
	formatter := utils.Formatter{}

	return &TradingService{
		Config:         config,
		Exchange:       binance,
		BalanceService: balanceService,
		FillWaiter:     fillWaiter,
		PayloadBuilder: &OrderPayloadBuilder{Formatter: &formatter},
		Formatter:      &formatter,
		TimeService:    timeService,
		Log:            &service.LogService{ReduceLogging: true},
	}
}

func TestRunCycleSkipsOnInsufficientBalance(t *testing.T) {
	assertion := assert.New(t)

	binance := new(ExchangeApiMock)
	balanceService := new(BalanceServiceMock)
	fillWaiter := new(FillWaiterMock)
	timeService := new(TimeServiceMock)

	balanceService.On("GetAssetBalance", "USDT", true).Return(5.0)

	tradingService := newTestTradingService(testTradeConfig(), binance, balanceService, fillWaiter, timeService)

	assertion.False(tradingService.RunCycle())
	binance.AssertNotCalled(t, "GetQuote", mock.Anything, mock.Anything)
	// the pre-check read goes through the balance cache
	balanceService.AssertCalled(t, "GetAssetBalance", "USDT", true)

	stats := tradingService.GetStats()
	assertion.Equal(int64(0), stats.CyclesCompleted)
	assertion.Equal(5.0, stats.CurrentBalance)
}

func TestRunCycleAbortsWhenBuyQuoteUnavailable(t *testing.T) {
	assertion := assert.New(t)

	binance := new(ExchangeApiMock)
	balanceService := new(BalanceServiceMock)
	fillWaiter := new(FillWaiterMock)
	timeService := new(TimeServiceMock)

	balanceService.On("GetAssetBalance", "USDT", true).Return(100.0)
	binance.On("GetQuote", mock.Anything, "buy").Return(nil, nil)

	tradingService := newTestTradingService(testTradeConfig(), binance, balanceService, fillWaiter, timeService)

	assertion.False(tradingService.RunCycle())
	binance.AssertNotCalled(t, "PlaceLimitReverseOrder", mock.Anything)
}

func TestRunCycleDerivesLimitOrderFromQuotes(t *testing.T) {
	assertion := assert.New(t)

	binance := new(ExchangeApiMock)
	balanceService := new(BalanceServiceMock)
	fillWaiter := new(FillWaiterMock)
	timeService := new(TimeServiceMock)

	balanceService.On("GetAssetBalance", "USDT", true).Return(100.0).Once()
	balanceService.On("GetAssetBalance", "USDT", false).Return(98.5).Once()

	buyQuote := model.Quote{
		"toCoinAmount":   "12.345",
		"fromCoinAmount": "10",
	}
	sellQuote := model.Quote{
		"price": "0.82",
	}

	binance.On("GetQuote", mock.Anything, "buy").Return(buyQuote, nil)
	binance.On("GetQuote", mock.Anything, "sell").Return(sellQuote, nil)

	accepted := true
	var submitted model.LimitOrderPayload
	binance.On("PlaceLimitReverseOrder", mock.Anything).Run(func(args mock.Arguments) {
		submitted = args.Get(0).(model.LimitOrderPayload)
	}).Return(model.OrderResult{
		Success: &accepted,
		Code:    "000000",
		Data: &model.OrderMeta{
			WorkingOrderId: "111",
			PendingOrderId: "222",
		},
	})

	fillWaiter.On("WaitForLimitFill", []string{"111", "222"}, "ALPHA_22USDT").Return([]model.TradeFill{
		{
			OrderId:  "111",
			Side:     "BUY",
			Price:    "0.81",
			Qty:      "12.35",
			QuoteQty: "10.00",
		},
	}, model.FillStateFilled)

	timeService.On("WaitMilliseconds", mock.Anything)
	timeService.On("GetNowUnix").Return(1700000000)

	tradingService := newTestTradingService(testTradeConfig(), binance, balanceService, fillWaiter, timeService)

	assertion.True(tradingService.RunCycle())

	assertion.Equal("ALPHA_22", submitted.BaseAsset)
	assertion.Equal("USDT", submitted.QuoteAsset)
	assertion.Equal("BUY", submitted.WorkingSide)
	assertion.Equal("SELL", submitted.PendingSide)
	// 12.345 rounds half-up to two decimals
	assertion.Equal("12.35", submitted.WorkingQuantity)
	// 10 / 12.345 rounded to eight decimals
	assertion.Equal("0.81004455", submitted.WorkingPrice)
	// sell quote price wins over the working price
	assertion.Equal("0.82", submitted.PendingPrice)
	assertion.Len(submitted.PaymentDetails, 1)
	// price * quantity at ten decimals
	assertion.Equal("10.0040501925", submitted.PaymentDetails[0].Amount)
	assertion.Equal("CARD", submitted.PaymentDetails[0].PaymentWalletType)
	assertion.NotEmpty(submitted.TraceId)
	assertion.Equal(submitted.TraceId, submitted.ClientTraceId)

	stats := tradingService.GetStats()
	assertion.Equal(int64(1), stats.CyclesCompleted)
	assertion.Equal(98.5, stats.CurrentBalance)
	assertion.InDelta(-1.5, stats.TotalProfit, 0.0000001)
	assertion.Len(stats.TradeHistory, 1)
	assertion.Equal(10.0, stats.TradeHistory[0].BuyAmount)
	assertion.InDelta(-1.5, stats.TradeHistory[0].ProfitLoss, 0.0000001)
	assertion.Equal(int64(1), stats.TradeHistory[0].CycleNumber)
}

func TestRunCycleAppliesPendingPriceDiscount(t *testing.T) {
	assertion := assert.New(t)

	binance := new(ExchangeApiMock)
	balanceService := new(BalanceServiceMock)
	fillWaiter := new(FillWaiterMock)
	timeService := new(TimeServiceMock)

	config := testTradeConfig()
	config.PendingPriceDiscount = 0.0005

	balanceService.On("GetAssetBalance", "USDT", true).Return(100.0).Once()
	balanceService.On("GetAssetBalance", "USDT", false).Return(100.0).Once()

	buyQuote := model.Quote{
		"toCoinAmount":   "12.5",
		"fromCoinAmount": "10",
		"price":          "0.81",
	}

	binance.On("GetQuote", mock.Anything, "buy").Return(buyQuote, nil)
	binance.On("GetQuote", mock.Anything, "sell").Return(nil, nil)

	accepted := true
	var submitted model.LimitOrderPayload
	binance.On("PlaceLimitReverseOrder", mock.Anything).Run(func(args mock.Arguments) {
		submitted = args.Get(0).(model.LimitOrderPayload)
	}).Return(model.OrderResult{
		Success: &accepted,
		Data: &model.OrderMeta{
			WorkingOrderId: "333",
		},
	})

	fillWaiter.On("WaitForLimitFill", []string{"333", ""}, "ALPHA_22USDT").Return([]model.TradeFill{
		{OrderId: "333", Qty: "12.5", QuoteQty: "10.125"},
	}, model.FillStateFilled)

	timeService.On("WaitMilliseconds", mock.Anything)
	timeService.On("GetNowUnix").Return(1700000000)

	tradingService := newTestTradingService(config, binance, balanceService, fillWaiter, timeService)

	assertion.True(tradingService.RunCycle())

	assertion.Equal("0.81", submitted.WorkingPrice)
	// 0.81 * (1 - 0.0005)
	assertion.Equal("0.809595", submitted.PendingPrice)
}

func TestRunCycleUsesConfiguredWorkingPrice(t *testing.T) {
	assertion := assert.New(t)

	binance := new(ExchangeApiMock)
	balanceService := new(BalanceServiceMock)
	fillWaiter := new(FillWaiterMock)
	timeService := new(TimeServiceMock)

	config := testTradeConfig()
	config.BuyPrice = 0.8

	balanceService.On("GetAssetBalance", "USDT", true).Return(100.0).Once()
	balanceService.On("GetAssetBalance", "USDT", false).Return(100.0)

	buyQuote := model.Quote{
		"toCoinAmount":   "12.5",
		"fromCoinAmount": "10",
		"price":          "0.81",
	}

	binance.On("GetQuote", mock.Anything, "buy").Return(buyQuote, nil)
	binance.On("GetQuote", mock.Anything, "sell").Return(model.Quote{"price": "0.82"}, nil)

	accepted := true
	var submitted model.LimitOrderPayload
	binance.On("PlaceLimitReverseOrder", mock.Anything).Run(func(args mock.Arguments) {
		submitted = args.Get(0).(model.LimitOrderPayload)
	}).Return(model.OrderResult{
		Success: &accepted,
		Data:    &model.OrderMeta{WorkingOrderId: "444"},
	})

	fillWaiter.On("WaitForLimitFill", []string{"444", ""}, "ALPHA_22USDT").Return([]model.TradeFill{
		{OrderId: "444", Qty: "12.5", QuoteQty: "10"},
	}, model.FillStateFilled)

	timeService.On("WaitMilliseconds", mock.Anything)
	timeService.On("GetNowUnix").Return(1700000000)

	tradingService := newTestTradingService(config, binance, balanceService, fillWaiter, timeService)

	assertion.True(tradingService.RunCycle())

	assertion.Equal("0.8", submitted.WorkingPrice)
	assertion.Equal("10", submitted.PaymentDetails[0].Amount)
}

func TestRunCycleAbortsOnRejectedLimitOrder(t *testing.T) {
	assertion := assert.New(t)

	binance := new(ExchangeApiMock)
	balanceService := new(BalanceServiceMock)
	fillWaiter := new(FillWaiterMock)
	timeService := new(TimeServiceMock)

	balanceService.On("GetAssetBalance", "USDT", true).Return(100.0)

	buyQuote := model.Quote{
		"toCoinAmount":   "12.5",
		"fromCoinAmount": "10",
	}

	binance.On("GetQuote", mock.Anything, "buy").Return(buyQuote, nil)
	binance.On("GetQuote", mock.Anything, "sell").Return(nil, nil)
	binance.On("PlaceLimitReverseOrder", mock.Anything).Return(model.OrderResult{
		Code:    "351012",
		Message: "Insufficient balance",
	})

	timeService.On("WaitMilliseconds", mock.Anything)

	tradingService := newTestTradingService(testTradeConfig(), binance, balanceService, fillWaiter, timeService)

	assertion.False(tradingService.RunCycle())
	fillWaiter.AssertNotCalled(t, "WaitForLimitFill", mock.Anything, mock.Anything)

	stats := tradingService.GetStats()
	assertion.Equal(int64(0), stats.CyclesCompleted)
	assertion.Len(stats.TradeHistory, 0)
}

func TestRunCycleMarketPath(t *testing.T) {
	assertion := assert.New(t)

	binance := new(ExchangeApiMock)
	balanceService := new(BalanceServiceMock)
	fillWaiter := new(FillWaiterMock)
	timeService := new(TimeServiceMock)

	config := testTradeConfig()
	config.MarketOrdersOnly = true

	balanceService.On("GetAssetBalance", "USDT", true).Return(100.0).Once()
	balanceService.On("GetAssetBalance", "KOGE", false).Return(12.5).Once()
	balanceService.On("GetAssetBalance", "USDT", false).Return(99.9).Once()
	balanceService.On("InvalidateBalanceCache", "KOGE")
	balanceService.On("InvalidateBalanceCache", "USDT")

	buyQuote := model.Quote{
		"quoteId":        "q-1",
		"toCoinAmount":   "12.5",
		"fromCoinAmount": "10",
	}
	sellQuote := model.Quote{
		"quoteId":        "q-2",
		"toCoinAmount":   "9.99",
		"fromCoinAmount": "12.5",
	}

	binance.On("GetQuote", mock.Anything, "buy").Return(buyQuote, nil)
	binance.On("GetQuote", mock.Anything, "sell").Return(sellQuote, nil)

	accepted := true
	binance.On("BuyToken", mock.Anything).Return(model.OrderResult{
		Success: &accepted,
		TraceId: "buy-trace",
	})
	binance.On("SellToken", mock.Anything).Return(model.OrderResult{
		Success: &accepted,
		TraceId: "sell-trace",
	})

	fillWaiter.On("WaitForFill", "buy-trace", "buy").Return(
		&model.OrderStatus{OrderStatus: "FILLED"}, model.FillStateFilled)
	fillWaiter.On("WaitForFill", "sell-trace", "sell").Return(
		&model.OrderStatus{OrderStatus: "FILLED"}, model.FillStateFilled)

	timeService.On("GetNowUnix").Return(1700000000)

	tradingService := newTestTradingService(config, binance, balanceService, fillWaiter, timeService)

	assertion.True(tradingService.RunCycle())
	binance.AssertNotCalled(t, "PlaceLimitReverseOrder", mock.Anything)

	stats := tradingService.GetStats()
	assertion.Equal(int64(1), stats.CyclesCompleted)
	assertion.Equal(99.9, stats.CurrentBalance)
	assertion.InDelta(-0.1, stats.TotalProfit, 0.0000001)
}

func TestStopIsIdempotent(t *testing.T) {
	assertion := assert.New(t)

	tradingService := newTestTradingService(
		testTradeConfig(),
		new(ExchangeApiMock),
		new(BalanceServiceMock),
		new(FillWaiterMock),
		new(TimeServiceMock),
	)

	assertion.False(tradingService.IsRunning())
	tradingService.Stop()
	tradingService.Stop()
	assertion.False(tradingService.IsRunning())
}
