package exchange

import (
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
)

type ExchangeApiMock struct {
	mock.Mock
}

func (e *ExchangeApiMock) GetQuote(params model.QuoteRequest, label string) (model.Quote, error) {
	args := e.Called(params, label)
	quote := args.Get(0)
	if quote == nil {
		return nil, args.Error(1)
	}
	return quote.(model.Quote), args.Error(1)
}
func (e *ExchangeApiMock) BuyToken(payload map[string]interface{}) model.OrderResult {
	args := e.Called(payload)
	return args.Get(0).(model.OrderResult)
}
func (e *ExchangeApiMock) SellToken(payload map[string]interface{}) model.OrderResult {
	args := e.Called(payload)
	return args.Get(0).(model.OrderResult)
}
func (e *ExchangeApiMock) PlaceLimitReverseOrder(payload model.LimitOrderPayload) model.OrderResult {
	args := e.Called(payload)
	return args.Get(0).(model.OrderResult)
}
func (e *ExchangeApiMock) GetOrderStatus(traceId string) (*model.OrderStatus, error) {
	args := e.Called(traceId)
	status := args.Get(0)
	if status == nil {
		return nil, args.Error(1)
	}
	return status.(*model.OrderStatus), args.Error(1)
}
func (e *ExchangeApiMock) GetOrderTrades(orderId string, symbol string) ([]model.TradeFill, error) {
	args := e.Called(orderId, symbol)
	trades := args.Get(0)
	if trades == nil {
		return nil, args.Error(1)
	}
	return trades.([]model.TradeFill), args.Error(1)
}
func (e *ExchangeApiMock) GetBalances() ([]model.Account, error) {
	args := e.Called()
	accounts := args.Get(0)
	if accounts == nil {
		return nil, args.Error(1)
	}
	return accounts.([]model.Account), args.Error(1)
}

type BalanceServiceMock struct {
	mock.Mock
}

func (b *BalanceServiceMock) GetAssetBalance(asset string, cache bool) float64 {
	args := b.Called(asset, cache)
	return args.Get(0).(float64)
}
func (b *BalanceServiceMock) InvalidateBalanceCache(asset string) {
	_ = b.Called(asset)
}

type FillWaiterMock struct {
	mock.Mock
}

func (f *FillWaiterMock) WaitForFill(traceId string, side string) (*model.OrderStatus, model.FillState) {
	args := f.Called(traceId, side)
	status := args.Get(0)
	if status == nil {
		return nil, args.Get(1).(model.FillState)
	}
	return status.(*model.OrderStatus), args.Get(1).(model.FillState)
}
func (f *FillWaiterMock) WaitForLimitFill(orderIds []string, symbol string) ([]model.TradeFill, model.FillState) {
	args := f.Called(orderIds, symbol)
	trades := args.Get(0)
	if trades == nil {
		return nil, args.Get(1).(model.FillState)
	}
	return trades.([]model.TradeFill), args.Get(1).(model.FillState)
}

type TimeServiceMock struct {
	mock.Mock
}

func (t *TimeServiceMock) WaitMilliseconds(milliseconds int64) {
	_ = t.Called(milliseconds)
}
func (t *TimeServiceMock) GetNowUnix() int64 {
	args := t.Called()
	return int64(args.Int(0))
}
