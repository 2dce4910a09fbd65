package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"

	"gitlab.com/open-soft/go-alpha-bot/src/model"
)

const BinanceDSN = "https://www.binance.com"

const (
	QuotePath          = "/bapi/defi/v1/private/wallet-direct/swap/cex/get-quote"
	BuyPrePaymentPath  = "/bapi/defi/v2/private/wallet-direct/swap/cex/buy/pre/payment"
	SellPrePaymentPath = "/bapi/defi/v2/private/wallet-direct/swap/cex/sell/pre/payment"
	OtoOrderPlacePath  = "/bapi/asset/v1/private/alpha-trade/oto-order/place"
	BalancePath        = "/bapi/asset/v2/private/asset-service/wallet/balance" +
		"?quoteAsset=BTC&needBalanceDetail=true&needEuFuture=true"
	OrderStatusPath = "/bapi/defi/v1/private/wallet-direct/swap/cex/query-order"
	OrderTradesPath = "/bapi/defi/v1/private/alpha-trade/order/get-user-trades"
)

type ExchangeApiInterface interface {
	GetQuote(params model.QuoteRequest, label string) (model.Quote, error)
	BuyToken(payload map[string]interface{}) model.OrderResult
	SellToken(payload map[string]interface{}) model.OrderResult
	PlaceLimitReverseOrder(payload model.LimitOrderPayload) model.OrderResult
	GetOrderStatus(traceId string) (*model.OrderStatus, error)
	GetOrderTrades(orderId string, symbol string) ([]model.TradeFill, error)
	GetBalances() ([]model.Account, error)
}

// BinanceAlpha is the typed gateway over the Binance Alpha private trading
// surface. Every operation logs its failure and hands an absent result back,
// the orchestrator decides whether the cycle survives.
type BinanceAlpha struct {
	HttpClient HttpClientInterface
	DSN        string
}

func (b *BinanceAlpha) GetQuote(params model.QuoteRequest, label string) (model.Quote, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	result, err := b.HttpClient.Post(b.DSN+QuotePath, encoded)
	if err != nil {
		log.Printf("%s quote failure: %s", label, err.Error())
		return nil, err
	}

	var response model.QuoteResponse
	if err = decodeWithNumbers(result, &response); err != nil {
		log.Printf("%s quote: %s", label, err.Error())
		return nil, err
	}

	return response.Data, nil
}

func (b *BinanceAlpha) BuyToken(payload map[string]interface{}) model.OrderResult {
	return b.placeOrder(b.DSN+BuyPrePaymentPath, payload, "buy")
}

func (b *BinanceAlpha) SellToken(payload map[string]interface{}) model.OrderResult {
	return b.placeOrder(b.DSN+SellPrePaymentPath, payload, "sell")
}

func (b *BinanceAlpha) PlaceLimitReverseOrder(payload model.LimitOrderPayload) model.OrderResult {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return failedOrderResult(err)
	}

	result, err := b.HttpClient.Post(b.DSN+OtoOrderPlacePath, encoded)
	if err != nil {
		log.Printf("limit reverse order failure: %s", err.Error())
		return failedOrderResult(err)
	}

	var orderResult model.OrderResult
	if err = json.Unmarshal(result, &orderResult); err != nil {
		log.Printf("limit reverse order: %s", err.Error())
		return failedOrderResult(err)
	}

	return orderResult
}

func (b *BinanceAlpha) GetOrderStatus(traceId string) (*model.OrderStatus, error) {
	encoded, err := json.Marshal(map[string]string{"traceId": traceId})
	if err != nil {
		return nil, err
	}

	result, err := b.HttpClient.Post(b.DSN+OrderStatusPath, encoded)
	if err != nil {
		log.Printf("order status failure: %s", err.Error())
		return nil, err
	}

	var response model.OrderStatusResponse
	if err = json.Unmarshal(result, &response); err != nil {
		log.Printf("order status: %s", err.Error())
		return nil, err
	}

	if response.Success != nil && !*response.Success {
		log.Printf("order status request unsuccessful: %s", response.Message)
		return nil, errors.New(fmt.Sprintf("order status request unsuccessful: %s", response.Message))
	}

	return response.Data, nil
}

func (b *BinanceAlpha) GetOrderTrades(orderId string, symbol string) ([]model.TradeFill, error) {
	if len(orderId) == 0 || len(symbol) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("orderId", orderId)
	query.Set("symbol", symbol)

	result, err := b.HttpClient.Get(fmt.Sprintf("%s%s?%s", b.DSN, OrderTradesPath, query.Encode()))
	if err != nil {
		log.Printf("order trades failure: %s", err.Error())
		return nil, err
	}

	var response model.OrderTradesResponse
	if err = json.Unmarshal(result, &response); err != nil {
		log.Printf("order trades: %s", err.Error())
		return nil, err
	}

	if response.Success != nil && !*response.Success {
		log.Printf("order trades request unsuccessful: %s", response.Message)
		return nil, errors.New(fmt.Sprintf("order trades request unsuccessful: %s", response.Message))
	}

	return response.Data, nil
}

func (b *BinanceAlpha) GetBalances() ([]model.Account, error) {
	result, err := b.HttpClient.Get(b.DSN + BalancePath)
	if err != nil {
		log.Printf("balance request failure: %s", err.Error())
		return nil, err
	}

	var response model.BalanceResponse
	if err = json.Unmarshal(result, &response); err != nil {
		log.Printf("balance response: %s", err.Error())
		return nil, err
	}

	return response.Data, nil
}

func (b *BinanceAlpha) placeOrder(requestUrl string, payload map[string]interface{}, label string) model.OrderResult {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return failedOrderResult(err)
	}

	result, err := b.HttpClient.Post(requestUrl, encoded)
	if err != nil {
		log.Printf("%s failure: %s", label, err.Error())
		return failedOrderResult(err)
	}

	var orderResult model.OrderResult
	if err = json.Unmarshal(result, &orderResult); err != nil {
		log.Printf("%s response: %s", label, err.Error())
		return failedOrderResult(err)
	}

	return orderResult
}

func failedOrderResult(err error) model.OrderResult {
	success := false

	return model.OrderResult{
		Success: &success,
		Message: err.Error(),
	}
}

// decodeWithNumbers keeps numeric fields as json.Number so the normalizer
// can coerce them without a float64 round trip.
func decodeWithNumbers(data []byte, target interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	return decoder.Decode(target)
}
