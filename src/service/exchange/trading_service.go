package exchange

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"

	uuid2 "github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gitlab.com/open-soft/go-alpha-bot/src/client"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
)

const (
	QuotePriorityMode   = "priorityOnCustom"
	QuoteNetworkFeeMode = "priorityOnSuccess"
	QuoteCustomSlippage = "0.001"
)

var workingQuantityFields = []string{"filledAmount", "toCoinAmount", "workingQuantity", "quantity"}
var paymentAmountFields = []string{"fromCoinAmount", "payAmount", "workingAmount"}
var workingPriceFields = []string{"price", "workingPrice", "avgPrice"}
var baseAssetFields = []string{"tradeBase", "baseAsset", "workingBaseAsset"}
var pendingPriceFields = []string{"price", "pendingPrice", "expectedPrice"}

// TradingService runs the buy-then-exit trade cycle: derive order
// parameters from quotes, submit the reverse limit order, await the fill
// and account the realized result. Exactly one cycle is in flight at a
// time.
type TradingService struct {
	Config         *model.TradeConfig
	Exchange       client.ExchangeApiInterface
	HttpClient     client.HttpClientInterface
	BalanceService BalanceServiceInterface
	FillWaiter     FillWaiterInterface
	PayloadBuilder *OrderPayloadBuilder
	Formatter      *utils.Formatter
	TimeService    utils.TimeServiceInterface
	Log            service.LogServiceInterface

	Stats      model.TradingStats
	statsMutex sync.Mutex
	running    atomic.Bool
}

func (s *TradingService) IsRunning() bool {
	return s.running.Load()
}

// RequestStop clears the running flag. Cancellation is cooperative: the
// cycle loop and the single-order fill wait observe it at their next check.
func (s *TradingService) RequestStop() {
	s.running.Store(false)
}

func (s *TradingService) Start() {
	if !s.running.CompareAndSwap(false, true) {
		s.Log.Info("trading already running")
		return
	}

	s.statsMutex.Lock()
	s.Stats.StartTime = s.TimeService.GetNowUnix()
	s.statsMutex.Unlock()

	s.Log.InfoForce("trading loop started")

	defer s.Stop()

	for s.running.Load() {
		if s.Config.MaxCycles > 0 && s.GetStats().CyclesCompleted >= s.Config.MaxCycles {
			s.Log.Info("maximum configured cycles reached, stopping")
			break
		}

		if !s.RunCycle() {
			s.Log.InfoForce("cycle failed; backing off before retry")
			s.TimeService.WaitMilliseconds(int64(s.Config.RetryDelay * 1000))
			continue
		}

		s.TimeService.WaitMilliseconds(int64(s.Config.CycleInterval * 1000))
	}
}

// RunOnce executes a single cycle and releases the transport.
func (s *TradingService) RunOnce() bool {
	if !s.running.CompareAndSwap(false, true) {
		s.Log.Info("trading already running")
		return false
	}

	s.statsMutex.Lock()
	s.Stats.StartTime = s.TimeService.GetNowUnix()
	s.statsMutex.Unlock()

	defer s.Stop()

	return s.RunCycle()
}

// Stop clears the running flag and releases the owned transport. Safe to
// call more than once.
func (s *TradingService) Stop() {
	if s.running.Swap(false) {
		s.Log.InfoForce("trading loop stopped")
	}

	if s.HttpClient != nil {
		s.HttpClient.Close()
	}
}

func (s *TradingService) GetStats() model.TradingStats {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.Stats
	stats.TradeHistory = make([]model.TradeRecord, len(s.Stats.TradeHistory))
	copy(stats.TradeHistory, s.Stats.TradeHistory)

	return stats
}

func (s *TradingService) RunCycle() bool {
	quoteAsset := s.Config.GetQuoteAsset()
	usdtBalance := s.BalanceService.GetAssetBalance(quoteAsset, true)

	s.statsMutex.Lock()
	if s.Stats.StartBalance == 0 {
		s.Stats.StartBalance = usdtBalance
	}
	s.Stats.CurrentBalance = usdtBalance
	s.statsMutex.Unlock()

	requiredBalance := s.Config.GetRequiredBalance()
	if usdtBalance < requiredBalance {
		s.Log.Warning(fmt.Sprintf(
			"insufficient %s balance: %.4f < %.4f",
			quoteAsset,
			usdtBalance,
			requiredBalance,
		))

		return false
	}

	startingBalance := decimal.NewFromFloat(usdtBalance)
	nextCycle := s.GetStats().CyclesCompleted + 1

	s.Log.InfoForce(fmt.Sprintf(
		"starting cycle %d, buying %.4f %s",
		nextCycle,
		s.Config.BuyAmount,
		s.Config.FromToken,
	))

	buyQuote, err := s.Exchange.GetQuote(model.QuoteRequest{
		FromToken:            s.Config.FromToken,
		FromBinanceChainId:   s.Config.FromChainId,
		FromCoinAmount:       s.Formatter.FormatDecimalValue(s.Config.BuyAmount),
		ToToken:              s.Config.ToToken,
		ToBinanceChainId:     s.Config.ToChainId,
		ToContractAddress:    s.Config.ContractAddress,
		PriorityMode:         QuotePriorityMode,
		CustomNetworkFeeMode: QuoteNetworkFeeMode,
		CustomSlippage:       QuoteCustomSlippage,
	}, "buy")

	if err != nil || len(buyQuote) == 0 {
		s.Log.Warning("buy quote unavailable; aborting cycle")
		return false
	}

	if s.Config.MarketOrdersOnly {
		return s.runMarketCycle(buyQuote, startingBalance, nextCycle)
	}

	sellQuote, _ := s.Exchange.GetQuote(model.QuoteRequest{
		FromToken:            s.Config.ToToken,
		FromBinanceChainId:   s.Config.ToChainId,
		FromContractAddress:  s.Config.ContractAddress,
		FromCoinAmount:       buyQuote.StringValue("toCoinAmount"),
		ToToken:              s.Config.FromToken,
		ToBinanceChainId:     s.Config.FromChainId,
		ToContractAddress:    "",
		PriorityMode:         QuotePriorityMode,
		CustomNetworkFeeMode: QuoteNetworkFeeMode,
		CustomSlippage:       QuoteCustomSlippage,
	}, "sell")

	workingQuantityRaw := s.Formatter.ExtractDecimal(buyQuote, workingQuantityFields)
	if workingQuantityRaw == nil || !workingQuantityRaw.IsPositive() {
		s.Log.Error("unable to determine working quantity from quote")
		return false
	}

	workingQuantity := s.Formatter.QuantizeQuantity(*workingQuantityRaw)

	quotePaymentAmount := s.Formatter.ExtractDecimal(buyQuote, paymentAmountFields)
	if quotePaymentAmount == nil {
		fallback := decimal.NewFromFloat(s.Config.BuyAmount)
		quotePaymentAmount = &fallback
	}

	workingPriceRaw := s.Formatter.ExtractDecimal(buyQuote, workingPriceFields)
	if workingPriceRaw == nil {
		derived := quotePaymentAmount.Div(*workingQuantityRaw)
		workingPriceRaw = &derived
	}

	workingPriceCandidate := workingPriceRaw
	overridePrice := s.Formatter.AsDecimal(s.Config.BuyPrice)
	hasOverride := overridePrice != nil && overridePrice.IsPositive()
	if hasOverride {
		workingPriceCandidate = overridePrice
	}

	if workingPriceCandidate == nil || !workingPriceCandidate.IsPositive() {
		s.Log.Error("unable to resolve working price for limit order")
		return false
	}

	workingPrice := s.Formatter.QuantizePrice(*workingPriceCandidate)
	if hasOverride {
		s.Log.Info(fmt.Sprintf(
			"using configured working price %s %s",
			s.Formatter.FormatDecimal(workingPrice),
			s.Config.FromToken,
		))
	}

	paymentAmount := workingPrice.Mul(workingQuantity)
	if paymentAmount.IsPositive() {
		paymentAmount = s.Formatter.QuantizeAmount(paymentAmount)
	} else {
		paymentAmount = *quotePaymentAmount
	}

	baseAsset := s.resolveLimitBaseAsset(buyQuote, sellQuote)
	if len(baseAsset) == 0 {
		s.Log.Error("unable to resolve base asset for limit order")
		return false
	}

	pendingPrice := s.resolveLimitPendingPrice(workingPrice, sellQuote)

	traceId := uuid2.New().String()
	limitPayload := model.LimitOrderPayload{
		BaseAsset:       baseAsset,
		QuoteAsset:      quoteAsset,
		WorkingSide:     model.OrderSideBuy,
		WorkingPrice:    s.Formatter.FormatDecimal(workingPrice),
		WorkingQuantity: s.Formatter.FormatDecimal(workingQuantity),
		PendingPrice:    s.Formatter.FormatDecimal(pendingPrice),
		PendingSide:     model.OrderSideSell,
		PaymentDetails: []model.PaymentDetail{
			{
				Amount:            s.Formatter.FormatDecimal(paymentAmount),
				PaymentWalletType: s.Config.GetPaymentWalletType(),
			},
		},
		TraceId:       traceId,
		ClientTraceId: traceId,
	}

	s.Log.Info(fmt.Sprintf("limit reverse order payload prepared: %+v", limitPayload))

	// Let the preceding balance mutation settle before submitting.
	settleDelay := 1000 + rand.Int63n(1000)
	s.Log.Info(fmt.Sprintf("delaying limit order submission by %d ms to allow balance update", settleDelay))
	s.TimeService.WaitMilliseconds(settleDelay)

	limitResult := s.Exchange.PlaceLimitReverseOrder(limitPayload)
	if !limitResult.IsAccepted() {
		s.Log.Error(fmt.Sprintf("limit reverse order rejected: %s", limitResult.GetErrorMessage()))
		return false
	}

	var workingOrderId, pendingOrderId string
	if limitResult.Data != nil {
		workingOrderId = limitResult.Data.WorkingOrderId.Value()
		pendingOrderId = limitResult.Data.PendingOrderId.Value()
	}

	symbol := limitPayload.GetSymbol()
	trades, _ := s.FillWaiter.WaitForLimitFill([]string{workingOrderId, pendingOrderId}, symbol)
	if len(trades) == 0 {
		s.Log.Error("limit order fill failed; aborting cycle")
		return false
	}

	var selectedOrderId string
	totalQty := decimal.Zero
	totalQuote := decimal.Zero

	for _, fill := range trades {
		if len(fill.OrderId.Value()) > 0 {
			selectedOrderId = fill.OrderId.Value()
		}

		s.Log.Info(fmt.Sprintf(
			"trade fill detail: order %s side=%s price=%s qty=%s quoteQty=%s commission=%s %s",
			fill.OrderId.Value(),
			fill.Side,
			fill.Price.Value(),
			fill.Qty.Value(),
			fill.QuoteQty.Value(),
			fill.Commission.Value(),
			fill.CommissionAsset,
		))

		if qty := s.Formatter.AsDecimal(fill.Qty.Value()); qty != nil {
			totalQty = totalQty.Add(*qty)
		}

		if quoteQty := s.Formatter.AsDecimal(fill.QuoteQty.Value()); quoteQty != nil {
			totalQuote = totalQuote.Add(*quoteQty)
		}
	}

	orderFill := model.OrderFillRecord{
		FilledQuantity: totalQty,
		QuoteAmount:    totalQuote,
	}
	avgFillPrice := orderFill.GetAvgFillPrice()

	postBalance := s.BalanceService.GetAssetBalance(quoteAsset, false)
	postBalanceDecimal := decimal.NewFromFloat(postBalance)
	profitLoss := postBalanceDecimal.Sub(startingBalance)

	lossDecimal := decimal.Zero
	if profitLoss.IsNegative() {
		lossDecimal = profitLoss.Neg()
	}

	lossPercent := decimal.Zero
	if startingBalance.IsPositive() && lossDecimal.IsPositive() {
		lossPercent = lossDecimal.Div(startingBalance).Mul(decimal.NewFromInt(100))
	}

	filledQuantity := orderFill.FilledQuantity
	if filledQuantity.IsZero() {
		filledQuantity = workingQuantity
	}

	spentAmount := orderFill.QuoteAmount
	if spentAmount.IsZero() {
		spentAmount = paymentAmount
	}

	realizedAmount := orderFill.QuoteAmount
	if realizedAmount.IsZero() {
		realizedAmount = spentAmount.Add(profitLoss)
	}

	spentFloat, _ := spentAmount.Float64()
	realizedFloat, _ := realizedAmount.Float64()
	profitFloat, _ := profitLoss.Float64()

	trade := model.TradeRecord{
		Time:        s.TimeService.GetNowUnix(),
		BuyAmount:   spentFloat,
		SellAmount:  realizedFloat,
		ProfitLoss:  profitFloat,
		CycleNumber: nextCycle,
	}

	s.recordTrade(trade, postBalance)

	s.Log.InfoForce(fmt.Sprintf(
		"cycle %d complete: limit order filled %s %s, P/L %s",
		trade.CycleNumber,
		s.Formatter.FormatDecimal(filledQuantity),
		s.Config.ToToken,
		s.Formatter.FormatDecimal(profitLoss),
	))

	if len(selectedOrderId) == 0 {
		selectedOrderId = workingOrderId
	}
	if len(selectedOrderId) == 0 {
		selectedOrderId = pendingOrderId
	}
	if len(selectedOrderId) == 0 {
		selectedOrderId = "N/A"
	}

	s.Log.InfoForce(fmt.Sprintf(
		"limit order summary: order=%s buy_target=%s %s, sell_target=%s %s, avg_fill=%s, "+
			"quantity=%s %s, quote_spent=%s %s, balance_change=%s %s, loss=%s %s (%s%%)",
		selectedOrderId,
		s.Formatter.FormatDecimal(workingPrice),
		quoteAsset,
		s.Formatter.FormatDecimal(pendingPrice),
		quoteAsset,
		s.Formatter.FormatDecimal(avgFillPrice),
		s.Formatter.FormatDecimal(totalQty),
		baseAsset,
		s.Formatter.FormatDecimal(totalQuote),
		quoteAsset,
		s.Formatter.FormatDecimal(profitLoss),
		quoteAsset,
		s.Formatter.FormatDecimal(lossDecimal),
		quoteAsset,
		s.Formatter.FormatDecimal(lossPercent),
	))

	s.Log.InfoForce(fmt.Sprintf(
		"cycle %d summary: spent %s %s, loss %s %s, balance change %s %s, loss rate %s%%",
		trade.CycleNumber,
		s.Formatter.FormatDecimal(spentAmount),
		s.Config.FromToken,
		s.Formatter.FormatDecimal(lossDecimal),
		s.Config.FromToken,
		s.Formatter.FormatDecimal(profitLoss),
		s.Config.FromToken,
		s.Formatter.FormatDecimal(lossPercent),
	))

	return true
}

// runMarketCycle is the reduced path: market buy followed by a market sell,
// no limit-order legs.
func (s *TradingService) runMarketCycle(buyQuote model.Quote, startingBalance decimal.Decimal, nextCycle int64) bool {
	buyPayload := s.PayloadBuilder.Build(map[string]interface{}{
		"fromToken":          s.Config.FromToken,
		"fromBinanceChainId": s.Config.FromChainId,
		"fromCoinAmount":     s.Formatter.FormatDecimalValue(s.Config.BuyAmount),
		"toToken":            s.Config.ToToken,
		"toBinanceChainId":   s.Config.ToChainId,
		"toContractAddress":  s.Config.ContractAddress,
	}, buyQuote, DefaultPayMethod)

	s.Log.Info(fmt.Sprintf("placing buy: %v", buyPayload))

	buyResult := s.Exchange.BuyToken(buyPayload)
	if !buyResult.IsAccepted() {
		s.Log.Error(fmt.Sprintf("buy rejected: %s", buyResult.GetErrorMessage()))
		return false
	}

	if _, state := s.FillWaiter.WaitForFill(buyResult.GetTraceId(), "buy"); state != model.FillStateFilled {
		s.Log.Error("buy order fill failed; aborting cycle")
		return false
	}

	tokenAsset := strings.ToUpper(s.Config.ToToken)
	s.BalanceService.InvalidateBalanceCache(tokenAsset)

	tokenBalance := s.BalanceService.GetAssetBalance(tokenAsset, false)
	if tokenBalance <= 0 {
		s.Log.Error(fmt.Sprintf("no %s balance received after buy", tokenAsset))
		return false
	}

	sellQuote, err := s.Exchange.GetQuote(model.QuoteRequest{
		FromToken:            s.Config.ToToken,
		FromBinanceChainId:   s.Config.ToChainId,
		FromContractAddress:  s.Config.ContractAddress,
		FromCoinAmount:       s.Formatter.FormatDecimalValue(tokenBalance),
		ToToken:              s.Config.FromToken,
		ToBinanceChainId:     s.Config.FromChainId,
		ToContractAddress:    "",
		PriorityMode:         QuotePriorityMode,
		CustomNetworkFeeMode: QuoteNetworkFeeMode,
		CustomSlippage:       QuoteCustomSlippage,
	}, "sell")

	if err != nil || len(sellQuote) == 0 {
		s.Log.Error("sell quote unavailable; aborting cycle")
		return false
	}

	sellPayload := s.PayloadBuilder.Build(map[string]interface{}{
		"fromToken":           s.Config.ToToken,
		"fromBinanceChainId":  s.Config.ToChainId,
		"fromContractAddress": s.Config.ContractAddress,
		"fromCoinAmount":      s.Formatter.FormatDecimalValue(tokenBalance),
		"toToken":             s.Config.FromToken,
		"toBinanceChainId":    s.Config.FromChainId,
	}, sellQuote, DefaultPayMethod)

	s.Log.Info(fmt.Sprintf("placing sell: %v", sellPayload))

	sellResult := s.Exchange.SellToken(sellPayload)
	if !sellResult.IsAccepted() {
		s.Log.Error(fmt.Sprintf("sell rejected: %s", sellResult.GetErrorMessage()))
		return false
	}

	if _, state := s.FillWaiter.WaitForFill(sellResult.GetTraceId(), "sell"); state != model.FillStateFilled {
		s.Log.Error("sell order fill failed; aborting cycle")
		return false
	}

	quoteAsset := s.Config.GetQuoteAsset()
	s.BalanceService.InvalidateBalanceCache(quoteAsset)

	postBalance := s.BalanceService.GetAssetBalance(quoteAsset, false)
	profitLoss := decimal.NewFromFloat(postBalance).Sub(startingBalance)
	profitFloat, _ := profitLoss.Float64()

	trade := model.TradeRecord{
		Time:        s.TimeService.GetNowUnix(),
		BuyAmount:   s.Config.BuyAmount,
		SellAmount:  s.Config.BuyAmount + profitFloat,
		ProfitLoss:  profitFloat,
		CycleNumber: nextCycle,
	}

	s.recordTrade(trade, postBalance)

	s.Log.InfoForce(fmt.Sprintf(
		"cycle %d complete: sold %s %s, P/L %s %s",
		trade.CycleNumber,
		s.Formatter.FormatDecimalValue(tokenBalance),
		s.Config.ToToken,
		s.Formatter.FormatDecimal(profitLoss),
		s.Config.FromToken,
	))

	return true
}

func (s *TradingService) recordTrade(trade model.TradeRecord, postBalance float64) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.Stats.TradeHistory = append(s.Stats.TradeHistory, trade)
	s.Stats.TotalVolume += trade.BuyAmount
	s.Stats.TotalProfit += trade.ProfitLoss
	s.Stats.CyclesCompleted++
	s.Stats.CurrentBalance = postBalance
	s.Stats.LastUpdated = s.TimeService.GetNowUnix()
}

func (s *TradingService) resolveLimitBaseAsset(quotes ...model.Quote) string {
	for _, quote := range quotes {
		for _, key := range baseAssetFields {
			if value := quote.StringValue(key); len(value) > 0 {
				return value
			}
		}
	}

	return s.Config.BaseAsset
}

// resolveLimitPendingPrice applies the configured discount when present,
// otherwise falls back to the sell quote. The two sources are mutually
// exclusive.
func (s *TradingService) resolveLimitPendingPrice(workingPrice decimal.Decimal, sellQuote model.Quote) decimal.Decimal {
	discount := s.Formatter.AsDecimal(s.Config.PendingPriceDiscount)

	var pendingPrice decimal.Decimal

	if discount == nil || !discount.IsPositive() {
		candidate := s.Formatter.ExtractDecimal(sellQuote, pendingPriceFields)
		if candidate != nil {
			pendingPrice = *candidate
		} else {
			pendingPrice = workingPrice
		}
	} else {
		factor := decimal.NewFromInt(1).Sub(*discount)
		if factor.IsNegative() {
			factor = decimal.Zero
		}

		pendingPrice = workingPrice.Mul(factor)
	}

	if !pendingPrice.IsPositive() {
		pendingPrice = workingPrice
	}

	return s.Formatter.QuantizePrice(pendingPrice)
}
