package exchange

import (
	"fmt"
	"strings"

	"gitlab.com/open-soft/go-alpha-bot/src/client"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
)

var fillSuccessStates = []string{"FILLED", "FINISHED", "SUCCESS", "COMPLETED", "EXECUTED", "TRIGGERED"}
var fillFailureStates = []string{"REJECTED", "CANCELLED", "FAILED", "EXPIRED", "TERMINATED"}

func IsFillSuccessState(status string) bool {
	return containsState(fillSuccessStates, status)
}

func IsFillFailureState(status string) bool {
	return containsState(fillFailureStates, status)
}

func containsState(states []string, status string) bool {
	for _, state := range states {
		if state == status {
			return true
		}
	}

	return false
}

type FillWaiterInterface interface {
	WaitForFill(traceId string, side string) (*model.OrderStatus, model.FillState)
	WaitForLimitFill(orderIds []string, symbol string) ([]model.TradeFill, model.FillState)
}

// FillWaiter polls the order endpoints on a fixed interval until a terminal
// state or the fill deadline is reached.
type FillWaiter struct {
	Exchange    client.ExchangeApiInterface
	Config      *model.TradeConfig
	Log         service.LogServiceInterface
	TimeService utils.TimeServiceInterface
	IsRunning   func() bool
}

// WaitForFill tracks a single market order by trace id. A missing trace id
// is assumed filled, the pre-payment endpoints occasionally omit it on
// immediately executed orders.
func (f *FillWaiter) WaitForFill(traceId string, side string) (*model.OrderStatus, model.FillState) {
	if len(traceId) == 0 {
		f.Log.Warning(fmt.Sprintf("no trace id for %s order; assuming immediate fill", side))
		return &model.OrderStatus{OrderStatus: "FILLED"}, model.FillStateFilled
	}

	deadline := f.TimeService.GetNowUnix() + int64(f.Config.FillTimeout)

	for f.TimeService.GetNowUnix() < deadline {
		status, _ := f.Exchange.GetOrderStatus(traceId)

		if status != nil {
			orderStatus := status.ResolveStatus()
			pendingStatus := status.PendingOrderStatus

			// a present pending leg must itself be in a success state,
			// even when its value is still empty
			if IsFillSuccessState(orderStatus) && (pendingStatus == nil || IsFillSuccessState(*pendingStatus)) {
				f.Log.Info(fmt.Sprintf("%s order %s filled with status %s", side, traceId, orderStatus))
				return status, model.FillStateFilled
			}

			if IsFillFailureState(orderStatus) || (pendingStatus != nil && IsFillFailureState(*pendingStatus)) {
				f.Log.Error(fmt.Sprintf("%s order %s failed with status %s", side, traceId, orderStatus))
				return nil, model.FillStateFailed
			}

			f.Log.Info(fmt.Sprintf("%s order %s still pending: %s", side, traceId, orderStatus))
		}

		if !f.IsRunning() {
			f.Log.Info(fmt.Sprintf("stopping wait for %s order %s as service is stopping", side, traceId))
			break
		}

		f.TimeService.WaitMilliseconds(int64(f.Config.FillPollInterval * 1000))
	}

	f.Log.Error(fmt.Sprintf("timed out waiting for %s order %s to fill", side, traceId))

	return nil, model.FillStateTimedOut
}

// WaitForLimitFill polls trade history for every candidate order id in a
// fixed order until one of them yields trades.
func (f *FillWaiter) WaitForLimitFill(orderIds []string, symbol string) ([]model.TradeFill, model.FillState) {
	candidates := make([]string, 0, len(orderIds))
	for _, orderId := range orderIds {
		if len(orderId) > 0 {
			candidates = append(candidates, orderId)
		}
	}

	if len(candidates) == 0 {
		f.Log.Error("no valid order ids provided when waiting for limit fill")
		return nil, model.FillStateFailed
	}

	deadline := f.TimeService.GetNowUnix() + int64(f.Config.FillTimeout)

	for f.TimeService.GetNowUnix() < deadline {
		for _, orderId := range candidates {
			trades, _ := f.Exchange.GetOrderTrades(orderId, symbol)
			if len(trades) > 0 {
				f.Log.Info(fmt.Sprintf("limit order %s filled with %d trade(s)", orderId, len(trades)))
				return trades, model.FillStateFilled
			}
		}

		f.TimeService.WaitMilliseconds(int64(f.Config.FillPollInterval * 1000))
	}

	f.Log.Error(fmt.Sprintf(
		"timed out waiting for limit orders %s to fill",
		strings.Join(candidates, ", "),
	))

	return nil, model.FillStateTimedOut
}
