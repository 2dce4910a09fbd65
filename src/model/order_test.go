package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderResultIsAccepted(t *testing.T) {
	assertion := assert.New(t)

	explicitFailure := false
	explicitSuccess := true

	accepted := []OrderResult{
		{},
		{Code: "SUCCESS"},
		{Code: "success"},
		{Code: "000000"},
		{Code: "0", Success: &explicitSuccess},
	}
	for _, result := range accepted {
		assertion.True(result.IsAccepted())
	}

	rejected := []OrderResult{
		{Success: &explicitFailure},
		{Success: &explicitFailure, Code: "SUCCESS"},
		{Code: "351012"},
		{Code: "100002001", Message: "Unauthorized"},
	}
	for _, result := range rejected {
		assertion.False(result.IsAccepted())
	}
}

func TestOrderResultGetTraceIdChain(t *testing.T) {
	assertion := assert.New(t)

	result := OrderResult{TraceId: "top-trace", OrderId: "top-order"}
	assertion.Equal("top-trace", result.GetTraceId())

	result = OrderResult{OrderId: "top-order", BizId: "top-biz"}
	assertion.Equal("top-order", result.GetTraceId())

	result = OrderResult{
		Data: &OrderMeta{BizId: "data-biz"},
	}
	assertion.Equal("data-biz", result.GetTraceId())

	result = OrderResult{}
	assertion.Equal("", result.GetTraceId())
}

func TestOrderResultDecodesNumericIdentifiers(t *testing.T) {
	assertion := assert.New(t)

	var result OrderResult
	err := json.Unmarshal([]byte(`{
		"code": 0,
		"orderId": 123456789,
		"data": {"workingOrderId": "987", "pendingOrderId": 654}
	}`), &result)

	assertion.NoError(err)
	assertion.True(result.IsAccepted())
	assertion.Equal("123456789", result.OrderId.Value())
	assertion.Equal("987", result.Data.WorkingOrderId.Value())
	assertion.Equal("654", result.Data.PendingOrderId.Value())
}

func TestOrderResultGetErrorMessage(t *testing.T) {
	assertion := assert.New(t)

	assertion.Equal("Primary", (&OrderResult{Message: "Primary", Msg: "Secondary"}).GetErrorMessage())
	assertion.Equal("Secondary", (&OrderResult{Msg: "Secondary"}).GetErrorMessage())
	assertion.Equal("order rejected", (&OrderResult{}).GetErrorMessage())
}

func TestOrderStatusResolveStatus(t *testing.T) {
	assertion := assert.New(t)

	status := OrderStatus{OrderStatus: "FILLED", Status: "PROCESSING"}
	assertion.Equal("FILLED", status.ResolveStatus())

	status = OrderStatus{Status: "PROCESSING"}
	assertion.Equal("PROCESSING", status.ResolveStatus())
}

func TestOrderStatusKeepsPendingLegPresence(t *testing.T) {
	assertion := assert.New(t)

	var withEmptyLeg OrderStatus
	assertion.NoError(json.Unmarshal(
		[]byte(`{"orderStatus": "FILLED", "pendingOrderStatus": ""}`),
		&withEmptyLeg,
	))
	assertion.NotNil(withEmptyLeg.PendingOrderStatus)
	assertion.Equal("", *withEmptyLeg.PendingOrderStatus)

	var withoutLeg OrderStatus
	assertion.NoError(json.Unmarshal(
		[]byte(`{"orderStatus": "FILLED"}`),
		&withoutLeg,
	))
	assertion.Nil(withoutLeg.PendingOrderStatus)
}
