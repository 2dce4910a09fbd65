package model

import "strings"

const (
	AccountTypeCard = "CARD"
	AccountTypeMain = "MAIN"
	AccountTypeSpot = "SPOT"
)

type AssetBalance struct {
	Asset            string     `json:"asset"`
	Coin             string     `json:"coin"`
	Free             FlexString `json:"free"`
	AvailableBalance FlexString `json:"availableBalance"`
	Total            FlexString `json:"total"`
}

func (a *AssetBalance) GetAsset() string {
	if len(a.Asset) > 0 {
		return a.Asset
	}

	return a.Coin
}

func (a *AssetBalance) Matches(symbol string) bool {
	return strings.ToUpper(a.GetAsset()) == strings.ToUpper(symbol)
}

type Account struct {
	AccountType   string         `json:"accountType"`
	AssetBalances []AssetBalance `json:"assetBalances"`
}

type BalanceResponse struct {
	Success *bool      `json:"success"`
	Code    FlexString `json:"code"`
	Message string     `json:"message"`
	Data    []Account  `json:"data"`
}
