package model

type Bot struct {
	Id          int64       `json:"id"`
	BotUuid     string      `json:"botUuid"`
	TradeConfig TradeConfig `json:"tradeConfig"`
}
