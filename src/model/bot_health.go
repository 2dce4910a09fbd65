package model

import (
	"github.com/rafacas/sysstats"
)

const DbStatusOk = "ok"
const DbStatusFail = "fail"
const RedisStatusOk = "ok"
const RedisStatusFail = "fail"
const SessionStatusOk = "ok"
const SessionStatusMissing = "missing"
const TradingStatusRunning = "running"
const TradingStatusIdle = "idle"

type BotHealth struct {
	Bot           Bot               `json:"bot"`
	DbStatus      string            `json:"dbStatus"`
	RedisStatus   string            `json:"redisStatus"`
	SessionStatus string            `json:"sessionStatus"`
	TradingStatus string            `json:"tradingStatus"`
	Cores         int               `json:"cores"`
	Memory        sysstats.MemStats `json:"memory"`
	LoadAvg       sysstats.LoadAvg  `json:"loadAvg"`
	Stats         TradingStats      `json:"stats"`
}
