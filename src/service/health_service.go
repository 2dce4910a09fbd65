package service

import (
	"context"
	"database/sql"
	"runtime"

	"github.com/rafacas/sysstats"
	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-alpha-bot/src/client"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/repository"
)

type TradingStatsProviderInterface interface {
	GetStats() model.TradingStats
	IsRunning() bool
}

type HealthService struct {
	BotRepository *repository.BotRepository
	StatsProvider TradingStatsProviderInterface
	Session       *client.Session
	DB            *sql.DB
	RDB           *redis.Client
	Ctx           *context.Context
	CurrentBot    *model.Bot
}

func (h *HealthService) HealthCheck() model.BotHealth {
	memStats, _ := sysstats.GetMemStats()
	loadAvg, _ := sysstats.GetLoadAvg()

	dbStatus := model.DbStatusOk
	if h.DB.Ping() != nil {
		dbStatus = model.DbStatusFail
	}
	redisStatus := model.RedisStatusOk
	if h.RDB.Ping(*h.Ctx).Err() != nil {
		redisStatus = model.RedisStatusFail
	}
	sessionStatus := model.SessionStatusOk
	if h.Session == nil || len(h.Session.CsrfToken()) == 0 {
		sessionStatus = model.SessionStatusMissing
	}
	tradingStatus := model.TradingStatusIdle
	if h.StatsProvider.IsRunning() {
		tradingStatus = model.TradingStatusRunning
	}

	bot := h.BotRepository.GetCurrentBotCached(h.CurrentBot.Id)

	return model.BotHealth{
		Bot:           bot,
		DbStatus:      dbStatus,
		RedisStatus:   redisStatus,
		SessionStatus: sessionStatus,
		TradingStatus: tradingStatus,
		Cores:         runtime.NumCPU(),
		Memory:        memStats,
		LoadAvg:       loadAvg,
		Stats:         h.StatsProvider.GetStats(),
	}
}
