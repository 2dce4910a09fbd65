package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-alpha-bot/src/client"
	"gitlab.com/open-soft/go-alpha-bot/src/controller"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/repository"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"gitlab.com/open-soft/go-alpha-bot/src/service/exchange"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
)

func InitServiceContainer() Container {
	db, err := sql.Open("mysql", os.Getenv("DATABASE_DSN"))

	if err != nil {
		log.Fatal(fmt.Sprintf("MySQL can't connect: %s", err.Error()))
	}

	db.SetMaxIdleConns(64)
	db.SetMaxOpenConns(64)
	db.SetConnMaxLifetime(time.Minute)

	var ctx = context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_DSN"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	sessionPath := os.Getenv("SESSION_FILE")
	if len(sessionPath) == 0 {
		sessionPath = "session.json"
	}

	cookies, extraHeaders, err := client.LoadSessionData(sessionPath)
	if err != nil {
		log.Fatal(fmt.Sprintf("Can't load session file %s: %s", sessionPath, err.Error()))
	}

	session, err := client.NewSession(cookies, extraHeaders)
	if err != nil {
		log.Fatal(err.Error())
	}

	httpClient := client.NewRetryHttpClient(session)

	binanceAlpha := client.BinanceAlpha{
		HttpClient: httpClient,
		DSN:        client.BinanceDSN,
	}

	botRepository := repository.BotRepository{
		DB:  db,
		RDB: rdb,
		Ctx: &ctx,
	}

	currentBot := botRepository.GetCurrentBot()
	if currentBot == nil {
		botUuid := os.Getenv("BOT_UUID")
		err := botRepository.Create(model.Bot{
			BotUuid:     botUuid,
			TradeConfig: model.DefaultTradeConfig(),
		})
		if err != nil {
			panic(err)
		}

		currentBot = botRepository.GetCurrentBot()
		if currentBot == nil {
			panic(fmt.Sprintf("Can't initialize bot: %s", botUuid))
		}
	}

	if err := currentBot.TradeConfig.Validate(); err != nil {
		log.Fatal(fmt.Sprintf("Invalid trade config: %s", err.Error()))
	}

	formatter := utils.Formatter{}
	timeService := utils.TimeHelper{}

	logService := service.LogService{
		ReduceLogging: currentBot.TradeConfig.ReduceLogging,
		Verbose:       os.Getenv("LOG_VERBOSE") == "true",
	}

	balanceService := exchange.BalanceService{
		RDB:        rdb,
		Ctx:        &ctx,
		CurrentBot: currentBot,
		Exchange:   &binanceAlpha,
		Formatter:  &formatter,
	}

	tradingService := exchange.TradingService{
		Config:         &currentBot.TradeConfig,
		Exchange:       &binanceAlpha,
		HttpClient:     httpClient,
		BalanceService: &balanceService,
		PayloadBuilder: &exchange.OrderPayloadBuilder{
			Formatter: &formatter,
		},
		Formatter:   &formatter,
		TimeService: &timeService,
		Log:         &logService,
	}

	fillWaiter := exchange.FillWaiter{
		Exchange:    &binanceAlpha,
		Config:      &currentBot.TradeConfig,
		Log:         &logService,
		TimeService: &timeService,
		IsRunning:   tradingService.IsRunning,
	}
	tradingService.FillWaiter = &fillWaiter

	healthService := service.HealthService{
		BotRepository: &botRepository,
		StatsProvider: &tradingService,
		Session:       session,
		DB:            db,
		RDB:           rdb,
		Ctx:           &ctx,
		CurrentBot:    currentBot,
	}

	botController := controller.BotController{
		HealthService:  &healthService,
		TradingService: &tradingService,
		LogService:     &logService,
		CurrentBot:     currentBot,
	}

	tradeController := controller.TradeController{
		CurrentBot:    currentBot,
		BotRepository: &botRepository,
	}

	statsBroadcaster := controller.NewStatsBroadcaster()

	return Container{
		Db:               db,
		CurrentBot:       currentBot,
		Session:          session,
		HttpClient:       httpClient,
		BinanceAlpha:     &binanceAlpha,
		BotRepository:    &botRepository,
		BalanceService:   &balanceService,
		FillWaiter:       &fillWaiter,
		TradingService:   &tradingService,
		TimeService:      &timeService,
		LogService:       &logService,
		HealthService:    &healthService,
		BotController:    &botController,
		TradeController:  &tradeController,
		StatsBroadcaster: statsBroadcaster,
	}
}

type Container struct {
	Db               *sql.DB
	CurrentBot       *model.Bot
	Session          *client.Session
	HttpClient       *client.RetryHttpClient
	BinanceAlpha     *client.BinanceAlpha
	BotRepository    *repository.BotRepository
	BalanceService   *exchange.BalanceService
	FillWaiter       *exchange.FillWaiter
	TradingService   *exchange.TradingService
	TimeService      *utils.TimeHelper
	LogService       *service.LogService
	HealthService    *service.HealthService
	BotController    *controller.BotController
	TradeController  *controller.TradeController
	StatsBroadcaster *controller.StatsBroadcaster
}

func (c *Container) StartHttpServer() {
	// configure controllers
	http.HandleFunc("/health/check", c.BotController.GetHealthCheck)
	http.HandleFunc("/trading/stats", c.BotController.GetTradingStatsAction)
	http.HandleFunc("/trading/logs", c.BotController.GetLogsAction)
	http.HandleFunc("/trading/start", c.BotController.StartTradingAction)
	http.HandleFunc("/trading/stop", c.BotController.StopTradingAction)
	http.HandleFunc("/trading/config", c.TradeController.GetTradeConfigAction)
	http.HandleFunc("/trading/config/update", c.TradeController.UpdateTradeConfigAction)
	http.HandleFunc("/trading/stream", c.StatsBroadcaster.Handler())

	// Start HTTP server!
	go func() {
		_ = http.ListenAndServe(":8080", nil)
	}()
}
