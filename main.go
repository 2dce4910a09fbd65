package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gitlab.com/open-soft/go-alpha-bot/src/config"
)

func main() {
	pwd, _ := os.Getwd()
	if _, err := os.Stat(fmt.Sprintf("%s/.env", pwd)); err == nil {
		log.Println(".env is found, loading variables...")
		err = godotenv.Load()
		if err != nil {
			log.Println(err)
		}
	}

	container := config.InitServiceContainer()
	defer container.Db.Close()

	log.Printf("Bot [%s] is initialized successfully", container.CurrentBot.BotUuid)

	container.StartHttpServer()

	// push stats to websocket subscribers
	go func() {
		for {
			if container.StatsBroadcaster.ClientCount() > 0 {
				container.StatsBroadcaster.BroadcastStats(container.TradingService.GetStats())
			}

			time.Sleep(time.Second * 5)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Println("Shutdown signal received, stopping after the current cycle")
		container.TradingService.RequestStop()
	}()

	if os.Getenv("RUN_ONCE") == "true" || slices.Contains(os.Args[1:], "--once") {
		if !container.TradingService.RunOnce() {
			os.Exit(1)
		}

		return
	}

	container.TradingService.Start()
}
