package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/repository"
)

type TradeController struct {
	CurrentBot    *model.Bot
	BotRepository *repository.BotRepository
}

func (t *TradeController) GetTradeConfigAction(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if req.Method == "OPTIONS" {
		fmt.Fprintf(w, "OK")
		return
	}

	botUuid := req.URL.Query().Get("botUuid")

	if botUuid != t.CurrentBot.BotUuid {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	if req.Method != "GET" {
		http.Error(w, "Only GET method are allowed", http.StatusMethodNotAllowed)

		return
	}

	encoded, _ := json.Marshal(t.CurrentBot.TradeConfig)
	fmt.Fprintf(w, string(encoded))
}

func (t *TradeController) UpdateTradeConfigAction(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if req.Method == "OPTIONS" {
		fmt.Fprintf(w, "OK")
		return
	}

	botUuid := req.URL.Query().Get("botUuid")

	if botUuid != t.CurrentBot.BotUuid {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	if req.Method != "PUT" {
		http.Error(w, "Only PUT method are allowed", http.StatusMethodNotAllowed)

		return
	}

	var update model.TradeConfigUpdate

	// Try to decode the request body into the struct. If there is an error,
	// respond to the client with the error message and a 400 status code.
	err := json.NewDecoder(req.Body).Decode(&update)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	violation := update.TradeConfig.Validate()

	if violation != nil {
		http.Error(w, violation.Error(), http.StatusBadRequest)

		return
	}

	t.CurrentBot.TradeConfig = update.TradeConfig
	err = t.BotRepository.Update(*t.CurrentBot)

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	entity := t.BotRepository.GetCurrentBot()
	if entity == nil {
		http.Error(w, "Bot is not found", http.StatusServiceUnavailable)

		return
	}

	encodedRes, _ := json.Marshal(entity.TradeConfig)
	fmt.Fprintf(w, string(encodedRes))
}
