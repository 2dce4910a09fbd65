package controller

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
)

// StatsBroadcaster pushes trading stats snapshots to every connected
// websocket client. The UI subscribes here instead of polling the stats
// endpoint.
type StatsBroadcaster struct {
	clients  map[*websocket.Conn]struct{}
	mu       sync.Mutex
	upgrader websocket.Upgrader
}

func NewStatsBroadcaster() *StatsBroadcaster {
	return &StatsBroadcaster{
		clients:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (b *StatsBroadcaster) BroadcastStats(stats model.TradingStats) {
	b.mu.Lock()
	defer b.mu.Unlock()

	msg, err := json.Marshal(stats)
	if err != nil {
		log.Printf("failed to marshal stats: %v", err)
		return
	}

	for c := range b.clients {
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("websocket write error: %v", err)
			c.Close()
			delete(b.clients, c)
		}
	}
}

func (b *StatsBroadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.clients)
}

// Handler accepts websocket subscriptions.
func (b *StatsBroadcaster) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade error: %v", err)
			return
		}

		b.mu.Lock()
		b.clients[conn] = struct{}{}
		b.mu.Unlock()

		go func() {
			defer func() {
				b.mu.Lock()
				delete(b.clients, conn)
				b.mu.Unlock()
				conn.Close()
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
		}()
	}
}
