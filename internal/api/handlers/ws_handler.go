package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/gemtrack/gemtrack/internal/events"
	"github.com/gemtrack/gemtrack/internal/services"
)

// WSHandler streams tender change events to the dashboard so list views
// refresh without polling. Events fan out through Redis pub/sub; one
// channel per company.
type WSHandler struct {
	accounts services.AccountService
	redis    *redis.Client
	upgrader websocket.Upgrader
}

func NewWSHandler(accounts services.AccountService, rdb *redis.Client) *WSHandler {
	return &WSHandler{
		accounts: accounts,
		redis:    rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

func (h *WSHandler) TendersWS(c *gin.Context) {
	_, companyID, ok := requireCompany(c, h.accounts)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.redis.Subscribe(ctx, events.TenderChannel(companyID))
	defer pubsub.Close()

	// reader: drain client frames, detect close
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, rerr := conn.ReadMessage(); rerr != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-readDone:
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if werr := conn.WriteMessage(websocket.PingMessage, nil); werr != nil {
				return
			}
		case msg, open := <-ch:
			if !open {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if werr := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); werr != nil {
				return
			}
		}
	}
}
