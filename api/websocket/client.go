package websocket

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/pkg/models"
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu      sync.RWMutex
	minRisk models.RiskLevel
}

func NewClient(hub *Hub, conn *websocket.Conn, minRisk models.RiskLevel) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, hub.settings.ClientBuffer),
		minRisk: minRisk,
	}
}

// Accepts reports whether a prediction at risk passes the client's filter.
// A client without a filter receives everything.
func (c *Client) Accepts(risk models.RiskLevel) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.minRisk == "" {
		return true
	}
	return risk.AtLeast(c.minRisk)
}

func (c *Client) setFilter(risk models.RiskLevel) {
	c.mu.Lock()
	c.minRisk = risk
	c.mu.Unlock()
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	settings := c.hub.settings
	c.conn.SetReadLimit(settings.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(settings.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(settings.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("WebSocket error: %v", err)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.handleMessage(&msg)
		}
	}
}

func (c *Client) WritePump() {
	settings := c.hub.settings
	ticker := time.NewTicker(settings.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(settings.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(settings.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *IncomingMessage) {
	switch msg.Type {
	case "subscribe":
		risk, ok := parseRiskFilter(msg.RiskLevel)
		if !ok {
			c.sendControl(NewMessage(MessageTypeError, map[string]string{
				"error": "unknown risk_level: " + msg.RiskLevel,
			}))
			return
		}
		c.setFilter(risk)
		logger.Infof("Client subscribed to risk level: %s", risk)
		c.sendControl(NewMessage(MessageTypeSubscription, SubscriptionData{Action: "subscribed", RiskLevel: risk}))
	case "unsubscribe":
		c.setFilter("")
		c.sendControl(NewMessage(MessageTypeSubscription, SubscriptionData{Action: "unsubscribed"}))
	}
}

func (c *Client) sendControl(msg *OutgoingMessage) {
	select {
	case c.send <- msg.JSON():
	default:
		logger.Warn("Client send channel full, dropping control message")
	}
}

// parseRiskFilter accepts an empty filter as "all predictions".
func parseRiskFilter(raw string) (models.RiskLevel, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", true
	}
	risk := models.RiskLevel(raw)
	return risk, risk.IsValid()
}

func ServeWebSocket(hub *Hub) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  hub.settings.ReadBufferSize,
		WriteBufferSize: hub.settings.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(c *gin.Context) {
		risk, ok := parseRiskFilter(c.Query("risk_level"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success":    false,
				"error":      "Invalid risk_level",
				"error_code": "bad_request",
			})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorf("WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(hub, conn, risk)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
