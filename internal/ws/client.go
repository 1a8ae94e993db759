package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cityreport-backend/internal/goroutine"
	"github.com/ignatzorin/cityreport-backend/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var (
	// ErrClientClosed возвращается при отправке в закрытое подключение.
	ErrClientClosed = errors.New("ws: подключение закрыто")
	// ErrSlowClient возвращается, когда клиент не успевает вычитывать очередь.
	ErrSlowClient = errors.New("ws: очередь клиента переполнена")
)

// Envelope формат сообщения для клиента: "type" содержит имя события, "data" полезную нагрузку.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Client представляет одно подключение WebSocket.
type Client struct {
	id       uuid.UUID
	conn     *websocket.Conn
	registry *Registry
	party    models.Party
	send     chan []byte
	done     chan struct{}
	once     sync.Once
	log      logrus.FieldLogger
	recovery *goroutine.RecoveryHandler
}

// NewClient создаёт нового клиента.
func NewClient(conn *websocket.Conn, registry *Registry, party models.Party, log logrus.FieldLogger) *Client {
	id := uuid.New()
	clientLog := log.WithFields(logrus.Fields{
		"conn_id":    id.String(),
		"party_kind": party.Kind,
		"party_id":   party.ID,
	})
	return &Client{
		id:       id,
		conn:     conn,
		registry: registry,
		party:    party,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		log:      clientLog,
		recovery: goroutine.NewRecoveryHandler(clientLog),
	}
}

// ID идентификатор подключения.
func (c *Client) ID() uuid.UUID {
	return c.id
}

// Push ставит событие в очередь отправки. Не блокируется.
func (c *Client) Push(event string, payload any) error {
	raw, err := json.Marshal(Envelope{Type: event, Data: payload})
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.send <- raw:
		return nil
	default:
		c.recovery.SafeGo("ws-close-slow", c.Close)
		return ErrSlowClient
	}
}

// Run регистрирует клиента и обслуживает подключение до его закрытия.
func (c *Client) Run(ctx context.Context) error {
	if err := c.registry.Register(c.party, c); err != nil {
		c.conn.Close()
		return err
	}
	c.log.Debug("ws: клиент подключён")

	c.recovery.SafeGo("ws-write-pump", c.writePump)
	c.recovery.Run("ws-read-pump", func() { c.readPump(ctx) })
	c.Close()
	return nil
}

// Close снимает регистрацию и закрывает соединение.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		c.registry.Unregister(c)
		_ = c.conn.Close()
		c.log.Debug("ws: клиент отключён")
	})
}

func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(64 * 1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		// Клиент только получает события, входящие сообщения игнорируются.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Debug("ws: неожиданное закрытие")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}
