package coachws

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
	"github.com/tritonlifts/api/internal/coach"
)

const (
	FrameStart = "start"
	FrameWord  = "word"
	FrameDone  = "done"
	FrameError = "error"
)

// Conn is the part of a websocket connection a Client uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type asker interface {
	Ask(ctx context.Context, userID int64, question string) (coach.Answer, error)
}

type Frame struct {
	Type      string `json:"type"`
	Question  string `json:"question,omitempty"`
	Word      string `json:"word,omitempty"`
	Text      string `json:"text,omitempty"`
	Failed    bool   `json:"failed,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Client struct {
	hub       *Hub
	conn      Conn
	sessionID string
	userID    int64
	send      chan []byte
	ctx       context.Context
	cancel    context.CancelFunc
	streaming atomic.Bool
	streams   sync.WaitGroup
}

func NewClient(parent context.Context, hub *Hub, conn Conn, sessionID string, userID int64) *Client {
	ctx, cancel := context.WithCancel(parent)
	return &Client{
		hub:       hub,
		conn:      conn,
		sessionID: sessionID,
		userID:    userID,
		send:      make(chan []byte, 64),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// ReadPump handles ask frames until the socket closes or the session ends.
// Each answer is revealed word by word on its own goroutine.
func (c *Client) ReadPump(service asker, interval time.Duration) {
	defer func() {
		c.cancel()
		c.hub.Unregister(c)
		_ = c.conn.Close()
		c.streams.Wait()
	}()

	go func() {
		<-c.ctx.Done()
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type     string `json:"type"`
			Question string `json:"question"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			c.writeError("invalid message payload")
			continue
		}
		if incoming.Type != "ask" {
			c.writeError("unsupported message type")
			continue
		}

		question := strings.TrimSpace(incoming.Question)
		if question == "" {
			c.writeError("question is required")
			continue
		}
		if !c.streaming.CompareAndSwap(false, true) {
			c.writeError("a reply is already streaming")
			continue
		}

		c.streams.Add(1)
		go func() {
			defer c.streams.Done()
			defer c.streaming.Store(false)
			c.stream(service, question, interval)
		}()
	}
}

func (c *Client) stream(service asker, question string, interval time.Duration) {
	if !c.enqueue(Frame{Type: FrameStart, Question: question}) {
		return
	}

	answer, err := service.Ask(c.ctx, c.userID, question)
	if err != nil {
		c.writeError("question is required")
		c.enqueue(Frame{Type: FrameDone, Failed: true})
		return
	}

	err = coach.Reveal(c.ctx, answer.Text, interval, func(word string) error {
		if !c.enqueue(Frame{Type: FrameWord, Word: word}) {
			return context.Canceled
		}
		return nil
	})
	if err != nil {
		logrus.WithField("user_id", c.userID).Debug("coach stream stopped early")
		return
	}

	c.enqueue(Frame{Type: FrameDone, Text: answer.Text, Failed: answer.Failed})
}

// WritePump drains queued frames onto the socket until the client is
// cancelled.
func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case payload := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.cancel()
				return
			}
		}
	}
}

func (c *Client) enqueue(frame Frame) bool {
	frame.Timestamp = time.Now().UTC().Format(time.RFC3339)
	payload, err := json.Marshal(frame)
	if err != nil {
		return false
	}

	select {
	case c.send <- payload:
		return true
	case <-c.ctx.Done():
		return false
	}
}

func (c *Client) writeError(message string) {
	c.enqueue(Frame{Type: FrameError, Error: message})
}
