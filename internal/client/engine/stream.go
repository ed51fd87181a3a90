package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// Envelope is the typed header every stream frame carries; the payload
// stays raw so handlers decode only the types they care about.
type Envelope struct {
	Type      string          `json:"type"`
	Timestamp Timestamp       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type subscribeRequest struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
}

// DefaultChannels is every message type the dashboard consumes.
var DefaultChannels = []string{
	EventAIDecision,
	EventSignalGenerated,
	EventRegimeChange,
	EventPortfolioUpdate,
	EventPositionUpdate,
}

type wsConn struct {
	url  string
	conn *websocket.Conn
}

func newWSConn(url string) *wsConn {
	return &wsConn{url: url}
}

func (c *wsConn) connect(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.url, nil)
	if err != nil {
		return err
	}
	// Decision batches can be large after an engine restart.
	conn.SetReadLimit(2 << 20) // 2MB
	c.conn = conn
	return nil
}

func (c *wsConn) close(status websocket.StatusCode, reason string) error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close(status, reason)
}

func (c *wsConn) subscribe(ctx context.Context, channels []string) error {
	if c == nil || c.conn == nil {
		return fmt.Errorf("ws not connected")
	}
	payload, err := json.Marshal(subscribeRequest{Type: "subscribe", Channels: channels})
	if err != nil {
		return err
	}
	return c.conn.Write(ctx, websocket.MessageText, payload)
}

func (c *wsConn) read(ctx context.Context) (Envelope, []byte, error) {
	if c == nil || c.conn == nil {
		return Envelope{}, nil, fmt.Errorf("ws not connected")
	}
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return Envelope{}, nil, err
	}
	var env Envelope
	_ = json.Unmarshal(data, &env)
	return env, data, nil
}

// StreamOptions tunes the reconnect loop.
type StreamOptions struct {
	URL               string
	Channels          []string
	HeartbeatInterval time.Duration
	PingTimeout       time.Duration
	BackoffMin        time.Duration
	BackoffMax        time.Duration
	Logger            *zap.Logger
}

// Stream is the engine event feed with automatic reconnect, jittered
// backoff, and heartbeat pings.
type Stream struct {
	opts      StreamOptions
	seenFirst bool
}

func NewStream(opts StreamOptions) *Stream {
	if len(opts.Channels) == 0 {
		opts.Channels = DefaultChannels
	}
	if opts.HeartbeatInterval == 0 {
		opts.HeartbeatInterval = 20 * time.Second
	}
	if opts.PingTimeout == 0 {
		opts.PingTimeout = 5 * time.Second
	}
	if opts.BackoffMin == 0 {
		opts.BackoffMin = 1 * time.Second
	}
	if opts.BackoffMax == 0 {
		opts.BackoffMax = 30 * time.Second
	}
	return &Stream{opts: opts}
}

// Run connects, subscribes, and delivers frames to onMessage until the
// context ends. Every connection failure reconnects with backoff; onMessage
// runs on the read loop and must not block.
func (s *Stream) Run(ctx context.Context, onMessage func(Envelope, []byte)) error {
	if s == nil {
		return fmt.Errorf("stream is nil")
	}
	backoff := s.opts.BackoffMin
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		client := newWSConn(s.opts.URL)
		if err := client.connect(ctx); err != nil {
			if s.opts.Logger != nil {
				s.opts.Logger.Warn("engine ws connect failed", zap.Error(err))
			}
			if err := sleepWithJitter(ctx, backoff); err != nil {
				return err
			}
			backoff = nextBackoff(backoff, s.opts.BackoffMax)
			continue
		}
		if err := client.subscribe(ctx, s.opts.Channels); err != nil {
			if s.opts.Logger != nil {
				s.opts.Logger.Warn("engine ws subscribe failed", zap.Error(err))
			}
			_ = client.close(websocket.StatusInternalError, "subscribe failed")
			if err := sleepWithJitter(ctx, backoff); err != nil {
				return err
			}
			backoff = nextBackoff(backoff, s.opts.BackoffMax)
			continue
		}
		if s.opts.Logger != nil {
			s.opts.Logger.Info("engine ws connected", zap.Int("channels", len(s.opts.Channels)))
		}
		backoff = s.opts.BackoffMin

		err := s.consume(ctx, client, onMessage)
		_ = client.close(websocket.StatusNormalClosure, "reconnect")
		if err == nil || errors.Is(err, context.Canceled) {
			return err
		}
		if err := sleepWithJitter(ctx, backoff); err != nil {
			return err
		}
		backoff = nextBackoff(backoff, s.opts.BackoffMax)
	}
}

func (s *Stream) consume(ctx context.Context, client *wsConn, onMessage func(Envelope, []byte)) error {
	heartbeatErr := make(chan error, 1)
	heartbeatCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ticker := time.NewTicker(s.opts.HeartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-heartbeatCtx.Done():
				heartbeatErr <- heartbeatCtx.Err()
				return
			case <-ticker.C:
				pingCtx, cancelPing := context.WithTimeout(heartbeatCtx, s.opts.PingTimeout)
				err := client.conn.Ping(pingCtx)
				cancelPing()
				if err != nil {
					heartbeatErr <- err
					return
				}
			}
		}
	}()

	for {
		select {
		case err := <-heartbeatErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		default:
		}
		env, raw, err := client.read(ctx)
		if err != nil {
			if s.opts.Logger != nil && !errors.Is(err, context.Canceled) {
				s.opts.Logger.Warn("engine ws read failed", zap.Error(err))
			}
			return err
		}
		if env.Type == "ping" {
			_ = client.conn.Write(ctx, websocket.MessageText, []byte(`{"type":"pong"}`))
			continue
		}
		if s.opts.Logger != nil && !s.seenFirst {
			s.seenFirst = true
			s.opts.Logger.Info("engine ws first message", zap.String("type", env.Type))
		}
		if onMessage != nil {
			onMessage(env, raw)
		}
	}
}

func sleepWithJitter(ctx context.Context, d time.Duration) error {
	jitter := time.Duration(rand.Int63n(int64(d)/2 + 1))
	timer := time.NewTimer(d + jitter)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextBackoff(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}
