package natsclient

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/debuggerone/comako/errors"
)

// ConnectionStatus represents the state of the NATS connection.
type ConnectionStatus int32

// Possible connection statuses.
const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnecting
	StatusConnected
	StatusReconnecting
	StatusClosed
)

// String returns the string representation of ConnectionStatus.
func (s ConnectionStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Status holds runtime status information for the client.
type Status struct {
	Status     ConnectionStatus
	Reconnects int32
	RTT        time.Duration
}

// Client manages one core NATS connection.
type Client struct {
	url        string
	clientName string
	logger     *slog.Logger

	maxReconnects int
	reconnectWait time.Duration
	timeout       time.Duration
	drainTimeout  time.Duration

	onDisconnect func(error)
	onReconnect  func()

	mu     sync.RWMutex
	conn   *nats.Conn
	subs   []*nats.Subscription
	status atomic.Int32
	closed atomic.Bool

	reconnects atomic.Int32
}

// NewClient creates a client for the given NATS URL. The connection is
// not established until Connect.
func NewClient(url string, opts ...ClientOption) (*Client, error) {
	if url == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Client", "NewClient", "check NATS URL")
	}
	c := &Client{
		url:           url,
		clientName:    "comako",
		logger:        slog.Default(),
		maxReconnects: -1,
		reconnectWait: 2 * time.Second,
		timeout:       5 * time.Second,
		drainTimeout:  30 * time.Second,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Connect establishes the connection. The context bounds the initial
// dial only; reconnects afterwards are handled by the NATS library.
func (c *Client) Connect(ctx context.Context) error {
	if c.closed.Load() {
		return errors.WrapFatal(errors.ErrShuttingDown, "Client", "Connect", "connect after close")
	}
	c.status.Store(int32(StatusConnecting))

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	conn, err := nats.Connect(c.url,
		nats.Name(c.clientName),
		nats.Timeout(timeout),
		nats.MaxReconnects(c.maxReconnects),
		nats.ReconnectWait(c.reconnectWait),
		nats.DrainTimeout(c.drainTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			c.status.Store(int32(StatusReconnecting))
			c.logger.Warn("NATS disconnected", "error", err)
			if c.onDisconnect != nil {
				c.onDisconnect(err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			c.status.Store(int32(StatusConnected))
			c.reconnects.Add(1)
			c.logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
			if c.onReconnect != nil {
				c.onReconnect()
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if !c.closed.Load() {
				c.status.Store(int32(StatusDisconnected))
			}
		}),
	)
	if err != nil {
		c.status.Store(int32(StatusDisconnected))
		return errors.WrapTransient(err, "Client", "Connect", "dial NATS")
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.status.Store(int32(StatusConnected))
	c.logger.Info("NATS connected", "url", conn.ConnectedUrl())
	return nil
}

// Publish sends data to the given subject.
func (c *Client) Publish(subject string, data []byte) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil || !conn.IsConnected() {
		return errors.WrapTransient(errors.ErrNoConnection, "Client", "Publish", "check connection")
	}
	if err := conn.Publish(subject, data); err != nil {
		return errors.WrapTransient(err, "Client", "Publish", "publish to "+subject)
	}
	return nil
}

// Subscribe registers a handler for the given subject. Subscriptions
// are tracked and drained on Close.
func (c *Client) Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || !c.conn.IsConnected() {
		return nil, errors.WrapTransient(errors.ErrNoConnection, "Client", "Subscribe", "check connection")
	}
	sub, err := c.conn.Subscribe(subject, handler)
	if err != nil {
		return nil, errors.WrapTransient(err, "Client", "Subscribe", "subscribe to "+subject)
	}
	c.subs = append(c.subs, sub)
	return sub, nil
}

// QueueSubscribe registers a queue-group handler so multiple instances
// share the subject load.
func (c *Client) QueueSubscribe(subject, queue string, handler nats.MsgHandler) (*nats.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || !c.conn.IsConnected() {
		return nil, errors.WrapTransient(errors.ErrNoConnection, "Client", "QueueSubscribe", "check connection")
	}
	sub, err := c.conn.QueueSubscribe(subject, queue, handler)
	if err != nil {
		return nil, errors.WrapTransient(err, "Client", "QueueSubscribe", "subscribe to "+subject)
	}
	c.subs = append(c.subs, sub)
	return sub, nil
}

// IsConnected reports whether the underlying connection is up.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && c.conn.IsConnected()
}

// Status returns a snapshot of the connection state.
func (c *Client) Status() Status {
	s := Status{
		Status:     ConnectionStatus(c.status.Load()),
		Reconnects: c.reconnects.Load(),
	}
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn != nil && conn.IsConnected() {
		if rtt, err := conn.RTT(); err == nil {
			s.RTT = rtt
		}
	}
	return s
}

// Close drains subscriptions and closes the connection. Safe to call
// more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.status.Store(int32(StatusClosed))

	c.mu.Lock()
	conn := c.conn
	subs := c.subs
	c.conn = nil
	c.subs = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	for _, sub := range subs {
		if err := sub.Drain(); err != nil {
			c.logger.Warn("drain subscription failed", "subject", sub.Subject, "error", err)
		}
	}
	if err := conn.Drain(); err != nil {
		conn.Close()
		return errors.WrapTransient(err, "Client", "Close", "drain connection")
	}
	return nil
}
