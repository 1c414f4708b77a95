package dashboard

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"complaint-portal/internal/auth"
	"complaint-portal/internal/models"
	"complaint-portal/internal/services"
)

// Analytics is the slice of the service layer the channel consumes.
type Analytics interface {
	Snapshot(ctx context.Context, scope auth.Scope) services.Snapshot
	CategoryStats(ctx context.Context, category string, scope auth.Scope) (models.Stats, error)
	HostelBreakdown(ctx context.Context, scope auth.Scope) ([]models.HostelStats, error)
}

// Timings are the channel's periods. Tests shrink them; production uses
// DefaultTimings.
type Timings struct {
	UpdatePeriod  time.Duration // analytics push cadence
	ProbePeriod   time.Duration // liveness probe cadence
	MonitorPeriod time.Duration // staleness check cadence
	StaleAfter    time.Duration // silence that counts as a dead peer
	WriteWait     time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		UpdatePeriod:  time.Second,
		ProbePeriod:   25 * time.Second,
		MonitorPeriod: 30 * time.Second,
		StaleAfter:    60 * time.Second,
		WriteWait:     10 * time.Second,
	}
}

// Client is one authenticated dashboard connection. The scope is bound once
// at connect time and used for every push and every on-demand request for
// the connection's lifetime; role changes require reconnecting.
type Client struct {
	conn      *websocket.Conn
	user      string
	scope     auth.Scope
	analytics Analytics
	timings   Timings

	send      chan Event
	done      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu      sync.Mutex
	lastAck time.Time
}

func newClient(conn *websocket.Conn, user string, scope auth.Scope, analytics Analytics, timings Timings) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:      conn,
		user:      user,
		scope:     scope,
		analytics: analytics,
		timings:   timings,
		send:      make(chan Event, 16),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		lastAck:   time.Now(),
	}
}

// Run pushes the initial snapshot and starts the connection's loops: write
// and read pumps, the periodic analytics update, the liveness probe, and the
// staleness monitor. All of them stop on the first close, whichever path
// triggers it.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()

	c.pushFrame()

	go c.updateLoop()
	go c.heartbeatLoop()
	go c.monitorLoop()
}

// Close tears the connection down exactly once: both pumps, all three
// timers, and the underlying socket.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
		c.conn.Close()
	})
}

// push enqueues an event unless the connection is already closed. The done
// check is what keeps a residual in-flight push from racing a close.
func (c *Client) push(ev Event) bool {
	select {
	case <-c.done:
		return false
	case c.send <- ev:
		return true
	}
}

// pushFrame recomputes and pushes one full analytics frame.
func (c *Client) pushFrame() {
	snapshot := c.analytics.Snapshot(c.ctx, c.scope)
	c.push(Event{Event: EventSetResolution, Data: snapshot.Resolution()})
	c.push(Event{Event: EventAnalyticsUpdate, Data: snapshot})
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.timings.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.timings.WriteWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				c.Close()
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer c.Close()
	for {
		var ev clientEvent
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WARN] dashboard read error for %s: %v", c.user, err)
			}
			return
		}

		switch {
		case ev.Event == EventPong:
			c.ack()
		case ev.Event == EventCowDashboard:
			go c.sendHostelBreakdown(EventSetCowDashboard)
		case ev.Event == EventWardenDashboard:
			go c.sendHostelBreakdown(EventSetWardenDashboard)
		case strings.HasSuffix(ev.Event, "Stats"):
			go c.sendCategoryStats(strings.TrimSuffix(ev.Event, "Stats"))
		}
	}
}

// updateLoop recomputes and pushes a fresh frame every tick. A failed tick
// is that tick's problem only; the loop keeps going.
func (c *Client) updateLoop() {
	ticker := time.NewTicker(c.timings.UpdatePeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.pushFrame()
		}
	}
}

func (c *Client) heartbeatLoop() {
	ticker := time.NewTicker(c.timings.ProbePeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.push(Event{Event: EventPing})
		}
	}
}

// monitorLoop force-terminates connections that stop acknowledging probes.
// TCP alone will not surface a half-open peer promptly; this does.
func (c *Client) monitorLoop() {
	ticker := time.NewTicker(c.timings.MonitorPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if time.Since(c.lastAckTime()) > c.timings.StaleAfter {
				log.Printf("[WARN] dashboard connection for %s is dead, no heartbeat", c.user)
				c.Close()
				return
			}
		}
	}
}

func (c *Client) ack() {
	c.mu.Lock()
	c.lastAck = time.Now()
	c.mu.Unlock()
}

func (c *Client) lastAckTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAck
}

// On-demand requests are authorized with the connection's bound scope, never
// with anything the request itself claims.

func (c *Client) sendCategoryStats(category string) {
	stats, err := c.analytics.CategoryStats(c.ctx, category, c.scope)
	if err != nil {
		log.Printf("[WARN] stats request for %q from %s: %v", category, c.user, err)
		return
	}
	c.push(Event{Event: "set" + category + "Stats", Data: stats})
}

func (c *Client) sendHostelBreakdown(replyEvent string) {
	rows, err := c.analytics.HostelBreakdown(c.ctx, c.scope)
	if err != nil {
		log.Printf("[WARN] hostel breakdown for %s: %v", c.user, err)
		return
	}
	c.push(Event{Event: replyEvent, Data: rows})
}
