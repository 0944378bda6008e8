// Package cache provides in-memory caching with PostgreSQL LISTEN/NOTIFY
// invalidation.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lahiru-2000/inventory-management-system/internal/domain/reports"
	"github.com/Lahiru-2000/inventory-management-system/pkg/logger"
)

// channel is notified whenever documents or stock change in bulk, e.g. by
// imports running outside this process: NOTIFY dashboard_changed.
const channel = "dashboard_changed"

// DashboardCache holds the last computed dashboard snapshot. Entries expire
// after a short TTL; a NOTIFY on dashboard_changed drops the entry early.
type DashboardCache struct {
	pool *pgxpool.Pool
	ttl  time.Duration

	mu        sync.RWMutex
	snapshot  *reports.Dashboard
	refreshed time.Time

	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewDashboardCache creates a cache over the given pool.
func NewDashboardCache(pool *pgxpool.Pool, ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DashboardCache{pool: pool, ttl: ttl}
}

// Get returns the cached snapshot if it is still fresh.
func (c *DashboardCache) Get() (*reports.Dashboard, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil || time.Since(c.refreshed) > c.ttl {
		return nil, false
	}
	return c.snapshot, true
}

// Set stores a freshly computed snapshot.
func (c *DashboardCache) Set(dashboard *reports.Dashboard) {
	c.mu.Lock()
	c.snapshot = dashboard
	c.refreshed = time.Now()
	c.mu.Unlock()
}

// Invalidate drops the cached snapshot.
func (c *DashboardCache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}

// Start begins listening for NOTIFY events.
func (c *DashboardCache) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.lifecycleMu.Lock()
	if c.started {
		c.lifecycleMu.Unlock()
		return nil
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true
	c.lifecycleMu.Unlock()

	c.wg.Add(1)
	go c.listenLoop()
	logger.Info(c.ctx, "dashboard cache started", "ttl", c.ttl)
	return nil
}

// Stop gracefully stops the listener.
func (c *DashboardCache) Stop() {
	c.lifecycleMu.Lock()
	if !c.started {
		c.lifecycleMu.Unlock()
		return
	}
	cancel := c.cancel
	c.started = false
	c.cancel = nil
	c.lifecycleMu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	logger.Info(context.Background(), "dashboard cache stopped")
}

// listenLoop holds a dedicated connection on LISTEN, reconnecting on failure.
func (c *DashboardCache) listenLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		conn, err := c.pool.Acquire(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			logger.Error(c.ctx, "failed to acquire connection for LISTEN", "error", err)
			time.Sleep(time.Second)
			continue
		}

		_, err = conn.Exec(c.ctx, fmt.Sprintf("LISTEN %s", channel))
		if err != nil {
			logger.Error(c.ctx, "failed to LISTEN", "channel", channel, "error", err)
			conn.Release()
			time.Sleep(time.Second)
			continue
		}

		c.waitForNotifications(conn)
		conn.Release()
	}
}

// waitForNotifications blocks on the connection until shutdown or error.
func (c *DashboardCache) waitForNotifications(conn *pgxpool.Conn) {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		// Timeout keeps shutdown responsive; hitting it is not an error.
		ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
		notification, err := conn.Conn().WaitForNotification(ctx)
		cancel()

		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			if ctx.Err() != nil {
				continue
			}
			logger.Error(c.ctx, "notification wait failed", "error", err)
			return
		}

		logger.Debug(c.ctx, "received notification",
			"channel", notification.Channel,
			"payload", notification.Payload)
		c.Invalidate()
	}
}
