package schema

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// OpenFunc opens a database handle. It matches sql.Open and is replaced in tests.
type OpenFunc func(driverName, dsn string) (*sql.DB, error)

// Connector opens one connection per operation against a named instance on
// the configured server. It holds no connections itself.
type Connector struct {
	dialect Dialect
	server  Server
	open    OpenFunc
	sem     *semaphore.Weighted
	allowed map[string]bool

	opened atomic.Int64
	inUse  atomic.Int64
}

// ConnectorOption customises a Connector.
type ConnectorOption func(*Connector)

// WithMaxConnections caps the number of connections open at the same time.
// Zero leaves it unbounded.
func WithMaxConnections(n int) ConnectorOption {
	return func(c *Connector) {
		if n > 0 {
			c.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithAllowedInstances restricts Open to the named instances. An empty list
// accepts any instance.
func WithAllowedInstances(names []string) ConnectorOption {
	return func(c *Connector) {
		if len(names) == 0 {
			return
		}
		c.allowed = make(map[string]bool, len(names))
		for _, name := range names {
			c.allowed[name] = true
		}
	}
}

// WithOpenFunc overrides how database handles are opened.
func WithOpenFunc(fn OpenFunc) ConnectorOption {
	return func(c *Connector) {
		c.open = fn
	}
}

// NewConnector creates a connector for the given dialect and server.
func NewConnector(d Dialect, srv Server, opts ...ConnectorOption) *Connector {
	c := &Connector{
		dialect: d,
		server:  srv,
		open:    sql.Open,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the dialect used to build statements.
func (c *Connector) Dialect() Dialect {
	return c.dialect
}

// Allowed reports whether instance passes the allow-list.
func (c *Connector) Allowed(instance string) bool {
	return c.allowed == nil || c.allowed[instance]
}

// ConnectorStats is a point-in-time view of connection usage.
type ConnectorStats struct {
	OpenedTotal int64 `json:"opened_total"`
	InUse       int64 `json:"in_use"`
}

// Stats returns connection counters.
func (c *Connector) Stats() ConnectorStats {
	return ConnectorStats{
		OpenedTotal: c.opened.Load(),
		InUse:       c.inUse.Load(),
	}
}

// Conn is a single connection scoped to one operation. Close must be called
// on every path; it is safe to call more than once.
type Conn struct {
	*sql.DB
	once    sync.Once
	release func()
	err     error
}

// Close closes the underlying handle and returns the connection slot.
func (c *Conn) Close() error {
	c.once.Do(func() {
		c.err = c.DB.Close()
		c.release()
	})
	return c.err
}

// Open connects to instance and verifies the connection with a ping.
func (c *Connector) Open(ctx context.Context, instance string) (*Conn, error) {
	if !c.Allowed(instance) {
		return nil, &ForbiddenError{Instance: instance}
	}
	return c.connect(ctx, instance)
}

// Ping connects to the server without selecting an instance. It backs the
// health check and ignores the allow-list.
func (c *Connector) Ping(ctx context.Context) error {
	conn, err := c.connect(ctx, "")
	if err != nil {
		return err
	}
	return conn.Close()
}

func (c *Connector) connect(ctx context.Context, instance string) (*Conn, error) {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return nil, dbError("connect", err)
		}
	}
	c.inUse.Add(1)
	release := func() {
		c.inUse.Add(-1)
		if c.sem != nil {
			c.sem.Release(1)
		}
	}

	db, err := c.open(c.dialect.DriverName(), c.dialect.DSN(c.server, instance))
	if err != nil {
		release()
		return nil, dbError("connect", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	conn := &Conn{DB: db, release: release}
	if err := db.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, dbError("connect", err)
	}
	c.opened.Add(1)
	return conn, nil
}
