// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package context carries per-node identity, session, logging, and
// metrics handles through call chains via the standard context.Context
// value-propagation idiom, instead of threading them as explicit
// parameters through every layer.
package context

import (
	"context"
	"sync"

	"github.com/luxfi/elara/core"
	"github.com/luxfi/elara/metrics"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
)

type contextKeyType struct{}

var contextKey = contextKeyType{}

// Context bundles a node's local identity, the session it belongs to
// (once joined), and its logging/metrics collaborators.
type Context struct {
	lock sync.RWMutex

	LocalNodeID core.NodeID
	SessionID   core.SessionID
	InSession   bool

	Log     log.Logger
	Metrics *metrics.Metrics

	// Stats holds free-standing counters/gauges/averagers a node keeps
	// for its own diagnostics, independent of whatever prometheus
	// registerer Metrics wraps (which may be nil in tests).
	Stats metrics.Registry
}

// NewContext returns a Context for a node that has not yet joined a
// session.
func NewContext(local core.NodeID, logger log.Logger, reg prometheus.Registerer) *Context {
	return &Context{
		LocalNodeID: local,
		Log:         logger,
		Metrics:     metrics.NewMetrics(reg),
		Stats:       metrics.NewRegistry(),
	}
}

// WithSession records the session this node has joined, returning c for
// chaining.
func (c *Context) WithSession(session core.SessionID) *Context {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.SessionID = session
	c.InSession = true
	return c
}

// ClearSession marks the node as no longer in any session.
func (c *Context) ClearSession() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.SessionID = 0
	c.InSession = false
}

// Session returns the current session ID and whether one is active.
func (c *Context) Session() (core.SessionID, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.SessionID, c.InSession
}

// WithContext returns a copy of parent carrying c, retrievable with
// FromContext.
func WithContext(parent context.Context, c *Context) context.Context {
	return context.WithValue(parent, contextKey, c)
}

// FromContext retrieves the Context stashed by WithContext, if any.
func FromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(contextKey).(*Context)
	return c, ok
}
