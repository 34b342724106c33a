// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite3

import (
	"sync"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// UpdateEvent describes one committed row change reported through the
// connection's update hook.
type UpdateEvent struct {
	Op    int    // INSERT, UPDATE, or DELETE
	DB    string // database name, e.g. "main"
	Table string
	RowID int64
}

// updateRegistry maps the opaque argument of the engine callback back to the
// Go-side subscription state.
var updateRegistry = newRegistry()

// hookState is one update-hook subscription. Events are appended by the
// engine callback and handed to the subscriber channel by a forwarder
// goroutine, so a statement that modifies rows never blocks on delivery.
type hookState struct {
	idx  int
	ch   chan<- UpdateEvent
	done chan struct{}

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []UpdateEvent
	closed bool
}

// SetUpdateHook subscribes ch to row change notifications on the connection.
// A connection carries at most one subscription: registering a new channel
// replaces the previous one, and a nil channel removes the subscription.
// Closing the connection removes it as well.
//
// Events are delivered asynchronously in the order the changes occurred on
// this connection. Events still queued when the subscription is removed are
// dropped.
// https://www.sqlite.org/c3ref/update_hook.html
func (c *Conn) SetUpdateHook(ch chan<- UpdateEvent) error {
	if c.db == 0 {
		return ErrBadConn
	}
	c.releaseHook(true)
	if ch == nil {
		return nil
	}

	h := &hookState{ch: ch, done: make(chan struct{})}
	h.cond = sync.NewCond(&h.mu)
	h.idx = updateRegistry.register(h)
	c.hook = h
	go h.forward()

	lib.Xsqlite3_update_hook(c.tls, c.db, cFuncPointer(updateHookTramp), uintptr(h.idx))
	return nil
}

// releaseHook tears down the current subscription, if any. When unhook is
// true the engine-side callback is removed too; Close skips that because the
// engine handle is already gone.
func (c *Conn) releaseHook(unhook bool) {
	if unhook && c.db != 0 {
		lib.Xsqlite3_update_hook(c.tls, c.db, 0, 0)
	}
	h := c.hook
	if h == nil {
		return
	}
	c.hook = nil
	updateRegistry.unregister(h.idx)

	h.mu.Lock()
	h.closed = true
	h.queue = nil
	h.cond.Signal()
	h.mu.Unlock()
	close(h.done)
}

// updateHookTramp is the callback invoked by the engine after every row
// change. It runs on the connection's engine thread, so it only queues the
// event and returns.
func updateHookTramp(tls *libc.TLS, pArg uintptr, op int32, zDB, zTbl uintptr, rowid int64) {
	v := updateRegistry.lookup(int(pArg))
	if v == nil {
		return
	}
	h := v.(*hookState)
	ev := UpdateEvent{
		Op:    int(op),
		DB:    libc.GoString(zDB),
		Table: libc.GoString(zTbl),
		RowID: rowid,
	}
	h.mu.Lock()
	if !h.closed {
		h.queue = append(h.queue, ev)
		h.cond.Signal()
	}
	h.mu.Unlock()
}

// forward delivers queued events to the subscriber channel in arrival order.
// It exits once the subscription is removed, even while parked on a send to
// a subscriber that is not receiving, so a removed subscriber never gets a
// late event.
func (h *hookState) forward() {
	for {
		h.mu.Lock()
		for len(h.queue) == 0 && !h.closed {
			h.cond.Wait()
		}
		if h.closed {
			h.mu.Unlock()
			return
		}
		ev := h.queue[0]
		h.queue = h.queue[1:]
		h.mu.Unlock()

		select {
		case h.ch <- ev:
		case <-h.done:
			return
		}
	}
}
