// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite3

import (
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/syncs"
)

// Dispatcher runs database work through a fixed number of slots. It is useful
// when many goroutines share a small set of connections and engine calls must
// not pile up unbounded. A connection itself is not safe for concurrent use,
// so a single-slot dispatcher also serves as the connection's serializer.
type Dispatcher struct {
	sem  sync.Locker
	slow time.Duration
}

// NewDispatcher creates a dispatcher with the given number of slots and a
// one-second slow-call log threshold.
func NewDispatcher(slots int) *Dispatcher {
	return &Dispatcher{sem: syncs.NewSemaphore(slots), slow: time.Second}
}

// SlowThreshold sets the duration above which a completed call is logged.
// A zero or negative value disables the logging.
func (d *Dispatcher) SlowThreshold(dur time.Duration) {
	d.slow = dur
}

// Do runs fn in a dispatch slot, blocking while all slots are busy. The
// function's error is returned unchanged.
func (d *Dispatcher) Do(fn func() error) error {
	d.sem.Lock()
	defer d.sem.Unlock()

	st := time.Now()
	err := fn()
	if d.slow > 0 {
		if took := time.Since(st); took >= d.slow {
			lgr.Printf("[WARN] slow database call, took %v", took)
		}
	}
	return err
}
