// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite3

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherBounds(t *testing.T) {
	d := NewDispatcher(2)

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Do(func() error {
				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxActive)
					if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, maxActive, int32(2), "no more than two calls in flight")
}

func TestDispatcherError(t *testing.T) {
	d := NewDispatcher(1)
	wantErr := pkgErr(MISUSE, "boom")
	assert.Equal(t, wantErr, d.Do(func() error { return wantErr }))
	assert.NoError(t, d.Do(func() error { return nil }))
}

func TestDispatcherWithConn(t *testing.T) {
	c := openTestConn(t)
	require.NoError(t, c.Exec(`CREATE TABLE t(x)`))

	d := NewDispatcher(1)
	d.SlowThreshold(0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := d.Do(func() error {
				return c.Exec(`INSERT INTO t VALUES (?)`, i)
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rows, err := c.Query(`SELECT count(*) FROM t`)
	require.NoError(t, err)
	assert.Equal(t, int64(20), rows[0][0].Int64())
}
