// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite3

import (
	"fmt"
	"sync"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// Error is returned for all SQLite API result codes other than OK, ROW, and
// DONE, and for misuse of this package's handles.
type Error struct {
	rc  int
	msg string
}

// NewError creates a new Error instance using the specified SQLite result code
// and error message.
func NewError(rc int, msg string) *Error {
	return &Error{rc, msg}
}

// errStr translates a result code to a generic English-language message.
func errStr(tls *libc.TLS, rc int32) error {
	return &Error{int(rc), libc.GoString(lib.Xsqlite3_errstr(tls, rc))}
}

// libErr reports an error originating in SQLite. The error message is obtained
// from the database connection when possible, which may include some additional
// information. Otherwise, the result code is translated to a generic message.
func libErr(rc int32, c *Conn) error {
	if c != nil && c.db != 0 && rc == lib.Xsqlite3_errcode(c.tls, c.db) {
		return &Error{int(rc), libc.GoString(lib.Xsqlite3_errmsg(c.tls, c.db))}
	}
	if c != nil && c.tls != nil {
		return errStr(c.tls, rc)
	}
	return &Error{int(rc), "unknown error"}
}

// pkgErr reports an error originating in this package.
func pkgErr(rc int, msg string, v ...interface{}) error {
	if len(v) == 0 {
		return &Error{rc, msg}
	}
	return &Error{rc, fmt.Sprintf(msg, v...)}
}

// Code returns the SQLite extended result code.
func (err *Error) Code() int {
	return err.rc
}

// Error implements the error interface.
func (err *Error) Error() string {
	return fmt.Sprintf("sqlite3: %s [%d]", err.msg, err.rc)
}

// Errors returned for access attempts to closed or invalid objects.
var (
	ErrBadConn   = &Error{MISUSE, "closed or invalid connection"}
	ErrBadStmt   = &Error{MISUSE, "closed or invalid statement"}
	ErrBadBackup = &Error{MISUSE, "closed or invalid backup operation"}
)

// registry hands out stable integer handles for Go values that must be
// reachable from engine callbacks, where passing a Go pointer is not allowed.
type registry struct {
	mu    *sync.Mutex
	index int
	vals  map[int]interface{}
}

func newRegistry() *registry {
	return &registry{
		mu:    &sync.Mutex{},
		index: 0,
		vals:  make(map[int]interface{}),
	}
}

func (r *registry) register(val interface{}) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.index++
	for r.vals[r.index] != nil || r.index == 0 {
		r.index++
	}
	r.vals[r.index] = val
	return r.index
}

func (r *registry) lookup(i int) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vals[i]
}

func (r *registry) unregister(i int) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.vals[i]
	delete(r.vals, i)
	return prev
}
