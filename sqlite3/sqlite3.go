// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 is a cgo-free SQLite driver for the Go programming
// language, built on the transpiled SQLite library from modernc.org. It is
// designed to be simple, lightweight, performant, understandable,
// unsurprising, debuggable, and ergonomic. This driver does not provide a
// database/sql interface.
package sqlite3

import (
	"fmt"
	"time"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// defaultBusyTimeout is applied to every new connection. Callers can override
// it with BusyTimeout.
const defaultBusyTimeout = 2 * time.Second

// Conn is a connection handle, which may have multiple databases attached to
// it by using the ATTACH SQL statement. A Conn is not safe for concurrent use
// by multiple goroutines; serialize access, for example through a Dispatcher.
// https://www.sqlite.org/c3ref/sqlite3.html
type Conn struct {
	tls *libc.TLS
	db  uintptr

	hook *hookState
}

// Open creates a new connection to a SQLite database. The name can be 1) a
// path to a file, which is created if it does not exist, 2) a URI using the
// syntax described at https://www.sqlite.org/uri.html, 3) the string
// ":memory:", which creates a temporary in-memory database, or 4) an empty
// string, which creates a temporary on-disk database that is deleted when
// closed. Flags to Open can optionally be provided. If no flags are provided,
// the default flags of OPEN_READWRITE|OPEN_CREATE|OPEN_URI|OPEN_FULLMUTEX
// are used.
//
// New connections report extended result codes and have a busy timeout of two
// seconds.
// https://www.sqlite.org/c3ref/open.html
func Open(name string, flagArgs ...int) (*Conn, error) {
	if len(flagArgs) > 1 {
		return nil, pkgErr(MISUSE, "too many arguments provided to Open")
	}
	flags := OPEN_READWRITE | OPEN_CREATE | OPEN_URI | OPEN_FULLMUTEX
	if len(flagArgs) == 1 {
		flags = flagArgs[0]
	}

	tls := libc.NewTLS()
	c := &Conn{tls: tls}

	zName, err := libc.CString(name)
	if err != nil {
		tls.Close()
		return nil, err
	}
	defer libc.Xfree(tls, zName)

	ppDb, err := c.malloc(int(ptrSize))
	if err != nil {
		tls.Close()
		return nil, err
	}
	rc := lib.Xsqlite3_open_v2(tls, zName, ppDb, int32(flags), 0)
	c.db = deref(ppDb)
	c.free(ppDb)
	if rc != OK {
		err = libErr(rc, c)
		if c.db != 0 {
			lib.Xsqlite3_close_v2(tls, c.db)
		}
		tls.Close()
		return nil, err
	}

	lib.Xsqlite3_extended_result_codes(tls, c.db, 1)
	lib.Xsqlite3_busy_timeout(tls, c.db, int32(defaultBusyTimeout/time.Millisecond))
	return c, nil
}

// Close releases all resources associated with the connection. If any
// prepared statements or backup operations derived from the connection are
// still open, Close fails with a BUSY error and the connection stays usable;
// release the remaining statements and operations first. A second call on a
// closed connection reports ErrBadConn.
// https://www.sqlite.org/c3ref/close.html
func (c *Conn) Close() error {
	if c.db == 0 {
		return ErrBadConn
	}
	if rc := lib.Xsqlite3_close(c.tls, c.db); rc != OK {
		return libErr(rc, c)
	}
	c.releaseHook(false)
	c.db = 0
	c.tls.Close()
	c.tls = nil
	return nil
}

// Prepare compiles the first statement in sql. Any remaining text after the
// first statement is saved in s.Tail. This function may return a nil stmt and
// a nil error if the sql string contains nothing to do. An optional
// combination of PREPARE_* flags can be provided.
// https://www.sqlite.org/c3ref/prepare.html
func (c *Conn) Prepare(sql string, flagArgs ...int) (s *Stmt, err error) {
	if c.db == 0 {
		return nil, ErrBadConn
	}
	if len(flagArgs) > 1 {
		return nil, pkgErr(MISUSE, "too many arguments provided to Prepare")
	}
	var flags int
	if len(flagArgs) == 1 {
		flags = flagArgs[0]
	}

	zSQL, err := libc.CString(sql)
	if err != nil {
		return nil, err
	}
	defer libc.Xfree(c.tls, zSQL)

	pp, err := c.malloc(int(2 * ptrSize))
	if err != nil {
		return nil, err
	}
	defer c.free(pp)
	pzTail := pp + ptrSize

	rc := lib.Xsqlite3_prepare_v3(c.tls, c.db, zSQL, -1, uint32(flags), pp, pzTail)
	if rc != OK {
		return nil, libErr(rc, c)
	}
	stmt := deref(pp)
	if stmt == 0 {
		return nil, nil
	}

	var tail string
	if pt := deref(pzTail); pt != 0 {
		if off := int(pt - zSQL); off >= 0 && off < len(sql) {
			tail = sql[off:]
		}
	}
	return &Stmt{conn: c, stmt: stmt, Tail: tail}, nil
}

// Exec is a convenience function that will call sqlite3_exec if no arguments
// are given, running every statement in sql. If arguments are given, it is
// simply a convenient way to Prepare a statement, Bind arguments, Step the
// statement to completion, and Close/finalize the statement.
// https://www.sqlite.org/c3ref/exec.html
func (c *Conn) Exec(sql string, args ...interface{}) error {
	if c.db == 0 {
		return ErrBadConn
	}
	// Fast path via sqlite3_exec, which doesn't support parameter binding
	if len(args) == 0 {
		return c.exec(sql)
	}

	s, err := c.Prepare(sql)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	defer s.Close()

	if err = s.Bind(args...); err != nil {
		return err
	}
	return s.StepToCompletion()
}

// exec runs sql through sqlite3_exec without binding support.
func (c *Conn) exec(sql string) error {
	zSQL, err := libc.CString(sql)
	if err != nil {
		return err
	}
	defer libc.Xfree(c.tls, zSQL)
	if rc := lib.Xsqlite3_exec(c.tls, c.db, zSQL, 0, 0, 0); rc != OK {
		return libErr(rc, c)
	}
	return nil
}

// Begin starts a new deferred transaction. This is equivalent to
// c.Exec("BEGIN")
// https://www.sqlite.org/lang_transaction.html
func (c *Conn) Begin() error {
	if c.db == 0 {
		return ErrBadConn
	}
	return c.exec("BEGIN")
}

// BeginImmediate starts a new immediate transaction. This is equivalent to
// c.Exec("BEGIN IMMEDIATE")
// https://www.sqlite.org/lang_transaction.html
func (c *Conn) BeginImmediate() error {
	if c.db == 0 {
		return ErrBadConn
	}
	return c.exec("BEGIN IMMEDIATE")
}

// Commit saves all changes made within a transaction to the database.
func (c *Conn) Commit() error {
	if c.db == 0 {
		return ErrBadConn
	}
	return c.exec("COMMIT")
}

// Rollback aborts the current transaction without saving any changes.
func (c *Conn) Rollback() error {
	if c.db == 0 {
		return ErrBadConn
	}
	return c.exec("ROLLBACK")
}

// WithTx is a convenience method that begins a deferred transaction, calls
// the function f, commits the transaction if f does not return an error, and
// rolls the transaction back if f does return an error.
func (c *Conn) WithTx(f func() error) error {
	if err := c.Begin(); err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}

	err := f()
	if err != nil {
		err2 := c.Rollback()
		if err2 == nil {
			return err
		}
		return fmt.Errorf("%v, additionally rolling back transaction failed: %v", err, err2)
	}

	if err = c.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

// Interrupt causes any pending database operation to abort and return at its
// earliest opportunity. It is safe to call this method from a goroutine
// different from the one that is currently running the database operation,
// but it is not safe to call this method on a connection that might close
// before the call returns.
// https://www.sqlite.org/c3ref/interrupt.html
func (c *Conn) Interrupt() {
	if c.db != 0 {
		lib.Xsqlite3_interrupt(c.tls, c.db)
	}
}

// AutoCommit returns true if the database connection is in auto-commit mode
// (i.e. outside of an explicit transaction started by BEGIN).
// https://www.sqlite.org/c3ref/get_autocommit.html
func (c *Conn) AutoCommit() (bool, error) {
	if c.db == 0 {
		return false, ErrBadConn
	}
	return lib.Xsqlite3_get_autocommit(c.tls, c.db) != 0, nil
}

// LastInsertRowID returns the ROWID of the most recent successful INSERT
// statement.
// https://www.sqlite.org/c3ref/last_insert_rowid.html
func (c *Conn) LastInsertRowID() (int64, error) {
	if c.db == 0 {
		return 0, ErrBadConn
	}
	return lib.Xsqlite3_last_insert_rowid(c.tls, c.db), nil
}

// Changes returns the number of rows that were changed, inserted, or deleted
// by the most recent statement. Auxiliary changes caused by triggers or
// foreign key actions are not counted.
// https://www.sqlite.org/c3ref/changes.html
func (c *Conn) Changes() (int, error) {
	if c.db == 0 {
		return 0, ErrBadConn
	}
	return int(lib.Xsqlite3_changes(c.tls, c.db)), nil
}

// TotalChanges returns the number of rows that were changed, inserted, or
// deleted since the database connection was opened, including changes caused
// by trigger and foreign key actions.
// https://www.sqlite.org/c3ref/total_changes.html
func (c *Conn) TotalChanges() (int, error) {
	if c.db == 0 {
		return 0, ErrBadConn
	}
	return int(lib.Xsqlite3_total_changes(c.tls, c.db)), nil
}

// ErrorInfo returns the message of the most recent failed engine call on this
// connection. The second return value is false when the connection has no
// error recorded or is closed.
// https://www.sqlite.org/c3ref/errcode.html
func (c *Conn) ErrorInfo() (string, bool) {
	if c.db == 0 {
		return "", false
	}
	if lib.Xsqlite3_errcode(c.tls, c.db) == OK {
		return "", false
	}
	return libc.GoString(lib.Xsqlite3_errmsg(c.tls, c.db)), true
}

// Backup starts an online database backup of c.srcName into dst.dstName.
// Connections c and dst must be distinct. All existing contents of the
// destination database are overwritten.
//
// A read lock is acquired on the source database only while it is being read
// during a call to Backup.Step. The source connection may be used for other
// purposes between these calls. The destination connection must not be used
// for anything until the backup is closed.
// https://www.sqlite.org/backup.html
func (c *Conn) Backup(srcName string, dst *Conn, dstName string) (*Backup, error) {
	if c == dst || dst == nil {
		return nil, ErrBadConn
	}
	return newBackup(c, srcName, dst, dstName)
}

// BusyTimeout enables the built-in busy handler, which retries the table
// locking operation for the specified duration before aborting. The busy
// handler is disabled if d is negative or zero.
// https://www.sqlite.org/c3ref/busy_timeout.html
func (c *Conn) BusyTimeout(d time.Duration) {
	if c.db != 0 {
		lib.Xsqlite3_busy_timeout(c.tls, c.db, int32(d/time.Millisecond))
	}
}

// FileName returns the full file path of an attached database. An empty
// string is returned for temporary and in-memory databases.
// https://www.sqlite.org/c3ref/db_filename.html
func (c *Conn) FileName(db string) string {
	if c.db == 0 {
		return ""
	}
	zDb, err := libc.CString(db)
	if err != nil {
		return ""
	}
	defer libc.Xfree(c.tls, zDb)
	return libc.GoString(lib.Xsqlite3_db_filename(c.tls, c.db, zDb))
}
