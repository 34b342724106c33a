// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite3

import lib "modernc.org/sqlite/lib"

// General result codes returned by the SQLite API.
// https://www.sqlite.org/rescode.html
const (
	OK         = lib.SQLITE_OK
	ERROR      = lib.SQLITE_ERROR
	INTERNAL   = lib.SQLITE_INTERNAL
	PERM       = lib.SQLITE_PERM
	ABORT      = lib.SQLITE_ABORT
	BUSY       = lib.SQLITE_BUSY
	LOCKED     = lib.SQLITE_LOCKED
	NOMEM      = lib.SQLITE_NOMEM
	READONLY   = lib.SQLITE_READONLY
	INTERRUPT  = lib.SQLITE_INTERRUPT
	IOERR      = lib.SQLITE_IOERR
	CORRUPT    = lib.SQLITE_CORRUPT
	NOTFOUND   = lib.SQLITE_NOTFOUND
	FULL       = lib.SQLITE_FULL
	CANTOPEN   = lib.SQLITE_CANTOPEN
	PROTOCOL   = lib.SQLITE_PROTOCOL
	EMPTY      = lib.SQLITE_EMPTY
	SCHEMA     = lib.SQLITE_SCHEMA
	TOOBIG     = lib.SQLITE_TOOBIG
	CONSTRAINT = lib.SQLITE_CONSTRAINT
	MISMATCH   = lib.SQLITE_MISMATCH
	MISUSE     = lib.SQLITE_MISUSE
	NOLFS      = lib.SQLITE_NOLFS
	AUTH       = lib.SQLITE_AUTH
	FORMAT     = lib.SQLITE_FORMAT
	RANGE      = lib.SQLITE_RANGE
	NOTADB     = lib.SQLITE_NOTADB
	NOTICE     = lib.SQLITE_NOTICE
	WARNING    = lib.SQLITE_WARNING
	ROW        = lib.SQLITE_ROW
	DONE       = lib.SQLITE_DONE
)

// Flags that can be provided to Open.
// https://www.sqlite.org/c3ref/c_open_autoproxy.html
const (
	OPEN_READONLY     = lib.SQLITE_OPEN_READONLY
	OPEN_READWRITE    = lib.SQLITE_OPEN_READWRITE
	OPEN_CREATE       = lib.SQLITE_OPEN_CREATE
	OPEN_URI          = lib.SQLITE_OPEN_URI
	OPEN_MEMORY       = lib.SQLITE_OPEN_MEMORY
	OPEN_NOMUTEX      = lib.SQLITE_OPEN_NOMUTEX
	OPEN_FULLMUTEX    = lib.SQLITE_OPEN_FULLMUTEX
	OPEN_SHAREDCACHE  = lib.SQLITE_OPEN_SHAREDCACHE
	OPEN_PRIVATECACHE = lib.SQLITE_OPEN_PRIVATECACHE
	OPEN_NOFOLLOW     = lib.SQLITE_OPEN_NOFOLLOW
)

// Flags that can be provided to Prepare.
// https://www.sqlite.org/c3ref/c_prepare_normalize.html
const (
	PREPARE_PERSISTENT = lib.SQLITE_PREPARE_PERSISTENT
	PREPARE_NO_VTAB    = lib.SQLITE_PREPARE_NO_VTAB
)

// Fundamental SQLite data types. These are the storage classes reported for
// column values and carried by Value.
// https://www.sqlite.org/c3ref/c_blob.html
const (
	INTEGER = lib.SQLITE_INTEGER
	FLOAT   = lib.SQLITE_FLOAT
	TEXT    = lib.SQLITE_TEXT
	BLOB    = lib.SQLITE_BLOB
	NULL    = lib.SQLITE_NULL
)

// Row change operations reported by the update hook.
// https://www.sqlite.org/c3ref/c_alter_table.html
const (
	INSERT = lib.SQLITE_INSERT
	DELETE = lib.SQLITE_DELETE
	UPDATE = lib.SQLITE_UPDATE
)
