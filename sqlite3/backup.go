// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite3

import (
	"io"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// Backup is an incremental online backup of one database into another. All
// engine calls run on the destination connection.
// https://www.sqlite.org/backup.html
type Backup struct {
	src, dst *Conn
	pBackup  uintptr
}

func newBackup(src *Conn, srcName string, dst *Conn, dstName string) (*Backup, error) {
	if src.db == 0 || dst.db == 0 {
		return nil, ErrBadConn
	}
	zSrc, err := libc.CString(srcName)
	if err != nil {
		return nil, err
	}
	defer libc.Xfree(dst.tls, zSrc)
	zDst, err := libc.CString(dstName)
	if err != nil {
		return nil, err
	}
	defer libc.Xfree(dst.tls, zDst)

	p := lib.Xsqlite3_backup_init(dst.tls, dst.db, zDst, src.db, zSrc)
	if p == 0 {
		// On failure the error is recorded on the destination connection.
		return nil, libErr(lib.Xsqlite3_errcode(dst.tls, dst.db), dst)
	}
	return &Backup{src: src, dst: dst, pBackup: p}, nil
}

// Step copies up to n pages to the destination database. If n is negative,
// all remaining pages are copied. io.EOF is returned when the backup has
// copied the last page, after which the session only needs to be closed.
// https://www.sqlite.org/c3ref/backup_finish.html
func (b *Backup) Step(n int) error {
	if b.pBackup == 0 {
		return ErrBadBackup
	}
	switch rc := lib.Xsqlite3_backup_step(b.dst.tls, b.pBackup, int32(n)); rc {
	case OK:
		return nil
	case DONE:
		return io.EOF
	default:
		return libErr(rc, b.dst)
	}
}

// Remaining returns the number of pages still to be copied, as of the end of
// the most recent call to Step.
func (b *Backup) Remaining() int {
	if b.pBackup == 0 {
		return 0
	}
	return int(lib.Xsqlite3_backup_remaining(b.dst.tls, b.pBackup))
}

// PageCount returns the total number of pages in the source database, as of
// the end of the most recent call to Step.
func (b *Backup) PageCount() int {
	if b.pBackup == 0 {
		return 0
	}
	return int(lib.Xsqlite3_backup_pagecount(b.dst.tls, b.pBackup))
}

// Close finishes the backup, releasing its resources and the read lock on the
// source database. For an incomplete backup the partially copied destination
// is left in an undefined state and should be discarded. Any operation on a
// closed backup reports ErrBadBackup.
// https://www.sqlite.org/c3ref/backup_finish.html
func (b *Backup) Close() error {
	if b.pBackup == 0 {
		return ErrBadBackup
	}
	rc := lib.Xsqlite3_backup_finish(b.dst.tls, b.pBackup)
	b.pBackup = 0
	if rc != OK {
		return libErr(rc, b.dst)
	}
	return nil
}
