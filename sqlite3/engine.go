// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite3

import (
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	lib "modernc.org/sqlite/lib"
)

// ptrSize is the size of a C pointer on the current platform.
const ptrSize = unsafe.Sizeof(uintptr(0))

// cFuncPointer converts a Go function into a C function pointer that the
// transpiled SQLite library can call back through. The conversion relies on
// the function value layout used by modernc.org/libc.
func cFuncPointer[T any](f T) uintptr {
	return *(*uintptr)(unsafe.Pointer(&struct{ f T }{f}))
}

// deref reads the pointer stored in the out-parameter cell p.
func deref(p uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(p))
}

// malloc allocates n bytes on the C heap of the connection's thread-local
// storage state.
func (c *Conn) malloc(n int) (uintptr, error) {
	if p := libc.Xmalloc(c.tls, types.Size_t(n)); p != 0 || n == 0 {
		return p, nil
	}
	return 0, pkgErr(NOMEM, "cannot allocate %d bytes", n)
}

func (c *Conn) free(p uintptr) {
	if p != 0 {
		libc.Xfree(c.tls, p)
	}
}

// goTextN copies an n-byte C string into a Go string.
func goTextN(p uintptr, n int32) string {
	if p == 0 || n <= 0 {
		return ""
	}
	b := make([]byte, n)
	copy(b, (*libc.RawMem)(unsafe.Pointer(p))[:n:n])
	return string(b)
}

// goBlobN copies an n-byte C array into a Go byte slice. The result is never
// nil so that zero-length blobs remain distinguishable from NULL.
func goBlobN(p uintptr, n int32) []byte {
	b := make([]byte, n)
	if p != 0 && n > 0 {
		copy(b, (*libc.RawMem)(unsafe.Pointer(p))[:n:n])
	}
	return b
}

// Version returns the SQLite library version as a string in the format
// "X.Y.Z[.N]".
// https://www.sqlite.org/c3ref/libversion.html
func Version() string {
	tls := libc.NewTLS()
	defer tls.Close()
	return libc.GoString(lib.Xsqlite3_libversion(tls))
}
