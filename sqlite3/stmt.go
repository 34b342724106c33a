// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite3

import (
	"unsafe"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// Statement execution states. A statement starts Ready, yields rows while
// stepping, and latches Done or Error until the next Reset.
const (
	stmtReady = iota
	stmtRow
	stmtDone
	stmtError
)

// Stmt is a prepared statement handle.
// https://www.sqlite.org/c3ref/stmt.html
type Stmt struct {
	// Tail is the portion of the SQL text that was not consumed when the
	// statement was compiled.
	Tail string

	conn  *Conn
	stmt  uintptr
	state int
	err   error

	// C buffers backing TEXT and BLOB bindings. They must outlive the
	// bindings, so they are released on rebind, ClearBindings, and Close.
	allocs []uintptr
}

// Close releases all resources associated with the prepared statement. This
// method can be called at any point in the statement's life cycle.
// https://www.sqlite.org/c3ref/finalize.html
func (s *Stmt) Close() error {
	if s.stmt == 0 {
		return nil
	}
	rc := lib.Xsqlite3_finalize(s.conn.tls, s.stmt)
	s.stmt = 0
	s.freeAllocs(&s.allocs)
	if rc != OK {
		return libErr(rc, s.conn)
	}
	return nil
}

// BindParameterCount returns the number of SQL parameters in the prepared
// statement.
// https://www.sqlite.org/c3ref/bind_parameter_count.html
func (s *Stmt) BindParameterCount() int {
	if s.stmt == 0 {
		return 0
	}
	return int(lib.Xsqlite3_bind_parameter_count(s.conn.tls, s.stmt))
}

// ColumnCount returns the number of columns produced by the prepared
// statement.
// https://www.sqlite.org/c3ref/column_count.html
func (s *Stmt) ColumnCount() int {
	if s.stmt == 0 {
		return 0
	}
	return int(lib.Xsqlite3_column_count(s.conn.tls, s.stmt))
}

// ColumnName returns the name of a column produced by the prepared statement.
// The leftmost column is number 0.
// https://www.sqlite.org/c3ref/column_name.html
func (s *Stmt) ColumnName(i int) string {
	if s.stmt == 0 {
		return ""
	}
	return libc.GoString(lib.Xsqlite3_column_name(s.conn.tls, s.stmt, int32(i)))
}

// ColumnNames returns the names of columns produced by the prepared
// statement.
// https://www.sqlite.org/c3ref/column_name.html
func (s *Stmt) ColumnNames() []string {
	names := make([]string, s.ColumnCount())
	for i := range names {
		names[i] = s.ColumnName(i)
	}
	return names
}

// DeclType returns the type declaration of a column produced by the prepared
// statement. The empty string is returned for columns without a declared
// type, such as expression results. The leftmost column is number 0.
// https://www.sqlite.org/c3ref/column_decltype.html
func (s *Stmt) DeclType(i int) string {
	if s.stmt == 0 {
		return ""
	}
	return libc.GoString(lib.Xsqlite3_column_decltype(s.conn.tls, s.stmt, int32(i)))
}

// DeclTypes returns the type declarations of columns produced by the prepared
// statement.
// https://www.sqlite.org/c3ref/column_decltype.html
func (s *Stmt) DeclTypes() []string {
	declTypes := make([]string, s.ColumnCount())
	for i := range declTypes {
		declTypes[i] = s.DeclType(i)
	}
	return declTypes
}

// Bind converts args with the automatic conversion rules and binds them to
// the statement's parameters, replacing any previous bindings. The number of
// arguments must match the statement's parameter count exactly. All arguments
// are converted before any parameter is touched, so a conversion failure
// leaves existing bindings intact.
// https://www.sqlite.org/c3ref/bind_blob.html
func (s *Stmt) Bind(args ...interface{}) error {
	if s.stmt == 0 {
		return ErrBadStmt
	}
	if n := s.BindParameterCount(); n != len(args) {
		return pkgErr(MISUSE, "expected %d bind parameters, got %d", n, len(args))
	}
	cells := make([]Value, len(args))
	for i, arg := range args {
		v, err := coerce(i, arg)
		if err != nil {
			return err
		}
		cells[i] = v
	}
	return s.bindCells(cells)
}

// BindValues binds a full list of already-converted cells in parameter order.
func (s *Stmt) BindValues(cells []Value) error {
	if s.stmt == 0 {
		return ErrBadStmt
	}
	if n := s.BindParameterCount(); n != len(cells) {
		return pkgErr(MISUSE, "expected %d bind parameters, got %d", n, len(cells))
	}
	return s.bindCells(cells)
}

// bindCells rebinds every parameter. The previous binding buffers stay alive
// until all slots have been repointed, then they are released. If the engine
// rejects a bind, the slots are cleared before any buffer is freed.
func (s *Stmt) bindCells(cells []Value) error {
	old := s.allocs
	s.allocs = nil
	for i, v := range cells {
		if err := s.bindValue(i+1, v); err != nil {
			lib.Xsqlite3_clear_bindings(s.conn.tls, s.stmt)
			s.freeAllocs(&s.allocs)
			s.freeAllocs(&old)
			return err
		}
	}
	s.freeAllocs(&old)
	return nil
}

// bindValue binds one cell to the parameter at position i (the leftmost SQL
// parameter has position 1).
func (s *Stmt) bindValue(i int, v Value) error {
	tls := s.conn.tls
	var rc int32
	switch v.Type() {
	case NULL:
		rc = lib.Xsqlite3_bind_null(tls, s.stmt, int32(i))
	case INTEGER:
		if v.narrow {
			rc = lib.Xsqlite3_bind_int(tls, s.stmt, int32(i), int32(v.num))
		} else {
			rc = lib.Xsqlite3_bind_int64(tls, s.stmt, int32(i), v.num)
		}
	case FLOAT:
		rc = lib.Xsqlite3_bind_double(tls, s.stmt, int32(i), v.real)
	case TEXT:
		p, err := libc.CString(v.str)
		if err != nil {
			return err
		}
		s.allocs = append(s.allocs, p)
		rc = lib.Xsqlite3_bind_text(tls, s.stmt, int32(i), p, int32(len(v.str)), 0)
	case BLOB:
		if len(v.blob) == 0 {
			rc = lib.Xsqlite3_bind_zeroblob(tls, s.stmt, int32(i), 0)
			break
		}
		p, err := s.conn.malloc(len(v.blob))
		if err != nil {
			return err
		}
		copy((*libc.RawMem)(unsafe.Pointer(p))[:len(v.blob):len(v.blob)], v.blob)
		s.allocs = append(s.allocs, p)
		rc = lib.Xsqlite3_bind_blob(tls, s.stmt, int32(i), p, int32(len(v.blob)), 0)
	}
	if rc != OK {
		return libErr(rc, s.conn)
	}
	return nil
}

// BindInt binds v as a 32-bit integer to the parameter at position i. The
// leftmost SQL parameter has position 1.
func (s *Stmt) BindInt(i, v int) error {
	if s.stmt == 0 {
		return ErrBadStmt
	}
	return s.bindValue(i, Value{typ: INTEGER, num: int64(v), narrow: true})
}

// BindInt64 binds v as a 64-bit integer to the parameter at position i.
func (s *Stmt) BindInt64(i int, v int64) error {
	if s.stmt == 0 {
		return ErrBadStmt
	}
	return s.bindValue(i, Value{typ: INTEGER, num: v})
}

// BindDouble binds v as a 64-bit IEEE float to the parameter at position i.
func (s *Stmt) BindDouble(i int, v float64) error {
	if s.stmt == 0 {
		return ErrBadStmt
	}
	return s.bindValue(i, Value{typ: FLOAT, real: v})
}

// BindText binds v as a TEXT value to the parameter at position i.
func (s *Stmt) BindText(i int, v string) error {
	if s.stmt == 0 {
		return ErrBadStmt
	}
	return s.bindValue(i, Value{typ: TEXT, str: v})
}

// BindBlob binds v as a BLOB value to the parameter at position i.
func (s *Stmt) BindBlob(i int, v []byte) error {
	if s.stmt == 0 {
		return ErrBadStmt
	}
	return s.bindValue(i, Value{typ: BLOB, blob: v})
}

// BindNull binds NULL to the parameter at position i.
func (s *Stmt) BindNull(i int) error {
	if s.stmt == 0 {
		return ErrBadStmt
	}
	return s.bindValue(i, Value{typ: NULL})
}

// Step evaluates the next step in the statement's program. It returns true if
// a new row of data is ready for processing. Once the statement reports its
// end or an error, further calls repeat that outcome without re-running the
// statement; call Reset to execute it again.
// https://www.sqlite.org/c3ref/step.html
func (s *Stmt) Step() (bool, error) {
	if s.stmt == 0 {
		return false, ErrBadStmt
	}
	switch s.state {
	case stmtDone:
		return false, nil
	case stmtError:
		return false, s.err
	}
	switch rc := lib.Xsqlite3_step(s.conn.tls, s.stmt); rc {
	case ROW:
		s.state = stmtRow
		return true, nil
	case DONE:
		s.state = stmtDone
		return false, nil
	default:
		s.state = stmtError
		s.err = libErr(rc, s.conn)
		return false, s.err
	}
}

// StepToCompletion is a convenience method that repeatedly calls Step until
// no more rows are returned or an error occurs.
// https://www.sqlite.org/c3ref/step.html
func (s *Stmt) StepToCompletion() error {
	for {
		hasRow, err := s.Step()
		if err != nil {
			return err
		}
		if !hasRow {
			return nil
		}
	}
}

// Reset returns the prepared statement to its initial state, ready to be
// re-executed, and clears any latched end-of-rows or error outcome. Bound
// parameter values are retained; use ClearBindings to remove them.
// https://www.sqlite.org/c3ref/reset.html
func (s *Stmt) Reset() error {
	if s.stmt == 0 {
		return ErrBadStmt
	}
	// sqlite3_reset replays the result code of a failed step; that outcome
	// was already delivered by Step, so it is not reported again here.
	rc := lib.Xsqlite3_reset(s.conn.tls, s.stmt)
	hadErr := s.state == stmtError
	s.state = stmtReady
	s.err = nil
	if rc != OK && !hadErr {
		return libErr(rc, s.conn)
	}
	return nil
}

// ClearBindings sets every statement parameter back to NULL. Reset does not
// clear bindings.
// https://www.sqlite.org/c3ref/clear_bindings.html
func (s *Stmt) ClearBindings() error {
	if s.stmt == 0 {
		return ErrBadStmt
	}
	if rc := lib.Xsqlite3_clear_bindings(s.conn.tls, s.stmt); rc != OK {
		return libErr(rc, s.conn)
	}
	s.freeAllocs(&s.allocs)
	return nil
}

// Exec is a convenience method that binds the given arguments to the
// statement, steps the statement to completion, and resets the prepared
// statement. No rows are returned. Reset is always called, even in error
// cases. Note that bindings are not cleared.
func (s *Stmt) Exec(args ...interface{}) error {
	if err := s.Bind(args...); err != nil {
		_ = s.Reset() // the bind failure takes precedence
		return err
	}
	if err := s.StepToCompletion(); err != nil {
		_ = s.Reset() // the step failure takes precedence
		return err
	}
	return s.Reset()
}

// Row returns the column values of the current row. It fails unless the most
// recent call to Step returned true.
func (s *Stmt) Row() (Row, error) {
	if s.stmt == 0 {
		return nil, ErrBadStmt
	}
	if s.state != stmtRow {
		return nil, pkgErr(MISUSE, "no row available")
	}
	row := make(Row, s.ColumnCount())
	for i := range row {
		row[i] = s.columnValue(i)
	}
	return row, nil
}

// ColumnType returns the storage class of column i in the current row (one of
// INTEGER, FLOAT, TEXT, BLOB, or NULL). The leftmost column is number 0.
// https://www.sqlite.org/c3ref/column_blob.html
func (s *Stmt) ColumnType(i int) byte {
	if s.stmt == 0 {
		return NULL
	}
	return byte(lib.Xsqlite3_column_type(s.conn.tls, s.stmt, int32(i)))
}

// columnValue reads column i of the current row into a Value. The storage
// class is read before the value because a type conversion would make a later
// sqlite3_column_type call undefined.
func (s *Stmt) columnValue(i int) Value {
	tls := s.conn.tls
	switch lib.Xsqlite3_column_type(tls, s.stmt, int32(i)) {
	case INTEGER:
		return Value{typ: INTEGER, num: lib.Xsqlite3_column_int64(tls, s.stmt, int32(i))}
	case FLOAT:
		return Value{typ: FLOAT, real: lib.Xsqlite3_column_double(tls, s.stmt, int32(i))}
	case TEXT:
		n := lib.Xsqlite3_column_bytes(tls, s.stmt, int32(i))
		p := lib.Xsqlite3_column_text(tls, s.stmt, int32(i))
		return Value{typ: TEXT, str: goTextN(p, n)}
	case BLOB:
		n := lib.Xsqlite3_column_bytes(tls, s.stmt, int32(i))
		p := lib.Xsqlite3_column_blob(tls, s.stmt, int32(i))
		return Value{typ: BLOB, blob: goBlobN(p, n)}
	}
	return Value{typ: NULL}
}

// Scan retrieves data from the current row, storing successive column values
// into successive arguments. The same row may be scanned multiple times. Nil
// arguments are silently skipped.
// https://www.sqlite.org/c3ref/column_blob.html
func (s *Stmt) Scan(dst ...interface{}) error {
	if s.stmt == 0 {
		return ErrBadStmt
	}
	if s.state != stmtRow {
		return pkgErr(MISUSE, "no row available")
	}
	for i, d := range dst {
		if d == nil {
			continue
		}
		if err := s.scan(i, d); err != nil {
			return err
		}
	}
	return nil
}

// scan stores the value of column i (starting at 0) into d.
func (s *Stmt) scan(i int, d interface{}) error {
	v := s.columnValue(i)
	switch d := d.(type) {
	case *int:
		*d = v.Int()
	case *int64:
		*d = v.Int64()
	case *float64:
		*d = v.Float()
	case *bool:
		*d = v.Int64() != 0
	case *string:
		*d = v.Text()
	case *[]byte:
		if v.IsNull() {
			*d = nil
		} else {
			*d = v.Blob()
		}
	case *Value:
		*d = v
	case *interface{}:
		*d = v.Interface()
	default:
		return pkgErr(MISUSE, "unscannable type for column %d (%T)", i, d)
	}
	return nil
}

// freeAllocs releases the C buffers in *list and empties it.
func (s *Stmt) freeAllocs(list *[]uintptr) {
	for _, p := range *list {
		s.conn.free(p)
	}
	*list = nil
}
