// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite3

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareTail(t *testing.T) {
	c := openTestConn(t)

	s, err := c.Prepare(`SELECT 1; SELECT 2`)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, `SELECT 2`, strings.TrimSpace(s.Tail))

	s2, err := c.Prepare(`-- nothing here`)
	require.NoError(t, err)
	assert.Nil(t, s2, "comment-only sql compiles to no statement")
}

func TestPrepareFlags(t *testing.T) {
	c := openTestConn(t)

	s, err := c.Prepare(`SELECT 1`, PREPARE_PERSISTENT)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = c.Prepare(`SELECT 1`, PREPARE_PERSISTENT, PREPARE_NO_VTAB)
	require.Error(t, err)
	assert.Equal(t, MISUSE, err.(*Error).Code())

	_, err = c.Prepare(`SELECT * FROM nosuchtable`)
	require.Error(t, err)
}

func TestStepStateMachine(t *testing.T) {
	c := openTestConn(t)
	require.NoError(t, c.Exec(`CREATE TABLE t(x); INSERT INTO t VALUES (1); INSERT INTO t VALUES (2)`))

	s, err := c.Prepare(`SELECT x FROM t ORDER BY x`)
	require.NoError(t, err)
	defer s.Close()

	hasRow, err := s.Step()
	require.NoError(t, err)
	assert.True(t, hasRow)
	hasRow, err = s.Step()
	require.NoError(t, err)
	assert.True(t, hasRow)
	hasRow, err = s.Step()
	require.NoError(t, err)
	assert.False(t, hasRow)

	// the done outcome latches instead of silently re-running the query
	for i := 0; i < 3; i++ {
		hasRow, err = s.Step()
		require.NoError(t, err)
		assert.False(t, hasRow)
	}

	require.NoError(t, s.Reset())
	hasRow, err = s.Step()
	require.NoError(t, err)
	assert.True(t, hasRow, "reset re-arms the statement")
}

func TestStepErrorLatched(t *testing.T) {
	c := openTestConn(t)

	s, err := c.Prepare(`SELECT 1 UNION ALL SELECT abs(-9223372036854775807 - 1)`)
	require.NoError(t, err)
	defer s.Close()

	hasRow, err := s.Step()
	require.NoError(t, err)
	require.True(t, hasRow)

	_, err = s.Step()
	require.Error(t, err)
	first := err

	_, err = s.Step()
	assert.Equal(t, first, err, "error outcome repeats until reset")

	require.NoError(t, s.Reset())
	hasRow, err = s.Step()
	require.NoError(t, err)
	assert.True(t, hasRow)
}

func TestBindRoundTrip(t *testing.T) {
	c := openTestConn(t)
	require.NoError(t, c.Exec(`CREATE TABLE t(v)`))

	ins, err := c.Prepare(`INSERT INTO t VALUES (?)`)
	require.NoError(t, err)
	defer ins.Close()

	cases := []struct {
		arg  interface{}
		typ  byte
		want interface{}
	}{
		{nil, NULL, nil},
		{42, INTEGER, int64(42)},
		{int64(1) << 40, INTEGER, int64(1) << 40},
		{3.5, FLOAT, 3.5},
		{true, INTEGER, int64(1)},
		{false, INTEGER, int64(0)},
		{"hello", TEXT, "hello"},
		{[]byte("world"), TEXT, "world"},
		{[]byte(nil), NULL, nil},
		{Int(7), INTEGER, int64(7)},
		{Int64(-9), INTEGER, int64(-9)},
		{Float(1.25), FLOAT, 1.25},
		{Text("123"), TEXT, "123"},
		{Blob([]byte{0, 1, 2}), BLOB, []byte{0, 1, 2}},
		{Blob([]byte{}), BLOB, []byte{}},
		{TextValue("cell"), TEXT, "cell"},
	}

	for _, tc := range cases {
		require.NoError(t, ins.Exec(tc.arg), "arg %#v", tc.arg)

		rows, err := c.Query(`SELECT v FROM t`)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		v := rows[0][0]
		assert.Equal(t, tc.typ, v.Type(), "arg %#v", tc.arg)
		assert.Equal(t, tc.want, v.Interface(), "arg %#v", tc.arg)

		require.NoError(t, c.Exec(`DELETE FROM t`))
	}
}

func TestBindUnsupportedType(t *testing.T) {
	c := openTestConn(t)
	require.NoError(t, c.Exec(`CREATE TABLE t(a, b)`))

	s, err := c.Prepare(`INSERT INTO t VALUES (?, ?)`)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Bind("keep", 1))

	// rejecting the second argument must leave the earlier bindings alone
	err = s.Bind("keep", struct{ X int }{1})
	require.Error(t, err)
	assert.Equal(t, MISUSE, err.(*Error).Code())
	assert.Contains(t, err.Error(), "unsupported type at index 1")

	require.NoError(t, s.StepToCompletion())
	rows, err := c.Query(`SELECT a, b FROM t`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "keep", rows[0][0].Text())
	assert.Equal(t, int64(1), rows[0][1].Int64())
}

func TestBindCountMismatch(t *testing.T) {
	c := openTestConn(t)
	require.NoError(t, c.Exec(`CREATE TABLE t(a, b)`))

	s, err := c.Prepare(`INSERT INTO t VALUES (?, ?)`)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 2, s.BindParameterCount())

	err = s.Bind(1)
	require.Error(t, err)
	assert.Equal(t, MISUSE, err.(*Error).Code())

	err = s.Bind(1, 2, 3)
	require.Error(t, err)
	assert.Equal(t, MISUSE, err.(*Error).Code())
}

func TestTypedBinds(t *testing.T) {
	c := openTestConn(t)
	require.NoError(t, c.Exec(`CREATE TABLE t(a, b, c, d, e, f)`))

	s, err := c.Prepare(`INSERT INTO t VALUES (?, ?, ?, ?, ?, ?)`)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.BindInt(1, 7))
	require.NoError(t, s.BindInt64(2, 1<<40))
	require.NoError(t, s.BindDouble(3, 2.5))
	require.NoError(t, s.BindText(4, "txt"))
	require.NoError(t, s.BindBlob(5, []byte{9}))
	require.NoError(t, s.BindNull(6))
	require.NoError(t, s.StepToCompletion())

	rows, err := c.Query(`SELECT * FROM t`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, int64(7), row[0].Int64())
	assert.Equal(t, int64(1)<<40, row[1].Int64())
	assert.Equal(t, 2.5, row[2].Float())
	assert.Equal(t, "txt", row[3].Text())
	assert.Equal(t, []byte{9}, row[4].Blob())
	assert.True(t, row[5].IsNull())
}

func TestResetKeepsBindings(t *testing.T) {
	c := openTestConn(t)
	require.NoError(t, c.Exec(`CREATE TABLE t(x)`))

	s, err := c.Prepare(`INSERT INTO t VALUES (?)`)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Bind("same"))
	require.NoError(t, s.StepToCompletion())
	require.NoError(t, s.Reset())
	require.NoError(t, s.StepToCompletion())

	rows, err := c.Query(`SELECT x FROM t`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "same", rows[0][0].Text())
	assert.Equal(t, "same", rows[1][0].Text())

	// ClearBindings resets every slot to NULL
	require.NoError(t, s.Reset())
	require.NoError(t, s.ClearBindings())
	require.NoError(t, s.StepToCompletion())
	rows, err = c.Query(`SELECT x FROM t WHERE x IS NULL`)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestColumnMetadata(t *testing.T) {
	c := openTestConn(t)
	require.NoError(t, c.Exec(`CREATE TABLE t(id INTEGER, name TEXT, weight REAL)`))

	s, err := c.Prepare(`SELECT id, name, weight, id+1 FROM t`)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 4, s.ColumnCount())
	assert.Equal(t, []string{"id", "name", "weight", "id+1"}, s.ColumnNames())
	assert.Equal(t, []string{"INTEGER", "TEXT", "REAL", ""}, s.DeclTypes(),
		"expression columns carry no declared type")
}

func TestScan(t *testing.T) {
	c := openTestConn(t)
	require.NoError(t, c.Exec(`CREATE TABLE t(a, b, c, d, e)`))
	require.NoError(t, c.Exec(`INSERT INTO t VALUES (7, 2.5, 'txt', x'0102', NULL)`))

	s, err := c.Prepare(`SELECT a, b, c, d, e FROM t`)
	require.NoError(t, err)
	defer s.Close()

	hasRow, err := s.Step()
	require.NoError(t, err)
	require.True(t, hasRow)

	var a int64
	var b float64
	var cs string
	var d []byte
	var e interface{}
	require.NoError(t, s.Scan(&a, &b, &cs, &d, &e))
	assert.Equal(t, int64(7), a)
	assert.Equal(t, 2.5, b)
	assert.Equal(t, "txt", cs)
	assert.Equal(t, []byte{1, 2}, d)
	assert.Nil(t, e)

	// same row may be scanned again, with holes
	var a2 int
	require.NoError(t, s.Scan(&a2, nil, nil, nil, nil))
	assert.Equal(t, 7, a2)

	var bad complex128
	err = s.Scan(&bad)
	require.Error(t, err)
	assert.Equal(t, MISUSE, err.(*Error).Code())
}

func TestClosedStmtOps(t *testing.T) {
	c := openTestConn(t)

	s, err := c.Prepare(`SELECT 1`)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "finalize tolerates repetition")

	_, err = s.Step()
	assert.Equal(t, ErrBadStmt, err)
	assert.Equal(t, ErrBadStmt, s.Bind(1))
	assert.Equal(t, ErrBadStmt, s.BindNull(1))
	assert.Equal(t, ErrBadStmt, s.Reset())
	assert.Equal(t, ErrBadStmt, s.ClearBindings())
	_, err = s.Row()
	assert.Equal(t, ErrBadStmt, err)
}
