// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite3

import (
	"io"

	"github.com/hashicorp/go-multierror"
)

// FetchOne steps the statement once and returns the produced row. io.EOF is
// returned when the statement has no more rows.
func (s *Stmt) FetchOne() (Row, error) {
	hasRow, err := s.Step()
	if err != nil {
		return nil, err
	}
	if !hasRow {
		return nil, io.EOF
	}
	return s.Row()
}

// FetchAll drains the statement and returns every remaining row. If a step
// fails partway through, no rows are returned; a result is either complete or
// an error.
func (s *Stmt) FetchAll() ([]Row, error) {
	var rows []Row
	for {
		row, err := s.FetchOne()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Query prepares the first statement in sql, binds args if any are given,
// fetches every row, and finalizes the statement. Row order follows the
// statement's own output order. A nil result with a nil error means sql
// contained nothing to do.
func (c *Conn) Query(sql string, args ...interface{}) ([]Row, error) {
	if c.db == 0 {
		return nil, ErrBadConn
	}
	s, err := c.Prepare(sql)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}

	var rows []Row
	if len(args) > 0 {
		err = s.Bind(args...)
	}
	if err == nil {
		rows, err = s.FetchAll()
	}
	if cerr := s.Close(); cerr != nil {
		if err != nil {
			return nil, multierror.Append(err, cerr)
		}
		return nil, cerr
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}
