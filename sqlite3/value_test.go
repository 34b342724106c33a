// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueZero(t *testing.T) {
	var v Value
	assert.Equal(t, byte(NULL), v.Type())
	assert.True(t, v.IsNull())
	assert.Nil(t, v.Interface())
}

func TestValueConversions(t *testing.T) {
	assert.Equal(t, 42, IntegerValue(42).Int())
	assert.Equal(t, 42.0, IntegerValue(42).Float())
	assert.Equal(t, int64(2), FloatValue(2.9).Int64(), "float to int truncates")
	assert.Equal(t, "abc", TextValue("abc").Text())
	assert.Equal(t, []byte("abc"), TextValue("abc").Blob())
	assert.Equal(t, "ab", BlobValue([]byte("ab")).Text())
}

func TestCoerceUnsupported(t *testing.T) {
	type odd struct{ X int }
	for _, arg := range []interface{}{odd{1}, &odd{1}, []int{1}, map[string]int{"a": 1}, complex(1, 2), float32(1)} {
		_, err := coerce(0, arg)
		require.Error(t, err, "%T", arg)
		assert.Equal(t, MISUSE, err.(*Error).Code(), "%T", arg)
	}
}

func TestCoerceNarrowInt(t *testing.T) {
	v, err := coerce(0, Int(5))
	require.NoError(t, err)
	assert.True(t, v.narrow)

	v, err = coerce(0, 5)
	require.NoError(t, err)
	assert.False(t, v.narrow, "plain ints always bind 64-bit")
}
