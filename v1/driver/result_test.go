package driver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsResult(t *testing.T) {
	res := NewRowsResult([]string{"id", "name"}, [][]interface{}{
		{int64(1), "Jo"},
		{int64(2), nil},
	})

	assert.Equal(t, 2, res.RowCount())
	assert.True(t, res.HasRows())
	assert.Equal(t, []string{"id", "name"}, res.Columns())

	row, ok := res.Next()
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"id": int64(1), "name": "Jo"}, row.Map())
	v, ok := row.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Jo", v)
	_, ok = row.Get("missing")
	assert.False(t, ok)

	rest := res.Remaining()
	require.Len(t, rest, 1)
	v, ok = rest[0].Get("name")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = res.Next()
	assert.False(t, ok)
	assert.Empty(t, res.Remaining())
}

func TestEmptyRowsResult(t *testing.T) {
	res := NewRowsResult([]string{"id"}, nil)
	assert.Equal(t, 0, res.RowCount())
	assert.False(t, res.HasRows())
}

func TestExecResult(t *testing.T) {
	res := NewExecResult(3)
	assert.Equal(t, 3, res.RowCount())
	assert.False(t, res.HasRows())
	_, ok := res.Next()
	assert.False(t, ok)
}

type fakeRows struct {
	columns []string
	data    [][]interface{}
	pos     int
	scanErr error
	err     error
}

func (f *fakeRows) Columns() ([]string, error) { return f.columns, nil }

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.data) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Scan(dest ...interface{}) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	for i, d := range dest {
		*(d.(*interface{})) = f.data[f.pos-1][i]
	}
	return nil
}

func (f *fakeRows) Err() error { return f.err }

func TestBufferRowsConvertsBytes(t *testing.T) {
	res, err := bufferRows(&fakeRows{
		columns: []string{"id", "name"},
		data:    [][]interface{}{{int64(7), []byte("Jo")}},
	})
	require.NoError(t, err)

	row, ok := res.Next()
	require.True(t, ok)
	assert.Equal(t, []interface{}{int64(7), "Jo"}, row.Values)
}

func TestBufferRowsErrors(t *testing.T) {
	_, err := bufferRows(&fakeRows{columns: []string{"a"}, data: [][]interface{}{{1}}, scanErr: errors.New("scan")})
	assert.EqualError(t, err, "scan")

	_, err = bufferRows(&fakeRows{columns: []string{"a"}, err: errors.New("stream")})
	assert.EqualError(t, err, "stream")
}
