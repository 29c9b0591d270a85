package availability

import (
	"bytes"
	"context"
	"errors"
	"slotly/pkg/logger"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnection struct {
	rows       int64
	deleteErr  error
	countErr   error
	released   int
	releaseErr error
}

func (c *fakeConnection) DeleteAll(ctx context.Context) (int64, error) {
	if c.deleteErr != nil {
		return 0, c.deleteErr
	}
	n := c.rows
	c.rows = 0
	return n, nil
}

func (c *fakeConnection) Count(ctx context.Context, serviceID string) (int64, error) {
	if c.countErr != nil {
		return 0, c.countErr
	}
	return c.rows, nil
}

func (c *fakeConnection) Release(ctx context.Context) error {
	c.released++
	return c.releaseErr
}

type fakeConnector struct {
	conn   *fakeConnection
	err    error
	opened int
}

func (f *fakeConnector) Connect(ctx context.Context) (Connection, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.opened++
	return f.conn, nil
}

func newBufferedLogger() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.New(logger.Config{Output: &buf, Level: logger.DEBUG, Format: logger.JSON}), &buf
}

func TestPurge_DeletesEverything(t *testing.T) {
	for _, rows := range []int64{0, 1, 37} {
		conn := &fakeConnection{rows: rows}
		connector := &fakeConnector{conn: conn}
		log, buf := newBufferedLogger()

		result, err := NewPurger(connector, log).Purge(context.Background())
		require.NoError(t, err)

		assert.Equal(t, PurgeResult{Deleted: rows, Remaining: 0}, result)
		assert.Equal(t, 1, connector.opened, "exactly one connection per run")
		assert.Equal(t, 1, conn.released)
		assert.Contains(t, buf.String(), "Deleted availability blocks")
		assert.Contains(t, buf.String(), "Remaining availability blocks")
	}
}

func TestPurge_ReleasesOnError(t *testing.T) {
	tests := []struct {
		name string
		conn *fakeConnection
	}{
		{name: "delete fails", conn: &fakeConnection{rows: 3, deleteErr: errors.New("not primary")}},
		{name: "count fails", conn: &fakeConnection{rows: 3, countErr: errors.New("cursor killed")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := newBufferedLogger()

			_, err := NewPurger(&fakeConnector{conn: tt.conn}, log).Purge(context.Background())
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), PurgeErrorPrefix))
			assert.Equal(t, 1, tt.conn.released)
			assert.Contains(t, buf.String(), PurgeErrorPrefix)
		})
	}
}

func TestPurge_ConnectFailure(t *testing.T) {
	log, buf := newBufferedLogger()

	_, err := NewPurger(&fakeConnector{err: errors.New("no reachable servers")}, log).Purge(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no reachable servers")
	assert.Contains(t, buf.String(), PurgeErrorPrefix)
}

func TestPurge_ReleaseErrorDoesNotFailRun(t *testing.T) {
	conn := &fakeConnection{rows: 2, releaseErr: errors.New("already closed")}
	log, _ := newBufferedLogger()

	result, err := NewPurger(&fakeConnector{conn: conn}, log).Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Deleted)
	assert.Equal(t, 1, conn.released)
}

func TestCount(t *testing.T) {
	conn := &fakeConnection{rows: 12}
	log, _ := newBufferedLogger()

	count, err := NewPurger(&fakeConnector{conn: conn}, log).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.Equal(t, int64(12), conn.rows)
	assert.Equal(t, 1, conn.released)
}
