// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package publish

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/platinasystems/rtmin/grouped"
	"github.com/platinasystems/rtmin/table"
	"github.com/stretchr/testify/require"
)

// conn records commands in place of a redis connection.
type conn struct {
	cmds   []string
	closed bool
	err    error
}

func (c *conn) Close() error {
	c.closed = true
	return nil
}

func (c *conn) Err() error { return c.err }

func (c *conn) Do(cmd string, args ...interface{}) (interface{}, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.cmds = append(c.cmds, fmt.Sprint(append([]interface{}{cmd}, args...)...))
	return int64(1), nil
}

func (c *conn) Send(cmd string, args ...interface{}) error {
	_, err := c.Do(cmd, args...)
	return err
}

func (c *conn) Flush() error { return c.err }

func (c *conn) Receive() (interface{}, error) { return nil, c.err }

func TestPublish(t *testing.T) {
	c := new(conn)
	p := New(c)
	require.True(t, strings.HasPrefix(p.Key, Prefix))
	require.Len(t, p.Key, len(Prefix)+36)
	require.NotEqual(t, p.Key, New(c).Key)

	results := []grouped.Result{
		{
			Chip:    table.Chip{X: 1, Y: 2},
			Before:  3,
			After:   2,
			Elapsed: time.Millisecond,
		},
		{
			Chip: table.Chip{X: 3, Y: 4},
			Err:  errors.New("entry 0: no match"),
		},
	}
	for _, r := range results {
		require.NoError(t, p.Publish(r))
	}
	require.NoError(t, p.Summary(results))
	require.NoError(t, p.Close())
	require.True(t, c.closed)
	require.Equal(t, []string{
		"HSET" + p.Key + "1,23 2 1ms",
		"HSET" + p.Key + "3,4entry 0: no match",
		"HSET" + p.Key + "summary2 1 3 2",
	}, c.cmds)
}

func TestPublishError(t *testing.T) {
	c := &conn{err: errors.New("connection refused")}
	require.Error(t, New(c).Publish(grouped.Result{}))
}
