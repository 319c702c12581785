// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package publish records compaction results in a redis hash.
//
// Each run has its own hash, "rtmin:UUID", with a field per node, "X,Y",
// whose value is "BEFORE AFTER ELAPSED" or the node's error.
package publish

import (
	"fmt"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/platinasystems/rtmin/grouped"
	uuid "github.com/satori/go.uuid"
)

const Prefix = "rtmin:"

type Publisher struct {
	// Key of the run's hash.
	Key  string
	conn redis.Conn
}

// Dial the redis server at the given address.
func Dial(addr string, timeout time.Duration) (*Publisher, error) {
	conn, err := redis.Dial("tcp", addr,
		redis.DialConnectTimeout(timeout))
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// New returns a publisher for a new run.
func New(conn redis.Conn) *Publisher {
	return &Publisher{
		Key:  Prefix + uuid.NewV4().String(),
		conn: conn,
	}
}

func Field(r grouped.Result) string {
	return fmt.Sprint(r.X, ",", r.Y)
}

func Value(r grouped.Result) string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return fmt.Sprint(r.Before, " ", r.After, " ", r.Elapsed)
}

// Publish a node's result.
func (p *Publisher) Publish(r grouped.Result) error {
	_, err := p.conn.Do("HSET", p.Key, Field(r), Value(r))
	return err
}

// Summary publishes the totals of a run in its "summary" field.
func (p *Publisher) Summary(results []grouped.Result) error {
	var before, after, failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		before += r.Before
		after += r.After
	}
	_, err := p.conn.Do("HSET", p.Key, "summary",
		fmt.Sprint(len(results), " ", failed, " ", before, " ", after))
	return err
}

func (p *Publisher) Close() error { return p.conn.Close() }
