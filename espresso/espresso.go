// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package espresso minimizes problems with an external espresso program.
//
// The problem is written to the program's standard input as a PLA and
// the minimized cover is read from its standard output.
package espresso

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/log"
	"github.com/platinasystems/rtmin/minimizer"
)

const (
	DefaultPath    = "espresso"
	DefaultTimeout = time.Minute
	DefaultRetries = 3
	// Environment variable with the default program path.
	PathEnv = "RTMIN_ESPRESSO"
)

// Delegate runs espresso; its zero value runs $RTMIN_ESPRESSO, or
// espresso from $PATH, for up to DefaultTimeout.
type Delegate struct {
	Path string
	Args []string
	// Timeout of each run; negative for none.
	Timeout time.Duration
	// Retries of program starts that fail with a transient error.
	Retries int
	// Backoff between retries.
	Backoff *backoff.Backoff
}

func (d *Delegate) path() string {
	if len(d.Path) > 0 {
		return d.Path
	}
	if s := os.Getenv(PathEnv); len(s) > 0 {
		return s
	}
	return DefaultPath
}

func (d *Delegate) timeout() time.Duration {
	if d.Timeout == 0 {
		return DefaultTimeout
	}
	return d.Timeout
}

func (d *Delegate) retries() int {
	if d.Retries == 0 {
		return DefaultRetries
	}
	return d.Retries
}

// Minimize returns errors wrapping minimizer.ErrUnavailable if the program
// can't be run or fails, and minimizer.ErrTimeout if it doesn't finish in
// time.
func (d *Delegate) Minimize(ctx context.Context, p minimizer.Problem) ([]minimizer.Cube, error) {
	if err := p.Valid(); err != nil {
		return nil, err
	}
	pla := new(bytes.Buffer)
	if err := WritePLA(pla, p); err != nil {
		return nil, err
	}
	if t := d.timeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	out, err := d.run(ctx, pla.Bytes())
	if err != nil {
		return nil, err
	}
	cubes, err := ReadPLA(bytes.NewReader(out), p.Outputs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", d.path(),
			minimizer.ErrUnavailable, err)
	}
	return cubes, nil
}

func (d *Delegate) run(ctx context.Context, pla []byte) ([]byte, error) {
	b := d.Backoff
	if b == nil {
		b = &backoff.Backoff{
			Min:    10 * time.Millisecond,
			Max:    time.Second,
			Factor: 2,
			Jitter: true,
		}
	}
	name := d.path()
	for try := 0; ; try++ {
		stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
		cmd := exec.CommandContext(ctx, name, d.Args...)
		cmd.Stdin = bytes.NewReader(pla)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		cmd.WaitDelay = time.Second
		err := cmd.Run()
		if err == nil {
			return stdout.Bytes(), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%s: %w", name,
					minimizer.ErrTimeout)
			}
			return nil, ctxErr
		}
		if transient(err) && try < d.retries() {
			t := time.NewTimer(b.Duration())
			select {
			case <-ctx.Done():
				t.Stop()
			case <-t.C:
			}
			log.Print("warn", name, ": ", err, "; retry")
			continue
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := strings.TrimSpace(stderr.String()); len(msg) > 0 {
				err = fmt.Errorf("%w: %s", err, msg)
			}
		}
		return nil, fmt.Errorf("%s: %w: %v", name,
			minimizer.ErrUnavailable, err)
	}
}

// transient errors of a program start may clear on retry.
func transient(err error) bool {
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.ETXTBSY) ||
		errors.Is(err, syscall.EINTR)
}
