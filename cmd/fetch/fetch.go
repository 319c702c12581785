// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package fetch provides the command that downloads table files.
package fetch

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/cavaliercoder/grab"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/rtmin"
)

const Usage = `[-d DIRECTORY] [-j DOWNLOADS] URL...
Download table files, by default, to the current directory.`

var (
	options = []string{"-d", "-j"}

	UserAgent = "rtmin"
	// Downloads at once, unless -j.
	Downloads = 3
	// Progress polling interval.
	Interval = 200 * time.Millisecond
)

func Main(ctx context.Context, args ...string) error {
	o := rtmin.OutputOf(ctx)
	switch rtmin.Preemption(ctx) {
	case "":
	case "complete":
		for _, s := range rtmin.CompleteOptions(options, args) {
			o.Println(s)
		}
		return nil
	case "help":
		rtmin.Usage(ctx, Usage)
		fallthrough
	default:
		return nil
	}
	parm, args := parms.New(args, "-d", "-j")
	if len(args) == 0 {
		return rtmin.ErrorfWith(ctx, "URL: missing")
	}
	dir := parm.ByName["-d"]
	if len(dir) > 0 {
		if fi, err := os.Stat(dir); err != nil {
			return err
		} else if !fi.IsDir() {
			return rtmin.ErrorfWith(ctx, "%s: isn't a directory", dir)
		}
	}
	n := Downloads
	if s := parm.ByName["-j"]; len(s) > 0 {
		if _, err := fmt.Sscan(s, &n); err != nil || n < 1 {
			return rtmin.ErrorfWith(ctx, "-j: %q: invalid", s)
		}
	}

	client := grab.NewClient()
	client.UserAgent = UserAgent

	reqs := make([]*grab.Request, 0, len(args))
	for _, url := range args {
		req, err := grab.NewRequest(url)
		if err != nil {
			return rtmin.ErrorfWith(ctx, "%s: %w", url, err)
		}
		if len(dir) > 0 {
			req.Filename = filepath.Join(dir,
				path.Base(req.URL().Path))
		}
		reqs = append(reqs, req)
	}

	respch := client.DoBatch(n, reqs...)
	t := time.NewTicker(Interval)
	defer t.Stop()

	completed, failed := 0, 0
	var responses []*grab.Response
	for completed < len(reqs) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case resp, ok := <-respch:
			if !ok {
				respch = nil
			} else if resp != nil {
				responses = append(responses, resp)
			}
		case <-t.C:
		}
		for i, resp := range responses {
			if resp == nil || !resp.IsComplete() {
				continue
			}
			if resp.Error != nil {
				failed++
				o.Println(resp.Request.URL(), resp.Error)
			} else {
				o.Println(resp.Filename, resp.BytesTransferred())
			}
			responses[i] = nil
			completed++
		}
	}
	if failed > 0 {
		return rtmin.ErrorfWith(ctx, "%d of %d downloads failed",
			failed, len(reqs))
	}
	return nil
}
