// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package rtmin

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var TerminationSignals = []os.Signal{
	os.Interrupt,
	os.Signal(syscall.SIGTERM),
}

// Context is canceled by a termination signal.
func Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, TerminationSignals...)
}
