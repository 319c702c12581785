// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package rtmin

import (
	"log"
	"os"
)

const LogFlags = log.Lshortfile

// Fatal reports a failed command then exits non-zero.
var Fatal = log.Fatal

func PlainLog() {
	log.SetFlags(0)
	log.SetPrefix(Prog + ": ")
}

// StyleLog sends the standard logger to stderr so that it doesn't mix with
// table output.
func StyleLog() {
	log.SetOutput(os.Stderr)
	log.SetFlags(LogFlags)
	log.SetPrefix(Prog + ":")
}
