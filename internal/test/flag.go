// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package test

import "flag"

var (
	VV   = flag.Bool("test.vv", false, "log test comments")
	Seed = flag.Int64("test.seed", 1, "seed of randomly generated tables")
)
