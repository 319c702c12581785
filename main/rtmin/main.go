// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is the table compaction program.
package main

import (
	"github.com/platinasystems/rtmin"
	"github.com/platinasystems/rtmin/cmd/check"
	"github.com/platinasystems/rtmin/cmd/fetch"
	"github.com/platinasystems/rtmin/cmd/minimize"
	"github.com/platinasystems/rtmin/cmd/show"
)

func main() {
	rtmin.Selection{
		"check":    check.Main,
		"fetch":    fetch.Main,
		"minimize": minimize.Main,
		"show":     show.Main,
	}.Main()
}
