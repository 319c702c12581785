// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package oracle

import "github.com/platinasystems/rtmin/ternary"

func mustPattern(key, mask uint32) ternary.Pattern {
	return ternary.MustNew(key, mask)
}
