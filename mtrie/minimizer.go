// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mtrie

import (
	"context"

	"github.com/platinasystems/rtmin/minimizer"
)

// Minimizer minimizes each output column with its own trie. The result
// matches exactly the on-set so it never meets a disjoint off-set.
type Minimizer struct{}

func (Minimizer) Minimize(ctx context.Context, p minimizer.Problem) ([]minimizer.Cube, error) {
	if err := p.Valid(); err != nil {
		return nil, err
	}
	var cubes []minimizer.Cube
	for j := 0; j < p.Outputs; j++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, pat := range Minimize(p.Column(j)) {
			cubes = append(cubes, minimizer.Cube{
				Pattern: pat,
				On:      1 << j,
			})
		}
	}
	return cubes, nil
}
