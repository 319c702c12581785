// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package espresso

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/platinasystems/rtmin/minimizer"
	"github.com/platinasystems/rtmin/ternary"
)

// WritePLA writes the problem as an F and R type PLA: an output is 1 for
// cubes of its on-set, 0 for its off-set, and - otherwise.
func WritePLA(w io.Writer, p minimizer.Problem) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, ".i %d\n.o %d\n.type fr\n.p %d\n",
		ternary.Bits, p.Outputs, len(p.Cubes))
	for _, c := range p.Cubes {
		fmt.Fprintln(bw, c.Pattern, c.Outputs(p.Outputs))
	}
	fmt.Fprintln(bw, ".e")
	return bw.Flush()
}

// ReadPLA parses the cover of a minimized PLA with the given number of
// outputs, ignoring keywords and comments. A cube is in the on-set of the
// outputs marked 1.
func ReadPLA(r io.Reader, outputs int) ([]minimizer.Cube, error) {
	var cubes []minimizer.Cube
	scan := bufio.NewScanner(r)
	for line := 1; scan.Scan(); line++ {
		s := strings.TrimSpace(scan.Text())
		if len(s) == 0 || s[0] == '.' || s[0] == '#' {
			continue
		}
		fields := strings.Fields(s)
		if len(fields) != 2 || len(fields[1]) != outputs {
			return nil, fmt.Errorf("line %d: %q: invalid cube", line, s)
		}
		pat, err := ternary.Parse(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c := minimizer.Cube{Pattern: pat}
		for j, o := range fields[1] {
			switch o {
			case '1':
				c.On |= 1 << j
			case '0', '-', '~':
			default:
				return nil, fmt.Errorf("line %d: %q: invalid output",
					line, s)
			}
		}
		if c.On != 0 {
			cubes = append(cubes, c)
		}
	}
	return cubes, scan.Err()
}
