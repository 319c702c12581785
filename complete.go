// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package rtmin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func LastArg(args []string) (s string) {
	if len(args) > 0 {
		s = args[len(args)-1]
	}
	return
}

func CompleteFiles(args []string) (c []string) {
	ps := string(os.PathSeparator)
	c, _ = filepath.Glob(fmt.Sprint(LastArg(args), "*"))
	for i, fn := range c {
		if fi, err := os.Stat(fn); err == nil {
			if fi.IsDir() {
				c[i] = fmt.Sprint(fn, ps)
			}
		}
	}
	if len(c) == 1 && strings.HasSuffix(c[0], ps) {
		if des, err := os.ReadDir(c[0]); err == nil {
			for _, de := range des {
				name := filepath.Join(c[0], de.Name())
				if fi, err := os.Stat(name); err == nil && fi.IsDir() {
					name += ps
				}
				c = append(c, name)
			}
		}
	}
	return
}

// CompleteOptions lists the options prefixed by the last argument if
// it begins with a hyphen; otherwise, the files prefixed by it.
func CompleteOptions(options []string, args []string) []string {
	if strings.HasPrefix(LastArg(args), "-") {
		return CompleteStrings(options, args)
	}
	return CompleteFiles(args)
}

func CompleteStrings(l []string, args []string) (c []string) {
	arg := LastArg(args)
	for _, s := range l {
		if len(s) == 0 {
			continue
		}
		if len(arg) == 0 || strings.HasPrefix(s, arg) {
			c = append(c, s)
		}
	}
	return
}
