// Copyright © 2015-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package test provides assertions shared by the package tests.
package test

import (
	"errors"
	"reflect"
	"regexp"
	"testing"
)

// Assert wraps a testing.Test or Benchmark with several assertions.
type Assert struct {
	testing.TB
}

// Log args if -test.vv
func (assert Assert) Comment(args ...interface{}) {
	assert.Helper()
	if *VV {
		assert.Log(args...)
	}
}

// Format args if -test.vv
func (assert Assert) Commentf(format string, args ...interface{}) {
	assert.Helper()
	if *VV {
		assert.Logf(format, args...)
	}
}

// Nil asserts that there is no error
func (assert Assert) Nil(err error) {
	assert.Helper()
	if err != nil {
		assert.Fatal(err)
	}
}

// NonNil asserts that there is an error
func (assert Assert) NonNil(err error) {
	assert.Helper()
	if err == nil {
		assert.Fatal("no error")
	}
}

// Error asserts that an error matches the given error, string, regex, or bool
// If v is true, asserts err isn't nil;
// otherwise, if false, asserts that it's nil.
// A given error is matched with errors.Is.
func (assert Assert) Error(err error, v interface{}) {
	assert.Helper()
	switch t := v.(type) {
	case error:
		if !errors.Is(err, t) {
			assert.Fatalf("%v: expected %q", err, t.Error())
		}
	case string:
		if err == nil || err.Error() != t {
			assert.Fatalf("%v: expected %q", err, t)
		}
	case *regexp.Regexp:
		if err == nil || !t.MatchString(err.Error()) {
			assert.Fatalf("%v: expected %q", err, t.String())
		}
	case bool:
		if t {
			if err == nil {
				assert.Fatal("not error")
			}
		} else {
			assert.Nil(err)
		}
	default:
		assert.Fatal("can't match:", t)
	}
}

// Equal asserts string equality.
func (assert Assert) Equal(s, expect string) {
	assert.Helper()
	if s != expect {
		assert.Fatalf("%q\n\t!= %q", s, expect)
	}
}

// DeepEqual asserts reflect.DeepEqual of any two values.
func (assert Assert) DeepEqual(v, expect interface{}) {
	assert.Helper()
	if !reflect.DeepEqual(v, expect) {
		assert.Fatalf("%v\n\t!= %v", v, expect)
	}
}

// Match asserts string pattern match.
func (assert Assert) Match(s, pattern string) {
	assert.Helper()
	if !regexp.MustCompile(pattern).MatchString(s) {
		assert.Fatalf("%q\n\t!= @(%s)", s, pattern)
	}
}

// True asserts flag.
func (assert Assert) True(t bool) {
	assert.Helper()
	if !t {
		assert.Fatal("not true")
	}
}

// False is not True.
func (assert Assert) False(t bool) {
	assert.Helper()
	if t {
		assert.Fatal("not false")
	}
}
