// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	errs []any
}

func (r *recorder) Error(args ...any) {
	r.errs = append(r.errs, args...)
}

func TestLog(t *testing.T) {
	assert.NoError(t, Log(nil))
	err := fmt.Errorf("boom")
	assert.Equal(t, err, Log(err))
	assert.Equal(t, 3, Log1(3, err))
	assert.Equal(t, 3, Log1(3, nil))
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })
	assert.Panics(t, func() { Must(New("fatal")) })
	assert.Equal(t, "x", Must1("x", nil))
	assert.Panics(t, func() { Must1("x", New("fatal")) })
}

func TestTest(t *testing.T) {
	r := &recorder{}
	Test(r, nil)
	assert.Empty(t, r.errs)
	v := Test1(r, 5, New("bad"))
	assert.Equal(t, 5, v)
	assert.Len(t, r.errs, 1)
}
