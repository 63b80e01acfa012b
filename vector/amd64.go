// Copyright 2026 The Fastlayer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build amd64
// +build amd64

package vector

import (
	"github.com/ziutek/blas"
)

func Dot(x, y []float64) float64 {
	return blas.Ddot(len(x), x, 1, y, 1)
}
