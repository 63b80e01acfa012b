// Copyright 2026 The Fastlayer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vector

import (
	"math"
	"math/rand"
	"testing"
)

const Size = 32 * 1024

func TestDot(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x := make([]float64, Size)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	y := make([]float64, Size)
	for i := range y {
		y[i] = rng.NormFloat64()
	}
	correct := dot(x, y)
	if a := Dot(x, y); math.Abs(a-correct) > 1e-6*(math.Abs(correct)+1) {
		t.Fatalf("dot product is broken %f != %f", a, correct)
	}
}

func BenchmarkDot(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	x := make([]float64, Size)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	y := make([]float64, Size)
	for i := range y {
		y[i] = rng.NormFloat64()
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dot(x, y)
	}
}

func BenchmarkVectorDot(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	x := make([]float64, Size)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	y := make([]float64, Size)
	for i := range y {
		y[i] = rng.NormFloat64()
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Dot(x, y)
	}
}
