// Copyright 2026 The Fastlayer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hotpaths computes dot products with selectable implementations.
package hotpaths

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/pointlander/fastlayer/vector"
)

// Debug enables debug output
var Debug bool

func debugf(format string, a ...any) {
	if Debug {
		fmt.Printf(format+"\n", a...)
	}
}

// LengthMismatchError is the error for vectors that differ in length
type LengthMismatchError struct {
	A, B int
}

func (l LengthMismatchError) Error() string {
	return fmt.Sprintf("length mismatch: got %d and %d", l.A, l.B)
}

func check(a, b []float64) error {
	if len(a) != len(b) {
		return LengthMismatchError{A: len(a), B: len(b)}
	}
	return nil
}

// Dot is the dot product of a and b, accumulated left to right
func Dot(a, b []float64) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}
	sum := 0.0
	for i, x := range a {
		sum += x * b[i]
	}
	return sum, nil
}

// DotGonum is the dot product computed by gonum
func DotGonum(a, b []float64) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 0, nil
	}
	return floats.Dot(a, b), nil
}

// DotBLAS is the dot product computed by the blas kernel
func DotBLAS(a, b []float64) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 0, nil
	}
	return vector.Dot(a, b), nil
}

// DotParallel is the dot product computed by partial sums across cpus.
// Each worker reduces a disjoint equal-length chunk left to right and the
// partial sums are combined in chunk order.
func DotParallel(a, b []float64) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}
	cpus := runtime.NumCPU()
	if cpus < 2 || len(a) < cpus {
		sum := 0.0
		for i, x := range a {
			sum += x * b[i]
		}
		return sum, nil
	}
	partials := make([]float64, cpus)
	chunk := (len(a) + cpus - 1) / cpus
	var wg sync.WaitGroup
	for i := 0; i < cpus; i++ {
		begin := i * chunk
		if begin >= len(a) {
			break
		}
		end := begin + chunk
		if end > len(a) {
			end = len(a)
		}
		wg.Add(1)
		go func(i int, x, y []float64) {
			sum := 0.0
			for j, v := range x {
				sum += v * y[j]
			}
			partials[i] = sum
			wg.Done()
		}(i, a[begin:end], b[begin:end])
	}
	wg.Wait()
	sum := 0.0
	for _, partial := range partials {
		sum += partial
	}
	return sum, nil
}

// Names are the implementation names in dispatch order
var Names = []string{"go", "gonum", "blas", "parallel"}

// Impls maps implementation names to implementations
var Impls = map[string]func(a, b []float64) (float64, error){
	"go":       Dot,
	"gonum":    DotGonum,
	"blas":     DotBLAS,
	"parallel": DotParallel,
}

// blas disabled by the health check
var disableBLAS bool

// DotAuto selects an implementation based on the problem size.
// Environment overrides:
//
//	DOT_IMPL=auto|go|gonum|blas|parallel
//	DOT_SMALL=<int> (default 8000)
//	DOT_MED=<int> (default 200000)
func DotAuto(a, b []float64) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}
	config := LoadConfig()
	chosen, n := config.Impl, len(a)
	if chosen == "auto" || chosen == "" {
		if n < config.Small {
			chosen = "go"
		} else if n < config.Med {
			chosen = "blas"
		} else {
			chosen = "parallel"
		}
	}
	if Impls[chosen] == nil {
		debugf("unknown DOT_IMPL=%s, falling back to blas", chosen)
		chosen = "blas"
	}
	if chosen == "blas" && disableBLAS {
		debugf("blas disabled by health check; falling back to go")
		chosen = "go"
	}
	debugf("dot -> %s (n=%d)", chosen, n)
	return Impls[chosen](a, b)
}

// Prepare creates two random vectors of length n
func Prepare(seed int64, n int) ([]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	a, b := make([]float64, n), make([]float64, n)
	for i := range a {
		a[i] = rng.Float64()
		b[i] = rng.Float64()
	}
	return a, b
}
