// Copyright 2026 The Fastlayer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hotpaths

import (
	"fmt"
	"math"
)

// Warmup runs every implementation once at each size. The defaults bracket
// the dispatch thresholds.
func Warmup(sizes ...int) {
	if len(sizes) == 0 {
		sizes = []int{8192, 200000}
	}
	for _, size := range sizes {
		a, b := Prepare(1, size)
		for _, name := range Names {
			if _, err := Impls[name](a, b); err != nil {
				debugf("warmup %s n=%d: %v", name, size, err)
			}
		}
	}
}

// Status is the result of a health check
type Status struct {
	OK     map[string]bool
	Errors map[string]string
}

// Health probes every implementation against the scalar reference and
// disables the blas kernel when it misbehaves
func Health() Status {
	status := Status{
		OK:     make(map[string]bool),
		Errors: make(map[string]string),
	}
	a, b := Prepare(1, 1024)
	want, err := Dot(a, b)
	if err != nil {
		panic(err)
	}
	for _, name := range Names {
		err := probe(Impls[name], a, b, want)
		if name == "blas" {
			disableBLAS = err != nil
		}
		if err != nil {
			status.Errors[name] = err.Error()
			debugf("health %s: %v", name, err)
			continue
		}
		status.OK[name] = true
	}
	return status
}

func probe(impl func(a, b []float64) (float64, error), a, b []float64, want float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	got, err := impl(a, b)
	if err != nil {
		return err
	}
	if diff := math.Abs(got - want); diff > 1e-6*(math.Abs(want)+1) {
		return fmt.Errorf("diverges from go: %f != %f", got, want)
	}
	return nil
}
