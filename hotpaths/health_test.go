// Copyright 2026 The Fastlayer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hotpaths

import (
	"testing"
)

func TestHealth(t *testing.T) {
	status := Health()
	for _, name := range Names {
		if !status.OK[name] {
			t.Fatalf("%s is unhealthy: %s", name, status.Errors[name])
		}
	}
	if len(status.Errors) != 0 {
		t.Fatalf("unexpected errors %+v", status.Errors)
	}
}

func TestWarmup(t *testing.T) {
	Warmup(1024)
	Warmup()
}
