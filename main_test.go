// Copyright 2026 The Fastlayer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/pointlander/fastlayer/hotpaths"
)

func TestModes(t *testing.T) {
	t.Setenv("FASTLAYER_CACHE", t.TempDir())
	hotpaths.Reload()
	t.Cleanup(hotpaths.Reload)
	CompareMode(1, 1000, "")
	CompareMode(1, 1000, "gonum")
	HealthMode()
	CacheMode(1, 1000)
}
