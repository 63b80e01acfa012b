// Copyright 2026 The Fastlayer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memdb

import (
	"fmt"
	"testing"
)

func TestGet(t *testing.T) {
	db := New(map[string]int{"a": 1, "b": 2}, 0, 0)
	v, ok := db.Get("a")
	if !ok || v != 1 {
		t.Fatalf("get is broken %d %t", v, ok)
	}
	v, ok = db.Get("missing")
	if ok || v != 0 {
		t.Fatalf("miss should return the zero value %d %t", v, ok)
	}
	if db.Misses != 1 {
		t.Fatalf("miss count is broken %d", db.Misses)
	}
}

func TestPromotion(t *testing.T) {
	db := New(map[string]int{"a": 1}, 0, 0)
	db.Get("a")
	db.Get("a")
	if db.L1Hits != 0 {
		t.Fatalf("promotion happened too early %d", db.L1Hits)
	}
	db.Get("a")
	if db.L1Hits != 1 {
		t.Fatalf("promotion is broken %d", db.L1Hits)
	}
	if db.L2Hits != 2 {
		t.Fatalf("second tier hit count is broken %d", db.L2Hits)
	}
}

func TestEviction(t *testing.T) {
	l2 := make(map[int]int)
	for i := 0; i < 8; i++ {
		l2[i] = i
	}
	db := New(l2, 2, 1)
	for i := 0; i < 8; i++ {
		db.Get(i)
	}
	l1, size := db.Len()
	if l1 != 2 {
		t.Fatalf("first tier should be bounded %d", l1)
	}
	if size != 8 {
		t.Fatalf("second tier size is broken %d", size)
	}
}

func TestPut(t *testing.T) {
	db := New(map[string]int{}, 0, 0)
	db.Put("a", 1, true)
	v, ok := db.Get("a")
	if !ok || v != 1 {
		t.Fatalf("write through is broken %d %t", v, ok)
	}
	if db.L1Hits != 1 {
		t.Fatalf("write through should land in the first tier %d", db.L1Hits)
	}

	db.Put("a", 2, false)
	v, ok = db.Get("a")
	if !ok || v != 2 {
		t.Fatalf("stale read after put %d %t", v, ok)
	}
}

func TestPutSeedsHits(t *testing.T) {
	db := New(map[string]int{}, 0, 0)
	db.Put("a", 1, false)
	db.Get("a")
	if db.L1Hits != 0 {
		t.Fatalf("promotion happened too early %d", db.L1Hits)
	}
	db.Get("a")
	if db.L1Hits != 1 {
		t.Fatalf("put should keep a hit on the key %d", db.L1Hits)
	}
}

func BenchmarkGet(b *testing.B) {
	l2 := make(map[string]int)
	for i := 0; i < 1024; i++ {
		l2[fmt.Sprintf("key%d", i)] = i
	}
	db := New(l2, 0, 0)
	for b.Loop() {
		db.Get("key1")
	}
}
