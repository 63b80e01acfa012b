// Copyright 2026 The Fastlayer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memdb is a two tier in memory cache
package memdb

import (
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

const (
	// PromoteHits is the hit count that promotes an entry into the first tier
	PromoteHits = 2
	// L1Capacity is the default capacity of the first tier
	L1Capacity = 50000
)

// entry is a first tier entry
type entry[V any] struct {
	value V
	ts    time.Time
	hits  int
}

// MemDB is a two tier cache. The first tier is a bounded lru in front of a
// larger second tier, and second tier entries are promoted once they have
// been hit enough.
type MemDB[K comparable, V any] struct {
	sync.Mutex
	l1          *lru.Cache
	l2          map[K]V
	hits        map[K]int
	promoteHits int
	L1Hits      int
	L2Hits      int
	Misses      int
}

// New creates a two tier cache in front of the second tier data
func New[K comparable, V any](l2 map[K]V, l1Capacity, promoteHits int) *MemDB[K, V] {
	if l2 == nil {
		l2 = make(map[K]V)
	}
	if l1Capacity <= 0 {
		l1Capacity = L1Capacity
	}
	if promoteHits <= 0 {
		promoteHits = PromoteHits
	}
	return &MemDB[K, V]{
		l1:          lru.New(l1Capacity),
		l2:          l2,
		hits:        make(map[K]int),
		promoteHits: promoteHits,
	}
}

// Get looks up a key, first tier first
func (db *MemDB[K, V]) Get(k K) (V, bool) {
	db.Lock()
	defer db.Unlock()
	if cached, ok := db.l1.Get(k); ok {
		e := cached.(*entry[V])
		e.hits++
		db.L1Hits++
		return e.value, true
	}
	v, ok := db.l2[k]
	if !ok {
		db.Misses++
		var zero V
		return zero, false
	}
	db.hits[k]++
	db.L2Hits++
	if db.hits[k] >= db.promoteHits {
		db.l1.Add(k, &entry[V]{value: v, ts: time.Now(), hits: db.hits[k]})
	}
	return v, true
}

// Put writes a key into the second tier. With writeThrough the first tier is
// updated too, otherwise the first tier entry is invalidated and the key
// keeps at least one hit.
func (db *MemDB[K, V]) Put(k K, v V, writeThrough bool) {
	db.Lock()
	defer db.Unlock()
	db.l2[k] = v
	if writeThrough {
		db.l1.Add(k, &entry[V]{value: v, ts: time.Now()})
		return
	}
	db.l1.Remove(k)
	if db.hits[k] < 1 {
		db.hits[k] = 1
	}
}

// Len is the size of both tiers
func (db *MemDB[K, V]) Len() (int, int) {
	db.Lock()
	defer db.Unlock()
	return db.l1.Len(), len(db.l2)
}
