// Copyright 2026 The Fastlayer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime/pprof"

	"github.com/pointlander/fastlayer/hotpaths"
	"github.com/pointlander/fastlayer/memdb"
)

var (
	// FlagN is the vector size
	FlagN = flag.Int("n", 100000, "vector size")
	// FlagSeed is the random number seed
	FlagSeed = flag.Int64("seed", 1, "random number seed")
	// FlagImpl forces an implementation
	FlagImpl = flag.String("impl", "", "force an implementation")
	// FlagBench is the benchmark mode
	FlagBench = flag.Bool("bench", false, "time the implementations across the size grid")
	// FlagTune is the autotune mode
	FlagTune = flag.Bool("tune", false, "tune the dispatch thresholds")
	// FlagHealth is the health check mode
	FlagHealth = flag.Bool("health", false, "probe the implementations")
	// FlagCache is the cache demo mode
	FlagCache = flag.Bool("cache", false, "two tier cache demo")
	// FlagDebug is the debug mode
	FlagDebug = flag.Bool("debug", false, "debug output")
	// FlagCPUProfile is the cpu profile file
	FlagCPUProfile = flag.String("cpuprofile", "", "write a cpu profile to the file")
)

// CompareMode compares the implementations on a single problem
func CompareMode(seed int64, n int, impl string) {
	a, b := hotpaths.Prepare(seed, n)
	want, err := hotpaths.Dot(a, b)
	if err != nil {
		panic(err)
	}
	names := hotpaths.Names
	if impl != "" {
		names = []string{impl}
	}
	for _, name := range names {
		dot := hotpaths.Impls[name]
		if dot == nil {
			panic(fmt.Errorf("unknown implementation %s", name))
		}
		result, err := dot(a, b)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%8s result: %f difference: %g\n", name, result, math.Abs(result-want))
	}
	result, err := hotpaths.DotAuto(a, b)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%8s result: %f difference: %g\n", "auto", result, math.Abs(result-want))
}

// BenchMode times every implementation across the size grid
func BenchMode(seed int64) {
	hotpaths.Warmup()
	grid := hotpaths.Measure(seed, 3)
	fmt.Printf("%8s", "size")
	for _, name := range hotpaths.Names {
		fmt.Printf("%12s", name)
	}
	fmt.Println()
	for i, size := range grid.Sizes {
		fmt.Printf("%8d", size)
		for _, name := range hotpaths.Names {
			fmt.Printf("%12.3f", grid.Times[name][i])
		}
		fmt.Println()
	}
}

// TuneMode tunes the dispatch thresholds and saves them
func TuneMode() {
	tuned, err := hotpaths.Autotune(true)
	if err != nil {
		panic(err)
	}
	fmt.Println("small", tuned.Small)
	fmt.Println("med", tuned.Med)
	fmt.Println("saved to", hotpaths.CachePath())
}

// HealthMode probes the implementations
func HealthMode() {
	status := hotpaths.Health()
	for _, name := range hotpaths.Names {
		if status.OK[name] {
			fmt.Println(name, "ok")
			continue
		}
		fmt.Println(name, "broken:", status.Errors[name])
	}
}

// CacheMode reads zipf distributed keys through a two tier cache
func CacheMode(seed int64, n int) {
	rng := rand.New(rand.NewSource(seed))
	l2 := make(map[int]float64, n)
	for i := 0; i < n; i++ {
		l2[i] = rng.Float64()
	}
	db := memdb.New(l2, n/10, 0)
	zipf := rand.NewZipf(rng, 1.2, 1, uint64(n-1))
	const reads = 200000
	for i := 0; i < reads; i++ {
		if _, ok := db.Get(int(zipf.Uint64())); !ok {
			panic("missing key")
		}
	}
	l1, size := db.Len()
	fmt.Println("l1 entries", l1, "of", size)
	fmt.Println("l1 hits", db.L1Hits)
	fmt.Println("l2 hits", db.L2Hits)
	fmt.Printf("l1 hit rate %.2f%%\n", 100*float64(db.L1Hits)/float64(reads))
}

func main() {
	flag.Parse()
	hotpaths.Debug = *FlagDebug

	if *FlagCPUProfile != "" {
		profile, err := os.Create(*FlagCPUProfile)
		if err != nil {
			panic(err)
		}
		defer profile.Close()
		if err := pprof.StartCPUProfile(profile); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	if *FlagBench {
		BenchMode(*FlagSeed)
		return
	}
	if *FlagTune {
		TuneMode()
		return
	}
	if *FlagHealth {
		HealthMode()
		return
	}
	if *FlagCache {
		CacheMode(*FlagSeed, *FlagN)
		return
	}
	CompareMode(*FlagSeed, *FlagN, *FlagImpl)
}
