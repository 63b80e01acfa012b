// Copyright 2026 The Fastlayer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hotpaths

import (
	"math"
	"time"

	"github.com/pointlander/gradient/tf64"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	// B1 exponential decay of the rate for the first moment estimates
	B1 = 0.8
	// B2 exponential decay rate for the second-moment estimates
	B2 = 0.89
	// Eta is the learning rate
	Eta = 1.0e-3
	// Scale normalizes sizes into the unit interval for fitting
	Scale = 1.0 / 256000
)

const (
	// StateM is the state for the mean
	StateM = iota
	// StateV is the state for the variance
	StateV
	// StateTotal is the total number of states
	StateTotal
)

// Sizes is the measurement grid
var Sizes = []int{2000, 4000, 8000, 16000, 32000, 64000, 128000, 256000}

func timeIt(impl func(a, b []float64) (float64, error), a, b []float64, iters int) float64 {
	if iters < 1 {
		iters = 1
	}
	start := time.Now()
	for i := 0; i < iters; i++ {
		if _, err := impl(a, b); err != nil {
			panic(err)
		}
	}
	return time.Since(start).Seconds() * 1000 / float64(iters)
}

// Grid is the measured time in milliseconds of every implementation at
// every grid size
type Grid struct {
	Sizes []int
	Times map[string][]float64
}

// Measure times every implementation across the size grid
func Measure(seed int64, iters int) Grid {
	grid := Grid{
		Sizes: Sizes,
		Times: make(map[string][]float64),
	}
	for _, size := range grid.Sizes {
		a, b := Prepare(seed, size)
		for _, name := range Names {
			ms := timeIt(Impls[name], a, b, iters)
			grid.Times[name] = append(grid.Times[name], ms)
			debugf("measure %s n=%d %.3fms", name, size, ms)
		}
	}
	return grid
}

// scanUp is the first grid size, smallest first, where b is faster than a
func (g Grid) scanUp(a, b string) int {
	for i, size := range g.Sizes {
		if g.Times[b][i] < g.Times[a][i] {
			return size
		}
	}
	return 0
}

// scanDown is the first grid size, largest first, where b is faster than a
func (g Grid) scanDown(a, b string) int {
	for i := len(g.Sizes) - 1; i >= 0; i-- {
		if g.Times[b][i] < g.Times[a][i] {
			return g.Sizes[i]
		}
	}
	return 0
}

// CostModel is a linear model of implementation run time
type CostModel struct {
	Slope     float64
	Intercept float64
}

// At is the modeled time in milliseconds for size n
func (c CostModel) At(n int) float64 {
	return c.Slope*float64(n) + c.Intercept
}

// Crossover is the size where b becomes cheaper than a
func Crossover(a, b CostModel) int {
	ds := a.Slope - b.Slope
	if ds <= 0 {
		return 0
	}
	n := (b.Intercept - a.Intercept) / ds
	if n < 0 {
		return 0
	}
	return int(n)
}

func pow(x float64, i int) float64 {
	y := math.Pow(x, float64(i+1))
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0
	}
	return y
}

// FitCost fits a linear cost model to measured times with gradient descent
func FitCost(sizes []int, times []float64) CostModel {
	set := tf64.NewSet()
	set.Add("w", 2, 1)
	for i := range set.Weights {
		w := set.Weights[i]
		w.X = w.X[:cap(w.X)]
		w.States = make([][]float64, StateTotal)
		for ii := range w.States {
			w.States[ii] = make([]float64, len(w.X))
		}
	}

	others := tf64.NewSet()
	others.Add("x", 2, len(sizes))
	others.Add("y", 1, len(sizes))
	x := others.ByName["x"]
	for _, size := range sizes {
		x.X = append(x.X, float64(size)*Scale, 1)
	}
	y := others.ByName["y"]
	y.X = append(y.X, times...)

	loss := tf64.Avg(tf64.Quadratic(tf64.Mul(set.Get("w"), others.Get("x")), others.Get("y")))

	iterations := 8 * 2048
	for i := 0; i < iterations; i++ {
		set.Zero()
		others.Zero()

		l := tf64.Gradient(loss).X[0]
		if math.IsNaN(l) || math.IsInf(l, 0) {
			debugf("fit diverged at %d: %f", i, l)
			break
		}

		norm := 0.0
		for _, p := range set.Weights {
			for _, d := range p.D {
				norm += d * d
			}
		}
		norm = math.Sqrt(norm)
		b1, b2 := pow(B1, i), pow(B2, i)
		scaling := 1.0
		if norm > 1 {
			scaling = 1 / norm
		}
		for _, w := range set.Weights {
			for ii, d := range w.D {
				g := d * scaling
				m := B1*w.States[StateM][ii] + (1-B1)*g
				v := B2*w.States[StateV][ii] + (1-B2)*g*g
				w.States[StateM][ii] = m
				w.States[StateV][ii] = v
				mhat := m / (1 - b1)
				vhat := v / (1 - b2)
				if vhat < 0 {
					vhat = 0
				}
				w.X[ii] -= Eta * mhat / (math.Sqrt(vhat) + 1e-8)
			}
		}
	}

	w := set.Weights[0]
	return CostModel{
		Slope:     w.X[0] * Scale,
		Intercept: w.X[1],
	}
}

// FitAll fits a cost model for every measured implementation
func (g Grid) FitAll() map[string]CostModel {
	models := make(map[string]CostModel)
	for name, times := range g.Times {
		models[name] = FitCost(g.Sizes, times)
	}
	return models
}

// Plot plots the measured times and the fitted models
func (g Grid) Plot(models map[string]CostModel, name string) {
	p := plot.New()

	p.Title.Text = "size vs time"
	p.X.Label.Text = "size"
	p.Y.Label.Text = "time (ms)"

	for _, impl := range Names {
		times := g.Times[impl]
		if times == nil {
			continue
		}
		points := make(plotter.XYs, 0, len(g.Sizes))
		for i, size := range g.Sizes {
			points = append(points, plotter.XY{X: float64(size), Y: times[i]})
		}
		scatter, err := plotter.NewScatter(points)
		if err != nil {
			panic(err)
		}
		scatter.GlyphStyle.Radius = vg.Length(1)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add(impl, scatter)

		model, ok := models[impl]
		if !ok {
			continue
		}
		fit := make(plotter.XYs, 0, len(g.Sizes))
		for _, size := range g.Sizes {
			fit = append(fit, plotter.XY{X: float64(size), Y: model.At(size)})
		}
		line, err := plotter.NewLine(fit)
		if err != nil {
			panic(err)
		}
		p.Add(line)
	}

	err := p.Save(8*vg.Inch, 8*vg.Inch, name)
	if err != nil {
		panic(err)
	}
}

// Thresholds are the tuned dispatch thresholds
type Thresholds struct {
	Small int
	Med   int
}

// Autotune measures the implementations across the size grid and derives
// dispatch thresholds for this machine. When a pair of implementations never
// crosses inside the grid the crossover is extrapolated from fitted cost
// models. With save the thresholds are merged into the config cache.
func Autotune(save bool) (Thresholds, error) {
	Warmup()
	grid := Measure(1, 2)
	small, med := DefaultConfig.Small, DefaultConfig.Med

	crossover := grid.scanUp("go", "blas")
	if crossover == 0 {
		crossover = Crossover(FitCost(grid.Sizes, grid.Times["go"]), FitCost(grid.Sizes, grid.Times["blas"]))
		debugf("go/blas crossover extrapolated to %d", crossover)
	}
	if crossover > 0 {
		small = crossover / 2
		if small < 2000 {
			small = 2000
		}
	}

	crossover = grid.scanDown("blas", "parallel")
	if crossover == 0 {
		crossover = Crossover(FitCost(grid.Sizes, grid.Times["blas"]), FitCost(grid.Sizes, grid.Times["parallel"]))
		debugf("blas/parallel crossover extrapolated to %d", crossover)
	}
	if crossover > 0 {
		med = crossover
		if med < 50000 {
			med = 50000
		}
	}

	tuned := Thresholds{Small: small, Med: med}
	debugf("autotune -> small=%d med=%d", tuned.Small, tuned.Med)

	if Debug {
		grid.Plot(grid.FitAll(), "tune.png")
	}

	if save {
		config := loadCached()
		config.Small, config.Med = tuned.Small, tuned.Med
		if err := SaveConfig(config); err != nil {
			return tuned, err
		}
		Reload()
	}
	return tuned, nil
}
