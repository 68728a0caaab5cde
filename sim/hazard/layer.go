// Package hazard provides piecewise-constant rate functions ("layers") and
// sampling of the first arrival of an inhomogeneous Poisson process driven by
// such a layer.
//
// A layer is a right-continuous step function given by its breakpoints:
// {{1,3},{2,6},{5,8}} means a rate of 3 below x=2, then 6 from x=2 up to
// x=5, then 8 from x=5 on. The first coordinate's y also governs every x
// below its own.
package hazard

import "sort"

// Coord is a single (x, y) breakpoint of a layer. In this model x is time in
// days and y a rate.
type Coord struct {
	X, Y float64
}

// Layer is a step function as a breakpoint sequence. Invariants: at least one
// coordinate, x non-decreasing, y non-negative.
type Layer []Coord

// Validate panics if the layer breaks its invariants.
func (l Layer) Validate() {
	if len(l) == 0 {
		panic("hazard: layer must have at least one coordinate")
	}
	for i := range l {
		if i > 0 && l[i].X < l[i-1].X {
			panic("hazard: layer x-coordinates must be non-decreasing")
		}
		if l[i].Y < 0 {
			panic("hazard: layer rates must be non-negative")
		}
	}
}

// MoveForward shifts the whole step function forward in time by amount.
// Negative amounts shift backward.
func (l Layer) MoveForward(amount float64) {
	for i := range l {
		l[i].X += amount
	}
}

// Clone returns an independent copy of the layer.
func (l Layer) Clone() Layer {
	out := make(Layer, len(l))
	copy(out, l)
	return out
}

// multipleAt multiplies the current y of every layer at its cursor position.
func multipleAt(layers []Layer, at []int) float64 {
	m := 1.0
	for i, l := range layers {
		m *= l[at[i]].Y
	}
	return m
}

// Multiply returns the pointwise product of the input layers: every
// breakpoint of any input becomes a breakpoint of the output, valued at the
// product of the inputs' current rates there.
func Multiply(layers ...Layer) Layer {
	for _, l := range layers {
		l.Validate()
	}

	// The first coordinate of each layer sets its value to the left but is
	// not itself a change point; everything after it is.
	lowestX := layers[0][0].X
	var changes []float64
	for _, l := range layers {
		if l[0].X < lowestX {
			lowestX = l[0].X
		}
		for _, c := range l[1:] {
			changes = append(changes, c.X)
		}
	}
	sort.Float64s(changes)

	at := make([]int, len(layers))
	out := make(Layer, 0, len(changes)+1)
	out = append(out, Coord{lowestX, multipleAt(layers, at)})

	for i, x := range changes {
		if i > 0 && changes[i-1] == x {
			continue // duplicate breakpoint
		}
		for j, l := range layers {
			if at[j]+1 < len(l) && l[at[j]+1].X == x {
				at[j]++
			}
		}
		out = append(out, Coord{x, multipleAt(layers, at)})
	}
	return out
}
