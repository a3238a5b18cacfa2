package topo

import "fmt"

// CartesianData is a rectangular coordinate system: an ordered list of side
// lengths, a cached total size, and pack/unpack between a flat index and a
// coordinate vector. The lowest-order coordinate (index 0) varies fastest.
type CartesianData struct {
	Sides []int
	size  int
}

// NewCartesianData builds a coordinate system over the given side lengths.
func NewCartesianData(sides []int) CartesianData {
	size := 1
	for _, s := range sides {
		if s <= 0 {
			panic(fmt.Sprintf("topo: CartesianData side must be positive, got %d in %v", s, sides))
		}
		size *= s
	}
	return CartesianData{Sides: append([]int(nil), sides...), size: size}
}

// Size is the total number of distinct coordinate vectors (the product of
// the sides).
func (c CartesianData) Size() int { return c.size }

// Dimensions is the number of coordinate axes.
func (c CartesianData) Dimensions() int { return len(c.Sides) }

// Unpack expands a flat index into a coordinate vector, lowest coordinate
// (dimension 0) varying fastest.
func (c CartesianData) Unpack(index int) []int {
	if index < 0 || index >= c.size {
		panic(fmt.Sprintf("topo: CartesianData.Unpack index %d out of range [0,%d)", index, c.size))
	}
	coords := make([]int, len(c.Sides))
	rem := index
	for d, s := range c.Sides {
		coords[d] = rem % s
		rem /= s
	}
	return coords
}

// Pack collapses a coordinate vector into a flat index. Pack(Unpack(i)) == i
// for every valid i.
func (c CartesianData) Pack(coords []int) int {
	if len(coords) != len(c.Sides) {
		panic(fmt.Sprintf("topo: CartesianData.Pack coordinate count %d does not match %d dimensions", len(coords), len(c.Sides)))
	}
	index := 0
	mult := 1
	for d, s := range c.Sides {
		co := coords[d]
		if co < 0 || co >= s {
			panic(fmt.Sprintf("topo: CartesianData.Pack coordinate %d out of range [0,%d) in dimension %d", co, s, d))
		}
		index += co * mult
		mult *= s
	}
	return index
}
