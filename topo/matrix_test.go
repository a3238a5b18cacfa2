package topo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix_ConstantAndShape(t *testing.T) {
	m := NewMatrix(7, 3, 4)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 4, m.Cols())
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			assert.Equal(t, 7, m.Get(r, c))
		}
	}
}

func TestMatrix_Set(t *testing.T) {
	m := NewMatrix(0, 2, 2)
	m.Set(0, 1, 9)
	assert.Equal(t, 9, m.Get(0, 1))
	assert.Equal(t, 0, m.Get(1, 1))
}

func TestMatrix_OutOfRangeIsFatal(t *testing.T) {
	m := NewMatrix(0, 2, 2)
	require.Panics(t, func() { m.Get(2, 0) })
	require.Panics(t, func() { m.Get(0, -1) })
	require.Panics(t, func() { m.Set(5, 5, 1) })
}

func TestMapMatrix(t *testing.T) {
	m := NewMatrix(2, 2, 2)
	doubled := MapMatrix(m, func(v int) int { return v * 2 })
	assert.Equal(t, 4, doubled.Get(0, 0))
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 2, doubled.Cols())
}
