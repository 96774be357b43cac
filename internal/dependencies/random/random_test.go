package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntnStaysInRange(t *testing.T) {
	src := New()
	seen := make(map[int]bool)
	for range 500 {
		v := src.Intn(4)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 4)
		seen[v] = true
	}
	assert.Len(t, seen, 4)
}

func TestIntnNonPositive(t *testing.T) {
	assert.Zero(t, New().Intn(0))
	assert.Zero(t, New().Intn(-3))
}
