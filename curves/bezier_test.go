package curves

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearBezier(t *testing.T) {
	cases := []struct {
		p0, p1, t, want float64
	}{
		{0, 10, 0.5, 5},
		{5, 15, 0.2, 7},
		{-4, 4, 0.5, 0},
		{3, 9, 0, 3},
		{3, 9, 1, 9},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, LinearBezier(c.p0, c.p1, c.t), 1e-12)
	}
}

func TestCubicBezier(t *testing.T) {
	cases := []struct {
		p0, c1, c2, p1, t, want float64
	}{
		{0, 2, 8, 10, 0.5, 5},
		{1, -1, 4, 3, 0.5, 1.625},
		{7, 7, 7, 7, 0.3, 7},
		{2, 5, 9, 11, 0, 2},
		{2, 5, 9, 11, 1, 11},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, CubicBezier(c.p0, c.c1, c.c2, c.p1, c.t), 1e-12)
	}
}
