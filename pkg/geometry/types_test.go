package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectContainsIncludesEdges(t *testing.T) {
	r := NewRect(10, 20, 50, 20)

	assert.True(t, r.Contains(NewPoint2D(10, 20)))
	assert.True(t, r.Contains(NewPoint2D(60, 40)))
	assert.True(t, r.Contains(NewPoint2D(35, 30)))
	assert.False(t, r.Contains(NewPoint2D(9.9, 30)))
	assert.False(t, r.Contains(NewPoint2D(35, 40.1)))
}

func TestRectMoveToKeepsSize(t *testing.T) {
	r := NewRect(0, 0, 50, 20).MoveTo(NewPoint2D(100, 5))

	assert.Equal(t, NewRect(100, 5, 50, 20), r)
	assert.Equal(t, NewPoint2D(125, 15), r.Center())
}

func TestRectAt(t *testing.T) {
	r := NewRect(10, 10, 40, 20)

	assert.Equal(t, NewPoint2D(10, 10), r.At(0, 0))
	assert.Equal(t, NewPoint2D(50, 30), r.At(1, 1))
	assert.Equal(t, r.Center(), r.At(0.5, 0.5))
}

func TestPointArithmetic(t *testing.T) {
	a := NewPoint2D(3, 4)
	b := NewPoint2D(1, 1)

	assert.Equal(t, NewPoint2D(4, 5), a.Add(b))
	assert.Equal(t, NewPoint2D(2, 3), a.Sub(b))
	assert.InDelta(t, 5.0, a.Distance(Point2D{}), 1e-12)
	assert.Equal(t, NewPoint2D(2, 2.5), b.Lerp(a, 0.5))
}

func TestRectCorners(t *testing.T) {
	r := NewRect(10, 20, 50, 20)

	assert.Equal(t, NewPoint2D(10, 20), r.TopLeft())
	assert.Equal(t, NewPoint2D(60, 40), r.BottomRight())
}
