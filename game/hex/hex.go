package hex

import (
	"fmt"
	"math"
)

// DefaultSize is the hex radius in pixels used by the reference renderer.
const DefaultSize = 40.0

// Position is an axial hex coordinate.
type Position struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Pixel is a projected screen coordinate.
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// directions lists the six axial neighbor offsets, clockwise from east.
var directions = [6]Position{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// New returns the position (q, r).
func New(q, r int) Position {
	return Position{Q: q, R: r}
}

// Equal reports whether p and other denote the same cell.
func (p Position) Equal(other Position) bool {
	return p.Q == other.Q && p.R == other.R
}

// Add returns the component-wise sum of p and other.
func (p Position) Add(other Position) Position {
	return Position{Q: p.Q + other.Q, R: p.R + other.R}
}

// String renders the position as "(q,r)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Q, p.R)
}

// Equal reports whether a and b denote the same cell.
func Equal(a, b Position) bool {
	return a.Equal(b)
}

// Distance returns the axial hex distance between a and b.
func Distance(a, b Position) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	return (abs(dq) + abs(dq+dr) + abs(dr)) / 2
}

// Neighbors returns the six cells adjacent to p.
func Neighbors(p Position) []Position {
	out := make([]Position, 0, len(directions))
	for _, d := range directions {
		out = append(out, p.Add(d))
	}
	return out
}

// Range returns every position within n steps of center, center included.
// Results are ordered by q, then r.
func Range(center Position, n int) []Position {
	if n < 0 {
		return nil
	}
	var out []Position
	for dq := -n; dq <= n; dq++ {
		lo := max(-n, -dq-n)
		hi := min(n, -dq+n)
		for dr := lo; dr <= hi; dr++ {
			out = append(out, Position{Q: center.Q + dq, R: center.R + dr})
		}
	}
	return out
}

// InRange reports whether b lies within n steps of a, excluding a itself.
func InRange(a, b Position, n int) bool {
	d := Distance(a, b)
	return d > 0 && d <= n
}

// ToPixel projects p onto a pointy-top layout with the given hex size.
func ToPixel(p Position, size float64) Pixel {
	q := float64(p.Q)
	r := float64(p.R)
	return Pixel{
		X: size * (math.Sqrt(3)*q + math.Sqrt(3)/2*r),
		Y: size * (1.5 * r),
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
