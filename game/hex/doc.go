// Package hex implements axial-coordinate math for the corridor board.
//
// Positions are (q, r) pairs. The corridor maps column q to the distance from
// player1's spawn edge and r to the lane, so a rectangular board of
// length × width is simply q ∈ [0,length), r ∈ [0,width).
//
// Usage:
//
//	a := hex.New(0, 1)
//	b := hex.New(3, 0)
//	d := hex.Distance(a, b) // 3
//	px := hex.ToPixel(b, hex.DefaultSize)
package hex
