package geometry

import (
	"sort"
)

const epsilon = 1e-6

// Rectangle represents a 2D rectangle for packing
type Rectangle struct {
	X, Y          float64 // Position
	Width, Height float64 // Dimensions
}

// Area returns Width * Height
func (r Rectangle) Area() float64 {
	return r.Width * r.Height
}

// Overlaps reports whether two rectangles share interior area (touching edges do not count)
func (r Rectangle) Overlaps(o Rectangle) bool {
	return r.X < o.X+o.Width-epsilon && r.X+r.Width > o.X+epsilon &&
		r.Y < o.Y+o.Height-epsilon && r.Y+r.Height > o.Y+epsilon
}

// Contains reports whether o lies completely inside r
func (r Rectangle) Contains(o Rectangle) bool {
	return o.X >= r.X-epsilon && o.Y >= r.Y-epsilon &&
		o.X+o.Width <= r.X+r.Width+epsilon &&
		o.Y+o.Height <= r.Y+r.Height+epsilon
}

// GuillotinePacker fills one fixed-size bin. It keeps a list of disjoint free
// rectangles, places each item into the free rectangle with the least
// leftover area (best area fit) and cuts the remainder along the shorter
// leftover axis. Items are never rotated.
type GuillotinePacker struct {
	width, height float64
	margin        float64
	freeRects     []Rectangle
	used          []Rectangle
}

// NewGuillotinePacker creates a packer for a width x height bin. margin is the
// gap kept to the right of and below every item; it may overhang the bin edge.
func NewGuillotinePacker(width, height, margin float64) *GuillotinePacker {
	return &GuillotinePacker{
		width:     width,
		height:    height,
		margin:    margin,
		freeRects: []Rectangle{{X: 0, Y: 0, Width: width, Height: height}},
	}
}

// Fits reports whether a w x h item fits an empty bin of this size
func (p *GuillotinePacker) Fits(w, h float64) bool {
	return w <= p.width+epsilon && h <= p.height+epsilon
}

// Score returns the leftover area of the best free rectangle for a w x h item
// without placing it. ok is false when nothing fits.
func (p *GuillotinePacker) Score(w, h float64) (leftover float64, ok bool) {
	idx := p.bestFit(w, h)
	if idx < 0 {
		return 0, false
	}
	return p.freeRects[idx].Area() - w*h, true
}

// Insert places a w x h item and returns its position
func (p *GuillotinePacker) Insert(w, h float64) (Rectangle, bool) {
	idx := p.bestFit(w, h)
	if idx < 0 {
		return Rectangle{}, false
	}

	chosen := p.freeRects[idx]
	placed := Rectangle{X: chosen.X, Y: chosen.Y, Width: w, Height: h}
	p.used = append(p.used, placed)

	// The margin is reserved but clipped to the free rectangle
	ow := min(w+p.margin, chosen.Width)
	oh := min(h+p.margin, chosen.Height)

	p.freeRects = append(p.freeRects[:idx], p.freeRects[idx+1:]...)
	p.freeRects = append(p.freeRects, split(chosen, ow, oh)...)

	// Prioritize placement in the lower-left corner (compact layout)
	sort.SliceStable(p.freeRects, func(a, b int) bool {
		if p.freeRects[a].Y != p.freeRects[b].Y {
			return p.freeRects[a].Y < p.freeRects[b].Y
		}
		return p.freeRects[a].X < p.freeRects[b].X
	})

	return placed, true
}

// Used returns the placed rectangles in placement order
func (p *GuillotinePacker) Used() []Rectangle {
	return p.used
}

// FreeRects returns the current free rectangles
func (p *GuillotinePacker) FreeRects() []Rectangle {
	return p.freeRects
}

// Occupancy returns the fraction of the bin area covered by items
func (p *GuillotinePacker) Occupancy() float64 {
	total := p.width * p.height
	if total == 0 {
		return 0
	}
	used := 0.0
	for _, r := range p.used {
		used += r.Area()
	}
	return used / total
}

// bestFit returns the index of the free rectangle with the smallest leftover
// area for a w x h item; ties go to the smaller leftover side, then to the
// earlier rectangle. Returns -1 when nothing fits.
func (p *GuillotinePacker) bestFit(w, h float64) int {
	bestIdx := -1
	bestArea, bestSide := 0.0, 0.0

	for i, r := range p.freeRects {
		if w > r.Width+epsilon || h > r.Height+epsilon {
			continue
		}
		area := r.Area() - w*h
		side := min(r.Width-w, r.Height-h)
		if bestIdx < 0 || area < bestArea-epsilon || (area <= bestArea+epsilon && side < bestSide-epsilon) {
			bestIdx = i
			bestArea = area
			bestSide = side
		}
	}

	return bestIdx
}

// split cuts what is left of r after an ow x oh item at its corner into at
// most two rectangles. The cut runs along the shorter leftover axis so the
// larger remainder stays in one piece.
func split(r Rectangle, ow, oh float64) []Rectangle {
	leftoverW := r.Width - ow
	leftoverH := r.Height - oh

	var right, below Rectangle
	if leftoverW < leftoverH {
		// Horizontal cut: the strip below spans the full width
		right = Rectangle{X: r.X + ow, Y: r.Y, Width: leftoverW, Height: oh}
		below = Rectangle{X: r.X, Y: r.Y + oh, Width: r.Width, Height: leftoverH}
	} else {
		// Vertical cut: the strip to the right spans the full height
		right = Rectangle{X: r.X + ow, Y: r.Y, Width: leftoverW, Height: r.Height}
		below = Rectangle{X: r.X, Y: r.Y + oh, Width: ow, Height: leftoverH}
	}

	var result []Rectangle
	for _, candidate := range []Rectangle{right, below} {
		if candidate.Width > epsilon && candidate.Height > epsilon {
			result = append(result, candidate)
		}
	}
	return result
}
