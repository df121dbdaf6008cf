// Package canvas converts between canvas pixel space and the normalized
// [0,1] design space placed items are stored in.
package canvas

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"avatar-studio/models"
)

// Size is a canvas size in pixels
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Empty reports whether either dimension is zero or not a usable number
func (s Size) Empty() bool {
	return !usable(s.W) || !usable(s.H)
}

// Rect is an axis-aligned box in page pixel coordinates (as reported by the browser)
type Rect struct {
	Min models.Point `json:"min"`
	Max models.Point `json:"max"`
}

// RectFromBounds builds a rect from left/top and width/height
func RectFromBounds(left, top, width, height float64) Rect {
	return Rect{
		Min: r2.Vec{X: left, Y: top},
		Max: r2.Vec{X: left + width, Y: top + height},
	}
}

// Size returns the rect dimensions
func (r Rect) Size() Size {
	return Size{W: r.Max.X - r.Min.X, H: r.Max.Y - r.Min.Y}
}

// Empty reports whether the rect has no area
func (r Rect) Empty() bool {
	return r.Size().Empty() || r.Max.X < r.Min.X || r.Max.Y < r.Min.Y
}

// Contains reports whether p lies inside the rect, edges included
func (r Rect) Contains(p models.Point) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Local converts a page point into coordinates relative to the rect origin
func (r Rect) Local(p models.Point) models.Point {
	return r2.Sub(p, r.Min)
}

// Fraction returns v as a fraction of extent, or 0 for a degenerate extent
func Fraction(v, extent float64) float64 {
	if !usable(extent) || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v / extent
}

// Clamp01 clamps v into [0,1]
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ToNormalized converts a canvas-local pixel point into normalized coordinates
func ToNormalized(p models.Point, size Size) models.Point {
	return r2.Vec{X: Fraction(p.X, size.W), Y: Fraction(p.Y, size.H)}
}

// ToPixels converts a normalized point into canvas-local pixels
func ToPixels(n models.Point, size Size) models.Point {
	if size.Empty() {
		return r2.Vec{}
	}
	return r2.Vec{X: n.X * size.W, Y: n.Y * size.H}
}

// Layout computes the pixel cache of a placed item for the given canvas size
func Layout(item *models.PlacedItem, size Size) {
	if size.Empty() {
		item.X, item.Y, item.Width, item.Height = 0, 0, 0, 0
		return
	}
	pos := ToPixels(r2.Vec{X: item.XNorm, Y: item.YNorm}, size)
	item.X, item.Y = pos.X, pos.Y
	if item.FillsCanvas() {
		item.Width, item.Height = size.W, size.H
		return
	}
	item.Width = item.SizeNorm * size.W
	item.Height = item.Width
}

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
