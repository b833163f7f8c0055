// Package placement sizes the volume popover so it stays inside its boundary.
package placement

import (
	"math"

	"github.com/samber/mo"
)

// Rect is an axis-aligned box in pixels. Y grows downwards.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Bottom returns the lower edge.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Right returns the right edge.
func (r Rect) Right() float64 {
	return r.Left + r.Width
}

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right() && y >= r.Top && y <= r.Bottom()
}

// Options holds the popover geometry constants.
type Options struct {
	// Offset is the distance between the anchor bottom and the panel bottom.
	Offset float64
	// Gap keeps the panel clear of the boundary top.
	Gap float64

	MinHeight float64
	MaxHeight float64

	SliderInset float64
	MinSlider   float64
	MaxSlider   float64

	ContentInset float64
	MinContent   float64
	MaxContent   float64

	// Width of the panel column.
	Width float64
}

// DefaultOptions mirrors a 16px root font: a 2.5rem offset and an 8px gap.
func DefaultOptions() Options {
	return Options{
		Offset:       40,
		Gap:          8,
		MinHeight:    56,
		MaxHeight:    140,
		SliderInset:  24,
		MinSlider:    48,
		MaxSlider:    120,
		ContentInset: 8,
		MinContent:   40,
		MaxContent:   132,
		Width:        32,
	}
}

// Layout is the computed popover size.
type Layout struct {
	Open          bool
	MaxHeight     float64
	SliderLength  float64
	ContentHeight float64
}

// Compute sizes the panel above anchor. The budget runs from the anchor
// bottom, limited to viewportHeight when positive, up to the boundary top
// (or the viewport top without one).
func Compute(anchor Rect, boundary mo.Option[Rect], viewportHeight float64, opts Options) Layout {
	bottom := anchor.Bottom()
	if viewportHeight > 0 {
		bottom = math.Min(bottom, viewportHeight)
	}

	top := 0.0
	if b, ok := boundary.Get(); ok {
		top = math.Max(0, b.Top)
	}

	available := math.Max(0, bottom-top-opts.Offset-opts.Gap)
	height := clamp(available, opts.MinHeight, opts.MaxHeight)

	return Layout{
		Open:          true,
		MaxHeight:     height,
		SliderLength:  clamp(height-opts.SliderInset, opts.MinSlider, opts.MaxSlider),
		ContentHeight: clamp(height-opts.ContentInset, opts.MinContent, opts.MaxContent),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
