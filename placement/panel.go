package placement

import (
	"github.com/samber/mo"
)

// Panel tracks the open state and geometry of one popover.
type Panel struct {
	opts Options

	open     bool
	layout   Layout
	anchor   Rect
	boundary mo.Option[Rect]
	viewport float64
	frame    Frame
}

// NewPanel returns a closed panel.
func NewPanel(opts Options) *Panel {
	return &Panel{opts: opts}
}

// IsOpen reports whether the panel is shown.
func (p *Panel) IsOpen() bool {
	return p.open
}

// Layout returns the last computed layout. It is zero while closed.
func (p *Panel) Layout() Layout {
	if !p.open {
		return Layout{}
	}
	return p.layout
}

// Toggle opens the panel, computing its layout, or closes it.
func (p *Panel) Toggle(anchor Rect, boundary mo.Option[Rect], viewportHeight float64) bool {
	if p.open {
		p.Close()
		return false
	}

	p.anchor = anchor
	p.boundary = boundary
	p.viewport = viewportHeight
	p.open = true
	p.recompute()
	return true
}

// Close hides the panel and drops any pending resize.
func (p *Panel) Close() {
	p.open = false
	p.layout = Layout{}
	p.frame.Cancel()
}

// Rect returns the panel box: right-aligned with the anchor, its bottom
// Offset above the anchor bottom.
func (p *Panel) Rect() Rect {
	if !p.open {
		return Rect{}
	}

	bottom := p.anchor.Bottom() - p.opts.Offset
	return Rect{
		Left:   p.anchor.Right() - p.opts.Width,
		Top:    bottom - p.layout.MaxHeight,
		Width:  p.opts.Width,
		Height: p.layout.MaxHeight,
	}
}

// Press closes the panel when the point is outside both the panel and its
// anchor. It reports whether the panel closed.
func (p *Panel) Press(x, y float64) bool {
	if !p.open {
		return false
	}
	if p.Rect().Contains(x, y) || p.anchor.Contains(x, y) {
		return false
	}
	p.Close()
	return true
}

// Resize records new geometry while open. It reports whether the caller
// must schedule a Flush; bursts within one frame need only one.
func (p *Panel) Resize(anchor Rect, boundary mo.Option[Rect], viewportHeight float64) bool {
	if !p.open {
		return false
	}

	p.anchor = anchor
	p.boundary = boundary
	p.viewport = viewportHeight
	return p.frame.Request()
}

// Flush recomputes the layout if a resize is pending. It reports whether it did.
func (p *Panel) Flush() bool {
	if !p.frame.Flush() || !p.open {
		return false
	}
	p.recompute()
	return true
}

func (p *Panel) recompute() {
	p.layout = Compute(p.anchor, p.boundary, p.viewport, p.opts)
}
