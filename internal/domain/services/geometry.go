package services

// Canvas is the pixel size of a rendered page at some zoom level. Field
// geometry is stored in percent and only resolved against a Canvas at the
// edges, so the same field lands in the same document spot at any zoom.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PixelRect is a field's box in canvas pixels.
type PixelRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PercentRect is a field's box as percentages of the canvas dimensions.
type PercentRect struct {
	X      float64 `json:"x_percent"`
	Y      float64 `json:"y_percent"`
	Width  float64 `json:"width_percent"`
	Height float64 `json:"height_percent"`
}

// Viewport is the vertical window of the page currently on screen, in
// canvas pixels. Used to drop new fields where the user is actually looking.
type Viewport struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// ToPercent converts a pixel rect to percent form against the canvas.
func ToPercent(r PixelRect, c Canvas) PercentRect {
	return PercentRect{
		X:      r.X / c.Width * 100,
		Y:      r.Y / c.Height * 100,
		Width:  r.Width / c.Width * 100,
		Height: r.Height / c.Height * 100,
	}
}

// ToPixels resolves a percent rect against the canvas.
func ToPixels(r PercentRect, c Canvas) PixelRect {
	return PixelRect{
		X:      r.X / 100 * c.Width,
		Y:      r.Y / 100 * c.Height,
		Width:  r.Width / 100 * c.Width,
		Height: r.Height / 100 * c.Height,
	}
}

// VisibleCenter returns the point at the horizontal middle of the canvas and
// the vertical middle of the part of the page that is actually visible. The
// viewport is clamped to the canvas first, so a page smaller than the window
// centers within the page, not the window.
func VisibleCenter(c Canvas, v Viewport) (x, y float64) {
	visibleTop := v.Top
	if visibleTop < 0 {
		visibleTop = 0
	}
	visibleBottom := v.Bottom
	if visibleBottom > c.Height {
		visibleBottom = c.Height
	}
	return c.Width / 2, (visibleTop + visibleBottom) / 2
}

// CenteredRect builds a pixel rect of the given size centered on (cx, cy),
// shifted as needed to stay fully on the canvas.
func CenteredRect(cx, cy, width, height float64, c Canvas) PixelRect {
	r := PixelRect{
		X:      cx - width/2,
		Y:      cy - height/2,
		Width:  width,
		Height: height,
	}
	return clampToCanvas(r, c)
}

func clampToCanvas(r PixelRect, c Canvas) PixelRect {
	if r.X+r.Width > c.Width {
		r.X = c.Width - r.Width
	}
	if r.Y+r.Height > c.Height {
		r.Y = c.Height - r.Height
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	return r
}
