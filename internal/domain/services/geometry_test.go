package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentRoundTrip(t *testing.T) {
	canvas := Canvas{Width: 800, Height: 1100}
	rect := PixelRect{X: 150, Y: 500, Width: 500, Height: 100}

	got := ToPixels(ToPercent(rect, canvas), canvas)

	assert.InDelta(t, rect.X, got.X, 1e-9)
	assert.InDelta(t, rect.Y, got.Y, 1e-9)
	assert.InDelta(t, rect.Width, got.Width, 1e-9)
	assert.InDelta(t, rect.Height, got.Height, 1e-9)
}

func TestPercentSurvivesResize(t *testing.T) {
	small := Canvas{Width: 400, Height: 550}
	large := Canvas{Width: 1600, Height: 2200}

	pct := ToPercent(PixelRect{X: 100, Y: 110, Width: 200, Height: 55}, small)
	atLarge := ToPixels(pct, large)

	// Same relative position on a canvas four times the size.
	assert.InDelta(t, 400.0, atLarge.X, 1e-9)
	assert.InDelta(t, 440.0, atLarge.Y, 1e-9)
	assert.InDelta(t, 800.0, atLarge.Width, 1e-9)
	assert.InDelta(t, 220.0, atLarge.Height, 1e-9)
}

func TestVisibleCenter(t *testing.T) {
	canvas := Canvas{Width: 800, Height: 1100}

	t.Run("viewport inside the page", func(t *testing.T) {
		x, y := VisibleCenter(canvas, Viewport{Top: 100, Bottom: 700})
		assert.InDelta(t, 400.0, x, 1e-9)
		assert.InDelta(t, 400.0, y, 1e-9)
	})

	t.Run("viewport overshoots both edges", func(t *testing.T) {
		x, y := VisibleCenter(canvas, Viewport{Top: -200, Bottom: 2000})
		assert.InDelta(t, 400.0, x, 1e-9)
		assert.InDelta(t, 550.0, y, 1e-9)
	})

	t.Run("scrolled to the bottom", func(t *testing.T) {
		_, y := VisibleCenter(canvas, Viewport{Top: 600, Bottom: 1400})
		assert.InDelta(t, 850.0, y, 1e-9)
	})
}

func TestCenteredRectStaysOnCanvas(t *testing.T) {
	canvas := Canvas{Width: 800, Height: 1100}

	t.Run("centered fit", func(t *testing.T) {
		r := CenteredRect(400, 550, 500, 100, canvas)
		assert.InDelta(t, 150.0, r.X, 1e-9)
		assert.InDelta(t, 500.0, r.Y, 1e-9)
	})

	t.Run("clamped at the top left", func(t *testing.T) {
		r := CenteredRect(10, 10, 500, 100, canvas)
		assert.InDelta(t, 0.0, r.X, 1e-9)
		assert.InDelta(t, 0.0, r.Y, 1e-9)
	})

	t.Run("clamped at the bottom right", func(t *testing.T) {
		r := CenteredRect(790, 1090, 500, 100, canvas)
		assert.InDelta(t, 300.0, r.X, 1e-9)
		assert.InDelta(t, 1000.0, r.Y, 1e-9)
	})
}
