package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"igresolve/pkg/dom"
)

func TestScore(t *testing.T) {
	vp := dom.Viewport{Height: 800, Width: 1200}

	tests := []struct {
		name string
		rect dom.Rect
		want int
	}{
		{"fully inside", dom.Rect{Top: 100, Height: 400}, 100},
		{"covers whole viewport", dom.Rect{Top: -200, Height: 1400}, 100},
		{"exactly fills viewport", dom.Rect{Top: 0, Height: 800}, 100},
		{"entirely above", dom.Rect{Top: -500, Height: 400}, 0},
		{"entirely below", dom.Rect{Top: 900, Height: 400}, 0},
		{"touching top edge from above", dom.Rect{Top: -400, Height: 400}, 0},
		{"half scrolled past top", dom.Rect{Top: -200, Height: 400}, 50},
		{"half past bottom", dom.Rect{Top: 600, Height: 400}, 50},
		{"quarter visible", dom.Rect{Top: -300, Height: 400}, 25},
		{"zero height", dom.Rect{Top: 100, Height: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.rect, vp)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestScoreScrolledPage(t *testing.T) {
	// Rects carry page coordinates, so scoring must follow the scroll
	// offset down the page.
	vp := dom.Viewport{ScrollY: 2000, Height: 800, Width: 1200}

	tests := []struct {
		name string
		rect dom.Rect
		want int
	}{
		{"on screen after scrolling", dom.Rect{Top: 2100, Height: 400}, 100},
		{"scrolled far past", dom.Rect{Top: 100, Height: 400}, 0},
		{"not yet reached", dom.Rect{Top: 3000, Height: 400}, 0},
		{"half above the fold", dom.Rect{Top: 1800, Height: 400}, 50},
		{"half below the fold", dom.Rect{Top: 2600, Height: 400}, 50},
		{"taller than the window", dom.Rect{Top: 1900, Height: 1200}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.rect, vp))
		})
	}
}

func TestMostVisibleScrolledPage(t *testing.T) {
	vp := dom.Viewport{ScrollY: 2000, Height: 800}

	above := &dom.Node{Tag: "article", Rect: dom.Rect{Top: 100, Height: 400}}
	onScreen := &dom.Node{Tag: "article", Rect: dom.Rect{Top: 2150, Height: 500}}

	got, score := MostVisible([]*dom.Node{above, onScreen}, vp, false)
	assert.Same(t, onScreen, got)
	assert.Equal(t, 100, score)
}

func TestMostVisible(t *testing.T) {
	vp := dom.Viewport{Height: 800}

	a := &dom.Node{Tag: "article", Rect: dom.Rect{Top: -600, Height: 700}}  // mostly gone
	b := &dom.Node{Tag: "article", Rect: dom.Rect{Top: 150, Height: 500}}  // fully visible
	c := &dom.Node{Tag: "article", Rect: dom.Rect{Top: 700, Height: 700}}  // entering

	t.Run("picks highest score", func(t *testing.T) {
		got, score := MostVisible([]*dom.Node{a, b, c}, vp, false)
		assert.Same(t, b, got)
		assert.Equal(t, 100, score)
	})

	t.Run("tie keeps document order", func(t *testing.T) {
		d := &dom.Node{Tag: "article", Rect: dom.Rect{Top: 100, Height: 300}}
		e := &dom.Node{Tag: "article", Rect: dom.Rect{Top: 450, Height: 300}}
		got, _ := MostVisible([]*dom.Node{d, e}, vp, false)
		assert.Same(t, d, got)
	})

	t.Run("reject zero", func(t *testing.T) {
		off := &dom.Node{Rect: dom.Rect{Top: 2000, Height: 300}}
		got, score := MostVisible([]*dom.Node{off}, vp, true)
		assert.Nil(t, got)
		assert.Zero(t, score)
	})

	t.Run("empty", func(t *testing.T) {
		got, _ := MostVisible(nil, vp, false)
		assert.Nil(t, got)
	})
}
