package vm

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestFramebuffer_DoubleDrawRestores(t *testing.T) {
	var fb Framebuffer
	sprite := []uint8{0xA5, 0x5A, 0xFF}

	// pre-existing pixels inside the sprite area
	fb.DrawSprite(10, 10, []uint8{0x80}, false)
	before := fb.Snapshot()

	first := fb.DrawSprite(10, 10, sprite, false)
	assert.True(t, first)

	second := fb.DrawSprite(10, 10, sprite, false)
	assert.True(t, second)
	assert.Equal(t, before, fb.Snapshot())
}

func TestFramebuffer_NoCollisionOnEmptyScreen(t *testing.T) {
	var fb Framebuffer

	assert.False(t, fb.DrawSprite(0, 0, []uint8{0xFF}, false))

	frame := fb.Snapshot()
	for x := 0; x < SpriteWidth; x++ {
		assert.True(t, frame.At(x, 0))
	}
	assert.False(t, frame.At(SpriteWidth, 0))
}

func TestFramebuffer_ClearRoundTrip(t *testing.T) {
	var fb Framebuffer

	fb.Clear()
	fb.DrawSprite(30, 12, []uint8{0xFF, 0x81, 0xFF}, false)
	assert.True(t, fb.Snapshot() != Frame{})

	fb.Clear()
	assert.Equal(t, Frame{}, fb.Snapshot())
}

func TestFramebuffer_Clip(t *testing.T) {
	var fb Framebuffer

	fb.DrawSprite(60, 30, []uint8{0xFF, 0xFF, 0xFF}, false)
	frame := fb.Snapshot()

	for x := 60; x < ScreenWidth; x++ {
		assert.True(t, frame.At(x, 30))
		assert.True(t, frame.At(x, 31))
	}
	// nothing wrapped to the left edge or the top
	for x := 0; x < 4; x++ {
		assert.False(t, frame.At(x, 30))
		assert.False(t, frame.At(x, 0))
	}
	assert.False(t, frame.At(60, 0))
}

func TestFramebuffer_Wrap(t *testing.T) {
	var fb Framebuffer

	fb.DrawSprite(60, 31, []uint8{0xFF, 0xFF}, true)
	frame := fb.Snapshot()

	assert.True(t, frame.At(63, 31))
	assert.True(t, frame.At(0, 31))
	assert.True(t, frame.At(3, 31))
	assert.False(t, frame.At(4, 31))
	assert.True(t, frame.At(60, 0))
	assert.True(t, frame.At(0, 0))
}

func TestFramebuffer_OriginWraps(t *testing.T) {
	var fb Framebuffer

	// coordinates are taken modulo the screen size even when clipping
	fb.DrawSprite(64+5, 32+2, []uint8{0x80}, false)
	frame := fb.Snapshot()

	assert.True(t, frame.At(5, 2))
}
