package hal

import (
	"testing"

	"github.com/kapitanov/chip8emu/internal/vm"
	"github.com/retroenv/retrogolib/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestKeyMap(t *testing.T) {
	codes := []sdl.Scancode{
		sdl.SCANCODE_1, sdl.SCANCODE_2, sdl.SCANCODE_3, sdl.SCANCODE_4,
		sdl.SCANCODE_Q, sdl.SCANCODE_W, sdl.SCANCODE_E, sdl.SCANCODE_R,
		sdl.SCANCODE_A, sdl.SCANCODE_S, sdl.SCANCODE_D, sdl.SCANCODE_F,
		sdl.SCANCODE_Z, sdl.SCANCODE_X, sdl.SCANCODE_C, sdl.SCANCODE_V,
	}

	seen := map[vm.Key]bool{}
	for _, code := range codes {
		key, ok := keyMap(code)
		assert.True(t, ok)
		seen[key] = true
	}
	assert.Equal(t, vm.KeyCount, len(seen))

	key, _ := keyMap(sdl.SCANCODE_X)
	assert.Equal(t, vm.Key0, key)
	key, _ = keyMap(sdl.SCANCODE_V)
	assert.Equal(t, vm.KeyF, key)

	_, ok := keyMap(sdl.SCANCODE_P)
	assert.False(t, ok)
}

func TestFillBackBuffer(t *testing.T) {
	var fb vm.Framebuffer
	fb.DrawSprite(1, 2, []uint8{0x80}, false)
	frame := fb.Snapshot()

	buf := make([]uint32, vm.ScreenWidth*vm.ScreenHeight)
	fillBackBuffer(buf, &frame)

	assert.Equal(t, fgColor, buf[1+2*vm.ScreenWidth])
	assert.Equal(t, bgColor, buf[0])
}

func TestSquareWave(t *testing.T) {
	samples := squareWave(toneHz, 2)
	period := sampleRate / toneHz

	assert.Equal(t, 2*period, len(samples))
	assert.Equal(t, uint8(0xC0), samples[0])
	assert.Equal(t, uint8(0x40), samples[period-1])
	assert.Equal(t, uint8(0xC0), samples[period])
}
