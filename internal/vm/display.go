package vm

import "sync"

const (
	ScreenWidth  = 64
	ScreenHeight = 32
	SpriteWidth  = 8
)

// Frame is one monochrome screen image, row major.
type Frame [ScreenWidth * ScreenHeight]bool

func (f *Frame) At(x, y int) bool {
	return f[y*ScreenWidth+x]
}

// Framebuffer is written by the execute loop and read by renderers through
// Snapshot, possibly from another goroutine.
type Framebuffer struct {
	mu     sync.RWMutex
	pixels Frame
}

func (fb *Framebuffer) Clear() {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	fb.pixels = Frame{}
}

// DrawSprite XORs rows at (x mod 64, y mod 32), one byte per row, MSB on the
// left. Pixels past the right or bottom edge are clipped unless wrap is set.
// It reports whether any lit pixel was turned off.
func (fb *Framebuffer) DrawSprite(x, y uint8, rows []uint8, wrap bool) bool {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	originX := int(x) % ScreenWidth
	originY := int(y) % ScreenHeight

	collision := false
	for row, bits := range rows {
		py := originY + row
		if py >= ScreenHeight {
			if !wrap {
				break
			}
			py %= ScreenHeight
		}

		for col := 0; col < SpriteWidth; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}

			px := originX + col
			if px >= ScreenWidth {
				if !wrap {
					break
				}
				px %= ScreenWidth
			}

			i := py*ScreenWidth + px
			if fb.pixels[i] {
				collision = true
			}
			fb.pixels[i] = !fb.pixels[i]
		}
	}

	return collision
}

func (fb *Framebuffer) Snapshot() Frame {
	fb.mu.RLock()
	defer fb.mu.RUnlock()

	return fb.pixels
}
