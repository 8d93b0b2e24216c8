package vm

import "sync/atomic"

const KeyCount = 16

type Key uint8

const (
	Key0 = Key(iota)
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

// Keypad holds the 16 key-down flags. Input frontends may write it from any
// goroutine; the machine only reads it.
type Keypad struct {
	keys [KeyCount]atomic.Bool
}

func (k *Keypad) Press(key Key) {
	k.Set(key, true)
}

func (k *Keypad) Release(key Key) {
	k.Set(key, false)
}

func (k *Keypad) Set(key Key, down bool) {
	k.keys[key&0x0F].Store(down)
}

// SetAll replaces every flag; bit n of mask is key n.
func (k *Keypad) SetAll(mask uint16) {
	for i := range k.keys {
		k.keys[i].Store(mask&(1<<i) != 0)
	}
}

func (k *Keypad) IsPressed(key Key) bool {
	return k.keys[key&0x0F].Load()
}

func (k *Keypad) Mask() uint16 {
	var mask uint16
	for i := range k.keys {
		if k.keys[i].Load() {
			mask |= 1 << i
		}
	}
	return mask
}
