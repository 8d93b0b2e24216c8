package term

import (
	"time"

	"github.com/kapitanov/chip8emu/internal/vm"
)

// keyHolder turns press-only terminal input into press/release pairs.
// Every press (including auto-repeat) extends the key's deadline.
type keyHolder struct {
	hold     time.Duration
	deadline [vm.KeyCount]time.Time
}

func newKeyHolder(hold time.Duration) *keyHolder {
	return &keyHolder{hold: hold}
}

func (h *keyHolder) press(key vm.Key, now time.Time) {
	h.deadline[key&0x0F] = now.Add(h.hold)
}

// expire returns the keys whose deadline passed and forgets them.
func (h *keyHolder) expire(now time.Time) []vm.Key {
	var released []vm.Key
	for i, d := range h.deadline {
		if d.IsZero() || now.Before(d) {
			continue
		}
		released = append(released, vm.Key(i))
		h.deadline[i] = time.Time{}
	}
	return released
}
