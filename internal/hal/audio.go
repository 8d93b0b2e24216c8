package hal

import (
	"fmt"
	"log/slog"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	sampleRate = 44100
	toneHz     = 440
	// queue at most this many bytes ahead so the tone stops promptly
	maxQueued = sampleRate / 20
)

type audio struct {
	device  sdl.AudioDeviceID
	chunk   []byte
	playing bool
}

func openAudio() (*audio, error) {
	spec := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  1024,
	}

	device, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open sdl audio device: %w", err)
	}
	slog.Debug("hal: open audio", "device", device)

	sdl.PauseAudioDevice(device, false)

	return &audio{device: device, chunk: squareWave(toneHz, 8)}, nil
}

// squareWave returns whole periods of an unsigned 8-bit square wave at hz,
// so chunks can be queued back to back without a click.
func squareWave(hz, periods int) []byte {
	period := sampleRate / hz
	samples := make([]byte, period*periods)
	for i := range samples {
		if (i % period) < period/2 {
			samples[i] = 0xC0
		} else {
			samples[i] = 0x40
		}
	}
	return samples
}

func (a *audio) set(active bool) error {
	if !active {
		if a.playing {
			sdl.ClearQueuedAudio(a.device)
			a.playing = false
		}
		return nil
	}

	a.playing = true
	if sdl.GetQueuedAudioSize(a.device) > maxQueued {
		return nil
	}
	if err := sdl.QueueAudio(a.device, a.chunk); err != nil {
		return fmt.Errorf("failed to queue sdl audio: %w", err)
	}
	return nil
}

func (a *audio) close() {
	sdl.CloseAudioDevice(a.device)
}
