// Package talkin sizes the audio source feeding pkg/bccamera.Session.Talk:
// the one piece of C7 this client owns end to end (the actual audio
// encode is out of scope per spec.md's Non-goals; this package only turns
// a camera-reported AudioConfig into the block size and pacing the talk
// stream must honor).
package talkin

import (
	"time"

	"github.com/oakcam/neolink/pkg/bcxml"
)

// BlockSize returns the ADPCM block size the camera expects for cfg, per
// spec.md §6: (length_per_encoder/2) + 4.
func BlockSize(cfg bcxml.AudioConfig) int {
	return cfg.LengthPerEncoder/2 + 4
}

// BlockInterval is how long one block's worth of audio lasts at cfg's
// sample rate — the pacing a talk source must honor so blocks leave at
// roughly the rate the camera consumes them.
func BlockInterval(cfg bcxml.AudioConfig) time.Duration {
	samplesPerBlock := cfg.LengthPerEncoder / 2
	if cfg.SampleRate == 0 {
		return 0
	}
	return time.Second * time.Duration(samplesPerBlock) / time.Duration(cfg.SampleRate)
}
