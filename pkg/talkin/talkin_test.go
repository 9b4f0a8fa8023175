package talkin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oakcam/neolink/pkg/bcxml"
)

func TestBlockSize(t *testing.T) {
	cfg := bcxml.AudioConfig{SampleRate: 16000, LengthPerEncoder: 640}
	assert.Equal(t, 324, BlockSize(cfg))
}

func TestBlockIntervalZeroRate(t *testing.T) {
	assert.Equal(t, time.Duration(0), BlockInterval(bcxml.AudioConfig{LengthPerEncoder: 640}))
}
