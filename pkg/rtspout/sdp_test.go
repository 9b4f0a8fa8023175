package rtspout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakcam/neolink/pkg/bcmedia"
	"github.com/oakcam/neolink/pkg/bcxml"
)

func TestBuildSessionDescriptionVideoOnly(t *testing.T) {
	info := bcmedia.InfoChunk{Width: 2560, Height: 1440, FPS: 25}
	desc, err := BuildSessionDescription("frontdoor", info, nil)
	require.NoError(t, err)

	require.Len(t, desc.MediaDescriptions, 1)
	video := desc.MediaDescriptions[0]
	assert.Equal(t, "video", video.MediaName.Media)
	assert.Contains(t, video.Attributes[0].Value, "H264/90000")
}

func TestBuildSessionDescriptionWithAudio(t *testing.T) {
	info := bcmedia.InfoChunk{Width: 640, Height: 480, FPS: 15}
	audio := &bcxml.AudioConfig{SampleRate: 16000, LengthPerEncoder: 640}
	desc, err := BuildSessionDescription("frontdoor", info, audio)
	require.NoError(t, err)

	require.Len(t, desc.MediaDescriptions, 2)
	assert.Equal(t, "audio", desc.MediaDescriptions[1].MediaName.Media)
	assert.Contains(t, desc.MediaDescriptions[1].Attributes[0].Value, "16000")
}
