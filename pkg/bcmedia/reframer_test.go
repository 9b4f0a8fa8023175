package bcmedia

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillPayload(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func buildInfoV1(width, height uint32, fps uint8, start, end Timestamp) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, magicInfoV1)
	binary.Write(&buf, binary.LittleEndian, uint32(32))
	binary.Write(&buf, binary.LittleEndian, width)
	binary.Write(&buf, binary.LittleEndian, height)
	buf.WriteByte(0)
	buf.WriteByte(fps)
	buf.Write([]byte{start.Year, start.Month, start.Day, start.Hour, start.Minute, start.Second})
	buf.Write([]byte{end.Year, end.Month, end.Day, end.Hour, end.Minute, end.Second})
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	return buf.Bytes()
}

func buildFrame(kind ChunkKind, codec string, microseconds, timeSeconds uint32, payload []byte) []byte {
	var buf bytes.Buffer
	magic := magicIFrameMin
	if kind == KindPFrame {
		magic = magicPFrameMin
	}
	binary.Write(&buf, binary.LittleEndian, magic)
	buf.WriteString(codec)
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	binary.Write(&buf, binary.LittleEndian, microseconds)
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	if kind == KindIFrame {
		binary.Write(&buf, binary.LittleEndian, timeSeconds)
		binary.Write(&buf, binary.LittleEndian, uint32(0))
	}
	buf.Write(payload)
	buf.Write(make([]byte, padLen(uint32(len(payload)))))
	return buf.Bytes()
}

func buildADPCM(halfBlockSize uint16, data []byte) []byte {
	payloadSize := uint16(len(data) + 4)
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, magicADPCM)
	binary.Write(&buf, binary.LittleEndian, payloadSize)
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint16(0xBD))
	binary.Write(&buf, binary.LittleEndian, halfBlockSize)
	buf.Write(data)
	buf.Write(make([]byte, padLen(uint32(payloadSize))))
	return buf.Bytes()
}

// S1: Info V1 sample.
func TestReframerInfoV1(t *testing.T) {
	start := Timestamp{121, 8, 4, 23, 23, 52}
	raw := buildInfoV1(2560, 1440, 30, start, start)

	r := NewReframer()
	r.Feed(raw)

	chunk, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, chunk.Info)
	assert.Equal(t, KindInfoV1, chunk.Kind)
	assert.Equal(t, uint32(2560), chunk.Info.Width)
	assert.Equal(t, uint32(1440), chunk.Info.Height)
	assert.Equal(t, uint8(30), chunk.Info.FPS)
	assert.Equal(t, start, chunk.Info.Start)
	assert.Equal(t, start, chunk.Info.End)

	_, err = r.Next()
	assert.True(t, IsIncomplete(err))
}

// S2: I-frame sample fed across 5 fragments.
func TestReframerIFrameFragmented(t *testing.T) {
	payload := fillPayload(192881)
	raw := buildFrame(KindIFrame, "H264", 3557705112, 1628085232, payload)

	fragLens := []int{1, 27, 100000, len(raw) - 1 - 27 - 100000 - 5000, 5000}
	require.Equal(t, len(raw), sum(fragLens))

	r := NewReframer()
	off := 0
	var chunk *Chunk
	var err error
	for i, n := range fragLens {
		r.Feed(raw[off : off+n])
		off += n
		chunk, err = r.Next()
		if i < len(fragLens)-1 {
			assert.Truef(t, IsIncomplete(err), "fragment %d should still be incomplete", i)
		}
	}
	require.NoError(t, err)
	require.NotNil(t, chunk.Frame)
	assert.Equal(t, KindIFrame, chunk.Kind)
	assert.Equal(t, "H264", chunk.Frame.Codec)
	assert.Equal(t, uint32(3557705112), chunk.Frame.Microseconds)
	assert.Equal(t, uint32(1628085232), chunk.Frame.TimeSeconds)
	assert.Len(t, chunk.Frame.Data, 192881)
	assert.Equal(t, payload, chunk.Frame.Data)
}

// S3: P-frame sample fed across 2 fragments.
func TestReframerPFrameFragmented(t *testing.T) {
	payload := fillPayload(45108)
	raw := buildFrame(KindPFrame, "H264", 3557767112, 0, payload)

	split := len(raw) / 3
	r := NewReframer()
	r.Feed(raw[:split])
	_, err := r.Next()
	assert.True(t, IsIncomplete(err))

	r.Feed(raw[split:])
	chunk, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, chunk.Frame)
	assert.Equal(t, KindPFrame, chunk.Kind)
	assert.Equal(t, uint32(3557767112), chunk.Frame.Microseconds)
	assert.Len(t, chunk.Frame.Data, 45108)
	assert.Equal(t, payload, chunk.Frame.Data)
}

// S4: ADPCM sample, one fragment.
func TestReframerADPCM(t *testing.T) {
	data := fillPayload(244)
	raw := buildADPCM(122, data)

	r := NewReframer()
	r.Feed(raw)

	chunk, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, chunk.ADPCM)
	assert.Equal(t, KindADPCM, chunk.Kind)
	assert.Len(t, chunk.ADPCM.Data, 244)
	assert.Equal(t, data, chunk.ADPCM.Data)
}

func TestReframerUnknownMagicIsFatal(t *testing.T) {
	r := NewReframer()
	r.Feed([]byte{0xde, 0xad, 0xbe, 0xef})
	_, err := r.Next()
	assert.True(t, IsMalformed(err))
}

// Invariant 2: arbitrary split points across several encoded chunks produce
// the same chunk sequence regardless of how the bytes are chopped.
func TestReframerArbitrarySplits(t *testing.T) {
	a := buildFrame(KindIFrame, "H264", 111, 222, fillPayload(37))
	b := buildFrame(KindPFrame, "H264", 333, 0, fillPayload(9))
	raw := append(append([]byte{}, a...), b...)

	for _, chunkSize := range []int{1, 3, 7, len(raw)} {
		r := NewReframer()
		var got []*Chunk
		for off := 0; off < len(raw); off += chunkSize {
			end := off + chunkSize
			if end > len(raw) {
				end = len(raw)
			}
			r.Feed(raw[off:end])
			for {
				c, err := r.Next()
				if IsIncomplete(err) {
					break
				}
				require.NoError(t, err)
				got = append(got, c)
			}
		}
		require.Len(t, got, 2, "chunkSize=%d", chunkSize)
		assert.Equal(t, KindIFrame, got[0].Kind)
		assert.Equal(t, KindPFrame, got[1].Kind)
	}
}

func sum(xs []int) int {
	t := 0
	for _, x := range xs {
		t += x
	}
	return t
}
