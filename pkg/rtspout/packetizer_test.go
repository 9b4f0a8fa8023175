package rtspout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annexB(nalus ...[]byte) []byte {
	var out []byte
	for _, n := range nalus {
		out = append(out, 0x00, 0x00, 0x00, 0x01)
		out = append(out, n...)
	}
	return out
}

func TestH264PacketizerSingleNALU(t *testing.T) {
	p := NewH264Packetizer(0x1234, videoPayloadType)
	nalu := []byte{0x65, 0x01, 0x02, 0x03}
	pkts := p.Packetize(annexB(nalu), 1000)

	require.Len(t, pkts, 1)
	assert.Equal(t, nalu, pkts[0].Payload)
	assert.True(t, pkts[0].Marker)
	assert.EqualValues(t, 1000, pkts[0].Timestamp)
	assert.EqualValues(t, 0x1234, pkts[0].SSRC)
}

func TestH264PacketizerFragmentsLargeNALU(t *testing.T) {
	p := NewH264Packetizer(1, videoPayloadType)
	header := byte(0x65) // NRI=3, type=5 (IDR)
	payload := make([]byte, maxFragmentSize*3)
	for i := range payload {
		payload[i] = byte(i)
	}
	nalu := append([]byte{header}, payload...)

	pkts := p.Packetize(annexB(nalu), 42)
	require.Greater(t, len(pkts), 1)

	// First byte of each fragment is the FU-A indicator (type 28, same NRI).
	for i, pkt := range pkts {
		assert.Equal(t, byte(0x60|28), pkt.Payload[0])
		fuHeader := pkt.Payload[1]
		assert.Equal(t, byte(5), fuHeader&0x1F)
		if i == 0 {
			assert.NotZero(t, fuHeader&0x80)
		} else {
			assert.Zero(t, fuHeader&0x80)
		}
		if i == len(pkts)-1 {
			assert.NotZero(t, fuHeader&0x40)
			assert.True(t, pkt.Marker)
		} else {
			assert.Zero(t, fuHeader&0x40)
			assert.False(t, pkt.Marker)
		}
	}

	var reassembled []byte
	for _, pkt := range pkts {
		reassembled = append(reassembled, pkt.Payload[2:]...)
	}
	assert.Equal(t, payload, reassembled)
}

func TestH264PacketizerMultipleNALUsPerAccessUnit(t *testing.T) {
	p := NewH264Packetizer(1, videoPayloadType)
	sps := []byte{0x67, 0xAA}
	pps := []byte{0x68, 0xBB}
	idr := []byte{0x65, 0xCC, 0xDD}

	pkts := p.Packetize(annexB(sps, pps, idr), 10)
	require.Len(t, pkts, 3)
	assert.Equal(t, sps, pkts[0].Payload)
	assert.Equal(t, pps, pkts[1].Payload)
	assert.Equal(t, idr, pkts[2].Payload)
	assert.False(t, pkts[0].Marker)
	assert.False(t, pkts[1].Marker)
	assert.True(t, pkts[2].Marker)
}

func TestAACPacketizerWrapsAUHeader(t *testing.T) {
	p := NewAACPacketizer(7, audioPayloadType)
	frame := []byte{0xAA, 0xBB, 0xCC}
	pkt := p.Packetize(frame, 1024)

	require.Len(t, pkt.Payload, 4+len(frame))
	assert.Equal(t, []byte{0x00, 0x10}, pkt.Payload[0:2])
	assert.Equal(t, frame, pkt.Payload[4:])
	assert.True(t, pkt.Marker)
	assert.EqualValues(t, 1024, pkt.Timestamp)
}

func TestFrameTimestampConversion(t *testing.T) {
	assert.EqualValues(t, 90000, frameTimestamp(1_000_000))
	assert.EqualValues(t, 0, frameTimestamp(0))
}
