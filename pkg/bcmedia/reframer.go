package bcmedia

import (
	"encoding/binary"
	"fmt"
)

var errMalformedChunk = fmt.Errorf("%w", errUnknownMagic)

// Reframer turns the concatenated binary payloads of a video subscription
// into a sequence of Chunk values. Feed appends newly-arrived bytes; Next
// pulls the next fully-buffered chunk, or *IncompleteError if one isn't
// fully buffered yet — the caller re-calls Next after the next Feed.
//
// Reframer never drops bytes it can't yet parse into a chunk; buf only ever
// shrinks by exactly the number of bytes a successful Next consumed.
type Reframer struct {
	buf []byte
}

// NewReframer returns an empty Reframer.
func NewReframer() *Reframer {
	return &Reframer{buf: make([]byte, 0, 256*1024)}
}

// Feed appends data to the reframer's internal buffer.
func (r *Reframer) Feed(data []byte) {
	r.buf = append(r.buf, data...)
}

// Next returns the next fully-buffered chunk, consuming its bytes. It
// returns *IncompleteError when the buffer doesn't yet hold a whole chunk,
// and a wrapped errUnknownMagic error for any unrecognized leading magic
// (fatal per spec, never retried).
func (r *Reframer) Next() (*Chunk, error) {
	if len(r.buf) < 4 {
		return nil, &IncompleteError{Needed: 4 - len(r.buf)}
	}
	magic := binary.LittleEndian.Uint32(r.buf[0:4])

	switch {
	case magic == magicInfoV1:
		return r.decodeInfo(false)
	case magic == magicInfoV2:
		return r.decodeInfo(true)
	case magic >= magicIFrameMin && magic <= magicIFrameMax:
		return r.decodeFrame(KindIFrame)
	case magic >= magicPFrameMin && magic <= magicPFrameMax:
		return r.decodeFrame(KindPFrame)
	case magic == magicAAC:
		return r.decodeAAC()
	case magic == magicADPCM:
		return r.decodeADPCM()
	default:
		return nil, fmt.Errorf("%w: 0x%08x", errUnknownMagic, magic)
	}
}

// padLen is the padding-to-a-multiple-of-8 rule spec.md invariant 3 names:
// a function of the payload-size field's value alone, never of the chunk's
// total length.
func padLen(payloadSize uint32) int {
	return int((8 - payloadSize%8) % 8)
}

func (r *Reframer) decodeInfo(v2 bool) (*Chunk, error) {
	const minFixed = 8 // magic already counted; header_size field itself
	if len(r.buf) < minFixed {
		return nil, &IncompleteError{Needed: minFixed - len(r.buf)}
	}
	total := int(binary.LittleEndian.Uint32(r.buf[4:8]))
	const wantFields = 32
	if total < wantFields {
		return nil, fmt.Errorf("%w: info header_size %d too small", errMalformedChunk, total)
	}
	if len(r.buf) < total {
		return nil, &IncompleteError{Needed: total - len(r.buf)}
	}
	b := r.buf[:total]

	info := &InfoChunk{
		V2:     v2,
		Width:  binary.LittleEndian.Uint32(b[8:12]),
		Height: binary.LittleEndian.Uint32(b[12:16]),
		FPS:    b[17],
		Start:  Timestamp{b[18], b[19], b[20], b[21], b[22], b[23]},
		End:    Timestamp{b[24], b[25], b[26], b[27], b[28], b[29]},
	}

	r.buf = r.buf[total:]
	kind := KindInfoV1
	if v2 {
		kind = KindInfoV2
	}
	return &Chunk{Kind: kind, Info: info}, nil
}

func (r *Reframer) decodeFrame(kind ChunkKind) (*Chunk, error) {
	fixedLen := 20 // P-frame: codec,payload_size,_,microseconds,_
	if kind == KindIFrame {
		fixedLen = 28 // + time_seconds,_
	}
	prefixLen := 4 + fixedLen
	if len(r.buf) < prefixLen {
		return nil, &IncompleteError{Needed: prefixLen - len(r.buf)}
	}

	codec := string(r.buf[4:8])
	payloadSize := binary.LittleEndian.Uint32(r.buf[8:12])
	microseconds := binary.LittleEndian.Uint32(r.buf[16:20])
	var timeSeconds uint32
	if kind == KindIFrame {
		timeSeconds = binary.LittleEndian.Uint32(r.buf[24:28])
	}

	pad := padLen(payloadSize)
	total := prefixLen + int(payloadSize) + pad
	if len(r.buf) < total {
		return nil, &IncompleteError{Needed: total - len(r.buf)}
	}

	data := make([]byte, payloadSize)
	copy(data, r.buf[prefixLen:prefixLen+int(payloadSize)])
	r.buf = r.buf[total:]

	return &Chunk{
		Kind: kind,
		Frame: &FrameChunk{
			Kind:         kind,
			Codec:        codec,
			Microseconds: microseconds,
			TimeSeconds:  timeSeconds,
			Data:         data,
		},
	}, nil
}

func (r *Reframer) decodeAAC() (*Chunk, error) {
	const prefixLen = 4 + 4 // magic + payload_size:u16 + _:u16
	if len(r.buf) < prefixLen {
		return nil, &IncompleteError{Needed: prefixLen - len(r.buf)}
	}
	payloadSize := binary.LittleEndian.Uint16(r.buf[4:6])
	pad := padLen(uint32(payloadSize))
	total := prefixLen + int(payloadSize) + pad
	if len(r.buf) < total {
		return nil, &IncompleteError{Needed: total - len(r.buf)}
	}

	data := make([]byte, payloadSize)
	copy(data, r.buf[prefixLen:prefixLen+int(payloadSize)])
	r.buf = r.buf[total:]

	return &Chunk{Kind: KindAAC, AAC: &AACChunk{Data: data}}, nil
}

func (r *Reframer) decodeADPCM() (*Chunk, error) {
	const prefixLen = 4 + 8 // magic + payload_size,_,magic(0xBD),half_block_size, all u16
	if len(r.buf) < prefixLen {
		return nil, &IncompleteError{Needed: prefixLen - len(r.buf)}
	}
	payloadSize := binary.LittleEndian.Uint16(r.buf[4:6])
	halfBlockSize := binary.LittleEndian.Uint16(r.buf[10:12])
	if payloadSize < 4 {
		return nil, fmt.Errorf("%w: adpcm payload_size %d too small", errMalformedChunk, payloadSize)
	}
	dataLen := int(payloadSize) - 4

	pad := padLen(uint32(payloadSize))
	total := prefixLen + dataLen + pad
	if len(r.buf) < total {
		return nil, &IncompleteError{Needed: total - len(r.buf)}
	}

	data := make([]byte, dataLen)
	copy(data, r.buf[prefixLen:prefixLen+dataLen])
	r.buf = r.buf[total:]

	return &Chunk{Kind: KindADPCM, ADPCM: &ADPCMChunk{HalfBlockSize: halfBlockSize, Data: data}}, nil
}
