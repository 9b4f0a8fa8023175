// Package rtspout is the RTSP-publisher side of C7: it turns the reframed
// media chunks pkg/bcmedia.Reframer hands out into RTP packets, an SDP
// description, and RTCP sender reports built on request, at a pace pkg/bcconn's
// reader can't itself guarantee. It is the mirror image of the teacher's
// RTP depacketizer: where that code assembled NALUs out of incoming RTP,
// this one fragments outgoing NALUs into it.
package rtspout

import (
	"github.com/pion/rtp"
)

const (
	videoClockRate = 90000
	maxFragmentSize = 1400 // leaves room for RTP/UDP/IP headers under a 1500 MTU
)

// H264Packetizer turns IFrame/PFrame chunk payloads (already Annex-B/AVC
// NALU streams per spec.md §4.6) into RTP packets per RFC 6184.
type H264Packetizer struct {
	SSRC        uint32
	PayloadType uint8
	seq         uint16
}

// NewH264Packetizer returns a packetizer whose first packet carries
// sequence number 1 (callers supply SSRC, which is session-scoped).
func NewH264Packetizer(ssrc uint32, payloadType uint8) *H264Packetizer {
	return &H264Packetizer{SSRC: ssrc, PayloadType: payloadType}
}

// Packetize splits nalus (one or more Annex-B NAL units back to back,
// each introduced by a 00 00 01 or 00 00 00 01 start code — the format
// the camera's encoder emits) into RTP packets timestamped at timestamp
// (in the 90kHz video clock), marking the last packet of the access unit.
func (p *H264Packetizer) Packetize(nalus []byte, timestamp uint32) []*rtp.Packet {
	var out []*rtp.Packet
	for _, nalu := range splitAnnexB(nalus) {
		if len(nalu) == 0 {
			continue
		}
		out = append(out, p.packetizeNALU(nalu, timestamp)...)
	}
	if n := len(out); n > 0 {
		out[n-1].Marker = true
	}
	return out
}

func (p *H264Packetizer) packetizeNALU(nalu []byte, timestamp uint32) []*rtp.Packet {
	if len(nalu) <= maxFragmentSize {
		return []*rtp.Packet{p.newPacket(nalu, timestamp)}
	}

	header := nalu[0]
	naluType := header & 0x1F
	forbiddenAndNRI := header & 0xE0
	payload := nalu[1:]

	var out []*rtp.Packet
	for len(payload) > 0 {
		n := maxFragmentSize - 2 // FU indicator + FU header
		if n > len(payload) {
			n = len(payload)
		}
		start := len(out) == 0
		end := n == len(payload)

		fuHeader := naluType
		if start {
			fuHeader |= 0x80
		}
		if end {
			fuHeader |= 0x40
		}

		frag := make([]byte, 0, 2+n)
		frag = append(frag, forbiddenAndNRI|28) // FU-A indicator
		frag = append(frag, fuHeader)
		frag = append(frag, payload[:n]...)
		out = append(out, p.newPacket(frag, timestamp))

		payload = payload[n:]
	}
	return out
}

func (p *H264Packetizer) newPacket(payload []byte, timestamp uint32) *rtp.Packet {
	p.seq++
	return &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    p.PayloadType,
			SequenceNumber: p.seq,
			Timestamp:      timestamp,
			SSRC:           p.SSRC,
		},
		Payload: payload,
	}
}

// splitAnnexB walks an Annex-B byte stream (the format spec.md §4.6's
// I-frame/P-frame chunk payload carries, as the camera's encoder emits
// it) and returns each NAL unit's bytes with its start code stripped.
func splitAnnexB(data []byte) [][]byte {
	starts := findStartCodes(data)
	if len(starts) == 0 {
		return nil
	}
	out := make([][]byte, 0, len(starts))
	for i, s := range starts {
		end := len(data)
		if i+1 < len(starts) {
			end = starts[i+1].codeStart
		}
		out = append(out, data[s.naluStart:end])
	}
	return out
}

type startCode struct {
	codeStart int
	naluStart int
}

func findStartCodes(data []byte) []startCode {
	var out []startCode
	for i := 0; i+2 < len(data); i++ {
		if data[i] != 0 || data[i+1] != 0 {
			continue
		}
		if data[i+2] == 1 {
			out = append(out, startCode{codeStart: i, naluStart: i + 3})
			i += 2
			continue
		}
		if i+3 < len(data) && data[i+2] == 0 && data[i+3] == 1 {
			out = append(out, startCode{codeStart: i, naluStart: i + 4})
			i += 3
		}
	}
	return out
}

// AACPacketizer wraps one AAC access unit per RTP packet with the 4-byte
// AU-header section RFC 3640 requires (one AU-header, sizeLength=13,
// indexLength=3 — the parameters go2rtc and most RTSP servers assume when
// no fmtp is negotiated).
type AACPacketizer struct {
	SSRC        uint32
	PayloadType uint8
	seq         uint16
}

// NewAACPacketizer returns a fresh AAC packetizer.
func NewAACPacketizer(ssrc uint32, payloadType uint8) *AACPacketizer {
	return &AACPacketizer{SSRC: ssrc, PayloadType: payloadType}
}

// Packetize wraps one AAC frame as one RTP packet.
func (p *AACPacketizer) Packetize(frame []byte, timestamp uint32) *rtp.Packet {
	auHeaderLen := uint16(len(frame)) << 3 // sizeLength=13 bits, indexLength=3 bits
	payload := make([]byte, 0, 4+len(frame))
	payload = append(payload, 0x00, 0x10) // AU-headers-length = 16 bits
	payload = append(payload, byte(auHeaderLen>>8), byte(auHeaderLen))
	payload = append(payload, frame...)

	p.seq++
	return &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			Marker:         true,
			PayloadType:    p.PayloadType,
			SequenceNumber: p.seq,
			Timestamp:      timestamp,
			SSRC:           p.SSRC,
		},
		Payload: payload,
	}
}
