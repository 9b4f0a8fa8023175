package rtspout

import (
	"time"

	"github.com/pion/rtcp"
)

// ntpEpochOffset is the number of seconds between the NTP epoch
// (1900-01-01) and the Unix epoch (1970-01-01).
const ntpEpochOffset = 2208988800

// SenderReportTracker accumulates the packet/octet counts an RTCP sender
// report needs, updated as each RTP packet for a track goes out.
type SenderReportTracker struct {
	SSRC uint32

	packetCount uint32
	octetCount  uint32
	lastRTPTime uint32
	lastSentAt  time.Time
}

// NewSenderReportTracker returns a tracker for one SSRC.
func NewSenderReportTracker(ssrc uint32) *SenderReportTracker {
	return &SenderReportTracker{SSRC: ssrc}
}

// Observe records one outbound RTP packet's size and timestamp.
func (t *SenderReportTracker) Observe(payloadLen int, rtpTimestamp uint32, sentAt time.Time) {
	t.packetCount++
	t.octetCount += uint32(payloadLen)
	t.lastRTPTime = rtpTimestamp
	t.lastSentAt = sentAt
}

// Report builds the sender report reflecting everything Observe has seen
// so far. Callers typically emit one of these every few seconds per
// track, the way an RTSP publisher keeps receivers' clocks correlated.
func (t *SenderReportTracker) Report() *rtcp.SenderReport {
	ntpSeconds := uint32(t.lastSentAt.Unix() + ntpEpochOffset)
	ntpFraction := uint32((uint64(t.lastSentAt.Nanosecond()) << 32) / 1e9)

	return &rtcp.SenderReport{
		SSRC:        t.SSRC,
		NTPTime:     uint64(ntpSeconds)<<32 | uint64(ntpFraction),
		RTPTime:     t.lastRTPTime,
		PacketCount: t.packetCount,
		OctetCount:  t.octetCount,
	}
}
