package rtspout

import (
	"context"
	"fmt"
	"time"

	"github.com/pion/rtp"

	"github.com/oakcam/neolink/pkg/bcmedia"
)

// Track is one paced, packetized output of a camera's media stream —
// video or audio. Packets is the only thing a real RTSP server's session
// needs: each value is ready to hand to a transport (RTP/UDP, RTP/TCP
// interleave, or a WebRTC track — spec.md §6 leaves the transport to the
// embedder).
type Track struct {
	Packets <-chan *rtp.Packet
	SR      *SenderReportTracker

	pacer *Pacer
}

// PublishVideo packetizes and paces the IFrame/PFrame chunks arriving on
// chunks, stopping when ctx is canceled or chunks closes. SDP geometry
// should be built separately from the InfoChunk the caller already
// consumed off the same stream (see BuildSessionDescription).
func PublishVideo(ctx context.Context, chunks <-chan bcmedia.Chunk, ssrc uint32) *Track {
	packetizer := NewH264Packetizer(ssrc, videoPayloadType)
	pacer := NewPacer(videoClockRate)
	sr := NewSenderReportTracker(ssrc)

	go func() {
		defer close(pacer.in)
		for {
			select {
			case <-ctx.Done():
				return
			case c, ok := <-chunks:
				if !ok {
					return
				}
				if c.Kind != bcmedia.KindIFrame && c.Kind != bcmedia.KindPFrame {
					continue
				}
				ts := frameTimestamp(c.Frame.Microseconds)
				for _, pkt := range packetizer.Packetize(c.Frame.Data, ts) {
					pacer.Push(pkt)
				}
			}
		}
	}()
	go pacer.Run(ctx)

	return sinkTrack(ctx, pacer, sr)
}

// PublishAudio packetizes and paces AAC chunks arriving on chunks at the
// given sample rate's RTP clock.
func PublishAudio(ctx context.Context, chunks <-chan bcmedia.Chunk, ssrc uint32, sampleRate uint32) *Track {
	packetizer := NewAACPacketizer(ssrc, audioPayloadType)
	pacer := NewPacer(sampleRate)
	sr := NewSenderReportTracker(ssrc)

	var samplesSent uint32
	go func() {
		defer close(pacer.in)
		for {
			select {
			case <-ctx.Done():
				return
			case c, ok := <-chunks:
				if !ok {
					return
				}
				if c.Kind != bcmedia.KindAAC {
					continue
				}
				pkt := packetizer.Packetize(c.AAC.Data, samplesSent)
				samplesSent += aacFrameSamples
				pacer.Push(pkt)
			}
		}
	}()
	go pacer.Run(ctx)

	return sinkTrack(ctx, pacer, sr)
}

// aacFrameSamples is the samples-per-frame an AAC-LC camera stream always
// uses at the frame sizes this client has observed cameras report.
const aacFrameSamples = 1024

func sinkTrack(ctx context.Context, pacer *Pacer, sr *SenderReportTracker) *Track {
	out := make(chan *rtp.Packet, 32)
	go func() {
		defer close(out)
		for pkt := range pacer.Out() {
			sr.Observe(len(pkt.Payload), pkt.Timestamp, time.Now())
			select {
			case out <- pkt:
			case <-ctx.Done():
				return
			}
		}
	}()
	return &Track{Packets: out, SR: sr, pacer: pacer}
}

// frameTimestamp converts a FrameChunk's microsecond offset into a 90kHz
// RTP timestamp tick, wrapping the way a real encoder's clock would.
func frameTimestamp(microseconds uint32) uint32 {
	return uint32((uint64(microseconds) * videoClockRate) / 1_000_000)
}

// String helps tests and logs name a track without reaching into its
// unexported pacer.
func (t *Track) String() string {
	return fmt.Sprintf("rtspout.Track{pending=%d}", len(t.Packets))
}
