package rtspout

import (
	"context"
	"sync"
	"time"

	"github.com/pion/rtp"
)

// Pacer smooths RTP packets pulled off a VideoStream/talk source into a
// steady outbound rate, the way pkg/bridge's relay pacer smooths Nest's
// bursty delivery before handing packets to an RTSP server. Camera chunks
// arrive in TCP-sized bursts (pkg/bcconn's reader drains whatever the
// socket gives it); playback needs them spread out at the media clock
// rate instead, or players see stutter followed by a rush of frames.
type Pacer struct {
	clockRate    uint32
	maxDelay     time.Duration
	catchupAfter int

	in  chan pacedPacket
	out chan *rtp.Packet

	mu       sync.Mutex
	started  time.Time
	firstTS  uint32
	haveBase bool
	backlog  int
}

type pacedPacket struct {
	pkt *rtp.Packet
}

// NewPacer returns a Pacer for a single track clocked at clockRate Hz
// (90000 for H.264 video; the camera's negotiated AudioConfig.SampleRate
// for ADPCM/AAC audio — unlike the teacher's hardcoded 48kHz Opus pacer,
// audio clock rate here varies per camera).
func NewPacer(clockRate uint32) *Pacer {
	return &Pacer{
		clockRate:    clockRate,
		maxDelay:     200 * time.Millisecond,
		catchupAfter: 5,
		in:           make(chan pacedPacket, 32),
		out:          make(chan *rtp.Packet, 32),
	}
}

// Push enqueues pkt for pacing. It never blocks the caller past the
// channel's buffer; a full buffer means the pacer is already lagging so
// the oldest pending packet is dropped in favor of pkt.
func (p *Pacer) Push(pkt *rtp.Packet) {
	select {
	case p.in <- pacedPacket{pkt}:
	default:
		select {
		case <-p.in:
		default:
		}
		p.in <- pacedPacket{pkt}
	}
}

// Out returns the channel of packets released at their paced send time.
func (p *Pacer) Out() <-chan *rtp.Packet { return p.out }

// Run drains Push'd packets onto Out at wall-clock times derived from
// each packet's RTP timestamp delta, until ctx is canceled. It is meant
// to run in its own goroutine for the lifetime of one track.
func (p *Pacer) Run(ctx context.Context) {
	defer close(p.out)
	for {
		select {
		case <-ctx.Done():
			return
		case pp, ok := <-p.in:
			if !ok {
				return
			}
			delay := p.delayFor(pp.pkt.Timestamp)
			if delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					return
				}
			}
			select {
			case p.out <- pp.pkt:
			case <-ctx.Done():
				return
			}
		}
	}
}

// delayFor computes how long to hold a packet stamped ts before release,
// relative to the first packet's timestamp and the pacer's own start
// time. A packet whose target time has already passed is released
// immediately (catch-up) rather than ballooning delay; backlog counts how
// many such late packets arrived in a row, and the result is 0 whether or
// not that count has reached catchupAfter.
func (p *Pacer) delayFor(ts uint32) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if !p.haveBase {
		p.haveBase = true
		p.firstTS = ts
		p.started = now
		return 0
	}

	elapsedTicks := int64(ts - p.firstTS) // wraps correctly via unsigned subtraction
	target := p.started.Add(time.Duration(elapsedTicks) * time.Second / time.Duration(p.clockRate))
	delay := target.Sub(now)

	if delay < 0 {
		p.backlog++
		if p.backlog >= p.catchupAfter {
			return 0
		}
		return 0
	}
	p.backlog = 0

	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	return delay
}
