package rtspout

import (
	"context"
	"testing"
	"time"

	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacerReleasesFirstPacketImmediately(t *testing.T) {
	p := NewPacer(videoClockRate)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	p.Push(&rtp.Packet{Header: rtp.Header{Timestamp: 1000}})

	select {
	case pkt := <-p.Out():
		require.NotNil(t, pkt)
		assert.EqualValues(t, 1000, pkt.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("pacer never released first packet")
	}
}

func TestPacerOrdersOutput(t *testing.T) {
	p := NewPacer(videoClockRate)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	base := uint32(1000)
	for i := uint32(0); i < 5; i++ {
		p.Push(&rtp.Packet{Header: rtp.Header{Timestamp: base + i*videoClockRate/30}})
	}

	var got []uint32
	for i := 0; i < 5; i++ {
		select {
		case pkt := <-p.Out():
			got = append(got, pkt.Timestamp)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for paced packet")
		}
	}
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

func TestPacerCatchesUpAfterBacklog(t *testing.T) {
	p := NewPacer(videoClockRate)
	p.maxDelay = 10 * time.Millisecond
	p.catchupAfter = 2

	// Prime the base without advancing the timestamp clock.
	p.started = time.Now().Add(-time.Hour)
	p.haveBase = true
	p.firstTS = 0

	d1 := p.delayFor(uint32(videoClockRate * 10))
	d2 := p.delayFor(uint32(videoClockRate * 20))
	assert.LessOrEqual(t, d1, p.maxDelay)
	assert.LessOrEqual(t, d2, p.maxDelay)
}
