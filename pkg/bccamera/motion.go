package bccamera

import (
	"context"

	"github.com/oakcam/neolink/pkg/bcconn"
	"github.com/oakcam/neolink/pkg/bcwire"
	"github.com/oakcam/neolink/pkg/bcxml"
)

// MotionState is the projected state of one AlarmEvent.
type MotionState uint8

const (
	MotionNoChange MotionState = iota
	MotionStart
	MotionStop
)

// MotionEvent is one channel-scoped motion transition.
type MotionEvent struct {
	ChannelID int
	State     MotionState
}

// motionStateFromStatus maps the AlarmEvent wire status to a MotionState.
// The reference firmware documents neither value; 0/1 are the two values
// observed across the example captures in original_source, everything
// else is reported as no-change rather than guessed at.
func motionStateFromStatus(status int) MotionState {
	switch status {
	case 0:
		return MotionStop
	case 1:
		return MotionStart
	default:
		return MotionNoChange
	}
}

// MotionStream is the pull interface §9 calls for: a lazy, finite-or-until-
// error sequence of MotionEvent, backed by a bounded subscription queue.
type MotionStream struct {
	sub       *bcconn.Subscription
	channelID int
}

// StartMotion arms motion detection for channelID, then returns a stream
// of its events.
func (s *Session) StartMotion(channelID int) (*MotionStream, error) {
	armSub, err := s.conn.Subscribe(bcwire.MsgIDMotionRequest)
	if err != nil {
		return nil, err
	}
	defer armSub.Close()

	ch := channelID
	extBytes, err := bcxml.Marshal(&bcxml.Extension{ChannelID: &ch})
	if err != nil {
		return nil, err
	}
	if err := armSub.Send(bcwire.NewModernExtXML(bcwire.MsgIDMotionRequest, 0, false, classOpaque, extBytes)); err != nil {
		return nil, err
	}

	eventSub, err := s.conn.Subscribe(bcwire.MsgIDMotion)
	if err != nil {
		return nil, err
	}
	return &MotionStream{sub: eventSub, channelID: channelID}, nil
}

// Next blocks until the next motion event for this stream's channel, or
// ctx is done, or the connection disconnects.
func (m *MotionStream) Next(ctx context.Context) (*MotionEvent, error) {
	for {
		pkt, err := m.sub.RecvContext(ctx)
		if err != nil {
			return nil, err
		}
		var body bcxml.BcXml
		if err := bcxml.Unmarshal(pkt.PayloadBytes, &body); err != nil || body.AlarmEventList == nil {
			continue
		}
		for _, e := range body.AlarmEventList.Events {
			if e.ChannelID == m.channelID {
				return &MotionEvent{ChannelID: e.ChannelID, State: motionStateFromStatus(e.Status)}, nil
			}
		}
	}
}

// Close stops the motion stream.
func (m *MotionStream) Close() {
	m.sub.Close()
}
