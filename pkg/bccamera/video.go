package bccamera

import (
	"context"

	"github.com/oakcam/neolink/pkg/bcconn"
	"github.com/oakcam/neolink/pkg/bcmedia"
	"github.com/oakcam/neolink/pkg/bcwire"
	"github.com/oakcam/neolink/pkg/bcxml"
)

// VideoStream pulls MediaChunks out of a video subscription's binary
// payloads via the C6 reframer.
type VideoStream struct {
	sub *bcconn.Subscription
	rf  *bcmedia.Reframer
}

// StartVideo requests streamName on channelID and returns a pull-based
// stream of reframed media chunks.
func (s *Session) StartVideo(streamName string, channelID int) (*VideoStream, error) {
	sub, err := s.conn.Subscribe(bcwire.MsgIDVideo)
	if err != nil {
		return nil, err
	}

	handle := int(s.conn.NextMsgNum())
	xmlBody, err := bcxml.Marshal(&bcxml.BcXml{Preview: &bcxml.Preview{
		ChannelID:  channelID,
		Handle:     handle,
		StreamType: streamName,
	}})
	if err != nil {
		sub.Close()
		return nil, err
	}
	if err := sub.Send(bcwire.NewModernXML(bcwire.MsgIDVideo, 0, false, classOpaque, xmlBody)); err != nil {
		sub.Close()
		return nil, err
	}

	return &VideoStream{sub: sub, rf: bcmedia.NewReframer()}, nil
}

// Next returns the next media chunk, feeding the reframer from further
// subscription packets as needed. It blocks until a chunk is fully
// buffered, ctx is done, or the connection disconnects.
func (v *VideoStream) Next(ctx context.Context) (*bcmedia.Chunk, error) {
	for {
		chunk, err := v.rf.Next()
		if err == nil {
			return chunk, nil
		}
		if !bcmedia.IsIncomplete(err) {
			return nil, err
		}

		pkt, rerr := v.sub.RecvContext(ctx)
		if rerr != nil {
			return nil, rerr
		}
		if pkt.PayloadKind == bcwire.PayloadBinary || pkt.PayloadKind == bcwire.PayloadNone {
			v.rf.Feed(pkt.PayloadBytes)
		}
	}
}

// Close ends the video stream.
func (v *VideoStream) Close() {
	v.sub.Close()
}
