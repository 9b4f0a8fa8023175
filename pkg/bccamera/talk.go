package bccamera

import (
	"io"

	"github.com/oakcam/neolink/pkg/bcwire"
	"github.com/oakcam/neolink/pkg/bcxml"
)

// Talk starts a talk-back session on cfg.ChannelID, then streams ADPCM
// blocks read from source as modern binary packets until source is
// exhausted or a write fails. blockSize is the caller-computed
// (length_per_encoder/2)+4 size (pkg/talkin.BlockSize).
func (s *Session) Talk(source io.Reader, cfg bcxml.TalkConfig, blockSize int) error {
	sub, err := s.conn.Subscribe(bcwire.MsgIDTalk)
	if err != nil {
		return err
	}
	defer sub.Close()

	xmlBody, err := bcxml.Marshal(&bcxml.BcXml{TalkConfig: &cfg})
	if err != nil {
		return err
	}
	if err := sub.Send(bcwire.NewModernXML(bcwire.MsgIDTalk, 0, false, classOpaque, xmlBody)); err != nil {
		return err
	}

	buf := make([]byte, blockSize)
	for {
		n, rerr := io.ReadFull(source, buf)
		if n > 0 {
			pkt := &bcwire.Packet{
				Header:       bcwire.Header{Kind: bcwire.KindModern, MsgID: bcwire.MsgIDTalk},
				PayloadKind:  bcwire.PayloadBinary,
				PayloadBytes: append([]byte(nil), buf[:n]...),
			}
			if err := sub.Send(pkt); err != nil {
				return err
			}
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}
