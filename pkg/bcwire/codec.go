// Package bcwire implements C1, the BC wire codec: encoding and decoding of
// one packet (fixed header, optional extension XML, optional XML-or-binary
// payload, optional whole-body XOR encryption) per spec.md §3/§4.1.
package bcwire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/oakcam/neolink/pkg/bcerrors"
)

// Encode writes p to w, applying key's XOR when p.Header.Encrypted is set.
// Encoding is the inverse of Decode: it computes the body bytes first, then
// backfills PayloadLen/BinOffset into the header before writing it.
func Encode(w io.Writer, p *Packet, key KeyState) error {
	var body []byte
	switch p.Header.Kind {
	case KindLegacy:
		if p.LegacyLogin == nil {
			return fmt.Errorf("%w: legacy packet without a login body", errUnsupportedBody)
		}
		body = encodeLegacyLogin(p.LegacyLogin)
		p.Header.EncOffset = 0
	case KindModern:
		body = make([]byte, 0, len(p.ExtensionBytes)+len(p.PayloadBytes))
		body = append(body, p.ExtensionBytes...)
		body = append(body, p.PayloadBytes...)
		p.Header.BinOffset = uint32(len(p.ExtensionBytes))
	default:
		return fmt.Errorf("%w: unset header kind", errMalformedHeader)
	}

	p.Header.PayloadLen = uint32(len(body))

	if p.Header.Encrypted {
		body = key.XOR(body)
	}

	hdrBytes, err := encodeHeader(&p.Header)
	if err != nil {
		return err
	}
	if _, err := w.Write(hdrBytes); err != nil {
		return fmt.Errorf("%w: %v", bcerrors.ErrCommunication, err)
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return fmt.Errorf("%w: %v", bcerrors.ErrCommunication, err)
		}
	}
	return nil
}

// Decode reads one packet from r, applying key's XOR when the header's
// encrypted flag is set. r is read with io.ReadFull at each stage; a short
// read after at least one byte has been consumed is reported as
// *IncompleteError, a short read before any byte is consumed is reported as
// io.EOF (a clean end-of-stream, the shape a connection's reader loop uses
// to detect an orderly close).
func Decode(r io.Reader, key KeyState) (*Packet, error) {
	prefix := make([]byte, commonPrefixLen)
	if n, err := io.ReadFull(r, prefix); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &IncompleteError{Needed: commonPrefixLen - n}
	}

	magic := binary.LittleEndian.Uint32(prefix[0:4])
	hdr := Header{
		MsgID:      binary.LittleEndian.Uint32(prefix[4:8]),
		PayloadLen: binary.LittleEndian.Uint32(prefix[8:12]),
	}

	switch magic {
	case MagicLegacy:
		hdr.Kind = KindLegacy
	case MagicModern:
		hdr.Kind = KindModern
	default:
		return nil, fmt.Errorf("%w: magic 0x%08x", errMalformedHeader, magic)
	}

	tailLen := hdr.HeaderLen() - commonPrefixLen
	tail := make([]byte, tailLen)
	if n, err := io.ReadFull(r, tail); err != nil {
		return nil, &IncompleteError{Needed: tailLen - n}
	}
	decodeTail(&hdr, tail)

	if err := hdr.Validate(); err != nil {
		return nil, err
	}

	body := make([]byte, hdr.PayloadLen)
	if hdr.PayloadLen > 0 {
		if n, err := io.ReadFull(r, body); err != nil {
			return nil, &IncompleteError{Needed: int(hdr.PayloadLen) - n}
		}
	}

	if hdr.Encrypted {
		body = key.XOR(body)
	}

	p := &Packet{Header: hdr}
	switch hdr.Kind {
	case KindLegacy:
		login, err := decodeLegacyLogin(hdr.MsgID, body)
		if err != nil {
			return nil, err
		}
		p.LegacyLogin = login
	case KindModern:
		if hdr.BinOffset > uint32(len(body)) {
			return nil, fmt.Errorf("%w: binary_offset exceeds body", errMalformedHeader)
		}
		p.ExtensionBytes = body[:hdr.BinOffset]
		rest := body[hdr.BinOffset:]
		p.PayloadBytes = rest
		p.PayloadKind = classifyPayload(rest)
	}

	return p, nil
}

// classifyPayload implements step 5 of §4.1: the payload region is XML iff
// its first non-whitespace byte is '<'; empty means absent; anything else
// is opaque binary.
func classifyPayload(b []byte) PayloadKind {
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	if len(trimmed) == 0 {
		return PayloadNone
	}
	if trimmed[0] == '<' {
		return PayloadXML
	}
	return PayloadBinary
}

func encodeHeader(h *Header) ([]byte, error) {
	buf := make([]byte, h.HeaderLen())
	magic := MagicModern
	if h.Kind == KindLegacy {
		magic = MagicLegacy
	}
	binary.LittleEndian.PutUint32(buf[0:4], magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.MsgID)
	binary.LittleEndian.PutUint32(buf[8:12], h.PayloadLen)

	flags := byte(0)
	if h.Encrypted {
		flags |= encryptedBit
	}

	switch h.Kind {
	case KindLegacy:
		buf[12] = flags
		buf[13] = h.ResponseCode
		binary.LittleEndian.PutUint16(buf[14:16], h.Class)
		binary.LittleEndian.PutUint32(buf[16:20], h.EncOffset)
	case KindModern:
		flags |= (h.StreamType & streamTypeMask) << streamTypeShift
		buf[12] = flags
		buf[13] = h.ResponseCode
		binary.LittleEndian.PutUint16(buf[14:16], h.Class)
		binary.LittleEndian.PutUint32(buf[16:20], h.BinOffset)
		binary.LittleEndian.PutUint32(buf[20:24], h.MsgNum)
	default:
		return nil, fmt.Errorf("%w: unset header kind", errMalformedHeader)
	}
	return buf, nil
}

func decodeTail(h *Header, tail []byte) {
	flags := tail[0]
	h.Encrypted = flags&encryptedBit != 0
	h.ResponseCode = tail[1]
	h.Class = binary.LittleEndian.Uint16(tail[2:4])

	switch h.Kind {
	case KindLegacy:
		h.EncOffset = binary.LittleEndian.Uint32(tail[4:8])
	case KindModern:
		h.StreamType = (flags >> streamTypeShift) & streamTypeMask
		h.BinOffset = binary.LittleEndian.Uint32(tail[4:8])
		h.MsgNum = binary.LittleEndian.Uint32(tail[8:12])
	}
}

func encodeLegacyLogin(l *LegacyLogin) []byte {
	buf := make([]byte, legacyLoginFieldLen*2)
	copy(buf[0:legacyLoginFieldLen], l.Username)
	copy(buf[legacyLoginFieldLen:], l.Password)
	return buf
}

func decodeLegacyLogin(msgID uint32, body []byte) (*LegacyLogin, error) {
	if msgID != MsgIDLogin {
		return nil, fmt.Errorf("%w: legacy msg_id %d", errUnsupportedBody, msgID)
	}
	if len(body) != legacyLoginFieldLen*2 {
		return nil, fmt.Errorf("%w: legacy login body length %d", errMalformedHeader, len(body))
	}
	return &LegacyLogin{
		Username: trimNUL(body[0:legacyLoginFieldLen]),
		Password: trimNUL(body[legacyLoginFieldLen:]),
	}, nil
}

func trimNUL(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
