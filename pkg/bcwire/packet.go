package bcwire

// PayloadKind classifies the modern-packet payload region (the bytes after
// the extension prefix): it is ambiguous on the wire, so the codec peeks at
// the first non-whitespace byte to decide.
type PayloadKind uint8

const (
	PayloadNone PayloadKind = iota
	PayloadXML
	PayloadBinary
)

// LegacyLogin is the one fixed-layout legacy body this system speaks: the
// very first login packet, 32-byte username + 32-byte password.
type LegacyLogin struct {
	Username string
	Password string
}

const legacyLoginFieldLen = 32

// Packet is one decoded/to-be-encoded BC packet: header plus whichever body
// shape its Header.Kind calls for.
type Packet struct {
	Header Header

	// Legacy-only.
	LegacyLogin *LegacyLogin

	// Modern-only. ExtensionBytes is the UTF-8 XML prefix (len ==
	// Header.BinOffset); PayloadBytes is whatever follows, classified by Kind.
	ExtensionBytes []byte
	PayloadKind    PayloadKind
	PayloadBytes   []byte
}

// NewModernXML builds a modern packet carrying only an XML payload (no
// extension), the common shape for most control requests.
func NewModernXML(msgID uint32, msgNum uint32, encrypted bool, class uint16, xmlBody []byte) *Packet {
	return &Packet{
		Header: Header{
			Kind:      KindModern,
			MsgID:     msgID,
			MsgNum:    msgNum,
			Encrypted: encrypted,
			Class:     class,
		},
		PayloadKind:  PayloadXML,
		PayloadBytes: xmlBody,
	}
}

// NewModernExtXML builds a modern packet carrying only an extension (no
// payload region) — used by the opaque post-login warm-up queries.
func NewModernExtXML(msgID uint32, msgNum uint32, encrypted bool, class uint16, extXML []byte) *Packet {
	return &Packet{
		Header: Header{
			Kind:      KindModern,
			MsgID:     msgID,
			MsgNum:    msgNum,
			Encrypted: encrypted,
			Class:     class,
		},
		ExtensionBytes: extXML,
	}
}
