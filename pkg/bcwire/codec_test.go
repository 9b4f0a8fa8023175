package bcwire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModernXMLRoundTrip(t *testing.T) {
	p := NewModernXML(MsgIDVideo, 7, false, 0x6414, []byte("<body><LoginUser/></body>"))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, p, IdentityKey()))

	got, err := Decode(&buf, IdentityKey())
	require.NoError(t, err)

	assert.Equal(t, KindModern, got.Header.Kind)
	assert.Equal(t, MsgIDVideo, got.Header.MsgID)
	assert.Equal(t, uint32(7), got.Header.MsgNum)
	assert.Equal(t, PayloadXML, got.PayloadKind)
	assert.Equal(t, p.PayloadBytes, got.PayloadBytes)
	assert.Empty(t, got.ExtensionBytes)
}

func TestModernEncryptedRoundTrip(t *testing.T) {
	p := NewModernXML(MsgIDPing, 1, true, 0x6414, []byte("<body/>"))
	key := NonceKey("abc123")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, p, key))

	got, err := Decode(&buf, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("<body/>"), got.PayloadBytes)
}

func TestModernEncryptedRoundTripWrongKeyGarbles(t *testing.T) {
	p := NewModernXML(MsgIDPing, 1, true, 0x6414, []byte("<body/>"))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, p, NonceKey("right-key")))

	got, err := Decode(&buf, NonceKey("wrong-key"))
	require.NoError(t, err) // decode succeeds; the bytes are simply wrong
	assert.NotEqual(t, []byte("<body/>"), got.PayloadBytes)
}

func TestExtensionAndPayloadSplit(t *testing.T) {
	p := &Packet{
		Header:         Header{Kind: KindModern, MsgID: MsgIDVideo},
		ExtensionBytes: []byte("<Extension/>"),
		PayloadKind:    PayloadBinary,
		PayloadBytes:   []byte{0x01, 0x02, 0x03},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, p, IdentityKey()))

	got, err := Decode(&buf, IdentityKey())
	require.NoError(t, err)
	assert.Equal(t, []byte("<Extension/>"), got.ExtensionBytes)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, got.PayloadBytes)
	assert.Equal(t, PayloadBinary, got.PayloadKind)
}

func TestLegacyLoginRoundTrip(t *testing.T) {
	p := &Packet{
		Header: Header{Kind: KindLegacy, MsgID: MsgIDLogin},
		LegacyLogin: &LegacyLogin{
			Username: "21232F297A57A5A743894A0E4A801FC",
			Password: "D41D8CD98F00B204E9800998ECF8427",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, p, IdentityKey()))
	assert.Equal(t, HeaderLenLegacy+legacyLoginFieldLen*2, buf.Len())

	got, err := Decode(&buf, IdentityKey())
	require.NoError(t, err)
	require.NotNil(t, got.LegacyLogin)
	assert.Equal(t, p.LegacyLogin.Username, got.LegacyLogin.Username)
	assert.Equal(t, p.LegacyLogin.Password, got.LegacyLogin.Password)
}

func TestDecodeUnknownMagicIsMalformed(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, commonPrefixLen))
	_, err := Decode(buf, IdentityKey())
	assert.Error(t, err)
}

func TestDecodeShortReadBeforeAnyByteIsEOF(t *testing.T) {
	_, err := Decode(bytes.NewReader(nil), IdentityKey())
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeIncompleteHeaderReportsNeeded(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, 4)) // less than the 12-byte common prefix
	_, err := Decode(buf, IdentityKey())
	var incomplete *IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, commonPrefixLen-4, incomplete.Needed)
}
