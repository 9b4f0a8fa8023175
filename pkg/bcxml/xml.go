// Package bcxml implements C2, the XML value model: the discriminated
// envelope every BC control-channel body is encoded/decoded as, using the
// standard library's encoding/xml (the wire format itself is XML, so no
// third-party XML library earns its keep over the stdlib encoder/decoder —
// see DESIGN.md).
package bcxml

import "encoding/xml"

// BcXml is the root envelope for the payload region of a modern packet.
// A request usually populates one child (the modern login request carries
// LoginUser and LoginNet together); on receive, unrecognized
// children are silently ignored by encoding/xml's default behavior (fields
// with no matching tag are simply left zero) rather than causing a decode
// error.
type BcXml struct {
	XMLName xml.Name `xml:"body"`

	Encryption    *Encryption    `xml:"Encryption,omitempty"`
	LoginUser     *LoginUser     `xml:"LoginUser,omitempty"`
	LoginNet      *LoginNet      `xml:"LoginNet,omitempty"`
	DeviceInfo    *DeviceInfo    `xml:"DeviceInfo,omitempty"`
	Preview       *Preview       `xml:"Preview,omitempty"`
	LedState      *LedState      `xml:"LedState,omitempty"`
	AlarmEventList *AlarmEventList `xml:"AlarmEventList,omitempty"`
	TalkAbility   *TalkAbility   `xml:"TalkAbility,omitempty"`
	TalkConfig    *TalkConfig    `xml:"TalkConfig,omitempty"`
}

// Extension is the second, distinct envelope root: the XML prefix of a
// modern body, terminated at binary_offset.
type Extension struct {
	XMLName xml.Name `xml:"Extension"`

	ChannelID *int    `xml:"channelId,omitempty"`
	UserName  *string `xml:"userName,omitempty"`
	Token     *string `xml:"token,omitempty"`
	Version   *string `xml:"version,omitempty"`
}

// Encryption carries the nonce the camera hands back after legacy login.
type Encryption struct {
	Nonce string `xml:"nonce"`
	Type  string `xml:"type"`
}

// LoginUser is the modern-login credential body.
type LoginUser struct {
	UserName string `xml:"userName"`
	Password string `xml:"password"`
	UserVer  int    `xml:"userVer"`
	Version  string `xml:"version,omitempty"`
}

// LoginNet accompanies LoginUser in the modern login request; its exact
// shape is opaque to this client beyond the two fields every firmware
// variant observed in original_source populates.
type LoginNet struct {
	Type     string `xml:"type"`
	UdpPort  int    `xml:"udpPort"`
}

// DeviceInfo is the modern-login success reply.
type DeviceInfo struct {
	FirmwareVersion string `xml:"firmwareVersion,omitempty"`
	DeviceType      string `xml:"type,omitempty"`
	Channel         int    `xml:"channelNum,omitempty"`
}

// Preview requests a video stream (id 3).
type Preview struct {
	ChannelID  int    `xml:"channelId"`
	Handle     int    `xml:"handle"`
	StreamType string `xml:"streamType"`
}

// LedState is both the get-reply and the set-request shape. LedVersion is
// only ever populated on a get; a set must leave it nil (see §4.5).
type LedState struct {
	ChannelID  int  `xml:"channelId"`
	LightState int  `xml:"lightState"`
	State      int  `xml:"state"`
	LedVersion *int `xml:"ledVersion,omitempty"`
}

// AlarmEventList wraps the unsolicited motion events delivered on id 33.
type AlarmEventList struct {
	Events []AlarmEvent `xml:"AlarmEvent"`
}

// AlarmEvent is one entry in an AlarmEventList.
type AlarmEvent struct {
	ChannelID int `xml:"channelId"`
	Status    int `xml:"status"`
}

// TalkAbility is the camera's reply describing what talk-back it supports.
type TalkAbility struct {
	DuplexList          []string      `xml:"duplexList>duplex,omitempty"`
	AudioStreamModeList []string      `xml:"audioStreamModeList>audioStreamMode,omitempty"`
	AudioConfigList     []AudioConfig `xml:"audioConfigList>audioConfig,omitempty"`
}

// AudioConfig is one entry in TalkAbility.AudioConfigList; talkin.BlockSize
// (pkg/talkin) derives its block size from LengthPerEncoder.
type AudioConfig struct {
	SampleRate       int `xml:"sampleRate"`
	LengthPerEncoder int `xml:"lengthPerEncoder"`
}

// TalkConfig is the start-talk request body.
type TalkConfig struct {
	ChannelID  int    `xml:"channelId"`
	Duplex     string `xml:"duplex"`
	AudioType  string `xml:"audioType"`
	SampleRate int    `xml:"sampleRate"`
}
