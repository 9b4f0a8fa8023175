package bccamera

import (
	"errors"

	"github.com/oakcam/neolink/pkg/bcerrors"
	"github.com/oakcam/neolink/pkg/bcwire"
	"github.com/oakcam/neolink/pkg/bcxml"
)

// Ping sends a keepalive-shaped ping and waits for any reply.
func (s *Session) Ping() error {
	_, err := s.requestReply(bcwire.MsgIDPing, nil)
	return err
}

// GetLEDState fetches the current LED configuration for a channel.
func (s *Session) GetLEDState(channelID int) (*bcxml.LedState, error) {
	xmlBody, err := bcxml.Marshal(&bcxml.BcXml{LedState: &bcxml.LedState{ChannelID: channelID}})
	if err != nil {
		return nil, err
	}
	reply, err := s.requestReply(bcwire.MsgIDGetLEDStatus, xmlBody)
	if err != nil {
		return nil, err
	}
	var body bcxml.BcXml
	if err := bcxml.Unmarshal(reply.PayloadBytes, &body); err != nil {
		return nil, &bcerrors.UnintelligibleReply{Why: "get_led_state reply is not XML", Reply: reply}
	}
	if body.LedState == nil {
		return nil, &bcerrors.UnintelligibleReply{Why: "get_led_state reply carried no LedState", Reply: body}
	}
	return body.LedState, nil
}

// GetTalkAbility fetches what talk-back the camera supports, the shape
// pkg/talkin needs to size its ADPCM blocks.
func (s *Session) GetTalkAbility(channelID int) (*bcxml.TalkAbility, error) {
	ch := channelID
	extBytes, err := bcxml.Marshal(&bcxml.Extension{ChannelID: &ch})
	if err != nil {
		return nil, err
	}
	reply, err := s.requestReply(bcwire.MsgIDTalkAbility, extBytes)
	if err != nil {
		return nil, err
	}
	var body bcxml.BcXml
	if err := bcxml.Unmarshal(reply.PayloadBytes, &body); err != nil {
		return nil, &bcerrors.UnintelligibleReply{Why: "talk ability reply is not XML", Reply: reply}
	}
	if body.TalkAbility == nil {
		return nil, &bcerrors.UnintelligibleReply{Why: "talk ability reply carried no TalkAbility", Reply: body}
	}
	return body.TalkAbility, nil
}

// SetLEDState pushes a new LED configuration. Per §4.5 the set request must
// null the led_version field a prior get returned — firmware rejects a set
// that echoes it back.
func (s *Session) SetLEDState(state bcxml.LedState) error {
	state.LedVersion = nil
	xmlBody, err := bcxml.Marshal(&bcxml.BcXml{LedState: &state})
	if err != nil {
		return err
	}
	_, err = s.requestReply(bcwire.MsgIDSetLEDStatus, xmlBody)
	return err
}

// Reboot asks the camera to restart and waits up to RXTimeout for a reply.
// A disconnect during that wait counts as success, since the socket
// typically drops before a reply arrives; a timeout is returned as an error.
func (s *Session) Reboot() error {
	_, err := s.requestReply(bcwire.MsgIDReboot, nil)
	if err != nil && errors.Is(err, bcerrors.ErrDisconnected) {
		return nil
	}
	return err
}
