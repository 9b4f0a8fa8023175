// Package bccamera implements C5, the camera session: the login state
// machine, message-number allocation, and the thin request/reply helpers
// built on top of one pkg/bcconn Connection.
package bccamera

import (
	"context"
	"fmt"
	"time"

	"github.com/oakcam/neolink/pkg/bcconn"
	"github.com/oakcam/neolink/pkg/bcerrors"
	"github.com/oakcam/neolink/pkg/bcwire"
	"github.com/oakcam/neolink/pkg/bcxml"
)

// RXTimeout bounds every helper's reply wait (§4.5).
const RXTimeout = 5 * time.Second

// classOpaque is the wire "class" tag this client always sends. Per §9 its
// meaning is undetermined across firmware variants; this implementation
// treats it as opaque and never branches on a received value.
const classOpaque uint16 = 0x6414

// Session is one authenticated BC connection to a camera.
type Session struct {
	conn     *bcconn.Connection
	username string
	password string
	nonce    string

	state stateBox
}

// State returns the session's current login-handshake state.
func (s *Session) State() State { return s.state.get() }

// Connect dials addr and runs the full login handshake. On any failure the
// session transitions to Failed and the underlying connection is closed;
// login is atomic, there is no half-authenticated session to hand back.
func Connect(ctx context.Context, addr, username, password string) (*Session, error) {
	conn, err := bcconn.Dial(ctx, addr)
	if err != nil {
		return nil, err
	}

	s := &Session{conn: conn, username: username, password: password}
	s.state.set(StateConnected)

	if err := s.login(); err != nil {
		s.state.set(StateFailed)
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection. It sends no logout notice;
// call Logout first for that.
func (s *Session) Close() error {
	return s.conn.Close()
}

func (s *Session) login() error {
	if err := s.legacyLogin(); err != nil {
		return err
	}
	return s.modernLogin()
}

func (s *Session) legacyLogin() error {
	sub, err := s.conn.Subscribe(bcwire.MsgIDLogin)
	if err != nil {
		return err
	}
	defer sub.Close()

	pkt := &bcwire.Packet{
		Header: bcwire.Header{Kind: bcwire.KindLegacy},
		LegacyLogin: &bcwire.LegacyLogin{
			Username: MD5Trunc(s.username, ZeroLast),
			Password: MD5Trunc(s.password, ZeroLast),
		},
	}
	if err := sub.Send(pkt); err != nil {
		return err
	}

	reply, err := sub.Recv(RXTimeout)
	if err != nil {
		return err
	}

	var body bcxml.BcXml
	if err := bcxml.Unmarshal(reply.PayloadBytes, &body); err != nil {
		return &bcerrors.UnintelligibleReply{Why: "legacy login reply is not XML", Reply: reply}
	}
	if body.Encryption == nil || body.Encryption.Nonce == "" {
		return &bcerrors.UnintelligibleReply{Why: "legacy login reply carried no nonce", Reply: body}
	}

	s.conn.InstallKey(bcwire.NonceKey(body.Encryption.Nonce))
	s.state.set(StateNonceNegotiated)
	s.nonce = body.Encryption.Nonce
	return nil
}

func (s *Session) modernLogin() error {
	sub, err := s.conn.Subscribe(bcwire.MsgIDLogin)
	if err != nil {
		return err
	}
	defer sub.Close()

	xmlBody, err := bcxml.Marshal(&bcxml.BcXml{
		LoginUser: &bcxml.LoginUser{
			UserName: MD5Trunc(s.username+s.nonce, Truncate),
			Password: MD5Trunc(s.password+s.nonce, Truncate),
			UserVer:  1,
		},
		LoginNet: &bcxml.LoginNet{Type: "LAN", UdpPort: 0},
	})
	if err != nil {
		return err
	}

	pkt := bcwire.NewModernXML(bcwire.MsgIDLogin, 0, false, classOpaque, xmlBody)
	if err := sub.Send(pkt); err != nil {
		return err
	}

	reply, err := sub.Recv(RXTimeout)
	if err != nil {
		return err
	}

	if len(reply.PayloadBytes) == 0 {
		return bcerrors.ErrAuthFailed
	}

	var body bcxml.BcXml
	if err := bcxml.Unmarshal(reply.PayloadBytes, &body); err != nil {
		return &bcerrors.UnintelligibleReply{Why: "modern login reply is not XML", Reply: reply}
	}
	if body.DeviceInfo == nil {
		return &bcerrors.UnintelligibleReply{Why: "modern login reply carried no DeviceInfo", Reply: body}
	}

	s.conn.InstallKey(bcwire.PasswordKey(s.password))
	s.state.set(StateLoggedIn)
	return nil
}

// Logout sends a best-effort logout notice; callers should still Close the
// session afterward.
func (s *Session) Logout() error {
	sub, err := s.conn.Subscribe(bcwire.MsgIDLogin)
	if err != nil {
		return err
	}
	defer sub.Close()

	xmlBody, err := bcxml.Marshal(&bcxml.BcXml{LoginUser: &bcxml.LoginUser{UserName: s.username}})
	if err != nil {
		return err
	}
	return sub.Send(bcwire.NewModernXML(bcwire.MsgIDLogin, 0, false, classOpaque, xmlBody))
}

func (s *Session) requestReply(msgID uint32, xmlBody []byte) (*bcwire.Packet, error) {
	sub, err := s.conn.Subscribe(msgID)
	if err != nil {
		return nil, err
	}
	defer sub.Close()

	if err := sub.Send(bcwire.NewModernXML(msgID, 0, false, classOpaque, xmlBody)); err != nil {
		return nil, err
	}
	return sub.Recv(RXTimeout)
}

// WarmupQuery fires every opaque post-login handshake query the reference
// client sends, ignoring the replies' shape — matching its "fire queries,
// ignore results" behavior during warm-up (spec.md §4.1's "full login
// sequence" note).
func (s *Session) WarmupQuery() {
	for _, id := range bcwire.WarmupQueryIDs {
		sub, err := s.conn.Subscribe(id)
		if err != nil {
			return
		}
		_ = sub.Send(bcwire.NewModernExtXML(id, 0, false, classOpaque, nil))
		sub.Close()
	}
}

// WaitForAuth blocks until the session reaches LoggedIn or Failed, or ctx
// is done. Connect already performs the handshake synchronously; this is
// for callers that observe a *Session handed to them mid-login.
func (s *Session) WaitForAuth(ctx context.Context) error {
	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()
	for {
		switch s.State() {
		case StateLoggedIn:
			return nil
		case StateFailed:
			return fmt.Errorf("%w: login failed", bcerrors.ErrAuthFailed)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
