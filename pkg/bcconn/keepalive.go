package bcconn

import (
	"github.com/oakcam/neolink/pkg/bcwire"
)

// sendKeepalive fires a fire-and-forget ping when the writer has been idle.
// It never blocks waiting for a reply and never fails the connection on
// its own account — a dropped keepalive surfaces through the next real
// read/write instead.
func (c *Connection) sendKeepalive() {
	pkt := bcwire.NewModernXML(bcwire.MsgIDPing, c.NextMsgNum(), false, 0x6414, nil)
	w := outboundWrite{pkt: pkt, done: make(chan error, 1)}
	select {
	case c.out <- w:
	default:
	}
}
