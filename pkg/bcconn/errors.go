package bcconn

import (
	"errors"
	"io"

	"github.com/oakcam/neolink/pkg/bcerrors"
	"github.com/oakcam/neolink/pkg/bcwire"
)

// classifyReadErr maps a bcwire.Decode failure to the session-terminal
// error the rest of the package (and its callers) match on. A clean EOF or
// a short read mid-packet both mean the socket is gone; a malformed header
// or body means the framing itself is corrupt — either way the connection
// cannot continue (§7: "terminal for the packet, not the session, unless
// framing is lost" — for this transport, losing sync on length-prefixed
// framing always loses it).
func classifyReadErr(err error) error {
	if errors.Is(err, io.EOF) {
		return bcerrors.ErrDisconnected
	}
	if bcwire.IsIncomplete(err) {
		return bcerrors.ErrCommunication
	}
	return err
}
