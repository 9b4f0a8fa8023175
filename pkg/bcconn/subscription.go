package bcconn

import (
	"context"
	"sync"
	"time"

	"github.com/oakcam/neolink/pkg/bcerrors"
	"github.com/oakcam/neolink/pkg/bcwire"
)

// subscriptionQueueDepth is the bounded per-subscription queue size
// spec.md §4.4 suggests.
const subscriptionQueueDepth = 32

// Subscription is a single-consumer handle onto one msg_id's inbound
// packets. It is represented internally as an integer handle (not a raw
// back-pointer into the connection's dispatch table) so that Close can
// post an unregister without the table ever holding a reference back to
// the Subscription itself (§9 cyclic-ownership note).
type Subscription struct {
	conn   *Connection
	msgID  uint32
	handle uint64
	ch     chan *bcwire.Packet

	closed     chan struct{}
	closeOnce  sync.Once
}

// Send writes pkt via the connection's writer, after filling in this
// subscription's msg_id and a fresh msg_num for a new exchange.
func (s *Subscription) Send(pkt *bcwire.Packet) error {
	pkt.Header.MsgID = s.msgID
	if pkt.Header.MsgNum == 0 {
		pkt.Header.MsgNum = s.conn.NextMsgNum()
	}
	return s.conn.send(pkt)
}

// Recv pops one packet from this subscription's queue, waiting at most
// timeout. It reports bcerrors.ErrTimeout or bcerrors.ErrDisconnected.
func (s *Subscription) Recv(timeout time.Duration) (*bcwire.Packet, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.RecvContext(ctx)
}

// RecvContext is Recv with caller-supplied cancellation, used by helpers
// that need to combine a receive with the connection's own shutdown.
func (s *Subscription) RecvContext(ctx context.Context) (*bcwire.Packet, error) {
	select {
	case pkt, ok := <-s.ch:
		if !ok {
			return nil, bcerrors.ErrDisconnected
		}
		return pkt, nil
	case <-s.closed:
		return nil, bcerrors.ErrDisconnected
	case <-s.conn.connClosed:
		return nil, bcerrors.ErrDisconnected
	case <-ctx.Done():
		return nil, bcerrors.ErrTimeout
	}
}

// Close unregisters the subscription and wakes any blocked Recv with
// Disconnected (testable property #7). It is safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.conn.unsubscribe(s.msgID, s.handle)
		close(s.closed)
	})
}
