// Package bcconn implements C3 and C4: one BC connection's multiplexer
// (reader/writer/keepalive goroutines, dispatch-by-msg_id, encryption-key
// install) and the Subscription handle users receive and drain from.
package bcconn

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/oakcam/neolink/pkg/bcerrors"
	"github.com/oakcam/neolink/pkg/bclog"
	"github.com/oakcam/neolink/pkg/bcwire"
)

const (
	readBufferSize  = 64 * 1024
	writeQueueDepth = 64
	keepaliveEvery  = 3 * time.Second
)

type subscriberEntry struct {
	handle uint64
	ch     chan *bcwire.Packet
}

// Connection owns one TCP socket speaking BC and the three cooperating
// goroutines (reader, writer, keepalive) spec.md §4.3 describes.
type Connection struct {
	conn   net.Conn
	reader *bufio.Reader

	key atomic.Pointer[bcwire.KeyState]

	mu       sync.RWMutex
	byMsgID  map[uint32][]*subscriberEntry
	nextH    uint64
	msgNum   atomic.Uint32
	lastTX   atomic.Int64 // unix nanos of last successful write

	out chan outboundWrite

	failed   atomic.Bool
	failErr  atomic.Pointer[error]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	connClosed chan struct{}
	closeOnce  sync.Once

	log zerolog.Logger
}

type outboundWrite struct {
	pkt  *bcwire.Packet
	done chan error
}

// Dial opens addr and starts the connection's goroutines. The caller must
// call Close to release the socket and unblock every live subscription.
func Dial(ctx context.Context, addr string) (*Connection, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", bcerrors.ErrCommunication, addr, err)
	}
	return newConnection(conn), nil
}

func newConnection(conn net.Conn) *Connection {
	cctx, cancel := context.WithCancel(context.Background())
	c := &Connection{
		conn:   conn,
		reader: bufio.NewReaderSize(conn, readBufferSize),
		byMsgID: make(map[uint32][]*subscriberEntry),
		out:    make(chan outboundWrite, writeQueueDepth),
		ctx:    cctx,
		cancel: cancel,
		connClosed: make(chan struct{}),
		log:    bclog.Default().Component("bcconn"),
	}
	identity := bcwire.IdentityKey()
	c.key.Store(&identity)

	c.wg.Add(3)
	go c.readLoop()
	go c.writeLoop()
	go c.keepaliveLoop()
	return c
}

// InstallKey swaps the connection's encryption key. The reader and writer
// both read the key through the same atomic pointer, so a swap takes effect
// for the very next packet on each side without any lock held across I/O.
func (c *Connection) InstallKey(k bcwire.KeyState) {
	c.key.Store(&k)
}

func (c *Connection) currentKey() bcwire.KeyState {
	return *c.key.Load()
}

// NextMsgNum returns a fresh, monotonically increasing message number for
// a new request/reply exchange (testable property #5).
func (c *Connection) NextMsgNum() uint32 {
	return c.msgNum.Add(1)
}

// Subscribe registers a fresh inbound queue for msgID. Multiple concurrent
// subscriptions on the same msgID are allowed (e.g. several motion-event
// listeners); each receives every packet delivered for that id.
func (c *Connection) Subscribe(msgID uint32) (*Subscription, error) {
	if c.failed.Load() {
		return nil, c.terminalErr()
	}

	c.mu.Lock()
	h := c.nextH
	c.nextH++
	entry := &subscriberEntry{handle: h, ch: make(chan *bcwire.Packet, subscriptionQueueDepth)}
	c.byMsgID[msgID] = append(append([]*subscriberEntry{}, c.byMsgID[msgID]...), entry)
	c.mu.Unlock()

	return &Subscription{conn: c, msgID: msgID, handle: h, ch: entry.ch, closed: make(chan struct{})}, nil
}

func (c *Connection) unsubscribe(msgID uint32, handle uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.byMsgID[msgID]
	fresh := make([]*subscriberEntry, 0, len(entries))
	for _, e := range entries {
		if e.handle != handle {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) == 0 {
		delete(c.byMsgID, msgID)
	} else {
		c.byMsgID[msgID] = fresh
	}
}

// send enqueues pkt on the writer and waits for it to either reach the
// socket or the connection to fail/close.
func (c *Connection) send(pkt *bcwire.Packet) error {
	if c.failed.Load() {
		return c.terminalErr()
	}
	w := outboundWrite{pkt: pkt, done: make(chan error, 1)}
	select {
	case c.out <- w:
	case <-c.ctx.Done():
		return c.terminalErr()
	}
	select {
	case err := <-w.done:
		return err
	case <-c.ctx.Done():
		return c.terminalErr()
	}
}

// Close tears down the socket; the reader and writer goroutines exit and
// every live subscription observes Disconnected.
func (c *Connection) Close() error {
	c.fail(bcerrors.ErrDisconnected)
	err := c.conn.Close()
	c.wg.Wait()
	return err
}

func (c *Connection) terminalErr() error {
	if p := c.failErr.Load(); p != nil {
		return *p
	}
	return bcerrors.ErrDisconnected
}

// fail marks the connection terminally failed: every blocked Recv wakes via
// connClosed rather than via closing subscriber channels directly, which
// would race the reader's in-flight dispatch send on the same channel.
func (c *Connection) fail(err error) {
	if !c.failed.CompareAndSwap(false, true) {
		return
	}
	c.failErr.Store(&err)
	c.cancel()
	c.closeOnce.Do(func() { close(c.connClosed) })

	c.mu.Lock()
	c.byMsgID = make(map[uint32][]*subscriberEntry)
	c.mu.Unlock()
}

func (c *Connection) readLoop() {
	defer c.wg.Done()
	for {
		pkt, err := bcwire.Decode(c.reader, c.currentKey())
		if err != nil {
			c.fail(classifyReadErr(err))
			return
		}
		c.dispatch(pkt)
	}
}

func (c *Connection) dispatch(pkt *bcwire.Packet) {
	c.mu.RLock()
	entries := c.byMsgID[pkt.Header.MsgID]
	c.mu.RUnlock()

	if len(entries) == 0 {
		c.log.Warn().Uint32("msg_id", pkt.Header.MsgID).Msg("no subscriber, packet dropped")
		return
	}
	for _, e := range entries {
		select {
		case e.ch <- pkt:
		default:
			// Queue full: drop the oldest to make room, preserving
			// FIFO for everything that remains (§4.4 event-subscriber policy).
			select {
			case <-e.ch:
			default:
			}
			select {
			case e.ch <- pkt:
			default:
			}
		}
	}
}

func (c *Connection) writeLoop() {
	defer c.wg.Done()
	for {
		select {
		case w := <-c.out:
			err := bcwire.Encode(c.conn, w.pkt, c.currentKey())
			if err == nil {
				c.lastTX.Store(time.Now().UnixNano())
			} else {
				c.fail(bcerrors.ErrCommunication)
			}
			w.done <- err
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Connection) keepaliveLoop() {
	defer c.wg.Done()
	limiter := rate.NewLimiter(rate.Every(keepaliveEvery), 1)
	ticker := time.NewTicker(keepaliveEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if time.Since(time.Unix(0, c.lastTX.Load())) < keepaliveEvery {
				continue
			}
			if !limiter.Allow() {
				continue
			}
			c.sendKeepalive()
		}
	}
}
