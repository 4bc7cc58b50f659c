package realtime

import (
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/DHEENA0007/squares-messaging/internal/config"
	"github.com/DHEENA0007/squares-messaging/pkg/errcode"
)

// Channel is the persistent push channel to the messaging backend.
// It delivers normalized inbound events and carries outbound signals.
// Lost connections are redialed with exponential backoff; the consumer
// is told about each successful reconnect so it can resync.
type Channel struct {
	cfg    config.RealtimeConfig
	token  string
	selfId string
	log    *logrus.Entry

	events chan Event

	mu          sync.Mutex
	conn        *wsConn
	onReconnect func()

	closed    atomic.Bool
	closeChan chan struct{}
}

// Dial connects the channel and starts its read loop
func Dial(cfg config.RealtimeConfig, token, selfId string, logger *logrus.Logger) (*Channel, error) {
	ch := &Channel{
		cfg:       cfg,
		token:     token,
		selfId:    selfId,
		log:       logger.WithField("component", "realtime"),
		events:    make(chan Event, cfg.EventChannelSize),
		closeChan: make(chan struct{}),
	}

	conn, err := ch.dial()
	if err != nil {
		return nil, err
	}
	ch.setConn(conn)

	go ch.run()

	return ch, nil
}

// Events returns the inbound event stream
func (ch *Channel) Events() <-chan Event {
	return ch.events
}

// SetOnReconnect registers a callback invoked after every successful redial
func (ch *Channel) SetOnReconnect(fn func()) {
	ch.mu.Lock()
	ch.onReconnect = fn
	ch.mu.Unlock()
}

// Emit sends an outbound signal for a conversation
func (ch *Channel) Emit(sig Signal, conversationId string) error {
	ch.mu.Lock()
	conn := ch.conn
	ch.mu.Unlock()

	if conn == nil {
		return errcode.ErrNotConnected
	}

	data, err := encodeSignal(sig, conversationId, uuid.NewString())
	if err != nil {
		return errcode.ErrInvalidParam.Wrap(err)
	}

	return conn.writeMessage(data)
}

// Close shuts the channel down
func (ch *Channel) Close() error {
	if !ch.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(ch.closeChan)

	ch.mu.Lock()
	conn := ch.conn
	ch.conn = nil
	ch.mu.Unlock()

	if conn != nil {
		conn.close()
	}
	return nil
}

func (ch *Channel) dial() (*wsConn, error) {
	u, err := url.Parse(ch.cfg.URL)
	if err != nil {
		return nil, errcode.ErrInvalidParam.Wrap(err)
	}
	q := u.Query()
	q.Set("token", ch.token)
	q.Set("send_id", ch.selfId)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, errcode.ErrNetwork.Wrap(err)
	}

	return newWsConn(conn, ch.cfg.MaxMessageSize, ch.cfg.PongWait, ch.cfg.PingPeriod,
		ch.cfg.WriteWait, ch.cfg.WriteChannelSize, ch.log), nil
}

func (ch *Channel) setConn(conn *wsConn) {
	ch.mu.Lock()
	ch.conn = conn
	ch.mu.Unlock()
}

// run reads frames until the connection drops, then redials. It is the
// only closer of the events channel: closing it here, after the last
// read has finished, keeps Close from racing an in-flight send.
func (ch *Channel) run() {
	defer close(ch.events)

	for {
		ch.mu.Lock()
		conn := ch.conn
		ch.mu.Unlock()

		if conn == nil {
			return
		}

		ch.readUntilClosed(conn)

		if ch.closed.Load() {
			return
		}

		if !ch.reconnect() {
			return
		}
	}
}

func (ch *Channel) readUntilClosed(conn *wsConn) {
	defer conn.close()

	for {
		message, err := conn.readMessage()
		if err != nil {
			if !ch.closed.Load() {
				ch.log.Debugf("read message error: %v", err)
			}
			return
		}

		var f frame
		if err := decode(message, &f); err != nil {
			ch.log.Warnf("bad frame: %v", err)
			continue
		}

		ev, err := decodeEvent(&f)
		if err != nil {
			ch.log.Warnf("bad event payload: type=%s, error=%v", f.Type, err)
			continue
		}

		select {
		case ch.events <- *ev:
		default:
			// event channel full, drop rather than stall the read loop
			ch.log.Warnf("event channel full, dropping %s", ev.Type)
		}
	}
}

// reconnect redials with exponential backoff; returns false when closed
func (ch *Channel) reconnect() bool {
	backoff := ch.cfg.ReconnectMin
	for {
		select {
		case <-ch.closeChan:
			return false
		case <-time.After(backoff):
		}

		conn, err := ch.dial()
		if err == nil {
			ch.setConn(conn)
			ch.log.Info("channel reconnected")

			ch.mu.Lock()
			fn := ch.onReconnect
			ch.mu.Unlock()
			if fn != nil {
				go fn()
			}
			return true
		}

		ch.log.Warnf("reconnect failed, retrying in %s: %v", backoff, err)
		backoff *= 2
		if backoff > ch.cfg.ReconnectMax {
			backoff = ch.cfg.ReconnectMax
		}
	}
}
