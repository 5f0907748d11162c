package ws

import (
	"errors"

	"github.com/gorilla/websocket"

	"orbit-relay/internal/protocol"
	"orbit-relay/internal/relay"
)

// ErrSlowConsumer marks a frame dropped because the peer's send queue was
// full. Dropping is deliberate: one slow connection must not stall a handler
// or a broadcast to anyone else.
var ErrSlowConsumer = errors.New("send queue full")

const sendQueueSize = 64

// Client is one websocket connection and its relay session. The read loop is
// the session's single writer; the write loop drains the send queue.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	sess *relay.Session
}

func newClient(conn *websocket.Conn, sess *relay.Session) *Client {
	c := &Client{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
		sess: sess,
	}
	sess.Sender = c
	return c
}

func (c *Client) Send(pkt protocol.Encodable) error {
	frame, err := protocol.Encode(pkt)
	if err != nil {
		return err
	}
	return c.SendFrame(frame)
}

// SendFrame enqueues a frame without blocking.
func (c *Client) SendFrame(frame []byte) error {
	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return ErrSlowConsumer
	default:
		return ErrSlowConsumer
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case frame := <-c.send:
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
