// Package ws is the websocket shell around the relay core: it upgrades
// connections, decodes frames into packets, feeds them to the orchestrator
// and fans broadcast packets out to colocated connections.
package ws

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"orbit-relay/internal/protocol"
	"orbit-relay/internal/relay"
	"orbit-relay/internal/room"
	"orbit-relay/internal/store"
)

// subscription is the copy of a session's placement the fan-out path reads.
// Only the owning connection's read loop writes it (under the gateway lock),
// so broadcasts never touch another session's own fields.
type subscription struct {
	accountID int32
	roomID    uint32
	levelID   int64
	authed    bool
}

type Gateway struct {
	orch      *relay.Orchestrator
	rooms     *room.Manager
	upgrader  websocket.Upgrader
	readLimit int64

	mu      sync.RWMutex
	clients map[*Client]subscription
}

// NewGateway builds the gateway without its orchestrator; the two reference
// each other (the gateway is the orchestrator's broadcaster), so the caller
// wires the orchestrator in with SetOrchestrator before serving.
func NewGateway(rooms *room.Manager, readLimit int64) *Gateway {
	return &Gateway{
		rooms:     rooms,
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		readLimit: readLimit,
		clients:   make(map[*Client]subscription),
	}
}

func (g *Gateway) SetOrchestrator(orch *relay.Orchestrator) { g.orch = orch }

// ClientCount reports the number of open connections.
func (g *Gateway) ClientCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.clients)
}

// HandleWS upgrades the connection and runs its read loop. An optional
// ?room=<id> query pins the session to that room, creating it if needed.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if g.readLimit > 0 {
		conn.SetReadLimit(g.readLimit)
	}

	sess := &relay.Session{ID: store.NewID(), RoomID: room.GlobalRoomID}
	if raw := r.URL.Query().Get("room"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil && id != room.GlobalRoomID {
			g.rooms.CreateRoom(uint32(id))
			sess.RoomID = uint32(id)
		}
	}

	c := newClient(conn, sess)
	g.register(c)
	go c.writeLoop()

	log.Debug().Str("session_id", sess.ID).Uint32("room_id", sess.RoomID).Msg("connection opened")
	g.readLoop(c)
}

func (g *Gateway) register(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[c] = subscription{roomID: c.sess.RoomID}
}

func (g *Gateway) unregister(c *Client) {
	g.mu.Lock()
	delete(g.clients, c)
	g.mu.Unlock()
	close(c.done)
}

// syncSubscription publishes the session's current placement for the fan-out
// path. Called by the owning read loop after every handled packet.
func (g *Gateway) syncSubscription(c *Client) {
	sub := subscription{
		accountID: c.sess.AccountID,
		roomID:    c.sess.RoomID,
		levelID:   c.sess.LevelID,
		authed:    c.sess.Authenticated,
	}
	g.mu.Lock()
	if _, ok := g.clients[c]; ok {
		g.clients[c] = sub
	}
	g.mu.Unlock()
}

func (g *Gateway) readLoop(c *Client) {
	defer func() {
		g.unregister(c)
		g.orch.Disconnect(c.sess)
		_ = c.conn.Close()
		log.Debug().Str("session_id", c.sess.ID).Msg("connection closed")
	}()

	for {
		kind, frame, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}

		pkt, err := protocol.DecodeClient(frame)
		if err != nil {
			log.Warn().Err(err).Str("session_id", c.sess.ID).Msg("bad frame")
			continue
		}

		if err := g.orch.Handle(c.sess, pkt); err != nil {
			if errors.Is(err, relay.ErrNotAuthenticated) {
				// Failed login or packet before login: drain the queue briefly
				// via close; the client gets the LoginFailed reply if queued.
				return
			}
			log.Warn().Err(err).Str("session_id", c.sess.ID).Uint16("tag", uint16(pkt.Tag())).Msg("packet rejected")
			continue
		}
		g.syncSubscription(c)
	}
}

// fanOut delivers one encoded frame to every authenticated connection on the
// (level, room), except the sender. Delivery is independent per recipient; a
// full queue drops that recipient's copy and nothing else.
func (g *Gateway) fanOut(frame []byte, senderID int32, levelID int64, roomID uint32) (sent, dropped int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for c, sub := range g.clients {
		if !sub.authed || sub.accountID == senderID || sub.levelID != levelID || sub.roomID != roomID {
			continue
		}
		if err := c.SendFrame(frame); err != nil {
			dropped++
			continue
		}
		sent++
	}
	return sent, dropped
}

func (g *Gateway) BroadcastVoice(pkt *protocol.VoiceBroadcast, levelID int64, roomID uint32) {
	frame, err := protocol.Encode(pkt)
	if err != nil {
		log.Error().Err(err).Msg("voice broadcast encode failed")
		return
	}
	sent, dropped := g.fanOut(frame, pkt.PlayerID, levelID, roomID)
	log.Debug().Int32("player_id", pkt.PlayerID).Int64("level_id", levelID).Int("sent", sent).Int("dropped", dropped).Msg("voice broadcast")
}

func (g *Gateway) BroadcastChat(pkt *protocol.ChatMessageBroadcast, levelID int64, roomID uint32) {
	frame, err := protocol.Encode(pkt)
	if err != nil {
		log.Error().Err(err).Msg("chat broadcast encode failed")
		return
	}
	sent, dropped := g.fanOut(frame, pkt.PlayerID, levelID, roomID)
	log.Debug().Int32("player_id", pkt.PlayerID).Int64("level_id", levelID).Int("sent", sent).Int("dropped", dropped).Msg("chat broadcast")
}
