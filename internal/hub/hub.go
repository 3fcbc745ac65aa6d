package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/de-code-ninja/qurio-backend/internal/event"
	"github.com/de-code-ninja/qurio-backend/internal/model"
)

const broadcastLookupTimeout = 5 * time.Second

// MessageStore is the slice of the message repository the relay needs.
type MessageStore interface {
	Append(ctx context.Context, senderID, receiverID, content, messageType, media string) (*model.Message, error)
	MarkRead(ctx context.Context, fromID, toID string) error
}

// UserDirectory resolves user IDs to their minimal profile projections for
// the online-users broadcast.
type UserDirectory interface {
	GetUsersByIDs(ctx context.Context, ids []string) ([]model.User, error)
}

// Hub relays chat events between connections. It owns the presence registry
// and the set of live clients; message durability is delegated to the store.
type Hub struct {
	presence *Presence
	store    MessageStore
	users    UserDirectory
	logger   *zap.Logger

	clients   map[*Client]struct{}
	clientsMu sync.RWMutex

	unregister chan *Client

	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub builds the relay. allowedOrigins guards the websocket upgrade; an
// empty list accepts any origin (development mode).
func NewHub(store MessageStore, users UserDirectory, allowedOrigins []string, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	h := &Hub{
		presence:   NewPresence(),
		store:      store,
		users:      users,
		logger:     logger,
		clients:    make(map[*Client]struct{}),
		unregister: make(chan *Client, 1024),
		ctx:        ctx,
		cancel:     cancel,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(origins) == 0 {
				return true
			}
			_, ok := origins[r.Header.Get("Origin")]
			return ok
		},
	}

	go h.run()

	return h
}

// Presence exposes the registry for read-only consumers (monitoring).
func (h *Hub) Presence() *Presence {
	return h.presence
}

// run is the manager loop; it serializes disconnect cleanup.
func (h *Hub) run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case c := <-h.unregister:
			h.removeClient(c)
		}
	}
}

func (h *Hub) addClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	h.clients[c] = struct{}{}
}

// removeClient handles the implicit disconnect event: drop the client from
// the live set, scan it out of the presence registry, and re-broadcast the
// online set if presence actually changed.
func (h *Hub) removeClient(c *Client) {
	h.clientsMu.Lock()
	if _, exists := h.clients[c]; !exists {
		h.clientsMu.Unlock()
		return
	}
	delete(h.clients, c)
	h.clientsMu.Unlock()

	userID, wasOnline := h.presence.Leave(c)
	c.Close()
	h.logger.Info("client removed",
		zap.String("client_id", c.ID),
		zap.String("user_id", userID),
	)

	if wasOnline {
		// off the manager loop so disconnect cleanup never waits on I/O
		go h.broadcastOnlineUsers()
	}
}

// snapshotClients copies the live-client set out so no send ever happens
// while the lock is held.
func (h *Hub) snapshotClients() []*Client {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

// route dispatches one inbound event. It runs on the owning client's read
// goroutine, so events from a single connection keep their receipt order.
func (h *Hub) route(ev event.WsEvent, c *Client) {
	switch ev.Event {
	case event.EventJoin:
		h.handleJoin(ev, c)
	case event.EventSendMessage:
		h.handleSendMessage(ev, c)
	case event.EventTyping, event.EventStopTyping:
		h.handleTyping(ev, c)
	case event.EventMarkRead:
		h.handleMarkRead(ev, c)
	default:
		h.logger.Warn("unknown event type",
			zap.String("event", ev.Event),
			zap.String("client_id", c.ID),
		)
	}
}

func (h *Hub) handleJoin(ev event.WsEvent, c *Client) {
	var payload event.JoinPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		h.logger.Warn("malformed join payload", zap.Error(err), zap.String("client_id", c.ID))
		return
	}
	if payload.UserID == "" {
		h.logger.Warn("join without userId", zap.String("client_id", c.ID))
		return
	}

	c.setUserID(payload.UserID)
	h.presence.Join(payload.UserID, c)
	h.logger.Info("user online",
		zap.String("user_id", payload.UserID),
		zap.String("client_id", c.ID),
	)

	h.broadcastOnlineUsers()
}

func (h *Hub) handleSendMessage(ev event.WsEvent, c *Client) {
	var payload event.SendMessagePayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		h.logger.Warn("malformed send-message payload", zap.Error(err), zap.String("client_id", c.ID))
		return
	}

	msg, err := h.store.Append(h.ctx, payload.SenderID, payload.ReceiverID,
		payload.Content, payload.MessageType, payload.Media)
	if err != nil {
		// fire-and-forget: an unpersisted message is never relayed, and the
		// sender gets no acknowledgment either way
		h.logger.Error("message not persisted, dropping",
			zap.Error(err),
			zap.String("sender_id", payload.SenderID),
			zap.String("receiver_id", payload.ReceiverID),
		)
		return
	}

	receiver, online := h.presence.Lookup(payload.ReceiverID)
	if !online {
		return
	}

	out, err := event.New(event.EventReceiveMessage, event.ReceiveMessagePayload{
		SenderID:    msg.SenderID,
		Content:     msg.Content,
		Media:       msg.Media,
		MessageType: msg.MessageType,
		Timestamp:   msg.Timestamp,
	})
	if err != nil {
		h.logger.Error("failed to build receive-message event", zap.Error(err))
		return
	}

	if !receiver.SafeSend(out, sendTimeout) {
		h.logger.Warn("forward to receiver failed",
			zap.String("receiver_id", payload.ReceiverID),
			zap.String("client_id", receiver.ID),
		)
	}
}

func (h *Hub) handleTyping(ev event.WsEvent, c *Client) {
	var payload event.TypingPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		h.logger.Warn("malformed typing payload", zap.Error(err), zap.String("client_id", c.ID))
		return
	}

	receiver, online := h.presence.Lookup(payload.ReceiverID)
	if !online {
		return
	}

	out, err := event.New(ev.Event, event.TypingPayload{SenderID: payload.SenderID})
	if err != nil {
		h.logger.Error("failed to build typing event", zap.Error(err))
		return
	}

	// best effort, never persisted
	receiver.SafeSend(out, sendTimeout)
}

func (h *Hub) handleMarkRead(ev event.WsEvent, c *Client) {
	var payload event.MarkReadPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		h.logger.Warn("malformed mark-read payload", zap.Error(err), zap.String("client_id", c.ID))
		return
	}
	if payload.From == "" || payload.To == "" {
		h.logger.Warn("mark-read missing identities", zap.String("client_id", c.ID))
		return
	}

	if err := h.store.MarkRead(h.ctx, payload.From, payload.To); err != nil {
		h.logger.Error("mark-read failed",
			zap.Error(err),
			zap.String("from", payload.From),
			zap.String("to", payload.To),
		)
		return
	}

	// tell the original sender their messages were seen
	sender, online := h.presence.Lookup(payload.From)
	if !online {
		return
	}

	out, err := event.New(event.EventMessagesSeen, event.MessagesSeenPayload{By: payload.To})
	if err != nil {
		h.logger.Error("failed to build messages-seen event", zap.Error(err))
		return
	}

	sender.SafeSend(out, sendTimeout)
}

// broadcastOnlineUsers materializes the current online set, joins it with
// minimal profile fields, and fans it out to every live connection. Targets
// are copied out before any send so no mutex is held during I/O.
func (h *Hub) broadcastOnlineUsers() {
	ids := h.presence.Snapshot()
	targets := h.snapshotClients()

	payload := make([]event.OnlineUser, 0, len(ids))
	if len(ids) > 0 {
		ctx, cancel := context.WithTimeout(h.ctx, broadcastLookupTimeout)
		defer cancel()

		users, err := h.users.GetUsersByIDs(ctx, ids)
		if err != nil {
			h.logger.Error("failed to resolve online user profiles", zap.Error(err))
			return
		}
		for _, u := range users {
			payload = append(payload, event.OnlineUser{
				ID:         u.UserID,
				Name:       u.Name,
				ProfilePic: u.ProfilePic,
			})
		}
	}

	out, err := event.New(event.EventOnlineUsers, payload)
	if err != nil {
		h.logger.Error("failed to build online-users event", zap.Error(err))
		return
	}

	for _, c := range targets {
		if !c.SafeSend(out, sendTimeout) {
			h.logger.Debug("online-users broadcast skipped client",
				zap.String("client_id", c.ID),
			)
		}
	}
}

// Stop cancels the manager loop and closes every live connection.
func (h *Hub) Stop() {
	h.cancel()

	for _, c := range h.snapshotClients() {
		c.Close()
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and registers
// the resulting client. Identity arrives later via the join event.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	RegisterClient(conn, h)
}
