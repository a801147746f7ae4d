package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"devtinder/internal/models"
	"devtinder/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event names of the socket protocol.
const (
	EventJoinChat        = "joinChat"
	EventSendMessage     = "sendMessage"
	EventMessageReceived = "messageReceived"
	EventMessageError    = "messageError"
)

const (
	msgSendFailed  = "Failed to send message"
	msgInvalidUser = "Invalid user"
	eventTimeout   = 10 * time.Second
)

// Envelope is the frame shape in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinChat is the payload of a joinChat event.
type JoinChat struct {
	SelfID      string `json:"selfId"`
	OtherID     string `json:"otherId"`
	DisplayName string `json:"displayName"`
}

// SendMessage is the payload of a sendMessage event.
type SendMessage struct {
	SelfID          string `json:"selfId"`
	OtherID         string `json:"otherId"`
	Text            string `json:"text"`
	DisplayName     string `json:"displayName"`
	DisplayLastName string `json:"displayLastName"`
}

// MessageReceived is broadcast to a room after a message is stored.
type MessageReceived struct {
	DisplayName     string `json:"displayName"`
	DisplayLastName string `json:"displayLastName"`
	Text            string `json:"text"`
}

// MessageError is sent only to the client whose event failed.
type MessageError struct {
	Message string `json:"message"`
}

// Authenticator resolves a session token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// MessageSender checks authorization and persists a chat message.
type MessageSender interface {
	SendMessage(ctx context.Context, senderID, recipientID, text string) (*models.Message, error)
}

// Gateway upgrades authenticated HTTP requests to websockets and runs the chat protocol.
type Gateway struct {
	hub      *Hub
	auth     Authenticator
	chat     MessageSender
	upgrader websocket.Upgrader
}

// NewGateway creates a Gateway. allowedOrigins may contain "*" to accept any origin.
func NewGateway(hub *Hub, auth Authenticator, chat MessageSender, allowedOrigins []string) *Gateway {
	g := &Gateway{hub: hub, auth: auth, chat: chat}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return g
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// ServeHTTP authenticates the upgrade with the token cookie or the token query parameter,
// then serves the connection until it closes.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		token = cookie.Value
	}
	user, err := g.auth.Authenticate(r.Context(), token)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	c := newClient(conn, user)
	if !g.hub.Register(c) {
		c.close()
		return
	}
	log.Printf("Socket %s connected for user %s", c.ID, user.ID)

	go c.writePump()
	c.readPump(g.handle)
	g.hub.Remove(c)
	log.Printf("Socket %s disconnected", c.ID)
}

// handle runs one event. A panic is contained to the event that caused it.
func (g *Gateway) handle(c *Client, frame []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Recovered from panic handling frame from %s: %v", c.ID, rec)
			g.sendError(c, msgSendFailed)
		}
	}()

	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		g.sendError(c, "Invalid message format")
		return
	}

	switch env.Event {
	case EventJoinChat:
		var p JoinChat
		if err := json.Unmarshal(env.Data, &p); err != nil {
			g.sendError(c, "Invalid joinChat payload")
			return
		}
		g.joinChat(c, p)
	case EventSendMessage:
		var p SendMessage
		if err := json.Unmarshal(env.Data, &p); err != nil {
			g.sendError(c, "Invalid sendMessage payload")
			return
		}
		g.sendMessage(c, p)
	default:
		g.sendError(c, "Unknown event: "+env.Event)
	}
}

func (g *Gateway) joinChat(c *Client, p JoinChat) {
	if !g.ownsIdentity(c, p.SelfID) || !wellFormed(p.OtherID) {
		g.sendError(c, msgInvalidUser)
		return
	}
	room := RoomID(p.SelfID, p.OtherID)
	g.hub.Join(room, c)
	name := p.DisplayName
	if name == "" {
		name = c.User.FirstName
	}
	log.Printf("%s joined room %s", name, room)
}

func (g *Gateway) sendMessage(c *Client, p SendMessage) {
	if !g.ownsIdentity(c, p.SelfID) || !wellFormed(p.OtherID) {
		g.sendError(c, msgInvalidUser)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	msg, err := g.chat.SendMessage(ctx, p.SelfID, p.OtherID, p.Text)
	if err != nil {
		var svcErr *services.Error
		if errors.As(err, &svcErr) && svcErr.Kind != services.KindInternal {
			log.Printf("Rejected message from %s to %s: %s", p.SelfID, p.OtherID, svcErr.Code)
			g.sendError(c, svcErr.Message)
			return
		}
		log.Printf("Failed to store message from %s to %s: %v", p.SelfID, p.OtherID, err)
		g.sendError(c, msgSendFailed)
		return
	}

	out := MessageReceived{
		DisplayName:     p.DisplayName,
		DisplayLastName: p.DisplayLastName,
		Text:            msg.Text,
	}
	if out.DisplayName == "" {
		out.DisplayName = c.User.FirstName
	}
	if out.DisplayLastName == "" {
		out.DisplayLastName = c.User.LastName
	}
	frame, err := encode(EventMessageReceived, out)
	if err != nil {
		log.Printf("Failed to encode %s: %v", EventMessageReceived, err)
		return
	}
	g.hub.Broadcast(RoomID(p.SelfID, p.OtherID), frame)
}

// ownsIdentity rejects events that claim to come from someone other than the socket's user.
func (g *Gateway) ownsIdentity(c *Client, selfID string) bool {
	return wellFormed(selfID) && selfID == c.User.ID
}

func (g *Gateway) sendError(c *Client, message string) {
	frame, err := encode(EventMessageError, MessageError{Message: message})
	if err != nil {
		return
	}
	c.enqueue(frame)
}

func encode(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

func wellFormed(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
