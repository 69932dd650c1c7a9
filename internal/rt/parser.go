package rt

import (
	"encoding/json"
	"time"

	"github.com/hafizhannan/baatcheet/internal/bus"
	"github.com/hafizhannan/baatcheet/internal/chat"
	"go.uber.org/zap"
)

// Parser normalizes server frames into typed reducer events. It decides at
// the transport boundary whether a message frame is an inbound message or
// the confirmation of an own one, so nothing downstream ever compares
// sender ids again.
type Parser struct {
	selfID string
	logger *zap.Logger
}

// NewParser creates a parser for the given current user.
func NewParser(selfID string, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{selfID: selfID, logger: logger}
}

type snapshotEntry struct {
	UserID string       `json:"userId"`
	User   chat.Contact `json:"user"`
}

type presencePayload struct {
	UserID   string     `json:"userId"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

type typingPayload struct {
	From string `json:"from"`
}

type messagePayload struct {
	Message chat.Message `json:"message"`
}

type messageIDPayload struct {
	MessageID string `json:"messageId"`
}

// Parse converts one frame into a bus kind and a reducer event.
// Returns ok=false for frames that are unknown, malformed, or filtered out;
// such frames are logged and dropped, never propagated as errors.
func (p *Parser) Parse(f Frame) (string, chat.Event, bool) {
	switch f.Event {
	case EvAllUsers:
		var payload struct {
			Users []snapshotEntry `json:"users"`
		}
		if !p.decode(f, &payload) {
			return "", nil, false
		}
		contacts := make([]chat.Contact, 0, len(payload.Users))
		for _, entry := range payload.Users {
			c := entry.User
			if c.ID == "" {
				c.ID = entry.UserID
			}
			if c.ID == "" || c.ID == p.selfID {
				continue
			}
			contacts = append(contacts, c)
		}
		return bus.KindRTSnapshot, chat.SnapshotLoaded{Contacts: contacts}, true

	case EvOnline:
		var payload presencePayload
		if !p.decode(f, &payload) {
			return "", nil, false
		}
		return bus.KindRTPresenceOnline, chat.PresenceChanged{ContactID: payload.UserID, Online: true}, true

	case EvOffline:
		var payload presencePayload
		if !p.decode(f, &payload) {
			return "", nil, false
		}
		return bus.KindRTPresenceOff, chat.PresenceChanged{
			ContactID:  payload.UserID,
			Online:     false,
			LastSeenAt: payload.LastSeen,
		}, true

	case EvBulkOnline:
		var payload struct {
			Users []presencePayload `json:"users"`
		}
		if !p.decode(f, &payload) {
			return "", nil, false
		}
		ids := make([]string, 0, len(payload.Users))
		for _, u := range payload.Users {
			ids = append(ids, u.UserID)
		}
		return bus.KindRTBulkOnline, chat.BulkOnline{ContactIDs: ids}, true

	case EvTypingOn:
		var payload typingPayload
		if !p.decode(f, &payload) {
			return "", nil, false
		}
		return bus.KindRTTypingStart, chat.TypingStarted{From: payload.From}, true

	case EvTypingOff:
		var payload typingPayload
		if !p.decode(f, &payload) {
			return "", nil, false
		}
		return bus.KindRTTypingStop, chat.TypingStopped{From: payload.From}, true

	case EvMsgNew:
		var payload messagePayload
		if !p.decode(f, &payload) {
			return "", nil, false
		}
		// The server broadcasts message:new to both parties; the sender's
		// authoritative copy arrives as message:sent instead.
		if payload.Message.From == p.selfID {
			return "", nil, false
		}
		return bus.KindRTInbound, chat.InboundMessageReceived{Message: payload.Message}, true

	case EvMsgSent:
		var payload messagePayload
		if !p.decode(f, &payload) {
			return "", nil, false
		}
		// An echo that is not from this account is someone else's.
		if payload.Message.From != p.selfID {
			return "", nil, false
		}
		return bus.KindRTOwnConfirmed, chat.OwnMessageConfirmed{Message: payload.Message}, true

	case EvMsgSeen:
		var payload messageIDPayload
		if !p.decode(f, &payload) {
			return "", nil, false
		}
		return bus.KindRTSeen, chat.MessageSeen{MessageID: payload.MessageID, At: time.Now()}, true

	case EvMsgDeleted:
		var payload messageIDPayload
		if !p.decode(f, &payload) {
			return "", nil, false
		}
		return bus.KindRTDeleted, chat.MessageDeleted{MessageID: payload.MessageID}, true
	}

	p.logger.Debug("unknown realtime event", zap.String("event", f.Event))
	return "", nil, false
}

func (p *Parser) decode(f Frame, into any) bool {
	if err := json.Unmarshal(f.Data, into); err != nil {
		p.logger.Warn("malformed realtime payload",
			zap.String("event", f.Event), zap.Error(err))
		return false
	}
	return true
}
