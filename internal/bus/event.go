package bus

import "time"

// Event is a domain event published in-process.
type Event struct {
	Kind    string
	At      time.Time
	Payload any
}

// Event kinds are dot-namespaced so subscribers can filter by prefix.
const (
	// conn.*: realtime transport connectivity.
	KindConnUp   = "conn.up"
	KindConnDown = "conn.down"

	// rt.*: parsed server events, published by the transport layer.
	KindRTSnapshot       = "rt.snapshot"
	KindRTPresenceOnline = "rt.presence_online"
	KindRTPresenceOff    = "rt.presence_offline"
	KindRTBulkOnline     = "rt.bulk_online"
	KindRTTypingStart    = "rt.typing_start"
	KindRTTypingStop     = "rt.typing_stop"
	KindRTInbound        = "rt.inbound_message"
	KindRTOwnConfirmed   = "rt.own_message_confirmed"
	KindRTSeen           = "rt.message_seen"
	KindRTDeleted        = "rt.message_deleted"

	// chat.*: reconciler state changes, consumed by the UI.
	KindChatUpdated = "chat.updated"

	// assistant.*: voice assistant lifecycle and hints.
	KindAssistantState = "assistant.state_changed"
	KindAssistantHint  = "assistant.hint"
)

// Now is a convenience constructor stamping the event with the wall clock.
func Now(kind string, payload any) Event {
	return Event{Kind: kind, At: time.Now(), Payload: payload}
}
