package chat

import "time"

// Event is one normalized input to the reducer. Every realtime frame and
// REST result becomes exactly one Event, so all merge/reorder/dedup rules
// live in Reduce and nowhere else.
type Event interface{ chatEvent() }

// SnapshotLoaded carries a full contact snapshot in server-provided order.
type SnapshotLoaded struct {
	Contacts []Contact
}

// PresenceChanged marks one contact online or offline.
type PresenceChanged struct {
	ContactID  string
	Online     bool
	LastSeenAt *time.Time
}

// BulkOnline marks every listed contact online at once.
type BulkOnline struct {
	ContactIDs []string
}

// TypingStarted and TypingStopped track the transient typing indicator.
type TypingStarted struct{ From string }
type TypingStopped struct{ From string }

// InboundMessageReceived is a message from another user. The transport
// layer guarantees From != SelfID.
type InboundMessageReceived struct {
	Message Message
}

// OwnMessageConfirmed is the server echo of a message this client (or
// another session of the same account) sent. The transport layer
// guarantees From == SelfID.
type OwnMessageConfirmed struct {
	Message Message
}

// MessageSeen marks a message in the active list as seen by its recipient.
type MessageSeen struct {
	MessageID string
	At        time.Time
}

// MessageDeleted removes a message from the active list.
type MessageDeleted struct {
	MessageID string
}

// ConversationOpened sets the active contact. History arrives later via
// HistoryLoaded carrying the generation captured at open time.
type ConversationOpened struct {
	ContactID string
}

// HistoryLoaded is the resolved history for a conversation. FromCache marks
// history served from the local store after an offline fetch failure; cached
// messages were already acknowledged, so they emit no seen receipts.
type HistoryLoaded struct {
	Gen            uint64
	ContactID      string
	ConversationID string
	Messages       []Message
	FromCache      bool
}

// HistoryFailed is a failed REST history fetch.
type HistoryFailed struct {
	Gen       uint64
	ContactID string
}

// ConversationClosed clears the active conversation.
type ConversationClosed struct{}

func (SnapshotLoaded) chatEvent()         {}
func (PresenceChanged) chatEvent()        {}
func (BulkOnline) chatEvent()             {}
func (TypingStarted) chatEvent()          {}
func (TypingStopped) chatEvent()          {}
func (InboundMessageReceived) chatEvent() {}
func (OwnMessageConfirmed) chatEvent()    {}
func (MessageSeen) chatEvent()            {}
func (MessageDeleted) chatEvent()         {}
func (ConversationOpened) chatEvent()     {}
func (HistoryLoaded) chatEvent()          {}
func (HistoryFailed) chatEvent()          {}
func (ConversationClosed) chatEvent()     {}

// Effect is a side effect the reducer asks its caller to perform.
type Effect interface{ chatEffect() }

// EmitSeen asks the transport to send a seen-receipt for one message.
type EmitSeen struct {
	MessageID string
	To        string
}

func (EmitSeen) chatEffect() {}
