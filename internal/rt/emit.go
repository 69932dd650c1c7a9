package rt

import (
	"github.com/google/uuid"
	"github.com/hafizhannan/baatcheet/internal/chat"
)

// The methods below implement chat.Emitter.

// RequestUsers asks the server for the full contact snapshot.
func (c *Client) RequestUsers() {
	c.enqueue(EvUsersRequest, struct{}{})
}

type seenEmit struct {
	MessageID string `json:"messageId"`
	To        string `json:"to"`
}

// EmitSeen sends a seen-receipt for one message back to its sender.
func (c *Client) EmitSeen(messageID, to string) {
	c.enqueue(EvMsgSeen, seenEmit{MessageID: messageID, To: to})
}

type sendEmit struct {
	chat.OutgoingMessage
	// ClientID correlates the eventual message:sent echo with this send.
	ClientID string `json:"clientId"`
}

// SendMessage emits a send command. The authoritative message comes back
// as a message:sent echo; nothing is appended locally here.
func (c *Client) SendMessage(out chat.OutgoingMessage) {
	c.enqueue(EvMsgSend, sendEmit{OutgoingMessage: out, ClientID: uuid.New().String()})
}

type deleteEmit struct {
	MessageID string `json:"messageId"`
}

// DeleteMessage emits a delete for one message.
func (c *Client) DeleteMessage(messageID string) {
	c.enqueue(EvMsgDelete, deleteEmit{MessageID: messageID})
}

type typingEmit struct {
	To string `json:"to"`
}

// Typing emits a typing start or stop for the given contact.
func (c *Client) Typing(to string, start bool) {
	event := EvTypingOff
	if start {
		event = EvTypingOn
	}
	c.enqueue(event, typingEmit{To: to})
}
