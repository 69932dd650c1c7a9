package chat

import "time"

// Contact is another user the current user can message.
type Contact struct {
	ID         string     `json:"_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	AvatarURL  string     `json:"avatarUrl,omitempty"`
	Bio        string     `json:"bio,omitempty"`
	Online     bool       `json:"online"`
	LastSeenAt *time.Time `json:"lastSeen,omitempty"`
	Unread     int        `json:"-"`
}

// Attachment is a file carried by a message.
type Attachment struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Size     int64  `json:"size,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// Message is one entry in a conversation. Exactly one of Text, VoiceURL or
// a non-empty Attachments is the meaningful content.
type Message struct {
	ID          string       `json:"_id"`
	From        string       `json:"from"`
	To          string       `json:"to"`
	Text        string       `json:"text,omitempty"`
	VoiceURL    string       `json:"voiceUrl,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	ReplyTo     string       `json:"replyTo,omitempty"`
	SenderName  string       `json:"senderName,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	DeliveredAt *time.Time   `json:"deliveredAt,omitempty"`
	SeenAt      *time.Time   `json:"seenAt,omitempty"`
}

// Mine reports whether the message was sent by the given user.
func (m Message) Mine(selfID string) bool { return m.From == selfID }

// State is the authoritative client-side view of contacts and the active
// conversation. It is only ever mutated by the reducer.
type State struct {
	SelfID         string
	Contacts       []Contact
	ActiveID       string
	ConversationID string
	Messages       []Message
	TypingFrom     string

	// OpenGen increments every time the active conversation changes, so a
	// history response resolved for a previous conversation can be detected
	// and dropped.
	OpenGen uint64
}

// NewState returns an empty state for the given current user.
func NewState(selfID string) State {
	return State{SelfID: selfID}
}

// ActiveContact returns the active contact, or nil when no conversation is open.
func (s State) ActiveContact() *Contact {
	if s.ActiveID == "" {
		return nil
	}
	for i := range s.Contacts {
		if s.Contacts[i].ID == s.ActiveID {
			return &s.Contacts[i]
		}
	}
	return nil
}

// FindContact returns the contact with the given id, or nil.
func (s State) FindContact(id string) *Contact {
	for i := range s.Contacts {
		if s.Contacts[i].ID == id {
			return &s.Contacts[i]
		}
	}
	return nil
}

// clone returns a deep-enough copy: slices are copied so the reducer can
// mutate the copy without aliasing the previous state.
func (s State) clone() State {
	out := s
	out.Contacts = append([]Contact(nil), s.Contacts...)
	out.Messages = append([]Message(nil), s.Messages...)
	return out
}
