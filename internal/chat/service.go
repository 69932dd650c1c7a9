package chat

import (
	"context"
	"sync"
	"time"

	"github.com/hafizhannan/baatcheet/internal/bus"
	"go.uber.org/zap"
)

// OutgoingMessage is a send command. Exactly one of Text, VoiceURL or
// Attachments carries the content.
type OutgoingMessage struct {
	To          string       `json:"to"`
	Text        string       `json:"text,omitempty"`
	VoiceURL    string       `json:"voiceUrl,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	ReplyTo     string       `json:"replyTo,omitempty"`
}

// Emitter is the client→server realtime surface the service depends on.
type Emitter interface {
	RequestUsers()
	EmitSeen(messageID, to string)
	SendMessage(out OutgoingMessage)
	DeleteMessage(messageID string)
	Typing(to string, start bool)
}

// HistoryFetcher resolves a conversation's message history over REST.
type HistoryFetcher interface {
	History(ctx context.Context, contactID string) (conversationID string, msgs []Message, err error)
}

// Store persists the contact list and conversation history across sessions,
// so ordering survives a restart and an offline start still renders the last
// fetched messages.
type Store interface {
	SaveContacts(contacts []Contact) error
	LoadContacts() ([]Contact, error)
	CacheMessages(contactID string, msgs []Message) error
	CachedMessages(contactID string) ([]Message, error)
}

// snapshotDelay is how long the service waits after connect before asking
// for a full contact snapshot; if the cache already seeded contacts the
// request is skipped.
var snapshotDelay = 2 * time.Second

// Service owns the authoritative chat state. All mutations go through the
// reducer under one mutex, so event application is serialized the way a UI
// event loop would serialize it.
type Service struct {
	mu    sync.Mutex
	state State

	emitter Emitter
	fetcher HistoryFetcher
	store   Store
	bus     *bus.Bus
	logger  *zap.Logger

	cancel context.CancelFunc
}

// NewService creates a reconciler service for the given current user.
func NewService(selfID string, emitter Emitter, fetcher HistoryFetcher, store Store, b *bus.Bus, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		state:   NewState(selfID),
		emitter: emitter,
		fetcher: fetcher,
		store:   store,
		bus:     b,
		logger:  logger,
	}
}

// Seed restores the cached contact list saved by a previous session.
func (s *Service) Seed() {
	if s.store == nil {
		return
	}
	contacts, err := s.store.LoadContacts()
	if err != nil {
		s.logger.Warn("contact cache load failed", zap.Error(err))
		return
	}
	if len(contacts) == 0 {
		return
	}
	s.mu.Lock()
	s.state.Contacts = contacts
	s.mu.Unlock()
	s.notify()
}

// Start subscribes to transport events on the bus and begins applying them.
func (s *Service) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	ch, unsub := s.bus.Subscribe("rt.", 256)
	connCh, connUnsub := s.bus.Subscribe("conn.", 16)

	go func() {
		defer unsub()
		defer connUnsub()
		for {
			select {
			case evt := <-ch:
				s.handleBusEvent(evt)
			case evt := <-connCh:
				if evt.Kind == bus.KindConnUp {
					go s.requestSnapshotSoon(ctx)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the event loop.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// requestSnapshotSoon asks the server for the contact snapshot shortly
// after connect, unless contacts are already known.
func (s *Service) requestSnapshotSoon(ctx context.Context) {
	select {
	case <-time.After(snapshotDelay):
	case <-ctx.Done():
		return
	}
	s.mu.Lock()
	empty := len(s.state.Contacts) == 0
	s.mu.Unlock()
	if empty {
		s.emitter.RequestUsers()
	}
}

// handleBusEvent converts a transport bus event into a reducer event.
// Malformed payloads are logged and dropped; nothing here may panic.
func (s *Service) handleBusEvent(evt bus.Event) {
	ev, ok := evt.Payload.(Event)
	if !ok {
		s.logger.Warn("dropping malformed realtime event", zap.String("kind", evt.Kind))
		return
	}
	s.Apply(ev)
}

// Apply runs one event through the reducer and performs its effects.
func (s *Service) Apply(ev Event) {
	s.mu.Lock()
	next, effects := Reduce(s.state, ev)
	orderChanged := reordersContacts(ev)
	s.state = next
	contacts := append([]Contact(nil), next.Contacts...)
	s.mu.Unlock()

	for _, eff := range effects {
		switch e := eff.(type) {
		case EmitSeen:
			s.emitter.EmitSeen(e.MessageID, e.To)
		}
	}

	if orderChanged && s.store != nil {
		if err := s.store.SaveContacts(contacts); err != nil {
			s.logger.Warn("contact cache save failed", zap.Error(err))
		}
	}
	s.notify()
}

// reordersContacts reports whether the event can change contact list
// content or order and therefore requires persisting the cache.
func reordersContacts(ev Event) bool {
	switch ev.(type) {
	case SnapshotLoaded, InboundMessageReceived, OwnMessageConfirmed:
		return true
	}
	return false
}

// Snapshot returns a copy of the current state for rendering.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// OpenConversation sets the active contact and fetches its history. The
// generation captured under the lock guards against a stale response
// overwriting a conversation opened afterwards.
func (s *Service) OpenConversation(ctx context.Context, contactID string) {
	s.mu.Lock()
	st, _ := Reduce(s.state, ConversationOpened{ContactID: contactID})
	s.state = st
	gen := st.OpenGen
	s.mu.Unlock()
	s.notify()

	go func() {
		convID, msgs, err := s.fetcher.History(ctx, contactID)
		if err != nil {
			s.logger.Error("history load failed", zap.String("contact", contactID), zap.Error(err))
			if s.store != nil {
				if cached, cerr := s.store.CachedMessages(contactID); cerr == nil && len(cached) > 0 {
					s.logger.Info("serving cached history",
						zap.String("contact", contactID), zap.Int("messages", len(cached)))
					s.Apply(HistoryLoaded{Gen: gen, ContactID: contactID, Messages: cached, FromCache: true})
					return
				}
			}
			s.Apply(HistoryFailed{Gen: gen, ContactID: contactID})
			return
		}
		if s.store != nil {
			if cerr := s.store.CacheMessages(contactID, msgs); cerr != nil {
				s.logger.Warn("history cache save failed", zap.String("contact", contactID), zap.Error(cerr))
			}
		}
		s.Apply(HistoryLoaded{
			Gen:            gen,
			ContactID:      contactID,
			ConversationID: convID,
			Messages:       msgs,
		})
	}()
}

// CloseConversation clears the active conversation.
func (s *Service) CloseConversation() {
	s.Apply(ConversationClosed{})
}

// SendText emits a text message. The reconciler does not append
// optimistically; the authoritative copy arrives as OwnMessageConfirmed.
func (s *Service) SendText(to, text, replyTo string) {
	if text == "" || to == "" {
		return
	}
	s.emitter.SendMessage(OutgoingMessage{To: to, Text: text, ReplyTo: replyTo})
}

// SendVoice emits a voice-note message by uploaded URL.
func (s *Service) SendVoice(to, voiceURL string) {
	if voiceURL == "" || to == "" {
		return
	}
	s.emitter.SendMessage(OutgoingMessage{To: to, VoiceURL: voiceURL})
}

// SendFile emits a file-attachment message.
func (s *Service) SendFile(to string, att Attachment) {
	if att.URL == "" || to == "" {
		return
	}
	s.emitter.SendMessage(OutgoingMessage{
		To:          to,
		Attachments: []Attachment{att},
		Text:        "Sent a file: " + att.Name,
	})
}

// DeleteMessage emits the delete and removes the message locally.
func (s *Service) DeleteMessage(messageID string) {
	s.emitter.DeleteMessage(messageID)
	s.Apply(MessageDeleted{MessageID: messageID})
}

// SetTyping forwards the composer's typing state for the active contact.
func (s *Service) SetTyping(start bool) {
	s.mu.Lock()
	active := s.state.ActiveID
	s.mu.Unlock()
	if active != "" {
		s.emitter.Typing(active, start)
	}
}

func (s *Service) notify() {
	if s.bus != nil {
		s.bus.Publish(bus.Now(bus.KindChatUpdated, nil))
	}
}
