package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hafizhannan/baatcheet/internal/bus"
)

type fakeEmitter struct {
	mu       sync.Mutex
	seen     []EmitSeen
	sent     []OutgoingMessage
	deleted  []string
	typing   []bool
	requests int
}

func (f *fakeEmitter) RequestUsers() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
}

func (f *fakeEmitter) EmitSeen(messageID, to string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, EmitSeen{MessageID: messageID, To: to})
}

func (f *fakeEmitter) SendMessage(out OutgoingMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, out)
}

func (f *fakeEmitter) DeleteMessage(messageID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
}

func (f *fakeEmitter) Typing(to string, start bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing = append(f.typing, start)
}

type fakeFetcher struct {
	mu     sync.Mutex
	convID string
	msgs   []Message
	err    error
	block  chan struct{} // when set, History waits until closed
	calls  []string
}

func (f *fakeFetcher) History(ctx context.Context, contactID string) (string, []Message, error) {
	f.mu.Lock()
	f.calls = append(f.calls, contactID)
	block := f.block
	convID, msgs, err := f.convID, f.msgs, f.err
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return convID, msgs, err
}

type memStore struct {
	mu       sync.Mutex
	contacts []Contact
	history  map[string][]Message
}

func (m *memStore) SaveContacts(contacts []Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append([]Contact(nil), contacts...)
	return nil
}

func (m *memStore) LoadContacts() ([]Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Contact(nil), m.contacts...), nil
}

func (m *memStore) CacheMessages(contactID string, msgs []Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.history == nil {
		m.history = make(map[string][]Message)
	}
	m.history[contactID] = append([]Message(nil), msgs...)
	return nil
}

func (m *memStore) CachedMessages(contactID string) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.history[contactID]...), nil
}

func newTestService(t *testing.T, em *fakeEmitter, fe *fakeFetcher) *Service {
	t.Helper()
	return NewService("me", em, fe, &memStore{}, bus.New(), nil)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestOpenConversationHappyPath(t *testing.T) {
	em := &fakeEmitter{}
	fe := &fakeFetcher{
		convID: "conv-1",
		msgs: []Message{
			{ID: "m1", From: "a", To: "me"},
			{ID: "m2", From: "me", To: "a"},
		},
	}
	svc := newTestService(t, em, fe)
	svc.Apply(SnapshotLoaded{Contacts: contacts("a", "b")})
	svc.Apply(inbound("m1", "a"))

	svc.OpenConversation(context.Background(), "a")

	waitFor(t, func() bool { return svc.Snapshot().ConversationID == "conv-1" })

	st := svc.Snapshot()
	if len(st.Messages) != 2 {
		t.Errorf("messages = %d, want 2", len(st.Messages))
	}
	if st.FindContact("a").Unread != 0 {
		t.Error("unread not reset after open")
	}
	em.mu.Lock()
	defer em.mu.Unlock()
	if len(em.seen) != 1 || em.seen[0].MessageID != "m1" {
		t.Errorf("seen receipts = %v, want one for m1", em.seen)
	}
}

func TestOpenConversationStaleResponseDropped(t *testing.T) {
	em := &fakeEmitter{}
	block := make(chan struct{})
	fe := &fakeFetcher{convID: "conv-a", msgs: []Message{{ID: "m1", From: "a", To: "me"}}, block: block}
	svc := newTestService(t, em, fe)
	svc.Apply(SnapshotLoaded{Contacts: contacts("a", "b")})

	// Open "a" but let its fetch hang, then switch to "b".
	svc.OpenConversation(context.Background(), "a")
	fe.mu.Lock()
	fe.block = nil
	fe.convID = "conv-b"
	fe.msgs = nil
	fe.mu.Unlock()
	svc.OpenConversation(context.Background(), "b")

	waitFor(t, func() bool { return svc.Snapshot().ConversationID == "conv-b" })
	close(block) // stale response for "a" resolves now

	time.Sleep(50 * time.Millisecond)
	st := svc.Snapshot()
	if st.ActiveID != "b" || st.ConversationID != "conv-b" {
		t.Errorf("state = %q/%q, want b/conv-b", st.ActiveID, st.ConversationID)
	}
	if len(st.Messages) != 0 {
		t.Errorf("messages = %v, stale history leaked into state", st.Messages)
	}
}

func TestOpenConversationFailureClears(t *testing.T) {
	em := &fakeEmitter{}
	fe := &fakeFetcher{err: errors.New("boom")}
	svc := newTestService(t, em, fe)
	svc.Apply(SnapshotLoaded{Contacts: contacts("a")})

	svc.OpenConversation(context.Background(), "a")

	waitFor(t, func() bool {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		return len(fe.calls) == 1
	})
	time.Sleep(20 * time.Millisecond)
	st := svc.Snapshot()
	if st.ConversationID != "" || len(st.Messages) != 0 {
		t.Error("failed fetch must leave empty conversation state")
	}
}

func TestSendTextDoesNotAppendOptimistically(t *testing.T) {
	em := &fakeEmitter{}
	svc := newTestService(t, em, &fakeFetcher{})
	svc.Apply(SnapshotLoaded{Contacts: contacts("a")})

	svc.SendText("a", "hello", "")

	if len(svc.Snapshot().Messages) != 0 {
		t.Error("send must not optimistically append")
	}
	em.mu.Lock()
	if len(em.sent) != 1 || em.sent[0].Text != "hello" {
		t.Errorf("sent = %v", em.sent)
	}
	em.mu.Unlock()

	// The echo is the authoritative copy.
	svc.Apply(ConversationOpened{ContactID: "a"})
	svc.Apply(HistoryLoaded{Gen: svc.Snapshot().OpenGen, ContactID: "a", ConversationID: "c1"})
	svc.Apply(OwnMessageConfirmed{Message: Message{ID: "m1", From: "me", To: "a", Text: "hello"}})
	if got := len(svc.Snapshot().Messages); got != 1 {
		t.Errorf("messages = %d, want 1 after echo", got)
	}
}

func TestSendFileWrapsAttachment(t *testing.T) {
	em := &fakeEmitter{}
	svc := newTestService(t, em, &fakeFetcher{})

	svc.SendFile("a", Attachment{Name: "notes.pdf", URL: "http://u/x"})

	em.mu.Lock()
	defer em.mu.Unlock()
	if len(em.sent) != 1 {
		t.Fatal("no send emitted")
	}
	out := em.sent[0]
	if len(out.Attachments) != 1 || out.Text != "Sent a file: notes.pdf" {
		t.Errorf("outgoing = %+v", out)
	}
}

func TestDeleteMessageEmitsAndRemovesLocally(t *testing.T) {
	em := &fakeEmitter{}
	svc := newTestService(t, em, &fakeFetcher{})
	svc.Apply(ConversationOpened{ContactID: "a"})
	svc.Apply(HistoryLoaded{Gen: svc.Snapshot().OpenGen, ContactID: "a", ConversationID: "c1",
		Messages: []Message{{ID: "m1", From: "me", To: "a"}}})

	svc.DeleteMessage("m1")

	if len(svc.Snapshot().Messages) != 0 {
		t.Error("message not removed locally")
	}
	em.mu.Lock()
	defer em.mu.Unlock()
	if len(em.deleted) != 1 || em.deleted[0] != "m1" {
		t.Errorf("deleted = %v", em.deleted)
	}
}

func TestContactOrderPersisted(t *testing.T) {
	em := &fakeEmitter{}
	store := &memStore{}
	svc := NewService("me", em, &fakeFetcher{}, store, bus.New(), nil)

	svc.Apply(SnapshotLoaded{Contacts: contacts("a", "b", "c")})
	svc.Apply(inbound("m1", "c"))

	saved, err := store.LoadContacts()
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 3 || saved[0].ID != "c" {
		t.Errorf("persisted order = %v, want c first", ids(saved))
	}
}

func TestSeedRestoresCachedContacts(t *testing.T) {
	store := &memStore{}
	if err := store.SaveContacts(contacts("b", "a")); err != nil {
		t.Fatal(err)
	}
	svc := NewService("me", &fakeEmitter{}, &fakeFetcher{}, store, bus.New(), nil)

	svc.Seed()

	st := svc.Snapshot()
	if len(st.Contacts) != 2 || st.Contacts[0].ID != "b" {
		t.Errorf("seeded contacts = %v, want cached order", ids(st.Contacts))
	}
}

func TestSnapshotRequestedOnConnectWhenEmpty(t *testing.T) {
	old := snapshotDelay
	snapshotDelay = 10 * time.Millisecond
	defer func() { snapshotDelay = old }()

	em := &fakeEmitter{}
	b := bus.New()
	svc := NewService("me", em, &fakeFetcher{}, &memStore{}, b, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	b.Publish(bus.Now(bus.KindConnUp, nil))

	waitFor(t, func() bool {
		em.mu.Lock()
		defer em.mu.Unlock()
		return em.requests == 1
	})
}

func TestBusEventsFlowThroughReducer(t *testing.T) {
	em := &fakeEmitter{}
	b := bus.New()
	svc := NewService("me", em, &fakeFetcher{}, &memStore{}, b, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	b.Publish(bus.Now(bus.KindRTSnapshot, Event(SnapshotLoaded{Contacts: contacts("a")})))
	waitFor(t, func() bool { return len(svc.Snapshot().Contacts) == 1 })

	// A malformed payload is dropped without panicking.
	b.Publish(bus.Now(bus.KindRTInbound, "garbage"))
	time.Sleep(20 * time.Millisecond)
	if len(svc.Snapshot().Contacts) != 1 {
		t.Error("malformed event mutated state")
	}
}

func TestHistoryPersistedToCache(t *testing.T) {
	em := &fakeEmitter{}
	fe := &fakeFetcher{convID: "c1", msgs: []Message{{ID: "m1", From: "a", To: "me"}}}
	store := &memStore{}
	svc := NewService("me", em, fe, store, bus.New(), nil)
	svc.Apply(SnapshotLoaded{Contacts: contacts("a")})

	svc.OpenConversation(context.Background(), "a")

	waitFor(t, func() bool {
		cached, _ := store.CachedMessages("a")
		return len(cached) == 1
	})
	cached, err := store.CachedMessages("a")
	if err != nil {
		t.Fatal(err)
	}
	if cached[0].ID != "m1" {
		t.Errorf("cached = %v, want the fetched history", cached)
	}
}

func TestCachedHistoryServedWhenFetchFails(t *testing.T) {
	em := &fakeEmitter{}
	fe := &fakeFetcher{err: errors.New("connection refused")}
	store := &memStore{}
	if err := store.CacheMessages("a", []Message{
		{ID: "m1", From: "a", To: "me"},
		{ID: "m2", From: "me", To: "a"},
	}); err != nil {
		t.Fatal(err)
	}
	svc := NewService("me", em, fe, store, bus.New(), nil)
	svc.Apply(SnapshotLoaded{Contacts: contacts("a")})
	svc.Apply(inbound("m1", "a"))

	svc.OpenConversation(context.Background(), "a")

	waitFor(t, func() bool { return len(svc.Snapshot().Messages) == 2 })
	st := svc.Snapshot()
	if st.ActiveID != "a" {
		t.Errorf("active = %q, want a", st.ActiveID)
	}
	if st.FindContact("a").Unread != 0 {
		t.Error("unread not reset when cached history is served")
	}
	// Cached messages were acknowledged in an earlier session; going offline
	// must not replay their seen receipts.
	em.mu.Lock()
	defer em.mu.Unlock()
	if len(em.seen) != 0 {
		t.Errorf("seen receipts = %v, want none for cached history", em.seen)
	}
}
