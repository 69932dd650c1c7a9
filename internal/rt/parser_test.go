package rt

import (
	"encoding/json"
	"testing"

	"github.com/hafizhannan/baatcheet/internal/bus"
	"github.com/hafizhannan/baatcheet/internal/chat"
)

func frame(t *testing.T, event string, data string) Frame {
	t.Helper()
	return Frame{Event: event, Data: json.RawMessage(data)}
}

func TestParseSnapshot(t *testing.T) {
	p := NewParser("me", nil)

	kind, ev, ok := p.Parse(frame(t, EvAllUsers, `{"users":[
		{"userId":"a","user":{"_id":"a","name":"Ali","online":true}},
		{"userId":"me","user":{"_id":"me","name":"Self"}},
		{"userId":"b","user":{"name":"Sara"}}
	]}`))
	if !ok || kind != bus.KindRTSnapshot {
		t.Fatalf("ok=%v kind=%q", ok, kind)
	}
	snap := ev.(chat.SnapshotLoaded)
	if len(snap.Contacts) != 2 {
		t.Fatalf("contacts = %d, want 2 (self filtered)", len(snap.Contacts))
	}
	if snap.Contacts[1].ID != "b" {
		t.Errorf("missing id fallback to userId: %+v", snap.Contacts[1])
	}
}

func TestParseMessageNewSplit(t *testing.T) {
	p := NewParser("me", nil)

	// Inbound from another user.
	kind, ev, ok := p.Parse(frame(t, EvMsgNew, `{"message":{"_id":"m1","from":"a","to":"me","text":"hi"}}`))
	if !ok || kind != bus.KindRTInbound {
		t.Fatalf("ok=%v kind=%q", ok, kind)
	}
	if _, isInbound := ev.(chat.InboundMessageReceived); !isInbound {
		t.Fatalf("event = %T, want InboundMessageReceived", ev)
	}

	// message:new carrying our own send is dropped; the echo arrives as
	// message:sent instead.
	if _, _, ok := p.Parse(frame(t, EvMsgNew, `{"message":{"_id":"m2","from":"me","to":"a"}}`)); ok {
		t.Error("own message:new must be filtered out")
	}
}

func TestParseMessageSentSplit(t *testing.T) {
	p := NewParser("me", nil)

	kind, ev, ok := p.Parse(frame(t, EvMsgSent, `{"message":{"_id":"m1","from":"me","to":"a","text":"yo"}}`))
	if !ok || kind != bus.KindRTOwnConfirmed {
		t.Fatalf("ok=%v kind=%q", ok, kind)
	}
	own := ev.(chat.OwnMessageConfirmed)
	if own.Message.ID != "m1" {
		t.Errorf("message = %+v", own.Message)
	}

	// Echo of a different account is dropped.
	if _, _, ok := p.Parse(frame(t, EvMsgSent, `{"message":{"_id":"m2","from":"other","to":"a"}}`)); ok {
		t.Error("foreign message:sent must be filtered out")
	}
}

func TestParsePresence(t *testing.T) {
	p := NewParser("me", nil)

	_, ev, ok := p.Parse(frame(t, EvOffline, `{"userId":"a","lastSeen":"2026-03-01T10:00:00Z"}`))
	if !ok {
		t.Fatal("offline frame rejected")
	}
	pres := ev.(chat.PresenceChanged)
	if pres.Online || pres.LastSeenAt == nil {
		t.Errorf("presence = %+v", pres)
	}

	_, ev, ok = p.Parse(frame(t, EvBulkOnline, `{"users":[{"userId":"a"},{"userId":"b"}]}`))
	if !ok {
		t.Fatal("bulk frame rejected")
	}
	bulk := ev.(chat.BulkOnline)
	if len(bulk.ContactIDs) != 2 {
		t.Errorf("bulk = %v", bulk)
	}
}

func TestParseTypingAndSeenAndDeleted(t *testing.T) {
	p := NewParser("me", nil)

	tests := []struct {
		event string
		data  string
		kind  string
	}{
		{EvTypingOn, `{"from":"a"}`, bus.KindRTTypingStart},
		{EvTypingOff, `{"from":"a"}`, bus.KindRTTypingStop},
		{EvMsgSeen, `{"messageId":"m1"}`, bus.KindRTSeen},
		{EvMsgDeleted, `{"messageId":"m1"}`, bus.KindRTDeleted},
	}
	for _, tt := range tests {
		kind, _, ok := p.Parse(frame(t, tt.event, tt.data))
		if !ok || kind != tt.kind {
			t.Errorf("Parse(%s) = %q/%v, want %q", tt.event, kind, ok, tt.kind)
		}
	}
}

func TestParseMalformedAndUnknownDropped(t *testing.T) {
	p := NewParser("me", nil)

	if _, _, ok := p.Parse(frame(t, EvMsgNew, `{broken`)); ok {
		t.Error("malformed payload must be dropped")
	}
	if _, _, ok := p.Parse(frame(t, "something:else", `{}`)); ok {
		t.Error("unknown event must be dropped")
	}
}

func TestEncodeFrameRoundTrip(t *testing.T) {
	data, err := encodeFrame(EvMsgSend, sendEmit{
		OutgoingMessage: chat.OutgoingMessage{To: "a", Text: "hi"},
		ClientID:        "c1",
	})
	if err != nil {
		t.Fatal(err)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatal(err)
	}
	if f.Event != EvMsgSend {
		t.Errorf("event = %q", f.Event)
	}
	var payload map[string]any
	if err := json.Unmarshal(f.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload["to"] != "a" || payload["clientId"] != "c1" {
		t.Errorf("payload = %v", payload)
	}
}
