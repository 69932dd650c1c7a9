package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("chat.", 10)
	defer unsub()

	b.Publish(Now(KindChatUpdated, "test"))

	select {
	case evt := <-ch:
		if evt.Kind != KindChatUpdated {
			t.Errorf("got kind %q, want %q", evt.Kind, KindChatUpdated)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("rt.", 10)
	defer unsub()

	b.Publish(Now(KindChatUpdated, nil))
	b.Publish(Now(KindRTInbound, nil))

	select {
	case evt := <-ch:
		if evt.Kind != KindRTInbound {
			t.Errorf("got kind %q, want %q", evt.Kind, KindRTInbound)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// The chat.* event must not be delivered to an rt.* subscriber.
	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("chat.", 10)
	unsub()

	b.Publish(Now(KindChatUpdated, nil))

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("assistant.", 1)
	defer unsub()

	b.Publish(Now(KindAssistantHint, "one"))
	b.Publish(Now(KindAssistantHint, "two"))

	evt := <-ch
	if evt.Payload != "one" {
		t.Errorf("got %v, want one", evt.Payload)
	}
}
