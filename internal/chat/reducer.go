package chat

// Reduce applies one event to the state and returns the next state plus any
// side effects the caller must perform. It is pure: the input state is never
// mutated, and the same (state, event) pair always produces the same result.
func Reduce(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case SnapshotLoaded:
		return reduceSnapshot(s, e), nil
	case PresenceChanged:
		return reducePresence(s, e), nil
	case BulkOnline:
		return reduceBulkOnline(s, e), nil
	case TypingStarted:
		next := s.clone()
		next.TypingFrom = e.From
		return next, nil
	case TypingStopped:
		next := s.clone()
		if next.TypingFrom == e.From {
			next.TypingFrom = ""
		}
		return next, nil
	case InboundMessageReceived:
		return reduceInbound(s, e)
	case OwnMessageConfirmed:
		return reduceOwnConfirmed(s, e), nil
	case MessageSeen:
		return reduceSeen(s, e), nil
	case MessageDeleted:
		return reduceDeleted(s, e), nil
	case ConversationOpened:
		next := s.clone()
		next.ActiveID = e.ContactID
		next.ConversationID = ""
		next.Messages = nil
		next.OpenGen++
		return next, nil
	case HistoryLoaded:
		return reduceHistory(s, e)
	case HistoryFailed:
		if e.Gen != s.OpenGen || e.ContactID != s.ActiveID {
			return s, nil
		}
		next := s.clone()
		next.Messages = nil
		next.ConversationID = ""
		return next, nil
	case ConversationClosed:
		next := s.clone()
		next.ActiveID = ""
		next.ConversationID = ""
		next.Messages = nil
		next.OpenGen++
		return next, nil
	}
	return s, nil
}

// reduceSnapshot merges a server snapshot into the known contact list:
// contacts present in both keep their current position and unread count,
// contacts only in the snapshot are appended in server order.
func reduceSnapshot(s State, e SnapshotLoaded) State {
	next := s.clone()

	known := make(map[string]int, len(next.Contacts))
	for i, c := range next.Contacts {
		known[c.ID] = i
	}

	var appended []Contact
	for _, sc := range e.Contacts {
		if i, ok := known[sc.ID]; ok {
			unread := next.Contacts[i].Unread
			next.Contacts[i] = sc
			next.Contacts[i].Unread = unread
		} else {
			appended = append(appended, sc)
		}
	}
	next.Contacts = append(next.Contacts, appended...)
	return next
}

func reducePresence(s State, e PresenceChanged) State {
	next := s.clone()
	for i := range next.Contacts {
		if next.Contacts[i].ID == e.ContactID {
			next.Contacts[i].Online = e.Online
			if e.Online {
				next.Contacts[i].LastSeenAt = nil
			} else {
				next.Contacts[i].LastSeenAt = e.LastSeenAt
			}
			break
		}
	}
	return next
}

func reduceBulkOnline(s State, e BulkOnline) State {
	next := s.clone()
	online := make(map[string]bool, len(e.ContactIDs))
	for _, id := range e.ContactIDs {
		online[id] = true
	}
	for i := range next.Contacts {
		if online[next.Contacts[i].ID] {
			next.Contacts[i].Online = true
			next.Contacts[i].LastSeenAt = nil
		}
	}
	return next
}

// reduceInbound handles a message from another user. Exactly one branch
// applies: append-and-acknowledge when the sender is the active contact,
// otherwise count-unread-and-reorder.
func reduceInbound(s State, e InboundMessageReceived) (State, []Effect) {
	msg := e.Message
	next := s.clone()

	if next.ActiveID != "" && msg.From == next.ActiveID {
		if !hasMessage(next.Messages, msg.ID) {
			next.Messages = append(next.Messages, msg)
		}
		// Receipt of a message doubles as the end of the typing indicator.
		if next.TypingFrom == msg.From {
			next.TypingFrom = ""
		}
		return next, []Effect{EmitSeen{MessageID: msg.ID, To: msg.From}}
	}

	if i := contactIndex(next.Contacts, msg.From); i >= 0 {
		c := next.Contacts[i]
		c.Unread++
		next.Contacts = moveToFront(next.Contacts, i)
		next.Contacts[0] = c
		return next, nil
	}

	// First message from an unknown sender creates the contact.
	name := msg.SenderName
	if name == "" {
		name = "Unknown"
	}
	fresh := Contact{ID: msg.From, Name: name, Unread: 1}
	next.Contacts = append([]Contact{fresh}, next.Contacts...)
	return next, nil
}

// reduceOwnConfirmed appends the server echo of an own message to the
// active list and moves the recipient contact to the front. There is no
// optimistic append anywhere, so this echo is the authoritative copy.
func reduceOwnConfirmed(s State, e OwnMessageConfirmed) State {
	msg := e.Message
	if msg.From != s.SelfID {
		return s
	}
	next := s.clone()

	if next.ActiveID != "" && msg.To == next.ActiveID && !hasMessage(next.Messages, msg.ID) {
		next.Messages = append(next.Messages, msg)
	}
	if i := contactIndex(next.Contacts, msg.To); i >= 0 {
		next.Contacts = moveToFront(next.Contacts, i)
	}
	return next
}

func reduceSeen(s State, e MessageSeen) State {
	next := s.clone()
	for i := range next.Messages {
		if next.Messages[i].ID == e.MessageID {
			at := e.At
			next.Messages[i].SeenAt = &at
			break
		}
	}
	return next
}

func reduceDeleted(s State, e MessageDeleted) State {
	next := s.clone()
	out := next.Messages[:0]
	for _, m := range next.Messages {
		if m.ID != e.MessageID {
			out = append(out, m)
		}
	}
	next.Messages = out
	return next
}

// reduceHistory installs the fetched history for the active conversation.
// A response for a stale generation or a different contact is ignored.
// Realtime messages that arrived while the fetch was in flight are already
// in s.Messages; they are re-appended unless the history contains them.
func reduceHistory(s State, e HistoryLoaded) (State, []Effect) {
	if e.Gen != s.OpenGen || e.ContactID != s.ActiveID {
		return s, nil
	}
	next := s.clone()

	byID := make(map[string]bool, len(e.Messages))
	merged := append([]Message(nil), e.Messages...)
	for _, m := range e.Messages {
		byID[m.ID] = true
	}
	for _, m := range next.Messages {
		if !byID[m.ID] {
			merged = append(merged, m)
		}
	}

	var effects []Effect
	if !e.FromCache {
		for _, m := range e.Messages {
			if m.To == next.SelfID && m.SeenAt == nil {
				effects = append(effects, EmitSeen{MessageID: m.ID, To: m.From})
			}
		}
	}

	next.ConversationID = e.ConversationID
	next.Messages = merged
	for i := range next.Contacts {
		if next.Contacts[i].ID == e.ContactID {
			next.Contacts[i].Unread = 0
			break
		}
	}
	return next, effects
}

func hasMessage(msgs []Message, id string) bool {
	for _, m := range msgs {
		if m.ID == id {
			return true
		}
	}
	return false
}

func contactIndex(contacts []Contact, id string) int {
	for i, c := range contacts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// moveToFront moves contacts[i] to index 0 preserving the relative order of
// every other contact.
func moveToFront(contacts []Contact, i int) []Contact {
	if i <= 0 {
		return contacts
	}
	c := contacts[i]
	copy(contacts[1:i+1], contacts[:i])
	contacts[0] = c
	return contacts
}
