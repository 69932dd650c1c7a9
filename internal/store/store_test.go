package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/hafizhannan/baatcheet/internal/chat"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSaveAndLoadContactsPreservesOrder(t *testing.T) {
	db := testDB(t)

	in := []chat.Contact{
		{ID: "c", Name: "Chand", Unread: 2},
		{ID: "a", Name: "Ali"},
		{ID: "b", Name: "Bano", Online: true},
	}
	if err := db.SaveContacts(in); err != nil {
		t.Fatalf("SaveContacts() error = %v", err)
	}

	out, err := db.LoadContacts()
	if err != nil {
		t.Fatalf("LoadContacts() error = %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d contacts, want 3", len(out))
	}
	for i, want := range []string{"c", "a", "b"} {
		if out[i].ID != want {
			t.Errorf("position %d = %q, want %q", i, out[i].ID, want)
		}
	}
	if out[0].Unread != 2 {
		t.Errorf("unread = %d, want 2", out[0].Unread)
	}
	if out[2].Online {
		t.Error("presence must not be cached")
	}
}

func TestSaveContactsReplaces(t *testing.T) {
	db := testDB(t)

	if err := db.SaveContacts([]chat.Contact{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveContacts([]chat.Contact{{ID: "b"}}); err != nil {
		t.Fatal(err)
	}

	out, err := db.LoadContacts()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "b" {
		t.Errorf("contacts = %v, want just b", out)
	}
}

func TestCacheMessagesRoundTrip(t *testing.T) {
	db := testDB(t)

	seen := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	in := []chat.Message{
		{ID: "m1", From: "a", To: "me", Text: "salaam", CreatedAt: time.UnixMilli(1000)},
		{ID: "m2", From: "me", To: "a", VoiceURL: "http://f/v.webm", CreatedAt: time.UnixMilli(2000), SeenAt: &seen},
		{ID: "m3", From: "me", To: "a", CreatedAt: time.UnixMilli(3000),
			Attachments: []chat.Attachment{{Name: "doc.pdf", URL: "http://f/doc.pdf"}}},
	}
	if err := db.CacheMessages("a", in); err != nil {
		t.Fatalf("CacheMessages() error = %v", err)
	}

	out, err := db.CachedMessages("a")
	if err != nil {
		t.Fatalf("CachedMessages() error = %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d messages, want 3", len(out))
	}
	if out[0].Text != "salaam" || out[1].VoiceURL == "" {
		t.Errorf("messages = %+v", out)
	}
	if out[1].SeenAt == nil || !out[1].SeenAt.Equal(seen.Truncate(time.Millisecond)) {
		t.Errorf("SeenAt = %v, want %v", out[1].SeenAt, seen)
	}
	if len(out[2].Attachments) != 1 || out[2].Attachments[0].Name != "doc.pdf" {
		t.Errorf("attachments = %v", out[2].Attachments)
	}
}

func TestCacheMessagesIdempotent(t *testing.T) {
	db := testDB(t)

	msgs := []chat.Message{{ID: "m1", From: "a", To: "me", Text: "v1", CreatedAt: time.UnixMilli(1000)}}
	if err := db.CacheMessages("a", msgs); err != nil {
		t.Fatal(err)
	}
	msgs[0].Text = "v2"
	if err := db.CacheMessages("a", msgs); err != nil {
		t.Fatal(err)
	}

	out, err := db.CachedMessages("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Text != "v2" {
		t.Errorf("messages = %v, want single updated row", out)
	}
}

func TestCachedMessagesScopedByContact(t *testing.T) {
	db := testDB(t)

	_ = db.CacheMessages("a", []chat.Message{{ID: "m1", From: "a", To: "me", CreatedAt: time.UnixMilli(1)}})
	_ = db.CacheMessages("b", []chat.Message{{ID: "m2", From: "b", To: "me", CreatedAt: time.UnixMilli(2)}})

	out, err := db.CachedMessages("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "m1" {
		t.Errorf("messages for a = %v", out)
	}
}
