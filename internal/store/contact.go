package store

import (
	"fmt"
	"time"

	"github.com/hafizhannan/baatcheet/internal/chat"
)

// SaveContacts replaces the cached contact list, recording list position so
// the ordering survives a restart. Implements the contact half of chat.Store.
func (db *DB) SaveContacts(contacts []chat.Contact) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM contacts`); err != nil {
		return fmt.Errorf("clear contacts: %w", err)
	}

	now := time.Now().UnixMilli()
	for pos, c := range contacts {
		if _, err := tx.Exec(`
			INSERT INTO contacts (id, name, email, avatar_url, bio, unread, position, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Email, c.AvatarURL, c.Bio, c.Unread, pos, now); err != nil {
			return fmt.Errorf("insert contact: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadContacts returns the cached contact list in saved order. Presence is
// never cached; every contact starts offline until the server says otherwise.
func (db *DB) LoadContacts() ([]chat.Contact, error) {
	rows, err := db.Query(`
		SELECT id, name, email, avatar_url, bio, unread
		FROM contacts
		ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var contacts []chat.Contact
	for rows.Next() {
		var c chat.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.AvatarURL, &c.Bio, &c.Unread); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
