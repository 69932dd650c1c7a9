package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hafizhannan/baatcheet/internal/chat"
)

// CacheMessages stores a conversation's history for offline rendering,
// replacing whatever was cached for that contact (idempotent on msg id).
func (db *DB) CacheMessages(contactID string, msgs []chat.Message) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM messages WHERE contact_id = ?`, contactID); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}

	for _, m := range msgs {
		var attachments string
		if len(m.Attachments) > 0 {
			data, err := json.Marshal(m.Attachments)
			if err != nil {
				return fmt.Errorf("encode attachments: %w", err)
			}
			attachments = string(data)
		}
		var seenAt sql.NullInt64
		if m.SeenAt != nil {
			seenAt = sql.NullInt64{Int64: m.SeenAt.UnixMilli(), Valid: true}
		}
		if _, err := tx.Exec(`
			INSERT INTO messages (contact_id, msg_id, from_id, to_id, body, voice_url, attachments, reply_to, sender_name, created_at, seen_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(contact_id, msg_id) DO UPDATE SET
				body = excluded.body,
				seen_at = excluded.seen_at`,
			contactID, m.ID, m.From, m.To, m.Text, m.VoiceURL, attachments, m.ReplyTo,
			m.SenderName, m.CreatedAt.UnixMilli(), seenAt); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}
	return tx.Commit()
}

// CachedMessages returns the cached history for one contact in
// chronological order.
func (db *DB) CachedMessages(contactID string) ([]chat.Message, error) {
	rows, err := db.Query(`
		SELECT msg_id, from_id, to_id, body, voice_url, attachments, reply_to, sender_name, created_at, seen_at
		FROM messages
		WHERE contact_id = ?
		ORDER BY created_at ASC`, contactID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []chat.Message
	for rows.Next() {
		var (
			m           chat.Message
			attachments string
			createdAt   int64
			seenAt      sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.From, &m.To, &m.Text, &m.VoiceURL, &attachments,
			&m.ReplyTo, &m.SenderName, &createdAt, &seenAt); err != nil {
			return nil, err
		}
		if attachments != "" {
			if err := json.Unmarshal([]byte(attachments), &m.Attachments); err != nil {
				return nil, fmt.Errorf("decode attachments: %w", err)
			}
		}
		m.CreatedAt = time.UnixMilli(createdAt)
		if seenAt.Valid {
			at := time.UnixMilli(seenAt.Int64)
			m.SeenAt = &at
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
