package cache

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/BosTheCoder/beeper-triage/internal/beeper"
)

const capturedAtKey = "captured_at_ms"

// SaveChats replaces the cached snapshot with chats, in order, and stamps it
// with the current time.
func (db *DB) SaveChats(chats []beeper.Chat) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM chat_snapshot`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	for i, c := range chats {
		_, err := tx.Exec(`
			INSERT INTO chat_snapshot (position, chat_id, title, unread_count, last_preview_from_me, muted)
			VALUES (?, ?, ?, ?, ?, ?)`,
			i, c.ID, c.Title, c.UnreadCount, c.LastPreviewFromMe, c.Muted)
		if err != nil {
			return fmt.Errorf("insert snapshot row: %w", err)
		}
	}

	stamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	_, err = tx.Exec(`
		INSERT INTO snapshot_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		capturedAtKey, stamp)
	if err != nil {
		return fmt.Errorf("stamp snapshot: %w", err)
	}
	return tx.Commit()
}

// LoadChats returns the cached snapshot in captured order, or nil when no
// snapshot exists or the one on disk is older than ttl. A miss is not an
// error; a hit with zero chats returns an empty, non-nil slice.
func (db *DB) LoadChats(ttl time.Duration) ([]beeper.Chat, error) {
	var raw string
	err := db.QueryRow(`SELECT value FROM snapshot_meta WHERE key = ?`, capturedAtKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	capturedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// A stamp we cannot parse reads as a miss.
		return nil, nil
	}
	if time.Now().UnixMilli()-capturedAt > ttl.Milliseconds() {
		return nil, nil
	}

	rows, err := db.Query(`
		SELECT chat_id, title, unread_count, last_preview_from_me, muted
		FROM chat_snapshot
		ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	chats := []beeper.Chat{}
	for rows.Next() {
		var c beeper.Chat
		if err := rows.Scan(&c.ID, &c.Title, &c.UnreadCount, &c.LastPreviewFromMe, &c.Muted); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}
