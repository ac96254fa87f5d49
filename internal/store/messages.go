package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chittahq/chitta/backend/internal/model/chat"
)

// InsertMessage appends one conversation turn. ID and CreatedAt are
// assigned when unset. Turns are never mutated or deleted here; retention
// is an external concern.
func (s *Store) InsertMessage(ctx context.Context, msg chat.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, user_id, session_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.UserID, msg.SessionID, msg.Role, msg.Content,
		msg.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// SessionHistory returns the turns for one session in ascending time order,
// capped at the most recent limit entries (oldest-first truncation).
func (s *Store) SessionHistory(ctx context.Context, userID, sessionID string, limit int) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, session_id, role, content, created_at
		FROM chat_messages
		WHERE user_id = ? AND session_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, userID, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	// Newest-first from the query; callers want chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func scanMessages(rows *sql.Rows) ([]chat.Message, error) {
	var messages []chat.Message
	for rows.Next() {
		var msg chat.Message
		var createdAt string
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.SessionID, &msg.Role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse message timestamp: %w", err)
		}
		msg.CreatedAt = ts
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}
