package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chittahq/chitta/backend/internal/model/mood"
)

// InsertMood records an explicit mood check-in.
func (s *Store) InsertMood(ctx context.Context, sample mood.Sample) error {
	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = time.Now().UTC()
	}

	emotions, err := json.Marshal(sample.Emotions)
	if err != nil {
		return fmt.Errorf("encode emotions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mood_logs (id, user_id, mood_score, emotions, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sample.ID, sample.UserID, sample.Score, string(emotions), sample.Note,
		sample.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert mood: %w", err)
	}
	return nil
}

// RecentMoods returns the newest check-ins for a user across all sessions,
// descending by time, capped at limit.
func (s *Store) RecentMoods(ctx context.Context, userID string, limit int) ([]mood.Sample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, mood_score, emotions, note, created_at
		FROM mood_logs
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query moods: %w", err)
	}
	defer rows.Close()

	var samples []mood.Sample
	for rows.Next() {
		var sample mood.Sample
		var emotions sql.NullString
		var note sql.NullString
		var createdAt string
		if err := rows.Scan(&sample.ID, &sample.UserID, &sample.Score, &emotions, &note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan mood: %w", err)
		}
		if emotions.Valid && emotions.String != "" {
			if err := json.Unmarshal([]byte(emotions.String), &sample.Emotions); err != nil {
				return nil, fmt.Errorf("decode emotions: %w", err)
			}
		}
		sample.Note = note.String
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse mood timestamp: %w", err)
		}
		sample.CreatedAt = ts
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moods: %w", err)
	}
	return samples, nil
}
