package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chittahq/chitta/backend/internal/model/wellbeing"
	"github.com/chittahq/chitta/backend/internal/scoring"
)

// ErrScorecardNotFound marks users whose well-being scores have not been
// computed yet. Absence is a valid state, not a failure.
var ErrScorecardNotFound = errors.New("scorecard not found")

// Scorecard returns the well-being record for a user.
func (s *Store) Scorecard(ctx context.Context, userID string) (wellbeing.Scorecard, error) {
	var card wellbeing.Scorecard
	var lastCalculated string

	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, mind_score, physical_score, nutrition_score, career_score, overall_score, last_calculated
		FROM well_being_scores
		WHERE user_id = ?
	`, userID).Scan(&card.UserID, &card.Mind, &card.Physical, &card.Nutrition,
		&card.Career, &card.Overall, &lastCalculated)
	if errors.Is(err, sql.ErrNoRows) {
		return wellbeing.Scorecard{}, ErrScorecardNotFound
	}
	if err != nil {
		return wellbeing.Scorecard{}, fmt.Errorf("query scorecard: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, lastCalculated)
	if err != nil {
		return wellbeing.Scorecard{}, fmt.Errorf("parse scorecard timestamp: %w", err)
	}
	card.LastCalculated = ts
	return card, nil
}

// ApplyMindSignal folds one intensity observation in [1,10] into the user's
// scorecard. The EMA and the derived overall score are evaluated inside a
// single upsert statement so concurrent conversations for the same user
// cannot lose each other's update; there is no read-then-write window.
// A missing row is created with the other three components defaulted to
// zero; an existing row only has mind, overall and the recalculation
// timestamp touched.
func (s *Store) ApplyMindSignal(ctx context.Context, userID string, intensity int, now time.Time) error {
	// On first observation the EMA starts from a zero baseline, so the
	// inserted mind score is the observation's contribution alone.
	firstMind := scoring.NextMind(0, intensity)
	firstOverall := scoring.Overall(firstMind)

	// intensity*10*0.1 reduces to the raw intensity; the SET expressions
	// reference the pre-update row, so overall restates the mind formula.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO well_being_scores
			(user_id, mind_score, physical_score, nutrition_score, career_score, overall_score, last_calculated)
		VALUES (?, ?, 0, 0, 0, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			mind_score = MAX(0, MIN(100,
				CAST(ROUND(mind_score * 0.9 + ?) AS INTEGER))),
			overall_score = MAX(0, MIN(100,
				CAST(ROUND(MAX(0, MIN(100, ROUND(mind_score * 0.9 + ?))) * 0.4 + 60) AS INTEGER))),
			last_calculated = excluded.last_calculated
	`, userID, firstMind, firstOverall, now.UTC().Format(timeLayout),
		float64(intensity), float64(intensity))
	if err != nil {
		return fmt.Errorf("apply mind signal: %w", err)
	}
	return nil
}
