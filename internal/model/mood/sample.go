package mood

import "time"

// Score bounds for a check-in.
const (
	MinScore = 1
	MaxScore = 10
)

// Sample is an explicit mood check-in logged by the user, distinct from the
// intensity heuristically derived from chat text.
type Sample struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Score     int       `json:"score"`
	Emotions  []string  `json:"emotions,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
