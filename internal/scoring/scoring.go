// Package scoring holds the score-update policy for the well-being
// scorecard: an exponential moving average over the intensity signal
// extracted from chat messages.
package scoring

import "math"

// EMA parameters. Each new observation contributes 10% and history decays
// geometrically at 90% per step, so roughly the last ten conversational
// turns dominate the signal.
const (
	Retention   = 0.9
	Observation = 0.1

	// The overall score anchors near a baseline-good value and lets the
	// mind component pull it up or down.
	overallBaseline   = 60
	overallMindWeight = 0.4
)

// NextMind folds a new intensity observation in [1,10] into the previous
// mind score. The update is a contraction toward intensity*10, so repeated
// application with a fixed intensity converges monotonically and never
// oscillates.
func NextMind(oldMind, intensity int) int {
	next := float64(oldMind)*Retention + float64(intensity)*10*Observation
	return clamp(int(math.Round(next)))
}

// Overall recomputes the composite score from the mind component alone.
// The stored physical/nutrition/career components are intentionally left
// out: this pipeline only ever observes mind-relevant signal, and the
// dashboard recomputes the full weighted composite elsewhere.
func Overall(mind int) int {
	return clamp(int(math.Round(float64(mind)*overallMindWeight + overallBaseline)))
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
