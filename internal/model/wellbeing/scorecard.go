package wellbeing

import "time"

// Component weights as displayed on the dashboard. The chat pipeline only
// ever observes mind-relevant signal; its update path recomputes the overall
// score from the mind component alone (see internal/scoring), which does not
// apply these weights to the other three components.
const (
	WeightMind      = 0.40
	WeightPhysical  = 0.25
	WeightNutrition = 0.20
	WeightCareer    = 0.15
)

// Scorecard is the per-user composite well-being record. At most one exists
// per user; absence means "not yet computed". Component scores and the
// overall score are bounded to [0,100].
type Scorecard struct {
	UserID         string    `json:"userId"`
	Mind           int       `json:"mindScore"`
	Physical       int       `json:"physicalScore"`
	Nutrition      int       `json:"nutritionScore"`
	Career         int       `json:"careerScore"`
	Overall        int       `json:"overallScore"`
	LastCalculated time.Time `json:"lastCalculated"`
}
