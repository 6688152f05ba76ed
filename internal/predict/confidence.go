package predict

import (
	"time"

	"github.com/fortuna/augur/internal/feature"
)

// Winner identifies which side a prediction favors.
type Winner string

const (
	WinnerHome    Winner = "HOME"
	WinnerVisitor Winner = "VISITOR"
)

// Confidence is the qualitative band for a win-probability magnitude.
type Confidence string

const (
	ConfidenceTossUp   Confidence = "TOSS_UP"
	ConfidenceMedium   Confidence = "MEDIUM"
	ConfidenceHigh     Confidence = "HIGH"
	ConfidenceVeryHigh Confidence = "VERY_HIGH"
)

// ClassifyConfidence maps the favorite's probability to a band. Total
// function; the boundaries are closed on the lower band, so exactly 0.70 is
// HIGH and exactly 0.55 is TOSS_UP.
func ClassifyConfidence(homeProb float64) Confidence {
	p := homeProb
	if 1-p > p {
		p = 1 - p
	}

	switch {
	case p > 0.70:
		return ConfidenceVeryHigh
	case p > 0.60:
		return ConfidenceHigh
	case p > 0.55:
		return ConfidenceMedium
	default:
		return ConfidenceTossUp
	}
}

// Result is a complete matchup prediction, including the intermediate values
// presentation layers display alongside the call.
type Result struct {
	HomeTeam              string                  `json:"home_team"`
	VisitorTeam           string                  `json:"visitor_team"`
	GameDate              time.Time               `json:"game_date"`
	HomeWinProbability    float64                 `json:"home_win_probability"`
	VisitorWinProbability float64                 `json:"visitor_win_probability"`
	PredictedWinner       Winner                  `json:"predicted_winner"`
	Confidence            Confidence              `json:"confidence"`
	HomeForm              feature.TeamWindowStats `json:"home_form"`
	VisitorForm           feature.TeamWindowStats `json:"visitor_form"`
	HomeNetRating         float64                 `json:"home_net_rating"`
	VisitorNetRating      float64                 `json:"visitor_net_rating"`
	RestDifferential      int                     `json:"rest_differential"`
	TravelMiles           float64                 `json:"travel_miles"`
	Schema                feature.Schema          `json:"schema"`
}

// NewResult assembles a Result from a home win probability.
func NewResult(homeProb float64) Result {
	winner := WinnerHome
	if homeProb < 0.5 {
		winner = WinnerVisitor
	}
	return Result{
		HomeWinProbability:    homeProb,
		VisitorWinProbability: 1 - homeProb,
		PredictedWinner:       winner,
		Confidence:            ClassifyConfidence(homeProb),
	}
}
