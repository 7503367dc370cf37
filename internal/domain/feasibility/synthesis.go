package feasibility

import "math"

const (
	// JitterRange bounds the perturbation added to the feasibility base.
	JitterRange = 3.0

	MinFeasibility = 0
	MaxFeasibility = 100
)

// ProjectionYears are the fixed projection checkpoints.
var ProjectionYears = []string{"2025", "2030", "2035", "2040", "2045", "2050"}

var projectionMultipliers = []float64{1.0, 1.25, 1.6, 2.1, 2.8, 3.5}

// DisplayScores are the per-technology scores scaled to 0–100. The
// electrolysis score is exposed as wind.
type DisplayScores struct {
	Solar   int `json:"solar"`
	Wind    int `json:"wind"`
	Thermal int `json:"thermal"`
}

// Projection is the multi-year adoption projection.
type Projection struct {
	Years  []string `json:"years"`
	Values []int    `json:"values"`
}

// Recommend returns the technology with the highest raw score. Ties go to the
// earliest technology in evaluation order.
func Recommend(s Scores) Technology {
	best := Technologies[0]
	bestScore := s.Of(best)
	for _, t := range Technologies[1:] {
		if v := s.Of(t); v > bestScore {
			best, bestScore = t, v
		}
	}
	return best
}

// Feasibility turns the winning raw score into a 0–100 percentage with a
// perturbation in [-JitterRange, JitterRange] drawn from rng.
func Feasibility(winner float64, rng RandomSource) int {
	v := winner*10 + rng.Uniform(-JitterRange, JitterRange)
	v = math.Max(MinFeasibility, math.Min(MaxFeasibility, v))
	return int(math.RoundToEven(v))
}

// Scale returns the display scores for s. They do not depend on the
// perturbation.
func Scale(s Scores) DisplayScores {
	return DisplayScores{
		Solar:   int(math.RoundToEven(s.Solar * 10)),
		Wind:    int(math.RoundToEven(s.Electrolysis * 10)),
		Thermal: int(math.RoundToEven(s.Thermal * 10)),
	}
}

// Project builds the adoption projection from a feasibility percentage.
func Project(feasibility int) Projection {
	base := float64(feasibility) * 1.5
	values := make([]int, len(projectionMultipliers))
	for i, m := range projectionMultipliers {
		values[i] = int(math.RoundToEven(base * m))
	}
	return Projection{
		Years:  append([]string(nil), ProjectionYears...),
		Values: values,
	}
}

// Location echoes the analysed coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Result is the outcome of one analysis. It is built fresh per call and
// never persisted by the engine.
type Result struct {
	Location         Location      `json:"location"`
	FeasibilityScore int           `json:"feasibilityScore"`
	Recommendation   Display       `json:"recommendation"`
	Scores           DisplayScores `json:"scores"`
	Projection       Projection    `json:"projection"`
	PolicyAdvantages []string      `json:"policyAdvantages"`

	Hub        string     `json:"-"`
	State      string     `json:"-"`
	Distance   float64    `json:"-"`
	Technology Technology `json:"-"`
	RawScores  Scores     `json:"-"`
}

// Synthesize derives the recommendation, feasibility, display scores,
// projection and policy text for a scored hub.
func Synthesize(scores Scores, hub Hub, policies *PolicyTable, rng RandomSource) Result {
	tech := Recommend(scores)
	feas := Feasibility(scores.Of(tech), rng)
	return Result{
		FeasibilityScore: feas,
		Recommendation:   DisplayFor(tech),
		Scores:           Scale(scores),
		Projection:       Project(feas),
		PolicyAdvantages: policies.For(hub.State),
		Hub:              hub.Name,
		State:            hub.State,
		Technology:       tech,
		RawScores:        scores,
	}
}

//Personal.AI order the ending
