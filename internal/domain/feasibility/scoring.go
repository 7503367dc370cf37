package feasibility

// Scores holds the raw 0–10 score of each technology for one hub.
type Scores struct {
	Solar        float64 `json:"solar"`
	Electrolysis float64 `json:"electrolysis"`
	Thermal      float64 `json:"thermal"`
}

// Of returns the raw score for t.
func (s Scores) Of(t Technology) float64 {
	switch t {
	case SolarBased:
		return s.Solar
	case ElectrolysisBased:
		return s.Electrolysis
	case ThermalWithCCS:
		return s.Thermal
	default:
		return 0
	}
}

// Score computes the raw score of every technology for h.
func Score(h Hub) Scores {
	return Scores{
		Solar:        weightedSum(h, weights[SolarBased]),
		Electrolysis: weightedSum(h, weights[ElectrolysisBased]),
		Thermal:      weightedSum(h, weights[ThermalWithCCS]),
	}
}

func weightedSum(h Hub, terms []WeightTerm) float64 {
	var sum float64
	for _, t := range terms {
		// Explicit conversion rounds the product; no fused multiply-add.
		sum += float64(float64(h.Attribute(t.Attribute)) * t.Weight)
	}
	return sum
}

//Personal.AI order the ending
