package feasibility

// Technology is one of the three production profiles the engine scores.
type Technology int

const (
	SolarBased Technology = iota
	ElectrolysisBased
	ThermalWithCCS
)

// Technologies is the fixed evaluation order. Recommendation ties resolve to
// the earliest entry.
var Technologies = []Technology{SolarBased, ElectrolysisBased, ThermalWithCCS}

// WeightTerm is one attribute weight of a profile.
type WeightTerm struct {
	Attribute Attribute
	Weight    float64
}

// Term order matters: sums are computed left to right and the tie-break
// compares raw scores for exact equality.
var weights = map[Technology][]WeightTerm{
	SolarBased: {
		{AttrSolar, 0.5},
		{AttrInfrastructure, 0.2},
		{AttrDemandCenter, 0.1},
		{AttrWater, 0.1},
		{AttrTransportLogistics, 0.1},
	},
	ElectrolysisBased: {
		{AttrSolar, 0.3},
		{AttrWind, 0.3},
		{AttrInfrastructure, 0.15},
		{AttrWater, 0.15},
		{AttrDemandCenter, 0.05},
		{AttrTransportLogistics, 0.05},
	},
	ThermalWithCCS: {
		{AttrGas, 0.5},
		{AttrDemandCenter, 0.2},
		{AttrTransportLogistics, 0.1},
		{AttrWater, 0.1},
		{AttrInfrastructure, 0.1},
	},
}

// Weights returns a copy of the weight vector for t, or nil for an unknown
// technology.
func (t Technology) Weights() []WeightTerm {
	w, ok := weights[t]
	if !ok {
		return nil
	}
	return append([]WeightTerm(nil), w...)
}

// String returns the stable identifier used in events, metrics and logs.
func (t Technology) String() string {
	switch t {
	case SolarBased:
		return "SOLAR_BASED"
	case ElectrolysisBased:
		return "ELECTROLYSIS"
	case ThermalWithCCS:
		return "THERMAL"
	default:
		return "UNKNOWN"
	}
}

// Display is the presentation metadata attached to a recommendation.
type Display struct {
	Name      string `json:"name"`
	BgColor   string `json:"bgColor"`
	TextColor string `json:"textColor"`
}

var unknownDisplay = Display{Name: "Unknown", BgColor: "#ccc", TextColor: "#000"}

var displays = map[Technology]Display{
	SolarBased:        {Name: "Solar Electrolysis", BgColor: "rgba(255, 183, 0, 0.1)", TextColor: "#B37400"},
	ElectrolysisBased: {Name: "Wind Electrolysis", BgColor: "rgba(0, 201, 255, 0.1)", TextColor: "#007B9A"},
	ThermalWithCCS:    {Name: "Thermal with CCS", BgColor: "rgba(255, 140, 66, 0.1)", TextColor: "#B3541E"},
}

// DisplayFor returns the display metadata for t.
func DisplayFor(t Technology) Display {
	if d, ok := displays[t]; ok {
		return d
	}
	return unknownDisplay
}

//Personal.AI order the ending
