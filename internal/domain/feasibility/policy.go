package feasibility

// NoPolicyPlaceholder is returned for states without policy statements.
const NoPolicyPlaceholder = "No policy information available for this state."

// StatePolicy is the ordered list of policy advantages for one state.
type StatePolicy struct {
	State      string   `yaml:"state" json:"state"`
	Advantages []string `yaml:"advantages" json:"advantages"`
}

// PolicyTable maps states to their policy statements. It is built once and
// never mutated; lookups return copies.
type PolicyTable struct {
	order   []string
	byState map[string][]string
}

// NewPolicyTable builds a table from entries, keeping the first entry for a
// repeated state.
func NewPolicyTable(entries []StatePolicy) *PolicyTable {
	t := &PolicyTable{byState: make(map[string][]string, len(entries))}
	for _, e := range entries {
		if _, dup := t.byState[e.State]; dup {
			continue
		}
		t.order = append(t.order, e.State)
		t.byState[e.State] = append([]string(nil), e.Advantages...)
	}
	return t
}

// For returns the policy statements for state, or the one-element
// placeholder list when the state is unknown.
func (t *PolicyTable) For(state string) []string {
	if t != nil {
		if adv, ok := t.byState[state]; ok {
			return append([]string(nil), adv...)
		}
	}
	return []string{NoPolicyPlaceholder}
}

// Has reports whether state has an entry.
func (t *PolicyTable) Has(state string) bool {
	if t == nil {
		return false
	}
	_, ok := t.byState[state]
	return ok
}

// States lists the known states in table order.
func (t *PolicyTable) States() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

//Personal.AI order the ending
