package models

// Dissent records one agent whose final stance disagrees with the
// consensus, with its rationale carried verbatim.
type Dissent struct {
	AgentID   string `json:"agent_id"`
	Stance    Stance `json:"stance"`
	Rationale string `json:"rationale"`
}

// Consensus is the terminal artifact of a debate session: a single
// weighted decision plus everything needed to explain it.
type Consensus struct {
	FinalStance    Stance    `json:"final_stance"`
	Score          float64   `json:"score"`
	Confidence     float64   `json:"confidence"`
	AgreementRatio float64   `json:"agreement_ratio"`
	Dissent        []Dissent `json:"dissent"`
	SourceRound    int       `json:"source_round"`

	// Degenerate marks the all-abstained case (every weighted
	// confidence was zero). The hold result then carries no signal
	// and downstream consumers must not treat it as a normal vote.
	Degenerate bool `json:"degenerate"`
}
