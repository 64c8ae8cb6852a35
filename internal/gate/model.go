package gate

// GateStatus is the decoded form of a status lookup body. It is only used to
// render tables; the raw body is what the client returns.
type GateStatus struct {
	AdviceNumber              string       `json:"adviceNumber"`
	Depot                     Depot        `json:"depot"`
	Status                    Status       `json:"status"`
	ActivityTime              string       `json:"activityTime"`
	CurrentExchangeRate       float64      `json:"currentExchangeRate"`
	CurrentInspectionCriteria string       `json:"currentInspectionCriteria"`
	Type                      ActivityType `json:"type"`
}

// InsuranceCoverage is part of a GateEntry.
type InsuranceCoverage struct {
	AmountCovered  float64  `json:"amountCovered"`
	AmountCurrency string   `json:"amountCurrency"`
	AllOrNothing   bool     `json:"allOrNothing"`
	AppliesToCTL   bool     `json:"appliesToCTL"`
	Exclusions     []string `json:"exclusions"`
}

// GateEntry is the decoded form of a creation response body.
type GateEntry struct {
	AdviceNumber              string             `json:"adviceNumber"`
	CustomerReference         string             `json:"customerReference"`
	TransactionReference      string             `json:"transactionReference"`
	InsuranceCoverage         *InsuranceCoverage `json:"insuranceCoverage,omitempty"`
	CurrentExchangeRate       float64            `json:"currentExchangeRate"`
	Comments                  []string           `json:"comments"`
	CurrentInspectionCriteria string             `json:"currentInspectionCriteria"`
}
