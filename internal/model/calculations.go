package model

// Lot is one acquisition (buy or transfer-in) consumed by a sale. Units may
// be fractional when a lot is only partially consumed.
type Lot struct {
	Instant   Millis   `json:"time"`
	Security  Security `json:"security"`
	Units     float64  `json:"units"`
	UnitPrice float64  `json:"unitPrice"`
}

// MatchedSale is a sale extended with its FIFO-matched cost basis and the
// ordered acquisition lots consumed to cover it. Derived output only; it is
// never fed back into the ledger.
type MatchedSale struct {
	BuySell
	CostBasis    float64 `json:"costBasis"`
	RelevantBuys []Lot   `json:"relevantBuys"`
}

// GainBucket sums an amount into short-term, long-term and total figures.
type GainBucket struct {
	Long  float64 `json:"long"`
	Short float64 `json:"short"`
	Total float64 `json:"total"`
}

// Calculations is the aggregated result of a gains computation over a date
// window.
type Calculations struct {
	RichSalesInWindow []MatchedSale `json:"richSalesInWindow"`
	Proceeds          GainBucket    `json:"proceeds"`
	Costs             GainBucket    `json:"costs"`
	Gains             GainBucket    `json:"gains"`
}
