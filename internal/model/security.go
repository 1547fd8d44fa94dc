package model

// Security describes one instrument referenced by the statement. Identity is
// the broker-assigned ID (normally a CUSIP). Name and Ticker are empty on
// stub securities synthesized for IDs missing from the statement's security
// list.
type Security struct {
	ID     string `json:"id"`
	IDType string `json:"idType"`
	Name   string `json:"name,omitempty"`
	Ticker string `json:"ticker,omitempty"`
}

// IsStub reports whether the security is a placeholder synthesized for an
// identifier absent from the statement's security list.
func (s Security) IsStub() bool {
	return s.Name == "" && s.Ticker == ""
}
