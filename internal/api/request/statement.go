package request

// DigestStatementRequest carries a decoded brokerage statement document to
// be normalized and cached. The document is the generic nested tree produced
// by the upstream statement decoder.
type DigestStatementRequest struct {
	Label    string         `json:"label,omitempty"`
	Document map[string]any `json:"document"`
}
