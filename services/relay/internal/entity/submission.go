package entity

// Submission is the result of relaying a signed transaction.
type Submission struct {
	TxHash string `json:"tx_hash"`
	Method string `json:"method,omitempty"`
}
