package model

// Fee is a named line item attached to a contract at intake.
type Fee struct {
	Name      string `json:"name"`
	Amount    Amount `json:"amount"`
	Category  string `json:"category"`
	IsDefault bool   `json:"is_default"`
}
