package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Payment is an append-only record of money received against a contract.
type Payment struct {
	ID     uuid.UUID `json:"id"`
	Date   Date      `json:"date"`
	Amount Amount    `json:"amount"`
	Method string    `json:"method"`
	Note   string    `json:"note"`
}

type paymentAlias Payment

// UnmarshalJSON reads either the current `note` key or the legacy `notes`
// key. Serialization always writes `note`.
func (p *Payment) UnmarshalJSON(data []byte) error {
	var alias struct {
		paymentAlias
		LegacyNotes string `json:"notes"`
	}
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*p = Payment(alias.paymentAlias)
	if p.Note == "" && alias.LegacyNotes != "" {
		p.Note = alias.LegacyNotes
	}
	if p.Method == "" {
		p.Method = "cash"
	}
	return nil
}
