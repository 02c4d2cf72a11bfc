// Package ledger mutates contract history: payments, notices, notes and the
// audit log. It never recomputes balances; callers re-invoke the rules engine
// after a mutation.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/baylot/lotops/internal/model"
)

// RecordPayment appends a payment to the contract. Amount positivity is the
// caller's responsibility; the ledger records what it is given.
func RecordPayment(c *model.Contract, amount float64, method, note string, date model.Date) model.Payment {
	payment := model.Payment{
		ID:     uuid.New(),
		Date:   date,
		Amount: model.Amount(amount),
		Method: method,
		Note:   note,
	}
	c.Payments = append(c.Payments, payment)
	return payment
}

// AddNotice appends a generated notice. The notice is not yet sent: call
// MarkNoticeSent once it actually goes out.
func AddNotice(c *model.Contract, sequence model.NoticeSequence, noticeType string, amountDue float64, notes string, generated model.Date) model.Notice {
	notice := model.Notice{
		ID:            uuid.New(),
		Sequence:      sequence,
		NoticeType:    noticeType,
		DateGenerated: generated,
		AmountDue:     model.Amount(amountDue),
		Notes:         notes,
	}
	c.Notices = append(c.Notices, notice)
	return notice
}

// MarkNoticeSent stamps a notice as sent and updates the contract's
// sequence-tracking fields. The notice sequence enum decides which sent-date
// field is stamped; no text matching is involved.
func MarkNoticeSent(c *model.Contract, noticeID uuid.UUID, sent model.Date) bool {
	for i := range c.Notices {
		if c.Notices[i].ID != noticeID {
			continue
		}
		c.Notices[i].DateSent = sent

		switch c.Notices[i].Sequence {
		case model.NoticeFirst, model.NoticeLien:
			if c.FirstNoticeSentDate.IsZero() {
				c.FirstNoticeSentDate = sent
			}
		case model.NoticeSecond:
			if c.SecondNoticeSentDate.IsZero() {
				c.SecondNoticeSentDate = sent
			}
		}
		c.NoticesSent++
		return true
	}
	return false
}

// AddAuditEntry appends a timestamped line to the contract's audit log.
// Append-only by convention; the log is evidence for disputes.
func AddAuditEntry(c *model.Contract, action, details string, at time.Time) string {
	entry := fmt.Sprintf("[%s] %s", at.Format("2006-01-02 15:04:05"), action)
	if details != "" {
		entry += " - " + details
	}
	c.AuditLog = append(c.AuditLog, entry)
	return entry
}

// AddNote appends a free-text note.
func AddNote(c *model.Contract, note string) {
	c.Notes = append(c.Notes, note)
}

// AddAttachment records an attachment path (paths only, no file contents).
func AddAttachment(c *model.Contract, path string) {
	c.Attachments = append(c.Attachments, path)
}
