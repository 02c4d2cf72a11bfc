package rules

import (
	"github.com/baylot/lotops/internal/model"
)

// Severity classifies a compliance warning. Warnings never block computation
// or saves; critical ones block a lien sale.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityAdvisory Severity = "advisory"
	SeverityCritical Severity = "critical"
)

type Warning struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func info(msg string) Warning     { return Warning{Severity: SeverityInfo, Message: msg} }
func advisory(msg string) Warning { return Warning{Severity: SeverityAdvisory, Message: msg} }
func critical(msg string) Warning { return Warning{Severity: SeverityCritical, Message: msg} }

// HasCritical reports whether any warning is critical.
func HasCritical(warnings []Warning) bool {
	for _, w := range warnings {
		if w.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// Charges is the per-component accrual breakdown for a contract. Admin is the
// clamped value used in the subtotal; the raw admin fee stays on the contract.
type Charges struct {
	Storage      float64 `json:"storage"`
	TowFees      float64 `json:"tow_fees"`
	RecoveryFees float64 `json:"recovery_fees"`
	Admin        float64 `json:"admin"`
	Subtotal     float64 `json:"subtotal"`
}

// PastDue is the past-due state of a contract.
type PastDue struct {
	IsPastDue bool `json:"is_past_due"`
	Days      int  `json:"days"`
}

// TimelineDate is a statutory date that may not be computable yet: pending
// until a notice is sent, invalid when the notice went out late, or not
// applicable for voluntary tows. Label carries the display text in those cases.
type TimelineDate struct {
	Date  model.Date `json:"date"`
	Label string     `json:"label,omitempty"`
}

func onDate(d model.Date) TimelineDate    { return TimelineDate{Date: d} }
func labeled(label string) TimelineDate   { return TimelineDate{Label: label} }

// Display renders the date for reports, falling back to the label.
func (td TimelineDate) Display() string {
	if !td.Date.IsZero() {
		return td.Date.String()
	}
	if td.Label == "" {
		return "N/A"
	}
	return td.Label
}

// Milestone is a fixed schedule point with its reached flag and distance from
// the as-of date.
type Milestone struct {
	Date          model.Date `json:"date"`
	Reached       bool       `json:"reached"`
	DaysRemaining int        `json:"days_remaining"`
	DaysOverdue   int        `json:"days_overdue"`
}

func milestoneAt(date, asOf model.Date) Milestone {
	m := Milestone{Date: date, Reached: !asOf.Before(date)}
	delta := asOf.DaysUntil(date)
	if delta > 0 {
		m.DaysRemaining = delta
	} else {
		m.DaysOverdue = -delta
	}
	return m
}

// Timeline is the statutory notice/lien/sale sequence for a contract.
// Applicable is false for voluntary tows, which have no lien process.
type Timeline struct {
	Applicable bool   `json:"applicable"`
	Statute    string `json:"statute,omitempty"`

	FirstNoticeDue   Milestone  `json:"first_notice_due"`
	FirstNoticeSent  model.Date `json:"first_notice_sent"`
	SecondNoticeDue  *Milestone `json:"second_notice_due,omitempty"`
	SecondNoticeSent model.Date `json:"second_notice_sent,omitempty"`

	LienEligible   TimelineDate `json:"lien_eligible"`
	IsLienEligible bool         `json:"is_lien_eligible"`
	SaleEligible   TimelineDate `json:"sale_eligible"`
	IsSaleEligible bool         `json:"is_sale_eligible"`

	// Recovery-only details.
	VehicleAge          int  `json:"vehicle_age,omitempty"`
	SaleWaitDays        int  `json:"sale_wait_days,omitempty"`
	IsLienNoticeOverdue bool `json:"is_lien_notice_overdue,omitempty"`

	Warnings []Warning `json:"warnings"`
}

// Breakdown analyzes how many accrued storage days are clearly collectible
// given the lien-notice timing.
type Breakdown struct {
	TotalDays        int    `json:"total_days"`
	BillableDays     int    `json:"billable_days"`
	QuestionableDays int    `json:"questionable_days"`
	Warning          string `json:"warning,omitempty"`
	Details          string `json:"details"`
}
