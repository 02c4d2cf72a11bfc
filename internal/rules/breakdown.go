package rules

import (
	"fmt"
	"time"

	"github.com/baylot/lotops/internal/model"
)

// StorageDaysBreakdown analyzes how collectible the accrued storage days are.
// For recovery contracts, storage charged after a missed or late lien-notice
// deadline may be disputed by the owner under 713.78; storage-only contracts
// are unaffected by notice timing.
func (e *Engine) StorageDaysBreakdown(c *model.Contract, asOf time.Time) (Breakdown, error) {
	effective, err := e.effectiveType(c)
	if err != nil {
		return Breakdown{}, err
	}

	totalDays := e.StorageDays(c, asOf)
	out := Breakdown{
		TotalDays:    totalDays,
		BillableDays: totalDays,
	}

	if effective != model.ContractTypeRecovery {
		out.Details = fmt.Sprintf(
			"Storage Only contract: All %d storage days are billable. "+
				"Notice timing does not affect storage fee collectibility for this contract type.",
			totalDays)
		return out, nil
	}

	deadlineDays := e.params.Recovery.LienNoticeDeadlineDays
	asOfDate := model.DateOf(asOf)

	if !c.FirstNoticeSentDate.IsZero() {
		daysToNotice := c.StartDate.DaysUntil(c.FirstNoticeSentDate)
		if daysToNotice > deadlineDays {
			lateBy := daysToNotice - deadlineDays
			out.QuestionableDays = min(lateBy, totalDays)
			out.BillableDays = totalDays - out.QuestionableDays
			out.Warning = fmt.Sprintf(
				"COLLECTIBILITY RISK: Lien notice sent %d days late. "+
					"Storage charges for %d days (after %d-day deadline) "+
					"may not be legally collectible from vehicle owner under Florida 713.78.",
				lateBy, out.QuestionableDays, deadlineDays)
			out.Details = fmt.Sprintf(
				"Notice sent on day %d (due by day %d). "+
					"Of %d total storage days: %d days are clearly billable, "+
					"%d days may be disputed by owner.",
				daysToNotice, deadlineDays, totalDays, out.BillableDays, out.QuestionableDays)
		} else {
			out.Details = fmt.Sprintf(
				"Lien notice sent within %d-day deadline (sent on day %d). "+
					"All %d storage days are billable under Florida 713.78.",
				deadlineDays, daysToNotice, totalDays)
		}
		return out, nil
	}

	daysSinceStart := c.StartDate.DaysUntil(asOfDate)
	if daysSinceStart > deadlineDays {
		overdueBy := daysSinceStart - deadlineDays
		out.QuestionableDays = overdueBy
		out.BillableDays = deadlineDays
		out.Warning = fmt.Sprintf(
			"COLLECTIBILITY RISK: Lien notice not sent (overdue by %d days). "+
				"Storage charges for %d days (after %d-day deadline) "+
				"may not be legally collectible from vehicle owner under Florida 713.78.",
			overdueBy, out.QuestionableDays, deadlineDays)
		out.Details = fmt.Sprintf(
			"Notice deadline was day %d, now on day %d. "+
				"Of %d total storage days: %d days may be billable, "+
				"%d days are at risk of being uncollectible.",
			deadlineDays, daysSinceStart, totalDays, out.BillableDays, out.QuestionableDays)
	} else {
		out.Details = fmt.Sprintf(
			"Notice deadline is day %d (currently day %d). "+
				"All %d storage days remain billable if notice sent on time.",
			deadlineDays, daysSinceStart, totalDays)
	}
	return out, nil
}
