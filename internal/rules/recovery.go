package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/baylot/lotops/internal/model"
)

// Involuntary recovery contracts follow Florida Statute 713.78: a 7-day lien
// notice deadline, then a vehicle-age-dependent sale wait measured from the
// notice date, never shorter than the 30-day minimum notice-to-sale gap.
//
// Everything here is gated on the involuntary-tow license; the engine routes
// unlicensed recovery contracts to the storage rules instead.

const recoveryStatute = "FL 713.78"

// recoveryFees accrues the recovery fee stack. The handling fee applies from
// day one; lien processing, title search and DMV fees attach once the lien
// process has started; certified mail is charged per notice up to two. The
// sale fee is assessed at the actual sale, never auto-included.
func (e *Engine) recoveryFees(c *model.Contract) float64 {
	if !e.params.InvoluntaryTowsEnabled {
		return 0
	}

	total := float64(c.RecoveryHandlingFee)

	if c.NoticesSent > 0 {
		total += float64(c.LienProcessingFee)
		total += float64(c.TitleSearchFee)
		total += float64(c.DMVFee)
	}
	if c.NoticesSent >= 1 {
		total += float64(c.CertMailFee)
	}
	if c.NoticesSent >= 2 {
		total += float64(c.CertMailFee)
	}

	return model.RoundCents(total)
}

// vehicleAge computes the vehicle's age in years as of the given time. A
// missing model year yields age 0 and a data-quality warning from validation.
func vehicleAge(c *model.Contract, asOf time.Time) int {
	if c.Vehicle.Year == nil {
		return 0
	}
	age := asOf.Year() - *c.Vehicle.Year
	if age < 0 {
		age = 0
	}
	return age
}

// saleWaitDays picks the statutory wait by vehicle age. A vehicle exactly at
// the threshold counts as old and gets the shorter wait.
func (e *Engine) saleWaitDays(age int) int {
	if age >= e.params.Recovery.VehicleAgeThresholdYears {
		return e.params.Recovery.SaleWaitDaysOldVehicle
	}
	return e.params.Recovery.SaleWaitDaysNewVehicle
}

// recoveryTimeline builds the 713.78 sequence. Until the lien notice goes
// out there is nothing to anchor the sale wait on, so lien and sale dates are
// reported as pending rather than computed.
func (e *Engine) recoveryTimeline(c *model.Contract, asOf time.Time) Timeline {
	asOfDate := model.DateOf(asOf)
	schedule := e.params.Recovery

	age := vehicleAge(c, asOf)
	waitDays := e.saleWaitDays(age)
	noticeDeadline := c.StartDate.AddDays(schedule.LienNoticeDeadlineDays)

	tl := Timeline{
		Applicable:      true,
		Statute:         recoveryStatute,
		FirstNoticeDue:  milestoneAt(noticeDeadline, asOfDate),
		FirstNoticeSent: c.FirstNoticeSentDate,
		VehicleAge:      age,
		SaleWaitDays:    waitDays,
	}

	if c.Vehicle.Year == nil {
		tl.Warnings = append(tl.Warnings, advisory("Vehicle year missing - sale timeline assumes a new vehicle"))
	}

	if c.FirstNoticeSentDate.IsZero() {
		pending := labeled("Pending (notice not sent)")
		tl.LienEligible = pending
		tl.SaleEligible = pending
		tl.IsLienNoticeOverdue = asOfDate.After(noticeDeadline) && c.NoticesSent == 0

		if tl.IsLienNoticeOverdue {
			overdueBy := noticeDeadline.DaysUntil(asOfDate)
			tl.Warnings = append(tl.Warnings, advisory(fmt.Sprintf(
				"Lien notice overdue by %d days (must be sent within %d business days of storage date)",
				overdueBy, schedule.LienNoticeDeadlineDays)))
		} else {
			tl.Warnings = append(tl.Warnings, info(fmt.Sprintf(
				"Lien notice due by %s (%d days remaining)",
				noticeDeadline, asOfDate.DaysUntil(noticeDeadline))))
		}
		return tl
	}

	sent := c.FirstNoticeSentDate
	daysToNotice := c.StartDate.DaysUntil(sent)

	if daysToNotice > schedule.LienNoticeDeadlineDays {
		invalid := labeled("Invalid (notice sent late)")
		tl.LienEligible = invalid
		tl.SaleEligible = invalid
		tl.Warnings = append(tl.Warnings, critical(fmt.Sprintf(
			"Lien notice sent %d days after storage date (must be within %d business days)",
			daysToNotice, schedule.LienNoticeDeadlineDays)))
		return tl
	}

	tl.IsLienEligible = true
	tl.LienEligible = onDate(sent)

	saleDate := sent.AddDays(waitDays)
	minSaleDate := sent.AddDays(schedule.MinNoticeToSaleDays)
	if saleDate.Before(minSaleDate) {
		saleDate = minSaleDate
		tl.Warnings = append(tl.Warnings, info(fmt.Sprintf(
			"Sale date adjusted to meet %d-day minimum after notice", schedule.MinNoticeToSaleDays)))
	}
	tl.SaleEligible = onDate(saleDate)

	if !asOfDate.Before(saleDate) {
		tl.IsSaleEligible = true
		tl.Warnings = append(tl.Warnings, advisory("SALE ELIGIBLE - Contact legal for sale process"))
	} else {
		tl.Warnings = append(tl.Warnings, info(fmt.Sprintf(
			"Lien notice sent on time - Sale eligible in %d days (vehicle is %d years old, requires %d day wait)",
			asOfDate.DaysUntil(saleDate), age, waitDays)))
	}

	return tl
}

// recoveryPastDue: recovery charges accrue immediately, so the contract is
// past due once a balance is outstanding past the notice deadline.
func (e *Engine) recoveryPastDue(c *model.Contract, asOf time.Time, balance float64) PastDue {
	days := billableDays(c, asOf)
	if balance > 0 && days >= e.params.Recovery.LienNoticeDeadlineDays {
		return PastDue{IsPastDue: true, Days: days}
	}
	return PastDue{}
}

func (e *Engine) recoveryLienEligibility(c *model.Contract, asOf time.Time) (bool, string) {
	schedule := e.params.Recovery

	if !c.FirstNoticeSentDate.IsZero() {
		daysToNotice := c.StartDate.DaysUntil(c.FirstNoticeSentDate)
		if daysToNotice <= schedule.LienNoticeDeadlineDays {
			return true, "Lien Eligible"
		}
		return false, "Invalid (notice sent late)"
	}

	daysSinceStart := billableDays(c, asOf)
	if daysSinceStart > schedule.LienNoticeDeadlineDays {
		return false, "Notice Overdue"
	}
	return false, "Active"
}

// ValidateRecoveryContract is the 713.78 compliance checklist. Advisory only:
// the UI surfaces warnings but nothing blocks a save. Critical warnings do
// block a lien sale (see CheckSaleEligibility).
func (e *Engine) ValidateRecoveryContract(c *model.Contract) []Warning {
	var warnings []Warning

	if c.StartDate.IsZero() {
		warnings = append(warnings, critical("Start date missing or unparsable - statutory deadlines cannot be computed"))
	}
	if c.RecoveryHandlingFee <= 0 {
		warnings = append(warnings, advisory("Recovery handling fee must be greater than 0"))
	}
	if c.DailyStorageFee <= 0 {
		warnings = append(warnings, advisory("Daily storage fee must be set"))
	}
	if !c.RateMode.Valid() {
		warnings = append(warnings, advisory("Rate mode must be daily, weekly, or monthly"))
	}

	totalAdminLien := float64(c.AdminFee) + float64(c.LienProcessingFee)
	if totalAdminLien > e.params.MaxAdminFee {
		warnings = append(warnings, critical(fmt.Sprintf(
			"COMPLIANCE VIOLATION: Admin + Lien fees ($%.2f) exceed FL cap of $%.2f",
			totalAdminLien, e.params.MaxAdminFee)))
	}
	if float64(c.LienProcessingFee) > e.params.MaxLienFee {
		warnings = append(warnings, critical(fmt.Sprintf(
			"Lien processing fee $%.2f exceeds FL cap of $%.2f", float64(c.LienProcessingFee), e.params.MaxLienFee)))
	}
	if float64(c.AdminFee) > e.params.MaxAdminFee {
		warnings = append(warnings, advisory(fmt.Sprintf(
			"Admin fee $%.2f exceeds FL cap of $%.2f", float64(c.AdminFee), e.params.MaxAdminFee)))
	}

	if c.CertMailFee <= 0 {
		warnings = append(warnings, advisory("Certified mail fee must be set for lien notices"))
	}
	if c.TowBaseFee > 0 {
		warnings = append(warnings, advisory("Recovery contract should use the recovery handling fee, not the tow base fee"))
	}
	if c.Vehicle.Year == nil || *c.Vehicle.Year < 1900 {
		warnings = append(warnings, advisory("Vehicle year required for proper sale timeline calculation"))
	}

	timeline := e.recoveryTimeline(c, e.now())
	if timeline.IsLienNoticeOverdue {
		warnings = append(warnings, advisory(fmt.Sprintf(
			"Lien notice OVERDUE - must be sent within %d days per %s (deadline: %s)",
			e.params.Recovery.LienNoticeDeadlineDays, recoveryStatute, timeline.FirstNoticeDue.Date)))
	}

	return warnings
}

// CheckSaleEligibility gates an actual lien sale: the timeline must have run,
// the lien notice must have gone out, and no critical compliance warning may
// be outstanding.
func (e *Engine) CheckSaleEligibility(c *model.Contract) (bool, string) {
	timeline := e.recoveryTimeline(c, e.now())

	if !timeline.IsSaleEligible {
		asOfDate := e.Today()
		if timeline.SaleEligible.Date.IsZero() {
			if !c.FirstNoticeSentDate.IsZero() {
				return false, "Invalid (notice sent late)"
			}
			return false, "Lien notice must be sent before sale"
		}
		daysLeft := asOfDate.DaysUntil(timeline.SaleEligible.Date)
		return false, fmt.Sprintf("Sale in %d days (%s)", daysLeft, timeline.SaleEligible.Date)
	}

	if c.NoticesSent == 0 {
		return false, "Lien notice must be sent before sale"
	}

	warnings := e.ValidateRecoveryContract(c)
	var criticalMsgs []string
	for _, w := range warnings {
		if w.Severity == SeverityCritical {
			criticalMsgs = append(criticalMsgs, w.Message)
		}
	}
	if len(criticalMsgs) > 0 {
		return false, "Compliance issues: " + strings.Join(criticalMsgs, "; ")
	}

	return true, "Eligible for sale per " + recoveryStatute
}
