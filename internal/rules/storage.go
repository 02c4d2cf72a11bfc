package rules

import (
	"fmt"
	"math"
	"time"

	"github.com/baylot/lotops/internal/model"
)

// Storage-only contracts: the customer chose to store the vehicle. Billing is
// rate-mode driven and the lien process follows the slow 30/60/90/120 schedule.

// storageFees accrues storage charges through asOf using the contract's rate
// mode. Weekly and monthly rates are independent inputs, not multiples of the
// daily rate, and partial periods round up. An unrecognized rate mode falls
// back to daily.
func (e *Engine) storageFees(c *model.Contract, asOf time.Time) float64 {
	days := billableDays(c, asOf)
	if days == 0 {
		return 0
	}

	switch c.RateMode {
	case model.RateModeWeekly:
		weeks := math.Ceil(float64(days) / 7)
		return model.RoundCents(weeks * float64(c.WeeklyStorageFee))
	case model.RateModeMonthly:
		months := math.Ceil(float64(days) / 30)
		return model.RoundCents(months * float64(c.MonthlyStorageFee))
	default:
		return model.RoundCents(float64(days) * float64(c.DailyStorageFee))
	}
}

// storageTimeline lays out the fixed 30/60/90/120-day schedule from the start
// date with reached flags and day counts for each milestone.
func (e *Engine) storageTimeline(c *model.Contract, asOf time.Time) Timeline {
	asOfDate := model.DateOf(asOf)
	schedule := e.params.Storage

	firstNotice := milestoneAt(c.StartDate.AddDays(schedule.FirstNoticeDays), asOfDate)
	secondNotice := milestoneAt(c.StartDate.AddDays(schedule.SecondNoticeDays), asOfDate)
	lienDate := c.StartDate.AddDays(schedule.LienEligibleDays)
	saleDate := c.StartDate.AddDays(schedule.SaleEligibleDays)

	tl := Timeline{
		Applicable:       true,
		FirstNoticeDue:   firstNotice,
		FirstNoticeSent:  c.FirstNoticeSentDate,
		SecondNoticeDue:  &secondNotice,
		SecondNoticeSent: c.SecondNoticeSentDate,
		LienEligible:     onDate(lienDate),
		IsLienEligible:   !asOfDate.Before(lienDate),
		SaleEligible:     onDate(saleDate),
		IsSaleEligible:   !asOfDate.Before(saleDate),
	}

	switch {
	case tl.IsSaleEligible:
		tl.Warnings = append(tl.Warnings, advisory("SALE ELIGIBLE - Contract has reached sale eligibility date"))
	case tl.IsLienEligible:
		tl.Warnings = append(tl.Warnings, info(fmt.Sprintf("Lien eligible - Sale eligible in %d days", asOfDate.DaysUntil(saleDate))))
	default:
		tl.Warnings = append(tl.Warnings, info(fmt.Sprintf("Storage period in progress - Lien eligible in %d days", asOfDate.DaysUntil(lienDate))))
	}

	if c.FirstNoticeSentDate.IsZero() && firstNotice.Reached {
		tl.Warnings = append(tl.Warnings, info(fmt.Sprintf("First notice recommended (eligible since %s)", firstNotice.Date)))
	}
	if c.SecondNoticeSentDate.IsZero() && secondNotice.Reached {
		tl.Warnings = append(tl.Warnings, info(fmt.Sprintf("Second notice recommended (eligible since %s)", secondNotice.Date)))
	}

	return tl
}

// storagePastDue: past due once there is an unpaid balance and the grace
// period from the start date has run out.
func (e *Engine) storagePastDue(c *model.Contract, asOf time.Time, balance float64) PastDue {
	if balance <= 0 {
		return PastDue{}
	}
	days := billableDays(c, asOf)
	if days < e.params.StoragePastDueDays {
		return PastDue{}
	}
	return PastDue{IsPastDue: true, Days: days - e.params.StoragePastDueDays}
}

func (e *Engine) storageLienEligibility(c *model.Contract, asOf time.Time) (bool, string) {
	asOfDate := model.DateOf(asOf)
	lienDate := c.StartDate.AddDays(e.params.Storage.LienEligibleDays)
	if !asOfDate.Before(lienDate) {
		return true, "Lien Eligible"
	}
	return false, fmt.Sprintf("Active (%d days until lien eligible)", asOfDate.DaysUntil(lienDate))
}

// validateStorageContract is the advisory checklist for storage-only intake.
func (e *Engine) validateStorageContract(c *model.Contract) []Warning {
	var warnings []Warning

	if c.StartDate.IsZero() {
		warnings = append(warnings, critical("Start date missing or unparsable - storage charges cannot accrue"))
	}
	if !c.RateMode.Valid() {
		warnings = append(warnings, advisory("Rate mode must be daily, weekly, or monthly"))
	}
	if c.DailyStorageFee <= 0 {
		warnings = append(warnings, advisory("Daily storage fee must be greater than 0"))
	}
	if c.WeeklyStorageFee <= 0 {
		warnings = append(warnings, advisory("Weekly storage fee must be greater than 0"))
	}
	if c.MonthlyStorageFee <= 0 {
		warnings = append(warnings, advisory("Monthly storage fee must be greater than 0"))
	}
	if float64(c.AdminFee) > e.params.MaxAdminFee {
		warnings = append(warnings, advisory(fmt.Sprintf("Admin fee $%.2f exceeds FL cap of $%.2f", float64(c.AdminFee), e.params.MaxAdminFee)))
	}
	if c.TowBaseFee > 0 || c.RecoveryHandlingFee > 0 {
		warnings = append(warnings, advisory("Storage-only contract should not have tow/recovery fees"))
	}

	return warnings
}
