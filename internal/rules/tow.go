package rules

import (
	"fmt"
	"math"
	"time"

	"github.com/baylot/lotops/internal/fees"
	"github.com/baylot/lotops/internal/model"
)

// Voluntary tow contracts: the customer requested the tow, so no lien process
// applies. Payment is simply expected within a short window.

// towFees totals the tow service charge: base fee, mileage over the included
// allowance, extra labor billed in 15-minute blocks rounded up, and the
// after-hours surcharge.
func (e *Engine) towFees(c *model.Contract) float64 {
	total := float64(c.TowBaseFee)

	if milesOver := float64(c.TowMilesUsed - c.TowMilesIncluded); milesOver > 0 {
		total += milesOver * float64(c.TowMileageRate)
	}

	if c.TowExtraLaborMinutes > 0 && c.TowLaborRate > 0 {
		blocks := math.Ceil(float64(c.TowExtraLaborMinutes) / fees.LaborBlockMinutes)
		blockRate := float64(c.TowLaborRate) / 60 * fees.LaborBlockMinutes
		total += blocks * blockRate
	}

	total += float64(c.TowAfterHoursFee)
	return model.RoundCents(total)
}

// towStorageFees accrues storage exactly like a storage contract, except the
// statutory short-stay exemption: no storage charge at all while the vehicle
// has been on the lot for less than the exemption window.
func (e *Engine) towStorageFees(c *model.Contract, asOf time.Time) float64 {
	hoursOnLot := asOf.Sub(c.StartDate.Time()).Hours()
	if hoursOnLot < e.params.TowStorageExemptionHours {
		return 0
	}
	return e.storageFees(c, asOf)
}

// towPastDue: payment expected within the fixed expectation window from the
// start date, balance or not.
func (e *Engine) towPastDue(c *model.Contract, asOf time.Time) PastDue {
	if c.StartDate.IsZero() {
		return PastDue{}
	}
	due := c.StartDate.AddDays(e.params.TowPaymentExpectationDays)
	asOfDate := model.DateOf(asOf)
	if !asOfDate.After(due) {
		return PastDue{}
	}
	return PastDue{IsPastDue: true, Days: due.DaysUntil(asOfDate)}
}

// towTimeline is the no-lien sentinel: every date pending as not applicable,
// every eligibility flag false.
func (e *Engine) towTimeline() Timeline {
	notApplicable := labeled("N/A (voluntary tow)")
	return Timeline{
		Applicable:   false,
		LienEligible: notApplicable,
		SaleEligible: notApplicable,
		Warnings: []Warning{
			info(fmt.Sprintf("Voluntary tow contracts do not have lien process. Payment expected within %d days.", e.params.TowPaymentExpectationDays)),
		},
	}
}

// validateTowContract checks the intake fields a voluntary tow needs.
func (e *Engine) validateTowContract(c *model.Contract) []Warning {
	var warnings []Warning

	if c.Customer.Name == "" {
		warnings = append(warnings, advisory("Customer name required"))
	}
	if c.Customer.Phone == "" {
		warnings = append(warnings, advisory("Customer phone required"))
	}
	if c.Vehicle.Make == "" {
		warnings = append(warnings, advisory("Vehicle make required"))
	}
	if c.Vehicle.Model == "" {
		warnings = append(warnings, advisory("Vehicle model required"))
	}
	if c.StartDate.IsZero() {
		warnings = append(warnings, critical("Start date missing or unparsable - payment deadline cannot be computed"))
	}
	if c.TowBaseFee < 0 {
		warnings = append(warnings, advisory("Tow base fee cannot be negative"))
	}
	if c.DailyStorageFee < 0 {
		warnings = append(warnings, advisory("Daily storage fee cannot be negative"))
	}
	if float64(c.AdminFee) > e.params.MaxAdminFee {
		warnings = append(warnings, advisory(fmt.Sprintf("Admin fee cannot exceed $%.2f (Florida requirement)", e.params.MaxAdminFee)))
	}

	return warnings
}
