package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/baylot/lotops/internal/model"
	"github.com/baylot/lotops/internal/rules"
)

// The plain-text report layouts below are a de facto contract with print and
// export consumers; section order and labels must not change.

func eligibleText(flag bool) string {
	if flag {
		return "Eligible"
	}
	return "Not yet"
}

func firstNoticeDueDisplay(tl rules.Timeline) string {
	if !tl.Applicable {
		return "N/A (voluntary tow)"
	}
	return tl.FirstNoticeDue.Date.String()
}

func firstNoticeSentDisplay(tl rules.Timeline) string {
	if !tl.Applicable {
		return "N/A (voluntary tow)"
	}
	if tl.FirstNoticeSent.IsZero() {
		return "Not sent"
	}
	return tl.FirstNoticeSent.String()
}

func formatNoticesBlock(c *model.Contract) []string {
	lines := []string{"Notices Sent:"}
	if len(c.Notices) == 0 {
		return append(lines, "- None recorded")
	}
	for _, n := range c.Notices {
		dateShown := n.DateSent
		if dateShown.IsZero() {
			dateShown = n.DateGenerated
		}
		lines = append(lines, fmt.Sprintf("- %s sent %s | Due $%.2f | %s",
			n.NoticeType, dateShown, float64(n.AmountDue), n.Notes))
	}
	return lines
}

func formatPaymentsBlock(payments []model.Payment) []string {
	lines := []string{"", "Payments Recorded:"}
	if len(payments) == 0 {
		return append(lines, "- None recorded")
	}
	lines = append(lines, fmt.Sprintf("%-12s %-10s %-15s %-30s", "Date", "Amount", "Method", "Note"))
	lines = append(lines, strings.Repeat("-", 67))
	for _, p := range payments {
		amount := fmt.Sprintf("$%.2f", float64(p.Amount))
		lines = append(lines, fmt.Sprintf("%-12s %-10s %-15s %-30s", p.Date, amount, p.Method, p.Note))
	}
	return lines
}

// FormatContractSummary renders the one-page contract summary shown in the
// detail view and attached to notices.
func FormatContractSummary(engine *rules.Engine, c *model.Contract, asOf time.Time) (string, error) {
	charges, err := engine.Charges(c, asOf)
	if err != nil {
		return "", err
	}
	balance, err := engine.Balance(c, asOf)
	if err != nil {
		return "", err
	}
	timeline, err := engine.LienTimeline(c, asOf)
	if err != nil {
		return "", err
	}
	_, lienStatus, err := engine.LienEligibility(c, asOf)
	if err != nil {
		return "", err
	}

	lines := []string{
		"Storage & Recovery Contract Summary",
		"-----------------------------------",
		fmt.Sprintf("Contract #: %d", c.ID),
		fmt.Sprintf("Customer: %s | %s", c.Customer.Name, c.Customer.Phone),
		fmt.Sprintf("Address: %s", c.Customer.Address),
		fmt.Sprintf("Vehicle: %s %s %s (%s)", c.Vehicle.VehicleType, c.Vehicle.Make, c.Vehicle.Model, c.Vehicle.Plate),
		fmt.Sprintf("VIN: %s | Color: %s", c.Vehicle.VIN, c.Vehicle.Color),
		fmt.Sprintf("Start Date: %s", c.StartDate),
		fmt.Sprintf("Contract Type: %s", c.Type.Title()),
		fmt.Sprintf("Rate Mode: %s", c.RateMode.Title()),
		fmt.Sprintf("Admin Fee: $%.2f", charges.Admin),
		fmt.Sprintf("Storage Accrued (%d days): $%.2f", engine.StorageDays(c, asOf), charges.Storage),
		fmt.Sprintf("Tow Fees: $%.2f", charges.TowFees),
		fmt.Sprintf("Recovery Fees: $%.2f", charges.RecoveryFees),
		fmt.Sprintf("Payments: $%.2f", c.TotalPayments()),
		fmt.Sprintf("Balance as of %s: $%.2f", model.DateOf(asOf), balance),
		"",
		"Lien Timeline:",
		fmt.Sprintf("  First notice due: %s", firstNoticeDueDisplay(timeline)),
		fmt.Sprintf("  First notice sent: %s", firstNoticeSentDisplay(timeline)),
		fmt.Sprintf("  Lien eligible: %s (%s)", timeline.LienEligible.Display(), eligibleText(timeline.IsLienEligible)),
		fmt.Sprintf("  Earliest sale date: %s", timeline.SaleEligible.Display()),
		fmt.Sprintf("  Lien status: %s", lienStatus),
		"",
	}
	lines = append(lines, formatNoticesBlock(c)...)

	if len(c.Notes) > 0 {
		lines = append(lines, "\nNotes:")
		for _, note := range c.Notes {
			lines = append(lines, "- "+note)
		}
	}

	if len(c.Attachments) > 0 {
		lines = append(lines, "\nAttachments (paths only):")
		for _, path := range c.Attachments {
			lines = append(lines, "- "+path)
		}
	}

	lines = append(lines, formatPaymentsBlock(c.Payments)...)
	return strings.Join(lines, "\n"), nil
}

// FormatContractRecord renders the full contract record with the charges
// breakdown. Used for printing and file export.
func FormatContractRecord(engine *rules.Engine, c *model.Contract, asOf time.Time) (string, error) {
	charges, err := engine.Charges(c, asOf)
	if err != nil {
		return "", err
	}
	balance, err := engine.Balance(c, asOf)
	if err != nil {
		return "", err
	}
	timeline, err := engine.LienTimeline(c, asOf)
	if err != nil {
		return "", err
	}
	_, lienStatus, err := engine.LienEligibility(c, asOf)
	if err != nil {
		return "", err
	}

	days := engine.StorageDays(c, asOf)
	dateRange := fmt.Sprintf("%s – %s", c.StartDate.Time().Format("Jan 02"), asOf.Format("Jan 02"))

	var rateDisplay, storageDetail string
	switch c.RateMode {
	case model.RateModeWeekly:
		rateDisplay = fmt.Sprintf("Weekly Rate: $%.2f", float64(c.WeeklyStorageFee))
		storageDetail = fmt.Sprintf("Storage: $%.2f (Weekly rate, %s, %d days)", charges.Storage, dateRange, days)
	case model.RateModeMonthly:
		rateDisplay = fmt.Sprintf("Monthly Rate: $%.2f", float64(c.MonthlyStorageFee))
		storageDetail = fmt.Sprintf("Storage: $%.2f (Monthly rate, %s, %d days)", charges.Storage, dateRange, days)
	default:
		rateDisplay = fmt.Sprintf("Daily Rate: $%.2f", float64(c.DailyStorageFee))
		storageDetail = fmt.Sprintf("Storage: $%.2f (Daily rate, %s, %d days)", charges.Storage, dateRange, days)
	}

	lines := []string{
		"Storage & Recovery Contract Record",
		"==================================",
		fmt.Sprintf("Contract #: %d", c.ID),
		fmt.Sprintf("Contract Type: %s", c.Type.Title()),
		fmt.Sprintf("Customer: %s | %s", c.Customer.Name, c.Customer.Phone),
		fmt.Sprintf("Address: %s", c.Customer.Address),
		fmt.Sprintf("Vehicle: %s %s %s (%s)", c.Vehicle.VehicleType, c.Vehicle.Make, c.Vehicle.Model, c.Vehicle.Plate),
		fmt.Sprintf("VIN: %s | Color: %s", c.Vehicle.VIN, c.Vehicle.Color),
		fmt.Sprintf("Start Date: %s", c.StartDate),
		rateDisplay,
		fmt.Sprintf("Admin Fee: $%.2f", float64(c.AdminFee)),
		"",
		"CHARGES BREAKDOWN:",
		"  " + storageDetail,
		fmt.Sprintf("  Tow Fees: $%.2f", charges.TowFees),
		fmt.Sprintf("  Recovery Fees: $%.2f", charges.RecoveryFees),
		fmt.Sprintf("  Admin: $%.2f", charges.Admin),
		fmt.Sprintf("  Total Charges: $%.2f", charges.Subtotal),
		fmt.Sprintf("  Total Payments: $%.2f", c.TotalPayments()),
		fmt.Sprintf("  BALANCE as of %s: $%.2f", model.DateOf(asOf), balance),
		"",
		"Lien Timeline:",
		fmt.Sprintf("  First notice due: %s", firstNoticeDueDisplay(timeline)),
		fmt.Sprintf("  First notice sent: %s", firstNoticeSentDisplay(timeline)),
		fmt.Sprintf("  Lien eligible: %s (%s)", timeline.LienEligible.Display(), eligibleText(timeline.IsLienEligible)),
		fmt.Sprintf("  Earliest sale date: %s", timeline.SaleEligible.Display()),
		fmt.Sprintf("  Lien status: %s", lienStatus),
		"",
	}
	lines = append(lines, formatNoticesBlock(c)...)
	lines = append(lines, formatPaymentsBlock(c.Payments)...)

	if len(c.Notes) > 0 {
		lines = append(lines, "", "Notes:")
		for _, note := range c.Notes {
			lines = append(lines, "- "+note)
		}
	}

	if len(c.Attachments) > 0 {
		lines = append(lines, "", "Attachments (paths only):")
		for _, path := range c.Attachments {
			lines = append(lines, "- "+path)
		}
	}

	return strings.Join(lines, "\n"), nil
}
