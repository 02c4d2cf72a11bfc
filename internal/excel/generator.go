package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/baylot/lotops/internal/ledger"
	"github.com/baylot/lotops/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the lot ledger workbook: a summary sheet with one row per
// contract and a detail sheet per contract.
func (g *Generator) Generate(report ledger.LedgerReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, record := range report.Records {
		sheetName := buildSheetName(record.Contract, usedNames)
		usedNames[sheetName] = struct{}{}

		file.NewSheet(sheetName)
		if err := g.writeDetail(file, sheetName, record); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report ledger.LedgerReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	var totalBilled, totalPaid, totalDue float64
	pastDue := 0
	for _, record := range report.Records {
		totalBilled += record.Assessment.Charges.Subtotal
		totalPaid += record.Assessment.TotalPayments
		totalDue += record.Assessment.Balance
		if record.Assessment.PastDue.IsPastDue {
			pastDue++
		}
	}

	set("A1", "Lot Ledger")
	set("A2", "As of")
	set("B2", model.DateOf(report.GeneratedAt).String())
	set("A3", "Contracts")
	set("B3", len(report.Records))
	set("A4", "Past due")
	set("B4", pastDue)
	set("A5", "Total billed")
	set("B5", model.RoundCents(totalBilled))
	set("A6", "Total paid")
	set("B6", model.RoundCents(totalPaid))
	set("A7", "Total outstanding")
	set("B7", model.RoundCents(totalDue))

	headers := []string{
		"Contract", "Type", "Customer", "Vehicle", "Plate", "Start Date",
		"Status", "Days", "Charges", "Payments", "Balance", "Past Due", "Lien Eligible",
	}
	headerRow := 9
	for i, header := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		set(fmt.Sprintf("%s%d", col, headerRow), header)
	}

	for i, record := range report.Records {
		c := record.Contract
		a := record.Assessment
		row := headerRow + 1 + i
		values := []interface{}{
			c.ID,
			c.Type.Title(),
			c.Customer.Name,
			vehicleLabel(c.Vehicle),
			c.Vehicle.Plate,
			c.StartDate.String(),
			string(a.Status),
			a.StorageDays,
			a.Charges.Subtotal,
			a.TotalPayments,
			a.Balance,
			yesNo(a.PastDue.IsPastDue),
			yesNo(a.Timeline.IsLienEligible),
		}
		for j, value := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			set(fmt.Sprintf("%s%d", col, row), value)
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 10)
	_ = file.SetColWidth(sheet, "C", "D", 28)
	_ = file.SetColWidth(sheet, "E", "G", 14)
	_ = file.SetColWidth(sheet, "H", "M", 12)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, record ledger.ContractRecord) error {
	c := record.Contract
	a := record.Assessment

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Contract")
	set("B1", c.ID)
	set("A2", "Type")
	set("B2", c.Type.Title())
	set("A3", "Customer")
	set("B3", c.Customer.Name)
	set("A4", "Vehicle")
	set("B4", vehicleLabel(c.Vehicle))
	set("A5", "Start date")
	set("B5", c.StartDate.String())
	set("A6", "Status")
	set("B6", string(a.Status))
	set("A7", "Days on lot")
	set("B7", a.StorageDays)

	set("A9", "Storage fees")
	set("B9", a.Charges.Storage)
	set("A10", "Tow fees")
	set("B10", a.Charges.TowFees)
	set("A11", "Recovery fees")
	set("B11", a.Charges.RecoveryFees)
	set("A12", "Administrative fee")
	set("B12", a.Charges.Admin)
	set("A13", "Subtotal")
	set("B13", a.Charges.Subtotal)
	set("A14", "Payments")
	set("B14", a.TotalPayments)
	set("A15", "Balance due")
	set("B15", a.Balance)

	row := 17
	if a.Timeline.Applicable {
		set(fmt.Sprintf("A%d", row), "First notice due")
		set(fmt.Sprintf("B%d", row), a.Timeline.FirstNoticeDue.Date.String())
		row++
		set(fmt.Sprintf("A%d", row), "Lien eligible")
		set(fmt.Sprintf("B%d", row), a.Timeline.LienEligible.Display())
		row++
		set(fmt.Sprintf("A%d", row), "Sale eligible")
		set(fmt.Sprintf("B%d", row), a.Timeline.SaleEligible.Display())
		row += 2
	}

	if len(c.Payments) > 0 {
		set(fmt.Sprintf("A%d", row), "Payment Date")
		set(fmt.Sprintf("B%d", row), "Amount")
		set(fmt.Sprintf("C%d", row), "Method")
		set(fmt.Sprintf("D%d", row), "Note")
		row++
		for _, p := range c.Payments {
			set(fmt.Sprintf("A%d", row), p.Date.String())
			set(fmt.Sprintf("B%d", row), float64(p.Amount))
			set(fmt.Sprintf("C%d", row), p.Method)
			set(fmt.Sprintf("D%d", row), p.Note)
			row++
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "D", 18)
	return nil
}

// buildSheetName keeps sheet names unique and inside the 31-character limit.
func buildSheetName(c *model.Contract, used map[string]struct{}) string {
	base := fmt.Sprintf("#%d %s", c.ID, c.Customer.Name)
	base = sanitizeSheetName(base)
	if len(base) > 31 {
		base = base[:31]
	}
	name := base
	for i := 2; ; i++ {
		if _, taken := used[name]; !taken {
			return name
		}
		suffix := fmt.Sprintf(" (%d)", i)
		trimmed := base
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		name = trimmed + suffix
	}
}

func sanitizeSheetName(name string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", "?", "", "*", "", "[", "(", "]", ")", ":", "-")
	return strings.TrimSpace(replacer.Replace(name))
}

func vehicleLabel(v model.Vehicle) string {
	parts := []string{}
	if v.Year != nil {
		parts = append(parts, fmt.Sprintf("%d", *v.Year))
	}
	if v.Make != "" {
		parts = append(parts, v.Make)
	}
	if v.Model != "" {
		parts = append(parts, v.Model)
	}
	if len(parts) == 0 {
		return v.VehicleType
	}
	return strings.Join(parts, " ")
}

func yesNo(flag bool) string {
	if flag {
		return "Yes"
	}
	return "No"
}
