package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/baylot/lotops/internal/ledger"
	"github.com/baylot/lotops/internal/model"
	"github.com/baylot/lotops/internal/rules"
)

type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

// Generate renders the printable contract record: one page per contract with
// the charge breakdown, lien timeline and payment history.
func (g *Generator) Generate(record ledger.ContractRecord) ([]byte, error) {
	c := record.Contract
	a := record.Assessment

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Storage & Recovery Contract Record", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Contract #%d  (%s)", c.ID, c.Type.Title()), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s, as of %s", record.GeneratedAt.Format("Jan 2, 2006"), a.AsOf), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	g.sectionTitle(pdf, "Customer")
	g.line(pdf, c.Customer.Name)
	if c.Customer.Phone != "" {
		g.line(pdf, fmt.Sprintf("Phone: %s", c.Customer.Phone))
	}
	if c.Customer.Address != "" {
		g.line(pdf, fmt.Sprintf("Address: %s", c.Customer.Address))
	}
	pdf.Ln(2)

	g.sectionTitle(pdf, "Vehicle")
	g.line(pdf, vehicleLine(c.Vehicle))
	if c.Vehicle.Plate != "" {
		g.line(pdf, fmt.Sprintf("Plate: %s", c.Vehicle.Plate))
	}
	if c.Vehicle.VIN != "" {
		g.line(pdf, fmt.Sprintf("VIN: %s", c.Vehicle.VIN))
	}
	g.line(pdf, fmt.Sprintf("Start date: %s    Status: %s    Days on lot: %d", c.StartDate, a.Status, a.StorageDays))
	pdf.Ln(2)

	g.sectionTitle(pdf, "Charges")
	g.chargesTable(pdf, a)
	pdf.Ln(2)

	if a.Timeline.Applicable {
		g.sectionTitle(pdf, "Lien Timeline")
		g.timelineBlock(pdf, a.Timeline)
		pdf.Ln(2)
	}

	if len(c.Payments) > 0 {
		g.sectionTitle(pdf, "Payments")
		g.paymentsTable(pdf, c.Payments)
		pdf.Ln(2)
	}

	if len(c.Notices) > 0 {
		g.sectionTitle(pdf, "Notices")
		for _, n := range c.Notices {
			sent := "not sent"
			if !n.DateSent.IsZero() {
				sent = fmt.Sprintf("sent %s", n.DateSent)
			}
			g.line(pdf, fmt.Sprintf("%s  generated %s, %s, $%.2f due", n.Sequence.Title(), n.DateGenerated, sent, float64(n.AmountDue)))
		}
		pdf.Ln(2)
	}

	if len(a.Warnings) > 0 {
		g.sectionTitle(pdf, "Warnings")
		for _, w := range a.Warnings {
			if w.Severity == rules.SeverityCritical {
				pdf.SetTextColor(200, 0, 0)
			}
			pdf.SetFont(g.fontName, "", 10)
			pdf.MultiCell(0, 5, fmt.Sprintf("[%s] %s", w.Severity, w.Message), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
}

func (g *Generator) line(pdf *gofpdf.Fpdf, text string) {
	pdf.MultiCell(0, 5, text, "", "L", false)
}

func (g *Generator) chargesTable(pdf *gofpdf.Fpdf, a ledger.Assessment) {
	rows := [][2]string{
		{"Storage fees", money(a.Charges.Storage)},
		{"Tow fees", money(a.Charges.TowFees)},
		{"Recovery fees", money(a.Charges.RecoveryFees)},
		{"Administrative fee", money(a.Charges.Admin)},
		{"Subtotal", money(a.Charges.Subtotal)},
		{"Payments", money(a.TotalPayments)},
		{"Balance due", money(a.Balance)},
	}
	for i, row := range rows {
		style := ""
		if i >= len(rows)-1 {
			style = "B"
		}
		pdf.SetFont(g.fontName, style, 10)
		pdf.CellFormat(110, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, row[1], "1", 1, "R", false, 0, "")
	}
	if a.PastDue.IsPastDue {
		pdf.SetFont(g.fontName, "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(0, 6, fmt.Sprintf("PAST DUE: %d days", a.PastDue.Days), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
}

func (g *Generator) timelineBlock(pdf *gofpdf.Fpdf, tl rules.Timeline) {
	if tl.Statute != "" {
		g.line(pdf, fmt.Sprintf("Statute: %s", tl.Statute))
	}
	g.line(pdf, fmt.Sprintf("First notice due: %s", tl.FirstNoticeDue.Date))
	if !tl.FirstNoticeSent.IsZero() {
		g.line(pdf, fmt.Sprintf("First notice sent: %s", tl.FirstNoticeSent))
	}
	if tl.SecondNoticeDue != nil {
		g.line(pdf, fmt.Sprintf("Second notice due: %s", tl.SecondNoticeDue.Date))
	}
	if !tl.SecondNoticeSent.IsZero() {
		g.line(pdf, fmt.Sprintf("Second notice sent: %s", tl.SecondNoticeSent))
	}
	g.line(pdf, fmt.Sprintf("Lien eligible: %s (%s)", tl.LienEligible.Display(), yesNo(tl.IsLienEligible)))
	g.line(pdf, fmt.Sprintf("Sale eligible: %s (%s)", tl.SaleEligible.Display(), yesNo(tl.IsSaleEligible)))
}

func (g *Generator) paymentsTable(pdf *gofpdf.Fpdf, payments []model.Payment) {
	pdf.SetFont(g.fontName, "B", 10)
	pdf.CellFormat(35, 6, "Date", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Amount", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, "Method", "1", 0, "L", false, 0, "")
	pdf.CellFormat(55, 6, "Note", "1", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	for _, p := range payments {
		pdf.CellFormat(35, 6, p.Date.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, money(float64(p.Amount)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, p.Method, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, p.Note, "1", 1, "L", false, 0, "")
	}
}

func vehicleLine(v model.Vehicle) string {
	year := ""
	if v.Year != nil {
		year = fmt.Sprintf("%d ", *v.Year)
	}
	return fmt.Sprintf("%s%s %s (%s, %s)", year, v.Make, v.Model, v.VehicleType, v.Color)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func yesNo(flag bool) string {
	if flag {
		return "yes"
	}
	return "no"
}
