package ledger

import (
	"time"

	"github.com/baylot/lotops/internal/model"
	"github.com/baylot/lotops/internal/rules"
)

// Assessment is a full billing evaluation of one contract on one date. The
// HTTP responses, printed records, PDF and Excel exports all render the same
// assessment rather than re-deriving pieces of it.
type Assessment struct {
	AsOf          model.Date           `json:"as_of"`
	Charges       rules.Charges        `json:"charges"`
	TotalPayments float64              `json:"total_payments"`
	Balance       float64              `json:"balance"`
	PastDue       rules.PastDue        `json:"past_due"`
	Timeline      rules.Timeline       `json:"timeline"`
	Status        model.ContractStatus `json:"status"`
	StorageDays   int                  `json:"storage_days"`
	Warnings      []rules.Warning      `json:"warnings"`
}

// Assess evaluates the contract once and collects every derived figure.
func Assess(engine *rules.Engine, c *model.Contract, asOf time.Time) (Assessment, error) {
	charges, err := engine.Charges(c, asOf)
	if err != nil {
		return Assessment{}, err
	}
	balance, err := engine.Balance(c, asOf)
	if err != nil {
		return Assessment{}, err
	}
	pastDue, err := engine.PastDueStatus(c, asOf)
	if err != nil {
		return Assessment{}, err
	}
	timeline, err := engine.LienTimeline(c, asOf)
	if err != nil {
		return Assessment{}, err
	}
	status, err := engine.DeriveStatus(c, asOf)
	if err != nil {
		return Assessment{}, err
	}
	warnings, err := engine.Validate(c)
	if err != nil {
		return Assessment{}, err
	}

	return Assessment{
		AsOf:          model.DateOf(asOf),
		Charges:       charges,
		TotalPayments: c.TotalPayments(),
		Balance:       balance,
		PastDue:       pastDue,
		Timeline:      timeline,
		Status:        status,
		StorageDays:   engine.StorageDays(c, asOf),
		Warnings:      warnings,
	}, nil
}

// ContractRecord pairs a contract with its assessment for document export.
type ContractRecord struct {
	Contract    *model.Contract
	Assessment  Assessment
	GeneratedAt time.Time
}

// LedgerReport is the input for the lot-wide Excel export: a summary row per
// contract plus the full records.
type LedgerReport struct {
	GeneratedAt time.Time
	Records     []ContractRecord
}

// BuildContractRecord assembles the export payload for one contract.
func BuildContractRecord(engine *rules.Engine, c *model.Contract, asOf time.Time) (ContractRecord, error) {
	assessment, err := Assess(engine, c, asOf)
	if err != nil {
		return ContractRecord{}, err
	}
	return ContractRecord{
		Contract:    c,
		Assessment:  assessment,
		GeneratedAt: asOf,
	}, nil
}

// BuildLedgerReport assembles the export payload for the whole lot.
func BuildLedgerReport(engine *rules.Engine, contracts []*model.Contract, asOf time.Time) (LedgerReport, error) {
	report := LedgerReport{
		GeneratedAt: asOf,
		Records:     make([]ContractRecord, 0, len(contracts)),
	}
	for _, c := range contracts {
		record, err := BuildContractRecord(engine, c, asOf)
		if err != nil {
			return LedgerReport{}, err
		}
		report.Records = append(report.Records, record)
	}
	return report, nil
}
