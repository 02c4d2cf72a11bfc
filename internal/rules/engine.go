package rules

import (
	"fmt"
	"time"

	"github.com/baylot/lotops/internal/model"
)

// Engine dispatches contract computations to the matching rule set by contract
// type. It is the single place that must stay consistent with all three rule
// files: a new contract type needs a branch here and in each of them.
//
// The engine holds no mutable state. The clock is injected so statutory date
// math is deterministic under test.
type Engine struct {
	params Params
	now    func() time.Time
}

// NewEngine builds an engine with the given statutory parameters. A nil clock
// defaults to time.Now.
func NewEngine(params Params, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{params: params, now: now}
}

func (e *Engine) Params() Params { return e.params }

// Now returns the engine's current time.
func (e *Engine) Now() time.Time { return e.now() }

// Today returns the engine's current calendar date.
func (e *Engine) Today() model.Date { return model.DateOf(e.now()) }

// effectiveType resolves the billing rules for a contract. A recovery contract
// without the involuntary-tow license is billed as storage-only everywhere;
// a type outside the closed enum is an explicit error.
func (e *Engine) effectiveType(c *model.Contract) (model.ContractType, error) {
	if !c.Type.Valid() {
		return "", fmt.Errorf("unknown contract type %q on contract %d", c.Type, c.ID)
	}
	if c.Type == model.ContractTypeRecovery && !e.params.InvoluntaryTowsEnabled {
		return model.ContractTypeStorage, nil
	}
	return c.Type, nil
}

// Charges computes the accrued per-component charges as of the given time.
// The admin fee is clamped to the statutory cap for the subtotal; the raw
// value stays on the contract and compliance validation still flags it.
func (e *Engine) Charges(c *model.Contract, asOf time.Time) (Charges, error) {
	effective, err := e.effectiveType(c)
	if err != nil {
		return Charges{}, err
	}

	var out Charges
	switch effective {
	case model.ContractTypeTow:
		out.Storage = e.towStorageFees(c, asOf)
		out.TowFees = e.towFees(c)
	case model.ContractTypeRecovery:
		out.Storage = e.storageFees(c, asOf)
		out.RecoveryFees = e.recoveryFees(c)
	default:
		out.Storage = e.storageFees(c, asOf)
	}

	out.Admin = model.RoundCents(min(float64(c.AdminFee), e.params.MaxAdminFee))
	out.Subtotal = model.RoundCents(out.Storage + out.TowFees + out.RecoveryFees + out.Admin)
	return out, nil
}

// Balance is accrued charges minus recorded payments, rounded to cents.
func (e *Engine) Balance(c *model.Contract, asOf time.Time) (float64, error) {
	charges, err := e.Charges(c, asOf)
	if err != nil {
		return 0, err
	}
	return model.RoundCents(charges.Subtotal - c.TotalPayments()), nil
}

// PastDueStatus dispatches past-due determination by contract type.
func (e *Engine) PastDueStatus(c *model.Contract, asOf time.Time) (PastDue, error) {
	effective, err := e.effectiveType(c)
	if err != nil {
		return PastDue{}, err
	}
	balance, err := e.Balance(c, asOf)
	if err != nil {
		return PastDue{}, err
	}

	switch effective {
	case model.ContractTypeTow:
		return e.towPastDue(c, asOf), nil
	case model.ContractTypeRecovery:
		return e.recoveryPastDue(c, asOf, balance), nil
	default:
		return e.storagePastDue(c, asOf, balance), nil
	}
}

// LienTimeline dispatches the statutory timeline by contract type. Voluntary
// tows get a not-applicable sentinel with every eligibility flag false.
func (e *Engine) LienTimeline(c *model.Contract, asOf time.Time) (Timeline, error) {
	effective, err := e.effectiveType(c)
	if err != nil {
		return Timeline{}, err
	}

	switch effective {
	case model.ContractTypeTow:
		return e.towTimeline(), nil
	case model.ContractTypeRecovery:
		return e.recoveryTimeline(c, asOf), nil
	default:
		return e.storageTimeline(c, asOf), nil
	}
}

// LienEligibility returns the eligibility flag plus a display status line.
func (e *Engine) LienEligibility(c *model.Contract, asOf time.Time) (bool, string, error) {
	effective, err := e.effectiveType(c)
	if err != nil {
		return false, "", err
	}

	switch effective {
	case model.ContractTypeTow:
		return false, "Not applicable (voluntary tow)", nil
	case model.ContractTypeRecovery:
		eligible, status := e.recoveryLienEligibility(c, asOf)
		return eligible, status, nil
	default:
		eligible, status := e.storageLienEligibility(c, asOf)
		return eligible, status, nil
	}
}

// Validate runs the advisory compliance checklist for the contract's type.
// Warnings never block a save.
func (e *Engine) Validate(c *model.Contract) ([]Warning, error) {
	effective, err := e.effectiveType(c)
	if err != nil {
		return nil, err
	}

	switch effective {
	case model.ContractTypeTow:
		return e.validateTowContract(c), nil
	case model.ContractTypeRecovery:
		return e.ValidateRecoveryContract(c), nil
	default:
		return e.validateStorageContract(c), nil
	}
}

// DeriveStatus recomputes the display status from balance and payments.
// Closed and Released are operator decisions and stand as recorded.
func (e *Engine) DeriveStatus(c *model.Contract, asOf time.Time) (model.ContractStatus, error) {
	if c.Status == model.StatusClosed || c.Status == model.StatusReleased {
		return c.Status, nil
	}
	balance, err := e.Balance(c, asOf)
	if err != nil {
		return "", err
	}
	if balance <= 0 && len(c.Payments) > 0 {
		return model.StatusPaid, nil
	}
	return model.StatusActive, nil
}

// StorageDays is the day count shown on reports: days elapsed plus the start
// day itself.
func (e *Engine) StorageDays(c *model.Contract, asOf time.Time) int {
	if c.StartDate.IsZero() {
		return 1
	}
	days := c.StartDate.DaysUntil(model.DateOf(asOf))
	if days < 0 {
		days = 0
	}
	return days + 1
}

// billableDays is the day count fees accrue over: whole days since start,
// never negative. A missing start date accrues nothing instead of billing
// from the zero date.
func billableDays(c *model.Contract, asOf time.Time) int {
	if c.StartDate.IsZero() {
		return 0
	}
	days := c.StartDate.DaysUntil(model.DateOf(asOf))
	if days < 0 {
		return 0
	}
	return days
}
