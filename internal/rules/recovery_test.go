package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baylot/lotops/internal/model"
)

func intPtr(v int) *int { return &v }

func recoveryContract(start model.Date) *model.Contract {
	return &model.Contract{
		ID:        3,
		Type:      model.ContractTypeRecovery,
		StartDate: start,
		RateMode:  model.RateModeDaily,
		Customer:  model.Customer{Name: "Riverside Apartments", Phone: "305-555-0103"},
		Vehicle: model.Vehicle{
			Make: "Honda", Model: "Civic", VehicleType: "Car", Year: intPtr(2015),
		},
		DailyStorageFee:     35,
		WeeklyStorageFee:    210,
		MonthlyStorageFee:   840,
		RecoveryHandlingFee: 125,
		LienProcessingFee:   150,
		CertMailFee:         10,
		TitleSearchFee:      25,
		DMVFee:              20,
		SaleFee:             100,
		AdminFee:            75,
		Status:              model.StatusActive,
	}
}

func TestRecoveryFees(t *testing.T) {
	engine := testEngine(true)
	start := model.NewDate(2025, time.June, 1)
	asOf := start.Time()

	t.Run("handling fee only before any notice", func(t *testing.T) {
		c := recoveryContract(start)

		charges, err := engine.Charges(c, asOf)
		require.NoError(t, err)

		assert.Equal(t, 125.0, charges.RecoveryFees)
	})

	t.Run("lien process fees attach with the first notice", func(t *testing.T) {
		c := recoveryContract(start)
		c.NoticesSent = 1

		charges, err := engine.Charges(c, asOf)
		require.NoError(t, err)

		// handling + lien + title + DMV + one certified mail
		assert.Equal(t, 330.0, charges.RecoveryFees)
	})

	t.Run("certified mail charged per notice up to two", func(t *testing.T) {
		c := recoveryContract(start)
		c.NoticesSent = 3

		charges, err := engine.Charges(c, asOf)
		require.NoError(t, err)

		assert.Equal(t, 340.0, charges.RecoveryFees)
	})

	t.Run("sale fee is never auto-included", func(t *testing.T) {
		c := recoveryContract(start)
		c.NoticesSent = 2

		charges, err := engine.Charges(c, asOf)
		require.NoError(t, err)

		assert.Equal(t, 340.0, charges.RecoveryFees)
	})
}

func TestRecoveryUnlicensedFallsBackToStorage(t *testing.T) {
	engine := testEngine(false)
	start := model.NewDate(2025, time.May, 16)
	c := recoveryContract(start)
	c.NoticesSent = 2

	charges, err := engine.Charges(c, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 0.0, charges.RecoveryFees)
	assert.Equal(t, 1050.0, charges.Storage)

	tl, err := engine.LienTimeline(c, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, tl.Statute, "unlicensed recovery follows the storage schedule")
}

func TestRecoveryTimeline(t *testing.T) {
	engine := testEngine(true)
	start := model.NewDate(2025, time.June, 1)

	t.Run("pending until the notice goes out", func(t *testing.T) {
		c := recoveryContract(start)

		tl, err := engine.LienTimeline(c, time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, tl.Applicable)
		assert.Equal(t, "FL 713.78", tl.Statute)
		assert.Equal(t, model.NewDate(2025, time.June, 8), tl.FirstNoticeDue.Date)
		assert.Equal(t, "Pending (notice not sent)", tl.LienEligible.Display())
		assert.Equal(t, "Pending (notice not sent)", tl.SaleEligible.Display())
		assert.False(t, tl.IsLienNoticeOverdue)
	})

	t.Run("overdue flag once the deadline passes with no notice", func(t *testing.T) {
		c := recoveryContract(start)

		tl, err := engine.LienTimeline(c, time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, tl.IsLienNoticeOverdue)
	})

	t.Run("old vehicle gets the 35-day wait from the notice date", func(t *testing.T) {
		c := recoveryContract(start)
		c.FirstNoticeSentDate = model.NewDate(2025, time.June, 5)

		tl, err := engine.LienTimeline(c, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, tl.IsLienEligible)
		assert.Equal(t, 35, tl.SaleWaitDays)
		assert.Equal(t, model.NewDate(2025, time.July, 10), tl.SaleEligible.Date)
		assert.False(t, tl.IsSaleEligible)
	})

	t.Run("new vehicle gets the 50-day wait", func(t *testing.T) {
		c := recoveryContract(start)
		c.Vehicle.Year = intPtr(2024)
		c.FirstNoticeSentDate = model.NewDate(2025, time.June, 5)

		tl, err := engine.LienTimeline(c, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Equal(t, 50, tl.SaleWaitDays)
		assert.Equal(t, model.NewDate(2025, time.July, 25), tl.SaleEligible.Date)
	})

	t.Run("vehicle exactly at the age threshold counts as old", func(t *testing.T) {
		c := recoveryContract(start)
		c.Vehicle.Year = intPtr(2022)
		c.FirstNoticeSentDate = model.NewDate(2025, time.June, 5)

		tl, err := engine.LienTimeline(c, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Equal(t, 3, tl.VehicleAge)
		assert.Equal(t, 35, tl.SaleWaitDays)
	})

	t.Run("sale date never falls inside the minimum notice-to-sale gap", func(t *testing.T) {
		params := DefaultParams()
		params.InvoluntaryTowsEnabled = true
		params.Recovery.SaleWaitDaysOldVehicle = 20
		engine := NewEngine(params, fixedClock(time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)))

		c := recoveryContract(start)
		c.FirstNoticeSentDate = model.NewDate(2025, time.June, 5)

		tl, err := engine.LienTimeline(c, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Equal(t, model.NewDate(2025, time.July, 5), tl.SaleEligible.Date)
	})

	t.Run("late notice invalidates the lien", func(t *testing.T) {
		c := recoveryContract(start)
		c.FirstNoticeSentDate = model.NewDate(2025, time.June, 11)

		tl, err := engine.LienTimeline(c, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.False(t, tl.IsLienEligible)
		assert.Equal(t, "Invalid (notice sent late)", tl.LienEligible.Display())
		assert.Equal(t, "Invalid (notice sent late)", tl.SaleEligible.Display())
		assert.True(t, HasCritical(tl.Warnings))
	})

	t.Run("sale eligible once the wait has run", func(t *testing.T) {
		c := recoveryContract(start)
		c.FirstNoticeSentDate = model.NewDate(2025, time.June, 5)

		tl, err := engine.LienTimeline(c, time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, tl.IsSaleEligible)
	})

	t.Run("missing vehicle year assumes a new vehicle", func(t *testing.T) {
		c := recoveryContract(start)
		c.Vehicle.Year = nil
		c.FirstNoticeSentDate = model.NewDate(2025, time.June, 5)

		tl, err := engine.LienTimeline(c, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Equal(t, 50, tl.SaleWaitDays)
	})
}

func TestRecoveryPastDue(t *testing.T) {
	engine := testEngine(true)
	start := model.NewDate(2025, time.June, 1)
	c := recoveryContract(start)

	t.Run("not past due inside the notice window", func(t *testing.T) {
		pastDue, err := engine.PastDueStatus(c, time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, pastDue.IsPastDue)
	})

	t.Run("past due once the window passes with a balance", func(t *testing.T) {
		pastDue, err := engine.PastDueStatus(c, time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, pastDue.IsPastDue)
		assert.Equal(t, 10, pastDue.Days)
	})
}

func TestValidateRecoveryContract(t *testing.T) {
	engine := testEngine(true)
	start := model.NewDate(2025, time.June, 10)

	t.Run("clean contract has no critical warnings", func(t *testing.T) {
		c := recoveryContract(start)

		warnings := engine.ValidateRecoveryContract(c)
		assert.False(t, HasCritical(warnings))
	})

	t.Run("admin plus lien fees over the cap is critical", func(t *testing.T) {
		c := recoveryContract(start)
		c.AdminFee = 150
		c.LienProcessingFee = 150

		warnings := engine.ValidateRecoveryContract(c)
		assert.True(t, HasCritical(warnings))
	})

	t.Run("lien fee alone over the cap is critical", func(t *testing.T) {
		c := recoveryContract(start)
		c.AdminFee = 0
		c.LienProcessingFee = 300

		warnings := engine.ValidateRecoveryContract(c)
		assert.True(t, HasCritical(warnings))
	})

	t.Run("missing start date is critical", func(t *testing.T) {
		c := recoveryContract(model.Date{})

		warnings := engine.ValidateRecoveryContract(c)
		assert.True(t, HasCritical(warnings))
	})
}

func TestCheckSaleEligibility(t *testing.T) {
	// engine clock is 2025-06-15
	engine := testEngine(true)

	t.Run("eligible after the wait with notices sent", func(t *testing.T) {
		c := recoveryContract(model.NewDate(2025, time.April, 1))
		c.FirstNoticeSentDate = model.NewDate(2025, time.April, 5)
		c.NoticesSent = 1

		eligible, reason := engine.CheckSaleEligibility(c)
		assert.True(t, eligible)
		assert.Contains(t, reason, "713.78")
	})

	t.Run("blocked before the notice goes out", func(t *testing.T) {
		c := recoveryContract(model.NewDate(2025, time.April, 1))

		eligible, reason := engine.CheckSaleEligibility(c)
		assert.False(t, eligible)
		assert.Contains(t, reason, "notice")
	})

	t.Run("blocked with the late-notice reason when sent past the deadline", func(t *testing.T) {
		c := recoveryContract(model.NewDate(2025, time.April, 1))
		c.FirstNoticeSentDate = model.NewDate(2025, time.April, 20)
		c.NoticesSent = 1

		eligible, reason := engine.CheckSaleEligibility(c)
		assert.False(t, eligible)
		assert.Equal(t, "Invalid (notice sent late)", reason)
	})

	t.Run("blocked by outstanding compliance violations", func(t *testing.T) {
		c := recoveryContract(model.NewDate(2025, time.April, 1))
		c.FirstNoticeSentDate = model.NewDate(2025, time.April, 5)
		c.NoticesSent = 1
		c.AdminFee = 200
		c.LienProcessingFee = 200

		eligible, reason := engine.CheckSaleEligibility(c)
		assert.False(t, eligible)
		assert.Contains(t, reason, "Compliance issues")
	})
}
