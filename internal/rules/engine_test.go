package rules

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baylot/lotops/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testEngine(licensed bool) *Engine {
	params := DefaultParams()
	params.InvoluntaryTowsEnabled = licensed
	return NewEngine(params, fixedClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)))
}

func storageContract(start model.Date) *model.Contract {
	return &model.Contract{
		ID:        1,
		Type:      model.ContractTypeStorage,
		StartDate: start,
		RateMode:  model.RateModeDaily,
		Customer:  model.Customer{Name: "Maria Santos", Phone: "305-555-0101"},
		Vehicle: model.Vehicle{
			Make: "Toyota", Model: "Camry", VehicleType: "Car",
		},
		DailyStorageFee:   35,
		WeeklyStorageFee:  210,
		MonthlyStorageFee: 840,
		AdminFee:          75,
		Status:            model.StatusActive,
	}
}

func TestCharges_Storage(t *testing.T) {
	engine := testEngine(false)
	start := model.NewDate(2025, time.May, 16)
	asOf := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC) // 30 days later

	t.Run("daily rate accrues per day", func(t *testing.T) {
		c := storageContract(start)

		charges, err := engine.Charges(c, asOf)
		require.NoError(t, err)

		assert.Equal(t, 1050.0, charges.Storage)
		assert.Equal(t, 75.0, charges.Admin)
		assert.Equal(t, 1125.0, charges.Subtotal)
	})

	t.Run("weekly rate rounds partial weeks up", func(t *testing.T) {
		c := storageContract(start)
		c.RateMode = model.RateModeWeekly

		charges, err := engine.Charges(c, time.Date(2025, time.May, 26, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		// 10 days is 2 billed weeks
		assert.Equal(t, 420.0, charges.Storage)
	})

	t.Run("monthly rate rounds partial months up", func(t *testing.T) {
		c := storageContract(start)
		c.RateMode = model.RateModeMonthly

		charges, err := engine.Charges(c, time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		// 31 days is 2 billed months
		assert.Equal(t, 1680.0, charges.Storage)
	})

	t.Run("unrecognized rate mode falls back to daily", func(t *testing.T) {
		c := storageContract(start)
		c.RateMode = model.RateMode("hourly")

		charges, err := engine.Charges(c, asOf)
		require.NoError(t, err)

		assert.Equal(t, 1050.0, charges.Storage)
	})

	t.Run("start date in the future accrues nothing", func(t *testing.T) {
		c := storageContract(model.NewDate(2025, time.July, 1))

		charges, err := engine.Charges(c, asOf)
		require.NoError(t, err)

		assert.Equal(t, 0.0, charges.Storage)
	})

	t.Run("admin fee is clamped to the statutory cap", func(t *testing.T) {
		c := storageContract(start)
		c.AdminFee = 300

		charges, err := engine.Charges(c, asOf)
		require.NoError(t, err)

		assert.Equal(t, 250.0, charges.Admin)
		assert.Equal(t, 1300.0, charges.Subtotal)
		// raw value stays on the contract
		assert.Equal(t, 300.0, float64(c.AdminFee))
	})

	t.Run("unknown contract type is an error", func(t *testing.T) {
		c := storageContract(start)
		c.Type = model.ContractType("impound")

		_, err := engine.Charges(c, asOf)
		assert.Error(t, err)
	})
}

func TestBalance(t *testing.T) {
	engine := testEngine(false)
	start := model.NewDate(2025, time.May, 16)
	asOf := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	c := storageContract(start)
	c.Payments = []model.Payment{
		{Amount: 500, Date: model.NewDate(2025, time.June, 1)},
		{Amount: 125.50, Date: model.NewDate(2025, time.June, 10)},
	}

	balance, err := engine.Balance(c, asOf)
	require.NoError(t, err)

	charges, err := engine.Charges(c, asOf)
	require.NoError(t, err)
	assert.Equal(t, model.RoundCents(charges.Subtotal-c.TotalPayments()), balance)
	assert.Equal(t, 499.50, balance)
}

func TestPastDue_Storage(t *testing.T) {
	engine := testEngine(false)
	start := model.NewDate(2025, time.May, 1)

	t.Run("past due after the grace period with a balance", func(t *testing.T) {
		c := storageContract(start)

		pastDue, err := engine.PastDueStatus(c, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, pastDue.IsPastDue)
		assert.Equal(t, 15, pastDue.Days)
	})

	t.Run("not past due inside the grace period", func(t *testing.T) {
		c := storageContract(start)

		pastDue, err := engine.PastDueStatus(c, time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.False(t, pastDue.IsPastDue)
	})

	t.Run("paid off contract is never past due", func(t *testing.T) {
		c := storageContract(start)
		c.Payments = []model.Payment{{Amount: 10000}}

		pastDue, err := engine.PastDueStatus(c, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.False(t, pastDue.IsPastDue)
	})
}

func TestLienTimeline_Storage(t *testing.T) {
	engine := testEngine(false)
	start := model.NewDate(2025, time.January, 1)
	c := storageContract(start)

	t.Run("milestones follow the 30/60/90/120 schedule", func(t *testing.T) {
		tl, err := engine.LienTimeline(c, time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, tl.Applicable)
		assert.Equal(t, model.NewDate(2025, time.January, 31), tl.FirstNoticeDue.Date)
		require.NotNil(t, tl.SecondNoticeDue)
		assert.Equal(t, model.NewDate(2025, time.March, 2), tl.SecondNoticeDue.Date)
		assert.Equal(t, model.NewDate(2025, time.April, 1), tl.LienEligible.Date)
		assert.Equal(t, model.NewDate(2025, time.May, 1), tl.SaleEligible.Date)
		assert.False(t, tl.IsLienEligible)
		assert.False(t, tl.IsSaleEligible)
	})

	t.Run("lien eligible on day 90", func(t *testing.T) {
		tl, err := engine.LienTimeline(c, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, tl.IsLienEligible)
		assert.False(t, tl.IsSaleEligible)
	})

	t.Run("sale eligible on day 120", func(t *testing.T) {
		tl, err := engine.LienTimeline(c, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, tl.IsSaleEligible)
	})
}

func TestDeriveStatus(t *testing.T) {
	engine := testEngine(false)
	start := model.NewDate(2025, time.May, 16)
	asOf := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	t.Run("active while a balance is outstanding", func(t *testing.T) {
		c := storageContract(start)

		status, err := engine.DeriveStatus(c, asOf)
		require.NoError(t, err)
		assert.Equal(t, model.StatusActive, status)
	})

	t.Run("paid once payments cover the charges", func(t *testing.T) {
		c := storageContract(start)
		c.Payments = []model.Payment{{Amount: 1125}}

		status, err := engine.DeriveStatus(c, asOf)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPaid, status)
	})

	t.Run("closed and released stand as recorded", func(t *testing.T) {
		c := storageContract(start)
		c.Status = model.StatusClosed

		status, err := engine.DeriveStatus(c, asOf)
		require.NoError(t, err)
		assert.Equal(t, model.StatusClosed, status)
	})
}

func TestStorageDays(t *testing.T) {
	engine := testEngine(false)
	c := storageContract(model.NewDate(2025, time.June, 1))

	// the start day itself counts
	assert.Equal(t, 1, engine.StorageDays(c, time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, 15, engine.StorageDays(c, time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)))
	// a future start clamps to the start day
	assert.Equal(t, 1, engine.StorageDays(c, time.Date(2025, time.May, 1, 8, 0, 0, 0, time.UTC)))
}

func TestValidate_Storage(t *testing.T) {
	engine := testEngine(false)

	c := storageContract(model.NewDate(2025, time.June, 1))
	c.DailyStorageFee = 0
	c.AdminFee = 300

	warnings, err := engine.Validate(c)
	require.NoError(t, err)

	messages := make([]string, 0, len(warnings))
	for _, w := range warnings {
		messages = append(messages, w.Message)
	}
	assert.Contains(t, messages, "Daily storage fee must be greater than 0")
	assert.False(t, HasCritical(warnings), "fee checks are advisory only")
}

func TestUnparsableStartDate(t *testing.T) {
	engine := testEngine(false)
	asOf := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)

	var c model.Contract
	raw := []byte(`{"contract_type":"storage","rate_mode":"daily","daily_storage_fee":25,"admin_fee":50,"start_date":"not-a-date"}`)
	require.NoError(t, json.Unmarshal(raw, &c))
	require.True(t, c.StartDate.IsZero())

	t.Run("accrues nothing instead of billing from the zero date", func(t *testing.T) {
		charges, err := engine.Charges(&c, asOf)
		require.NoError(t, err)

		assert.Equal(t, 0.0, charges.Storage)
		assert.Equal(t, 50.0, charges.Subtotal)
	})

	t.Run("never past due", func(t *testing.T) {
		status, err := engine.PastDueStatus(&c, asOf)
		require.NoError(t, err)

		assert.False(t, status.IsPastDue)
	})

	t.Run("displays a single storage day", func(t *testing.T) {
		assert.Equal(t, 1, engine.StorageDays(&c, asOf))
	})

	t.Run("fails critical validation", func(t *testing.T) {
		warnings, err := engine.Validate(&c)
		require.NoError(t, err)

		assert.True(t, HasCritical(warnings))
	})
}

func TestStorageFeesMonotonicInTime(t *testing.T) {
	engine := testEngine(false)
	start := model.NewDate(2025, time.January, 1)

	for _, mode := range []model.RateMode{model.RateModeDaily, model.RateModeWeekly, model.RateModeMonthly} {
		t.Run(string(mode), func(t *testing.T) {
			c := storageContract(start)
			c.RateMode = mode

			previous := -1.0
			for day := 0; day <= 130; day++ {
				asOf := start.AddDays(day).Time()
				charges, err := engine.Charges(c, asOf)
				require.NoError(t, err)
				require.GreaterOrEqual(t, charges.Storage, previous,
					"storage fees decreased on day %d", day)
				previous = charges.Storage
			}
		})
	}
}

func TestContractRoundTrip(t *testing.T) {
	engine := testEngine(true)
	asOf := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	c := recoveryContract(model.NewDate(2025, time.June, 1))
	c.NoticesSent = 1
	c.FirstNoticeSentDate = model.NewDate(2025, time.June, 5)
	c.Payments = append(c.Payments, model.Payment{
		Date:   model.NewDate(2025, time.June, 10),
		Amount: 100,
		Method: "cash",
	})

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	var decoded model.Contract
	require.NoError(t, json.Unmarshal(raw, &decoded))

	wantBalance, err := engine.Balance(c, asOf)
	require.NoError(t, err)
	gotBalance, err := engine.Balance(&decoded, asOf)
	require.NoError(t, err)
	assert.Equal(t, wantBalance, gotBalance)

	wantTimeline, err := engine.LienTimeline(c, asOf)
	require.NoError(t, err)
	gotTimeline, err := engine.LienTimeline(&decoded, asOf)
	require.NoError(t, err)
	assert.Equal(t, wantTimeline, gotTimeline)
}
