package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baylot/lotops/internal/model"
)

func towContract(start model.Date) *model.Contract {
	return &model.Contract{
		ID:               2,
		Type:             model.ContractTypeTow,
		StartDate:        start,
		RateMode:         model.RateModeDaily,
		Customer:         model.Customer{Name: "James Lee", Phone: "305-555-0102"},
		Vehicle:          model.Vehicle{Make: "Ford", Model: "F-150", VehicleType: "Truck"},
		DailyStorageFee:  45,
		WeeklyStorageFee: 270,
		TowBaseFee:       125,
		TowMileageRate:   4,
		TowMilesIncluded: 5,
		AdminFee:         75,
		Status:           model.StatusActive,
	}
}

func TestTowFees(t *testing.T) {
	engine := testEngine(false)
	start := model.NewDate(2025, time.June, 1)
	asOf := start.Time()

	t.Run("base fee only within included miles", func(t *testing.T) {
		c := towContract(start)
		c.TowMilesUsed = 5

		charges, err := engine.Charges(c, asOf)
		require.NoError(t, err)

		assert.Equal(t, 125.0, charges.TowFees)
	})

	t.Run("mileage over the included allowance", func(t *testing.T) {
		c := towContract(start)
		c.TowMilesUsed = 12

		charges, err := engine.Charges(c, asOf)
		require.NoError(t, err)

		// 7 extra miles at $4
		assert.Equal(t, 153.0, charges.TowFees)
	})

	t.Run("extra labor bills in 15-minute blocks rounded up", func(t *testing.T) {
		c := towContract(start)
		c.TowLaborRate = 60
		c.TowExtraLaborMinutes = 20

		charges, err := engine.Charges(c, asOf)
		require.NoError(t, err)

		// 20 minutes is two blocks at $15 each
		assert.Equal(t, 155.0, charges.TowFees)
	})

	t.Run("after-hours surcharge added flat", func(t *testing.T) {
		c := towContract(start)
		c.TowAfterHoursFee = 50

		charges, err := engine.Charges(c, asOf)
		require.NoError(t, err)

		assert.Equal(t, 175.0, charges.TowFees)
	})
}

func TestTowStorageExemption(t *testing.T) {
	engine := testEngine(false)
	start := model.NewDate(2025, time.June, 1)

	t.Run("no storage inside the short-stay window", func(t *testing.T) {
		c := towContract(start)

		charges, err := engine.Charges(c, start.Time().Add(4*time.Hour))
		require.NoError(t, err)

		assert.Equal(t, 0.0, charges.Storage)
	})

	t.Run("storage accrues normally after the window", func(t *testing.T) {
		c := towContract(start)

		charges, err := engine.Charges(c, start.Time().Add(48*time.Hour))
		require.NoError(t, err)

		assert.Equal(t, 90.0, charges.Storage)
	})
}

func TestTowTimeline(t *testing.T) {
	engine := testEngine(false)
	c := towContract(model.NewDate(2025, time.June, 1))

	tl, err := engine.LienTimeline(c, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.False(t, tl.Applicable)
	assert.False(t, tl.IsLienEligible)
	assert.False(t, tl.IsSaleEligible)
	assert.Equal(t, "N/A (voluntary tow)", tl.LienEligible.Display())
	assert.Equal(t, "N/A (voluntary tow)", tl.SaleEligible.Display())
}

func TestTowPastDue(t *testing.T) {
	engine := testEngine(false)
	start := model.NewDate(2025, time.June, 1)
	c := towContract(start)

	t.Run("inside the expectation window", func(t *testing.T) {
		pastDue, err := engine.PastDueStatus(c, time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, pastDue.IsPastDue)
	})

	t.Run("past the expectation window", func(t *testing.T) {
		pastDue, err := engine.PastDueStatus(c, time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, pastDue.IsPastDue)
		assert.Equal(t, 4, pastDue.Days)
	})
}

func TestValidateTow(t *testing.T) {
	engine := testEngine(false)

	t.Run("complete contract is clean", func(t *testing.T) {
		c := towContract(model.NewDate(2025, time.June, 1))

		warnings, err := engine.Validate(c)
		require.NoError(t, err)
		assert.False(t, HasCritical(warnings))
	})

	t.Run("missing start date is critical", func(t *testing.T) {
		c := towContract(model.Date{})

		warnings, err := engine.Validate(c)
		require.NoError(t, err)
		assert.True(t, HasCritical(warnings))
	})
}

func TestTowLienEligibility(t *testing.T) {
	engine := testEngine(false)
	c := towContract(model.NewDate(2025, time.June, 1))

	eligible, status, err := engine.LienEligibility(c, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, eligible)
	assert.Equal(t, "Not applicable (voluntary tow)", status)
}
