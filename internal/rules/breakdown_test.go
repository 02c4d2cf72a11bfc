package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baylot/lotops/internal/model"
)

func TestStorageDaysBreakdown(t *testing.T) {
	engine := testEngine(true)
	start := model.NewDate(2025, time.June, 1)

	t.Run("storage contract is unaffected by notice timing", func(t *testing.T) {
		c := storageContract(start)

		breakdown, err := engine.StorageDaysBreakdown(c, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Equal(t, breakdown.TotalDays, breakdown.BillableDays)
		assert.Zero(t, breakdown.QuestionableDays)
		assert.Empty(t, breakdown.Warning)
	})

	t.Run("notice sent on time keeps every day billable", func(t *testing.T) {
		c := recoveryContract(start)
		c.FirstNoticeSentDate = model.NewDate(2025, time.June, 6)

		breakdown, err := engine.StorageDaysBreakdown(c, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Equal(t, breakdown.TotalDays, breakdown.BillableDays)
		assert.Empty(t, breakdown.Warning)
	})

	t.Run("late notice marks the late days questionable", func(t *testing.T) {
		c := recoveryContract(start)
		c.FirstNoticeSentDate = model.NewDate(2025, time.June, 13)

		breakdown, err := engine.StorageDaysBreakdown(c, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		// sent on day 12 against a 7-day deadline
		assert.Equal(t, 20, breakdown.TotalDays)
		assert.Equal(t, 5, breakdown.QuestionableDays)
		assert.Equal(t, 15, breakdown.BillableDays)
		assert.Contains(t, breakdown.Warning, "COLLECTIBILITY RISK")
	})

	t.Run("unsent overdue notice caps billable days at the deadline", func(t *testing.T) {
		c := recoveryContract(start)

		breakdown, err := engine.StorageDaysBreakdown(c, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Equal(t, 7, breakdown.BillableDays)
		assert.Equal(t, 12, breakdown.QuestionableDays)
		assert.Contains(t, breakdown.Warning, "not sent")
	})

	t.Run("nothing at risk inside the notice window", func(t *testing.T) {
		c := recoveryContract(start)

		breakdown, err := engine.StorageDaysBreakdown(c, time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Equal(t, breakdown.TotalDays, breakdown.BillableDays)
		assert.Empty(t, breakdown.Warning)
	})
}
