package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baylot/lotops/internal/model"
	"github.com/baylot/lotops/internal/rules"
)

func formatTestEngine() *rules.Engine {
	params := rules.DefaultParams()
	params.InvoluntaryTowsEnabled = true
	return rules.NewEngine(params, func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	})
}

func TestFormatContractSummary(t *testing.T) {
	engine := formatTestEngine()
	c := testContract()
	c.DailyStorageFee = 35
	c.AdminFee = 75
	c.RecoveryHandlingFee = 125
	RecordPayment(c, 100, "cash", "", model.NewDate(2025, time.June, 10))

	summary, err := FormatContractSummary(engine, c, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(summary, "Storage & Recovery Contract Summary"))
	assert.Contains(t, summary, "Contract #: 7")
	assert.Contains(t, summary, "Lien Timeline:")
	assert.Contains(t, summary, "First notice due: 2025-06-08")
	assert.Contains(t, summary, "Notices Sent:\n- None recorded")
	assert.Contains(t, summary, "Payments Recorded:")
	assert.Contains(t, summary, "$100.00")
}

func TestFormatContractRecord(t *testing.T) {
	engine := formatTestEngine()

	t.Run("daily rate storage detail", func(t *testing.T) {
		c := testContract()
		c.Type = model.ContractTypeStorage
		c.DailyStorageFee = 35
		c.AdminFee = 75

		record, err := FormatContractRecord(engine, c, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Contains(t, record, "CHARGES BREAKDOWN:")
		assert.Contains(t, record, "Daily Rate: $35.00")
		assert.Contains(t, record, "Storage: $490.00 (Daily rate, Jun 01 – Jun 15, 15 days)")
		assert.Contains(t, record, "Total Charges: $565.00")
	})

	t.Run("voluntary tow shows no lien process", func(t *testing.T) {
		c := testContract()
		c.Type = model.ContractTypeTow
		c.TowBaseFee = 125
		c.DailyStorageFee = 45

		record, err := FormatContractRecord(engine, c, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Contains(t, record, "First notice due: N/A (voluntary tow)")
		assert.Contains(t, record, "Lien status: Not applicable (voluntary tow)")
	})
}
