package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baylot/lotops/internal/ledger"
	"github.com/baylot/lotops/internal/model"
	"github.com/baylot/lotops/internal/rules"
)

func TestGenerate(t *testing.T) {
	params := rules.DefaultParams()
	params.InvoluntaryTowsEnabled = true
	engine := rules.NewEngine(params, func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	})

	year := 2015
	c := &model.Contract{
		ID:        4,
		Type:      model.ContractTypeRecovery,
		StartDate: model.NewDate(2025, time.June, 1),
		RateMode:  model.RateModeDaily,
		Customer:  model.Customer{Name: "Riverside Apartments", Phone: "305-555-0103"},
		Vehicle: model.Vehicle{
			Make: "Honda", Model: "Civic", VehicleType: "Car", Year: &year, Color: "Blue",
		},
		DailyStorageFee:     35,
		RecoveryHandlingFee: 125,
		CertMailFee:         10,
		AdminFee:            75,
		Status:              model.StatusActive,
		Payments: []model.Payment{
			{Date: model.NewDate(2025, time.June, 10), Amount: 100, Method: "cash"},
		},
	}

	record, err := ledger.BuildContractRecord(engine, c, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	generator, err := NewGenerator()
	require.NoError(t, err)

	content, err := generator.Generate(record)
	require.NoError(t, err)

	assert.NotEmpty(t, content)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")), "output should be a PDF document")
}
