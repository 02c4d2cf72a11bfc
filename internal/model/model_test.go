package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	t.Run("parse and format round-trip", func(t *testing.T) {
		d, err := ParseDate("2025-06-15")
		require.NoError(t, err)
		assert.Equal(t, "2025-06-15", d.String())
	})

	t.Run("day arithmetic", func(t *testing.T) {
		d := NewDate(2025, time.January, 1)
		assert.Equal(t, NewDate(2025, time.January, 31), d.AddDays(30))
		assert.Equal(t, 30, d.DaysUntil(NewDate(2025, time.January, 31)))
		assert.Equal(t, -1, d.DaysUntil(NewDate(2024, time.December, 31)))
	})

	t.Run("tolerant decoding", func(t *testing.T) {
		for _, raw := range []string{`""`, `null`, `"06/15/2025"`, `42`} {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(raw), &d), raw)
			assert.True(t, d.IsZero(), raw)
		}

		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2025-06-15"`), &d))
		assert.Equal(t, NewDate(2025, time.June, 15), d)
	})
}

func TestAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{`35.5`, 35.5},
		{`"42.25"`, 42.25},
		{`null`, 0},
		{`"not a number"`, 0},
	}
	for _, tc := range cases {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &a), tc.raw)
		assert.Equal(t, tc.want, float64(a), tc.raw)
	}
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 10.56, RoundCents(10.555))
	assert.Equal(t, 10.55, RoundCents(10.554))
}

func TestParseContractType(t *testing.T) {
	cases := map[string]ContractType{
		"storage":        ContractTypeStorage,
		"Storage Only":   ContractTypeStorage,
		"tow":            ContractTypeTow,
		"Tow & Recovery": ContractTypeRecovery,
		"RECOVERY":       ContractTypeRecovery,
	}
	for raw, want := range cases {
		got, err := ParseContractType(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseContractType("impound")
	assert.Error(t, err)
}

func TestContractTypeDecodeKeepsUnknown(t *testing.T) {
	var c Contract
	require.NoError(t, json.Unmarshal([]byte(`{"contract_type": "Impound"}`), &c))

	assert.Equal(t, ContractType("impound"), c.Type)
	assert.False(t, c.Type.Valid())
}

func TestVehicleDecode(t *testing.T) {
	t.Run("year as number", func(t *testing.T) {
		var v Vehicle
		require.NoError(t, json.Unmarshal([]byte(`{"make": "Honda", "year": 2015}`), &v))
		require.NotNil(t, v.Year)
		assert.Equal(t, 2015, *v.Year)
	})

	t.Run("year as numeric string", func(t *testing.T) {
		var v Vehicle
		require.NoError(t, json.Unmarshal([]byte(`{"year": " 2018 "}`), &v))
		require.NotNil(t, v.Year)
		assert.Equal(t, 2018, *v.Year)
	})

	t.Run("missing year stays nil and type defaults to car", func(t *testing.T) {
		var v Vehicle
		require.NoError(t, json.Unmarshal([]byte(`{"make": "Honda"}`), &v))
		assert.Nil(t, v.Year)
		assert.Equal(t, "Car", v.VehicleType)
	})
}

func TestPaymentDecode(t *testing.T) {
	t.Run("legacy notes key", func(t *testing.T) {
		var p Payment
		require.NoError(t, json.Unmarshal([]byte(`{"amount": 50, "notes": "partial"}`), &p))
		assert.Equal(t, "partial", p.Note)
		assert.Equal(t, "cash", p.Method)
	})

	t.Run("current note key wins", func(t *testing.T) {
		var p Payment
		require.NoError(t, json.Unmarshal([]byte(`{"note": "new", "notes": "old"}`), &p))
		assert.Equal(t, "new", p.Note)
	})
}

func TestNoticeDecode(t *testing.T) {
	t.Run("sequence backfilled from legacy type text", func(t *testing.T) {
		cases := map[string]NoticeSequence{
			"1st Notice":  NoticeFirst,
			"Second":      NoticeSecond,
			"Lien Notice": NoticeLien,
		}
		for text, want := range cases {
			var n Notice
			raw := `{"notice_type": "` + text + `"}`
			require.NoError(t, json.Unmarshal([]byte(raw), &n), text)
			assert.Equal(t, want, n.Sequence, text)
		}
	})

	t.Run("explicit sequence is kept", func(t *testing.T) {
		var n Notice
		require.NoError(t, json.Unmarshal([]byte(`{"sequence": "second", "notice_type": "Lien Notice"}`), &n))
		assert.Equal(t, NoticeSecond, n.Sequence)
	})
}

func TestStorageDataDecode(t *testing.T) {
	payload := `{
		"next_id": 3,
		"contracts": [
			{
				"contract_id": 1,
				"contract_type": "Storage Only",
				"start_date": "2025-05-01",
				"rate_mode": "daily",
				"customer": {"name": "Maria Santos"},
				"vehicle": {"make": "Toyota", "year": "2012"},
				"daily_storage_fee": "35.00",
				"payments": [{"amount": 100, "notes": "deposit", "date": "2025-05-10"}]
			}
		]
	}`

	var data StorageData
	require.NoError(t, json.Unmarshal([]byte(payload), &data))

	require.Len(t, data.Contracts, 1)
	c := data.Contracts[0]
	assert.Equal(t, int64(3), data.NextID)
	assert.Equal(t, ContractTypeStorage, c.Type)
	assert.Equal(t, 35.0, float64(c.DailyStorageFee))
	require.NotNil(t, c.Vehicle.Year)
	assert.Equal(t, 2012, *c.Vehicle.Year)
	assert.Equal(t, 100.0, c.TotalPayments())
	assert.Equal(t, "deposit", c.Payments[0].Note)
}
