package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a dollar amount. Legacy data files store amounts as numbers,
// quoted numbers, or omit them entirely; anything unparseable decodes to
// zero rather than failing the load.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*a = 0
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*a = Amount(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			*a = Amount(parsed)
			return nil
		}
	}
	*a = 0
	return nil
}

// RoundCents rounds to two decimal places, the precision of every money
// figure the engine reports.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
