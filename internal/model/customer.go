package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Vehicle describes the stored vehicle. Year is nullable: legacy records may
// omit it, and the recovery sale timeline has to treat that as a data-quality
// problem rather than an error.
type Vehicle struct {
	Plate          string `json:"plate"`
	VIN            string `json:"vin"`
	VehicleType    string `json:"vehicle_type"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           *int   `json:"year"`
	Color          string `json:"color"`
	InitialMileage Amount `json:"initial_mileage"`
}

// vehicleAlias avoids recursing into Vehicle.UnmarshalJSON.
type vehicleAlias Vehicle

func (v *Vehicle) UnmarshalJSON(data []byte) error {
	var alias struct {
		vehicleAlias
		Year json.RawMessage `json:"year"`
	}
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*v = Vehicle(alias.vehicleAlias)
	v.Year = parseYear(alias.Year)
	if v.VehicleType == "" {
		v.VehicleType = "Car"
	}
	return nil
}

// parseYear accepts a number, a numeric string, or nothing.
func parseYear(raw json.RawMessage) *int {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	var num int
	if err := json.Unmarshal(raw, &num); err == nil {
		return &num
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			return &parsed
		}
	}
	return nil
}
