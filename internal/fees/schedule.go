package fees

import (
	"encoding/json"
	"fmt"
	"os"
)

// Statutory limits and billing constants (Florida).
const (
	// MaxAdminFee is the statutory cap on administrative fees.
	MaxAdminFee = 250.00
	// MaxLienFee is the statutory cap on lien processing fees.
	MaxLienFee = 250.00
	// LaborBlockMinutes is the billing granularity for extra tow labor.
	LaborBlockMinutes = 15
	// DefaultTowStorageExemptionHours is the short-stay window during which a
	// voluntary tow accrues no storage charge.
	DefaultTowStorageExemptionHours = 6.0
)

// Template is the per-vehicle-type fee defaults applied at contract intake.
// Keys mirror the legacy fee-template JSON file.
type Template map[string]float64

// Schedule is an explicitly constructed fee-template table. It is injected
// into whoever needs defaults; there is no process-wide singleton.
type Schedule struct {
	templates map[string]Template
}

// NewSchedule builds a schedule from the built-in defaults.
func NewSchedule() *Schedule {
	templates := make(map[string]Template, len(defaultTemplates))
	for vehicleType, tpl := range defaultTemplates {
		templates[vehicleType] = cloneTemplate(tpl)
	}
	return &Schedule{templates: templates}
}

// LoadSchedule reads fee templates from a JSON file, merging over the built-in
// defaults. A missing file is not an error: the defaults stand.
func LoadSchedule(path string) (*Schedule, error) {
	schedule := NewSchedule()
	if path == "" {
		return schedule, nil
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return schedule, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fee templates: %w", err)
	}
	var loaded map[string]Template
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return nil, fmt.Errorf("parse fee templates: %w", err)
	}
	for vehicleType, tpl := range loaded {
		schedule.templates[vehicleType] = cloneTemplate(tpl)
	}
	return schedule, nil
}

// SetTemplate replaces the fee defaults for a vehicle type.
func (s *Schedule) SetTemplate(vehicleType string, tpl Template) {
	s.templates[vehicleType] = cloneTemplate(tpl)
}

// Save writes the current templates to a JSON file in the same format
// LoadSchedule reads, so operator edits survive a restart.
func (s *Schedule) Save(path string) error {
	raw, err := json.MarshalIndent(s.templates, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fee templates: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write fee templates: %w", err)
	}
	return nil
}

// ForVehicleType returns the fee defaults for a vehicle type, falling back to
// the Car template when the type is unknown.
func (s *Schedule) ForVehicleType(vehicleType string) Template {
	if tpl, ok := s.templates[vehicleType]; ok {
		return cloneTemplate(tpl)
	}
	return cloneTemplate(s.templates["Car"])
}

// VehicleTypes lists the configured vehicle types.
func (s *Schedule) VehicleTypes() []string {
	types := make([]string, 0, len(s.templates))
	for vehicleType := range s.templates {
		types = append(types, vehicleType)
	}
	return types
}

// Amount reads a single fee field from a template; missing keys are 0.
func (t Template) Amount(field string) float64 {
	return t[field]
}

func cloneTemplate(tpl Template) Template {
	cloned := make(Template, len(tpl))
	for field, amount := range tpl {
		cloned[field] = amount
	}
	return cloned
}
