package rules

import "github.com/baylot/lotops/internal/fees"

// StorageSchedule is the notice/lien/sale schedule for storage-only contracts.
// Slower than the recovery statute; milestones count from the start date.
type StorageSchedule struct {
	FirstNoticeDays  int
	SecondNoticeDays int
	LienEligibleDays int
	SaleEligibleDays int
}

// RecoverySchedule is the Florida Statute 713.78 timeline for involuntary
// recovery contracts.
type RecoverySchedule struct {
	LienNoticeDeadlineDays   int
	SaleWaitDaysNewVehicle   int
	SaleWaitDaysOldVehicle   int
	MinNoticeToSaleDays      int
	VehicleAgeThresholdYears int
}

// Params carries every statutory constant and business flag the rules engine
// consumes. Constructed explicitly and injected; tests supply their own.
type Params struct {
	// InvoluntaryTowsEnabled gates recovery billing and the 713.78 timeline.
	// Requires a Florida wrecker license. When disabled, recovery contracts
	// are billed and timed exactly like storage-only contracts.
	InvoluntaryTowsEnabled bool

	MaxAdminFee float64
	MaxLienFee  float64

	// TowStorageExemptionHours is the short-stay window during which a
	// voluntary tow accrues no storage charge.
	TowStorageExemptionHours  float64
	TowPaymentExpectationDays int

	// StoragePastDueDays is the grace period before an unpaid storage
	// contract counts as past due.
	StoragePastDueDays int

	Storage  StorageSchedule
	Recovery RecoverySchedule
}

// DefaultParams returns the statutory defaults for Florida.
func DefaultParams() Params {
	return Params{
		InvoluntaryTowsEnabled:    false,
		MaxAdminFee:               fees.MaxAdminFee,
		MaxLienFee:                fees.MaxLienFee,
		TowStorageExemptionHours:  fees.DefaultTowStorageExemptionHours,
		TowPaymentExpectationDays: 7,
		StoragePastDueDays:        30,
		Storage: StorageSchedule{
			FirstNoticeDays:  30,
			SecondNoticeDays: 60,
			LienEligibleDays: 90,
			SaleEligibleDays: 120,
		},
		Recovery: RecoverySchedule{
			LienNoticeDeadlineDays:   7,
			SaleWaitDaysNewVehicle:   50,
			SaleWaitDaysOldVehicle:   35,
			MinNoticeToSaleDays:      30,
			VehicleAgeThresholdYears: 3,
		},
	}
}
