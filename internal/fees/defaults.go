package fees

// Fee field names shared between templates and intake forms.
const (
	FieldDailyStorage     = "daily_storage_fee"
	FieldWeeklyStorage    = "weekly_storage_fee"
	FieldMonthlyStorage   = "monthly_storage_fee"
	FieldTowBase          = "tow_base_fee"
	FieldTowMileageRate   = "tow_mileage_rate"
	FieldTowLaborRate     = "tow_hourly_labor_rate"
	FieldAfterHours       = "after_hours_fee"
	FieldRecoveryHandling = "recovery_handling_fee"
	FieldLienProcessing   = "lien_processing_fee"
	FieldCertMail         = "cert_mail_fee"
	FieldTitleSearch      = "title_search_fee"
	FieldDMV              = "dmv_fee"
	FieldSale             = "sale_fee"
	FieldAdmin            = "admin_fee"
	FieldLaborRate        = "labor_rate"
)

// defaultTemplates carries the built-in per-vehicle-type fee defaults.
var defaultTemplates = map[string]Template{
	"Car": {
		FieldDailyStorage:   35.00,
		FieldWeeklyStorage:  210.00,
		FieldMonthlyStorage: 840.00,

		FieldTowBase:        125.00,
		FieldTowMileageRate: 4.00,
		FieldTowLaborRate:   90.00,
		FieldAfterHours:     50.00,

		FieldRecoveryHandling: 125.00,
		FieldLienProcessing:   250.00,
		FieldCertMail:         10.00,
		FieldTitleSearch:      25.00,
		FieldDMV:              20.00,
		FieldSale:             100.00,

		FieldAdmin:     75.00,
		FieldLaborRate: 90.00,
	},
	"Truck": {
		FieldDailyStorage:     35.00,
		FieldWeeklyStorage:    210.00,
		FieldMonthlyStorage:   840.00,
		FieldTowBase:          150.00,
		FieldTowMileageRate:   4.50,
		FieldTowLaborRate:     90.00,
		FieldAfterHours:       50.00,
		FieldRecoveryHandling: 150.00,
		FieldLienProcessing:   250.00,
		FieldCertMail:         10.00,
		FieldTitleSearch:      25.00,
		FieldDMV:              20.00,
		FieldSale:             100.00,
		FieldAdmin:            75.00,
		FieldLaborRate:        90.00,
	},
	"Motorcycle": {
		FieldDailyStorage:     20.00,
		FieldWeeklyStorage:    120.00,
		FieldMonthlyStorage:   480.00,
		FieldTowBase:          75.00,
		FieldTowMileageRate:   3.00,
		FieldTowLaborRate:     90.00,
		FieldAfterHours:       35.00,
		FieldRecoveryHandling: 75.00,
		FieldLienProcessing:   250.00,
		FieldCertMail:         10.00,
		FieldTitleSearch:      25.00,
		FieldDMV:              20.00,
		FieldSale:             100.00,
		FieldAdmin:            50.00,
		FieldLaborRate:        90.00,
	},
	"RV": {
		FieldDailyStorage:     45.00,
		FieldWeeklyStorage:    270.00,
		FieldMonthlyStorage:   1080.00,
		FieldTowBase:          200.00,
		FieldTowMileageRate:   5.00,
		FieldTowLaborRate:     90.00,
		FieldAfterHours:       75.00,
		FieldRecoveryHandling: 200.00,
		FieldLienProcessing:   250.00,
		FieldCertMail:         10.00,
		FieldTitleSearch:      25.00,
		FieldDMV:              20.00,
		FieldSale:             100.00,
		FieldAdmin:            100.00,
		FieldLaborRate:        90.00,
	},
	"Boat": {
		FieldDailyStorage:     40.00,
		FieldWeeklyStorage:    240.00,
		FieldMonthlyStorage:   960.00,
		FieldTowBase:          175.00,
		FieldTowMileageRate:   4.50,
		FieldTowLaborRate:     90.00,
		FieldAfterHours:       60.00,
		FieldRecoveryHandling: 175.00,
		FieldLienProcessing:   250.00,
		FieldCertMail:         10.00,
		FieldTitleSearch:      25.00,
		FieldDMV:              20.00,
		FieldSale:             100.00,
		FieldAdmin:            85.00,
		FieldLaborRate:        90.00,
	},
	"Trailer": {
		FieldDailyStorage:     25.00,
		FieldWeeklyStorage:    150.00,
		FieldMonthlyStorage:   600.00,
		FieldTowBase:          100.00,
		FieldTowMileageRate:   3.50,
		FieldTowLaborRate:     90.00,
		FieldAfterHours:       40.00,
		FieldRecoveryHandling: 100.00,
		FieldLienProcessing:   250.00,
		FieldCertMail:         10.00,
		FieldTitleSearch:      25.00,
		FieldDMV:              20.00,
		FieldSale:             100.00,
		FieldAdmin:            60.00,
		FieldLaborRate:        90.00,
	},
}
