package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ContractType is the closed set of contract kinds. Unknown strings are an
// explicit parse error rather than silently falling back to storage billing.
type ContractType string

const (
	ContractTypeStorage  ContractType = "storage"
	ContractTypeTow      ContractType = "tow"
	ContractTypeRecovery ContractType = "recovery"
)

// ParseContractType normalizes the type labels found in legacy data files
// ("Storage Only", "Tow & Recovery", ...) into the closed enum.
func ParseContractType(raw string) (ContractType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "storage", "storage only", "storageonly":
		return ContractTypeStorage, nil
	case "tow":
		return ContractTypeTow, nil
	case "recovery", "tow & recovery", "tow&recovery":
		return ContractTypeRecovery, nil
	default:
		return "", fmt.Errorf("unknown contract type %q", raw)
	}
}

// UnmarshalJSON normalizes legacy aliases but never fails the decode: an
// unrecognized label is kept lowercased so the engine can reject it explicitly
// at dispatch time instead of a load error killing the whole data file.
func (t *ContractType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, err := ParseContractType(raw); err == nil {
		*t = parsed
		return nil
	}
	*t = ContractType(strings.ToLower(strings.TrimSpace(raw)))
	return nil
}

func (t ContractType) Valid() bool {
	switch t {
	case ContractTypeStorage, ContractTypeTow, ContractTypeRecovery:
		return true
	}
	return false
}

// Title returns the display form used in printed reports.
func (t ContractType) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// RateMode selects which of the three independent storage-fee fields governs
// billing. Weekly and monthly rates are not derived from the daily rate.
type RateMode string

const (
	RateModeDaily   RateMode = "daily"
	RateModeWeekly  RateMode = "weekly"
	RateModeMonthly RateMode = "monthly"
)

func ParseRateMode(raw string) (RateMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "daily":
		return RateModeDaily, nil
	case "weekly":
		return RateModeWeekly, nil
	case "monthly":
		return RateModeMonthly, nil
	default:
		return "", fmt.Errorf("unknown rate mode %q", raw)
	}
}

// UnmarshalJSON keeps unknown rate modes as-is; fee computation falls back to
// the daily rate for anything it does not recognize.
func (m *RateMode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, err := ParseRateMode(raw); err == nil {
		*m = parsed
		return nil
	}
	*m = RateMode(strings.ToLower(strings.TrimSpace(raw)))
	return nil
}

func (m RateMode) Valid() bool {
	switch m {
	case RateModeDaily, RateModeWeekly, RateModeMonthly:
		return true
	}
	return false
}

func (m RateMode) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// ContractStatus is informational; display status is recomputed from balance
// and dates rather than trusted from storage.
type ContractStatus string

const (
	StatusActive   ContractStatus = "Active"
	StatusClosed   ContractStatus = "Closed"
	StatusReleased ContractStatus = "Released"
	StatusPaid     ContractStatus = "Paid"
)

// Contract is the central entity: one vehicle under storage, voluntary tow, or
// involuntary recovery. Contracts are never deleted; "closed" is a status.
type Contract struct {
	ID        int64        `json:"contract_id"`
	Customer  Customer     `json:"customer"`
	Vehicle   Vehicle      `json:"vehicle"`
	StartDate Date         `json:"start_date"`
	Type      ContractType `json:"contract_type"`

	RateMode          RateMode `json:"rate_mode"`
	DailyStorageFee   Amount   `json:"daily_storage_fee"`
	WeeklyStorageFee  Amount   `json:"weekly_storage_fee"`
	MonthlyStorageFee Amount   `json:"monthly_storage_fee"`

	// Voluntary tow fields.
	TowBaseFee           Amount `json:"tow_base_fee"`
	TowMileageRate       Amount `json:"tow_mileage_rate"`
	TowMilesIncluded     Amount `json:"tow_miles_included"`
	TowMilesUsed         Amount `json:"tow_miles_used"`
	TowLaborRate         Amount `json:"tow_hourly_labor_rate"`
	TowExtraLaborMinutes Amount `json:"tow_extra_labor_minutes"`
	TowAfterHoursFee     Amount `json:"tow_after_hours_fee"`

	// Involuntary recovery fields.
	RecoveryHandlingFee Amount `json:"recovery_handling_fee"`
	LienProcessingFee   Amount `json:"lien_processing_fee"`
	CertMailFee         Amount `json:"cert_mail_fee"`
	TitleSearchFee      Amount `json:"title_search_fee"`
	DMVFee              Amount `json:"dmv_fee"`
	SaleFee             Amount `json:"sale_fee"`
	NoticesSent         int    `json:"notices_sent"`

	AdminFee Amount `json:"admin_fee"`

	Status               ContractStatus `json:"status"`
	FirstNoticeSentDate  Date           `json:"first_notice_sent_date"`
	SecondNoticeSentDate Date           `json:"second_notice_sent_date"`

	Notes       []string  `json:"notes"`
	Attachments []string  `json:"attachments"`
	Payments    []Payment `json:"payments"`
	Fees        []Fee     `json:"fees"`
	Notices     []Notice  `json:"notices"`
	AuditLog    []string  `json:"audit_log"`
}

// TotalPayments sums recorded payments, rounded to cents.
func (c *Contract) TotalPayments() float64 {
	total := 0.0
	for _, p := range c.Payments {
		total += float64(p.Amount)
	}
	return RoundCents(total)
}

// StorageData is the legacy top-level container persisted by the desktop tool:
// every contract plus the sequence counter that assigns contract IDs.
type StorageData struct {
	NextID    int64      `json:"next_id"`
	Contracts []Contract `json:"contracts"`
}
