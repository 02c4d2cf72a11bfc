package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baylot/lotops/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

type contractRow struct {
	ID           int64
	ContractType string
	StartDate    time.Time
	Status       string

	CustomerName    string
	CustomerPhone   string
	CustomerAddress string

	VehiclePlate          string
	VehicleVin            string
	VehicleType           string
	VehicleMake           string
	VehicleModel          string
	VehicleYear           *int
	VehicleColor          string
	VehicleInitialMileage float64

	RateMode          string
	DailyStorageFee   float64
	WeeklyStorageFee  float64
	MonthlyStorageFee float64

	TowBaseFee           float64
	TowMileageRate       float64
	TowMilesIncluded     float64
	TowMilesUsed         float64
	TowHourlyLaborRate   float64
	TowExtraLaborMinutes float64
	TowAfterHoursFee     float64

	RecoveryHandlingFee float64
	LienProcessingFee   float64
	CertMailFee         float64
	TitleSearchFee      float64
	DmvFee              float64
	SaleFee             float64
	NoticesSent         int

	AdminFee float64

	FirstNoticeSentDate  *time.Time
	SecondNoticeSentDate *time.Time

	Notes       []byte
	Attachments []byte
	Fees        []byte
	AuditLog    []byte
}

const contractColumns = `
	id, contract_type, start_date, status,
	customer_name, customer_phone, customer_address,
	vehicle_plate, vehicle_vin, vehicle_type, vehicle_make, vehicle_model,
	vehicle_year, vehicle_color, vehicle_initial_mileage,
	rate_mode, daily_storage_fee, weekly_storage_fee, monthly_storage_fee,
	tow_base_fee, tow_mileage_rate, tow_miles_included, tow_miles_used,
	tow_hourly_labor_rate, tow_extra_labor_minutes, tow_after_hours_fee,
	recovery_handling_fee, lien_processing_fee, cert_mail_fee,
	title_search_fee, dmv_fee, sale_fee, notices_sent,
	admin_fee, first_notice_sent_date, second_notice_sent_date,
	notes, attachments, fees, audit_log
`

// Create inserts the contract and assigns its sequence-backed ID.
func (r *ContractRepository) Create(ctx context.Context, c *model.Contract) error {
	var id int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO contract (
			contract_type, start_date, status,
			customer_name, customer_phone, customer_address,
			vehicle_plate, vehicle_vin, vehicle_type, vehicle_make, vehicle_model,
			vehicle_year, vehicle_color, vehicle_initial_mileage,
			rate_mode, daily_storage_fee, weekly_storage_fee, monthly_storage_fee,
			tow_base_fee, tow_mileage_rate, tow_miles_included, tow_miles_used,
			tow_hourly_labor_rate, tow_extra_labor_minutes, tow_after_hours_fee,
			recovery_handling_fee, lien_processing_fee, cert_mail_fee,
			title_search_fee, dmv_fee, sale_fee, notices_sent,
			admin_fee, first_notice_sent_date, second_notice_sent_date,
			notes, attachments, fees, audit_log
		) VALUES (
			?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?
		)
		RETURNING id
	`,
		string(c.Type), c.StartDate.Time(), string(c.Status),
		c.Customer.Name, c.Customer.Phone, c.Customer.Address,
		c.Vehicle.Plate, c.Vehicle.VIN, c.Vehicle.VehicleType, c.Vehicle.Make, c.Vehicle.Model,
		c.Vehicle.Year, c.Vehicle.Color, float64(c.Vehicle.InitialMileage),
		string(c.RateMode), float64(c.DailyStorageFee), float64(c.WeeklyStorageFee), float64(c.MonthlyStorageFee),
		float64(c.TowBaseFee), float64(c.TowMileageRate), float64(c.TowMilesIncluded), float64(c.TowMilesUsed),
		float64(c.TowLaborRate), float64(c.TowExtraLaborMinutes), float64(c.TowAfterHoursFee),
		float64(c.RecoveryHandlingFee), float64(c.LienProcessingFee), float64(c.CertMailFee),
		float64(c.TitleSearchFee), float64(c.DMVFee), float64(c.SaleFee), c.NoticesSent,
		float64(c.AdminFee), nullableDate(c.FirstNoticeSentDate), nullableDate(c.SecondNoticeSentDate),
		mustJSON(c.Notes), mustJSON(c.Attachments), mustJSON(c.Fees), mustJSON(c.AuditLog),
	).Scan(&id).Error
	if err != nil {
		return err
	}
	c.ID = id

	for _, p := range c.Payments {
		if err := r.AddPayment(ctx, id, p); err != nil {
			return err
		}
	}
	for _, n := range c.Notices {
		if err := r.AddNotice(ctx, id, n); err != nil {
			return err
		}
	}
	return nil
}

// GetByID loads a contract with its payments and notices.
func (r *ContractRepository) GetByID(ctx context.Context, id int64) (*model.Contract, error) {
	var row contractRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT `+contractColumns+` FROM contract WHERE id = ?`, id,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	contract := rowToContract(row)
	if err := r.loadPayments(ctx, contract); err != nil {
		return nil, err
	}
	if err := r.loadNotices(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// List loads every contract, payments and notices included. The lot is a
// single yard; the table stays small enough for full loads.
func (r *ContractRepository) List(ctx context.Context) ([]*model.Contract, error) {
	var rows []contractRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT ` + contractColumns + ` FROM contract ORDER BY id`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	contracts := make([]*model.Contract, 0, len(rows))
	for _, row := range rows {
		contract := rowToContract(row)
		if err := r.loadPayments(ctx, contract); err != nil {
			return nil, err
		}
		if err := r.loadNotices(ctx, contract); err != nil {
			return nil, err
		}
		contracts = append(contracts, contract)
	}
	return contracts, nil
}

// Update rewrites the contract's mutable columns. Payments and notices are
// append-only and handled through their own methods.
func (r *ContractRepository) Update(ctx context.Context, c *model.Contract) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE contract SET
			status = ?,
			rate_mode = ?, daily_storage_fee = ?, weekly_storage_fee = ?, monthly_storage_fee = ?,
			tow_base_fee = ?, tow_mileage_rate = ?, tow_miles_included = ?, tow_miles_used = ?,
			tow_hourly_labor_rate = ?, tow_extra_labor_minutes = ?, tow_after_hours_fee = ?,
			recovery_handling_fee = ?, lien_processing_fee = ?, cert_mail_fee = ?,
			title_search_fee = ?, dmv_fee = ?, sale_fee = ?, notices_sent = ?,
			admin_fee = ?,
			first_notice_sent_date = ?, second_notice_sent_date = ?,
			notes = ?, attachments = ?, fees = ?, audit_log = ?
		WHERE id = ?
	`,
		string(c.Status),
		string(c.RateMode), float64(c.DailyStorageFee), float64(c.WeeklyStorageFee), float64(c.MonthlyStorageFee),
		float64(c.TowBaseFee), float64(c.TowMileageRate), float64(c.TowMilesIncluded), float64(c.TowMilesUsed),
		float64(c.TowLaborRate), float64(c.TowExtraLaborMinutes), float64(c.TowAfterHoursFee),
		float64(c.RecoveryHandlingFee), float64(c.LienProcessingFee), float64(c.CertMailFee),
		float64(c.TitleSearchFee), float64(c.DMVFee), float64(c.SaleFee), c.NoticesSent,
		float64(c.AdminFee),
		nullableDate(c.FirstNoticeSentDate), nullableDate(c.SecondNoticeSentDate),
		mustJSON(c.Notes), mustJSON(c.Attachments), mustJSON(c.Fees), mustJSON(c.AuditLog),
		c.ID,
	).Error
}

// AddPayment appends a payment row.
func (r *ContractRepository) AddPayment(ctx context.Context, contractID int64, p model.Payment) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO payment (id, contract_id, paid_on, amount, method, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, contractID, p.Date.Time(), float64(p.Amount), p.Method, p.Note).Error
}

// AddNotice appends a notice row.
func (r *ContractRepository) AddNotice(ctx context.Context, contractID int64, n model.Notice) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO notice (id, contract_id, sequence, notice_type, date_generated, date_sent, amount_due, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, contractID, string(n.Sequence), n.NoticeType, n.DateGenerated.Time(),
		nullableDate(n.DateSent), float64(n.AmountDue), n.Notes).Error
}

// MarkNoticeSent stamps the sent date on a notice row.
func (r *ContractRepository) MarkNoticeSent(ctx context.Context, noticeID uuid.UUID, sent model.Date) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE notice SET date_sent = ? WHERE id = ?`, sent.Time(), noticeID,
	).Error
}

func (r *ContractRepository) loadPayments(ctx context.Context, c *model.Contract) error {
	var rows []struct {
		ID     uuid.UUID
		PaidOn time.Time
		Amount float64
		Method string
		Note   string
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, paid_on, amount, method, note
		FROM payment
		WHERE contract_id = ?
		ORDER BY paid_on, created_at
	`, c.ID).Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		c.Payments = append(c.Payments, model.Payment{
			ID:     row.ID,
			Date:   model.DateOf(row.PaidOn),
			Amount: model.Amount(row.Amount),
			Method: row.Method,
			Note:   row.Note,
		})
	}
	return nil
}

func (r *ContractRepository) loadNotices(ctx context.Context, c *model.Contract) error {
	var rows []struct {
		ID            uuid.UUID
		Sequence      string
		NoticeType    string
		DateGenerated time.Time
		DateSent      *time.Time
		AmountDue     float64
		Notes         string
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, sequence, notice_type, date_generated, date_sent, amount_due, notes
		FROM notice
		WHERE contract_id = ?
		ORDER BY date_generated, created_at
	`, c.ID).Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		notice := model.Notice{
			ID:            row.ID,
			Sequence:      model.NoticeSequence(row.Sequence),
			NoticeType:    row.NoticeType,
			DateGenerated: model.DateOf(row.DateGenerated),
			AmountDue:     model.Amount(row.AmountDue),
			Notes:         row.Notes,
		}
		if row.DateSent != nil {
			notice.DateSent = model.DateOf(*row.DateSent)
		}
		c.Notices = append(c.Notices, notice)
	}
	return nil
}

func rowToContract(row contractRow) *model.Contract {
	contract := &model.Contract{
		ID:        row.ID,
		Type:      model.ContractType(row.ContractType),
		StartDate: model.DateOf(row.StartDate),
		Status:    model.ContractStatus(row.Status),
		Customer: model.Customer{
			Name:    row.CustomerName,
			Phone:   row.CustomerPhone,
			Address: row.CustomerAddress,
		},
		Vehicle: model.Vehicle{
			Plate:          row.VehiclePlate,
			VIN:            row.VehicleVin,
			VehicleType:    row.VehicleType,
			Make:           row.VehicleMake,
			Model:          row.VehicleModel,
			Year:           row.VehicleYear,
			Color:          row.VehicleColor,
			InitialMileage: model.Amount(row.VehicleInitialMileage),
		},
		RateMode:             model.RateMode(row.RateMode),
		DailyStorageFee:      model.Amount(row.DailyStorageFee),
		WeeklyStorageFee:     model.Amount(row.WeeklyStorageFee),
		MonthlyStorageFee:    model.Amount(row.MonthlyStorageFee),
		TowBaseFee:           model.Amount(row.TowBaseFee),
		TowMileageRate:       model.Amount(row.TowMileageRate),
		TowMilesIncluded:     model.Amount(row.TowMilesIncluded),
		TowMilesUsed:         model.Amount(row.TowMilesUsed),
		TowLaborRate:         model.Amount(row.TowHourlyLaborRate),
		TowExtraLaborMinutes: model.Amount(row.TowExtraLaborMinutes),
		TowAfterHoursFee:     model.Amount(row.TowAfterHoursFee),
		RecoveryHandlingFee:  model.Amount(row.RecoveryHandlingFee),
		LienProcessingFee:    model.Amount(row.LienProcessingFee),
		CertMailFee:          model.Amount(row.CertMailFee),
		TitleSearchFee:       model.Amount(row.TitleSearchFee),
		DMVFee:               model.Amount(row.DmvFee),
		SaleFee:              model.Amount(row.SaleFee),
		NoticesSent:          row.NoticesSent,
		AdminFee:             model.Amount(row.AdminFee),
	}
	if row.FirstNoticeSentDate != nil {
		contract.FirstNoticeSentDate = model.DateOf(*row.FirstNoticeSentDate)
	}
	if row.SecondNoticeSentDate != nil {
		contract.SecondNoticeSentDate = model.DateOf(*row.SecondNoticeSentDate)
	}
	unmarshalJSON(row.Notes, &contract.Notes)
	unmarshalJSON(row.Attachments, &contract.Attachments)
	unmarshalJSON(row.Fees, &contract.Fees)
	unmarshalJSON(row.AuditLog, &contract.AuditLog)
	return contract
}

func nullableDate(d model.Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time()
	return &t
}

func mustJSON(v interface{}) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		return []byte("[]")
	}
	if string(raw) == "null" {
		return []byte("[]")
	}
	return raw
}

func unmarshalJSON(raw []byte, out interface{}) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, out)
}
