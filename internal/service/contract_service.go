package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baylot/lotops/internal/fees"
	"github.com/baylot/lotops/internal/ledger"
	"github.com/baylot/lotops/internal/model"
	"github.com/baylot/lotops/internal/repository"
	"github.com/baylot/lotops/internal/rules"
)

type PDFGenerator interface {
	Generate(record ledger.ContractRecord) ([]byte, error)
}

type ExcelGenerator interface {
	Generate(report ledger.LedgerReport) ([]byte, error)
}

type ContractService struct {
	repo     *repository.ContractRepository
	engine   *rules.Engine
	schedule *fees.Schedule
	feePath  string
	pdf      PDFGenerator
	excel    ExcelGenerator
}

func NewContractService(
	repo *repository.ContractRepository,
	engine *rules.Engine,
	schedule *fees.Schedule,
	feePath string,
	pdf PDFGenerator,
	excel ExcelGenerator,
) *ContractService {
	return &ContractService{
		repo:     repo,
		engine:   engine,
		schedule: schedule,
		feePath:  feePath,
		pdf:      pdf,
		excel:    excel,
	}
}

// Now exposes the engine clock so callers default dates consistently with
// the billing calculations.
func (s *ContractService) Now() time.Time {
	return s.engine.Now()
}

type CreateContractInput struct {
	Contract  model.Contract
	Principal model.Principal
}

type GenerateFileResult struct {
	FileName string
	Content  []byte
}

// CreateContract intakes a new vehicle. Fee fields left at zero are filled
// from the vehicle-type template; a contract that fails critical validation
// is rejected rather than stored.
func (s *ContractService) CreateContract(ctx context.Context, input CreateContractInput) (*model.Contract, error) {
	if !input.Principal.IsOperator() {
		return nil, ErrPermissionDenied
	}

	c := input.Contract
	c.ID = 0
	if c.Customer.Name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if c.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start_date is required", ErrInvalidInput)
	}
	if !c.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown contract type %q", ErrInvalidInput, c.Type)
	}
	if c.RateMode == "" {
		c.RateMode = model.RateModeDaily
	}
	if c.Vehicle.VehicleType == "" {
		c.Vehicle.VehicleType = "Car"
	}
	if c.Status == "" {
		c.Status = model.StatusActive
	}
	s.applyFeeDefaults(&c)

	warnings, err := s.engine.Validate(&c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, w := range warnings {
		if w.Severity == rules.SeverityCritical {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, w.Message)
		}
	}

	ledger.AddAuditEntry(&c, "Contract created",
		fmt.Sprintf("%s contract for %s", c.Type.Title(), c.Customer.Name), s.engine.Now())

	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// applyFeeDefaults fills zero-valued fee fields from the vehicle-type
// template, matching how intake pre-fills the fee form.
func (s *ContractService) applyFeeDefaults(c *model.Contract) {
	tpl := s.schedule.ForVehicleType(c.Vehicle.VehicleType)

	fill := func(field *model.Amount, name string) {
		if *field == 0 {
			*field = model.Amount(tpl.Amount(name))
		}
	}

	fill(&c.DailyStorageFee, fees.FieldDailyStorage)
	fill(&c.WeeklyStorageFee, fees.FieldWeeklyStorage)
	fill(&c.MonthlyStorageFee, fees.FieldMonthlyStorage)
	fill(&c.AdminFee, fees.FieldAdmin)

	switch c.Type {
	case model.ContractTypeTow:
		fill(&c.TowBaseFee, fees.FieldTowBase)
		fill(&c.TowMileageRate, fees.FieldTowMileageRate)
		fill(&c.TowLaborRate, fees.FieldTowLaborRate)
	case model.ContractTypeRecovery:
		fill(&c.RecoveryHandlingFee, fees.FieldRecoveryHandling)
		fill(&c.LienProcessingFee, fees.FieldLienProcessing)
		fill(&c.CertMailFee, fees.FieldCertMail)
		fill(&c.TitleSearchFee, fees.FieldTitleSearch)
		fill(&c.DMVFee, fees.FieldDMV)
		fill(&c.SaleFee, fees.FieldSale)
	}
}

func (s *ContractService) GetContract(ctx context.Context, id int64) (*model.Contract, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *ContractService) ListContracts(ctx context.Context) ([]*model.Contract, error) {
	return s.repo.List(ctx)
}

// AssessContract evaluates charges, balance, past-due status and the lien
// timeline for one contract on the given date.
func (s *ContractService) AssessContract(ctx context.Context, id int64, asOf time.Time) (*model.Contract, ledger.Assessment, error) {
	c, err := s.GetContract(ctx, id)
	if err != nil {
		return nil, ledger.Assessment{}, err
	}
	assessment, err := ledger.Assess(s.engine, c, asOf)
	if err != nil {
		return nil, ledger.Assessment{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return c, assessment, nil
}

// StorageBreakdown reports which accrued storage days on a recovery contract
// remain collectible given the notice history.
func (s *ContractService) StorageBreakdown(ctx context.Context, id int64, asOf time.Time) (rules.Breakdown, error) {
	c, err := s.GetContract(ctx, id)
	if err != nil {
		return rules.Breakdown{}, err
	}
	breakdown, err := s.engine.StorageDaysBreakdown(c, asOf)
	if err != nil {
		return rules.Breakdown{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return breakdown, nil
}

// SaleEligibility reports whether a recovery contract may proceed to a lien
// sale, with the blocking reason when it may not.
func (s *ContractService) SaleEligibility(ctx context.Context, id int64) (bool, string, error) {
	c, err := s.GetContract(ctx, id)
	if err != nil {
		return false, "", err
	}
	if c.Type != model.ContractTypeRecovery {
		return false, "", fmt.Errorf("%w: sale eligibility applies to recovery contracts only", ErrInvalidInput)
	}
	eligible, reason := s.engine.CheckSaleEligibility(c)
	return eligible, reason, nil
}

type RecordPaymentInput struct {
	ContractID int64
	Amount     float64
	Method     string
	Note       string
	Date       model.Date
	Principal  model.Principal
}

func (s *ContractService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*model.Contract, model.Payment, error) {
	if !input.Principal.IsOperator() {
		return nil, model.Payment{}, ErrPermissionDenied
	}
	if input.Amount <= 0 {
		return nil, model.Payment{}, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}

	c, err := s.GetContract(ctx, input.ContractID)
	if err != nil {
		return nil, model.Payment{}, err
	}
	if c.Status == model.StatusClosed {
		return nil, model.Payment{}, ErrContractClosed
	}

	date := input.Date
	if date.IsZero() {
		date = s.engine.Today()
	}
	method := input.Method
	if method == "" {
		method = "cash"
	}

	payment := ledger.RecordPayment(c, input.Amount, method, input.Note, date)
	ledger.AddAuditEntry(c, "Payment recorded",
		fmt.Sprintf("$%.2f via %s", input.Amount, method), s.engine.Now())

	if err := s.repo.AddPayment(ctx, c.ID, payment); err != nil {
		return nil, model.Payment{}, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, model.Payment{}, err
	}
	return c, payment, nil
}

type GenerateNoticeInput struct {
	ContractID int64
	Sequence   model.NoticeSequence
	Notes      string
	Principal  model.Principal
}

// GenerateNotice creates a notice carrying the balance due on the generation
// date. The notice is recorded as generated, not sent.
func (s *ContractService) GenerateNotice(ctx context.Context, input GenerateNoticeInput) (*model.Contract, model.Notice, error) {
	if !input.Principal.IsOperator() {
		return nil, model.Notice{}, ErrPermissionDenied
	}
	if !input.Sequence.Valid() {
		return nil, model.Notice{}, fmt.Errorf("%w: unknown notice sequence %q", ErrInvalidInput, input.Sequence)
	}

	c, err := s.GetContract(ctx, input.ContractID)
	if err != nil {
		return nil, model.Notice{}, err
	}

	balance, err := s.engine.Balance(c, s.engine.Now())
	if err != nil {
		return nil, model.Notice{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	notice := ledger.AddNotice(c, input.Sequence, input.Sequence.Title(), balance, input.Notes, s.engine.Today())
	ledger.AddAuditEntry(c, "Notice generated",
		fmt.Sprintf("%s notice, $%.2f due", input.Sequence.Title(), balance), s.engine.Now())

	if err := s.repo.AddNotice(ctx, c.ID, notice); err != nil {
		return nil, model.Notice{}, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, model.Notice{}, err
	}
	return c, notice, nil
}

type MarkNoticeSentInput struct {
	ContractID int64
	NoticeID   uuid.UUID
	SentDate   model.Date
	Principal  model.Principal
}

func (s *ContractService) MarkNoticeSent(ctx context.Context, input MarkNoticeSentInput) (*model.Contract, error) {
	if !input.Principal.IsOperator() {
		return nil, ErrPermissionDenied
	}

	c, err := s.GetContract(ctx, input.ContractID)
	if err != nil {
		return nil, err
	}

	sent := input.SentDate
	if sent.IsZero() {
		sent = s.engine.Today()
	}
	if !ledger.MarkNoticeSent(c, input.NoticeID, sent) {
		return nil, fmt.Errorf("%w: notice %s", ErrNotFound, input.NoticeID)
	}
	ledger.AddAuditEntry(c, "Notice sent", fmt.Sprintf("sent on %s", sent), s.engine.Now())

	if err := s.repo.MarkNoticeSent(ctx, input.NoticeID, sent); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type UpdateStatusInput struct {
	ContractID int64
	Status     model.ContractStatus
	Principal  model.Principal
}

func (s *ContractService) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*model.Contract, error) {
	if !input.Principal.IsOperator() {
		return nil, ErrPermissionDenied
	}
	switch input.Status {
	case model.StatusActive, model.StatusClosed, model.StatusReleased, model.StatusPaid:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, input.Status)
	}

	c, err := s.GetContract(ctx, input.ContractID)
	if err != nil {
		return nil, err
	}

	previous := c.Status
	c.Status = input.Status
	ledger.AddAuditEntry(c, "Status changed",
		fmt.Sprintf("%s to %s", previous, input.Status), s.engine.Now())

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type AddNoteInput struct {
	ContractID int64
	Note       string
	Attachment string
	Principal  model.Principal
}

func (s *ContractService) AddNote(ctx context.Context, input AddNoteInput) (*model.Contract, error) {
	if !input.Principal.IsOperator() {
		return nil, ErrPermissionDenied
	}
	if input.Note == "" && input.Attachment == "" {
		return nil, fmt.Errorf("%w: note or attachment is required", ErrInvalidInput)
	}

	c, err := s.GetContract(ctx, input.ContractID)
	if err != nil {
		return nil, err
	}
	if input.Note != "" {
		ledger.AddNote(c, input.Note)
	}
	if input.Attachment != "" {
		ledger.AddAttachment(c, input.Attachment)
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ContractSummary renders the short printed summary for one contract.
func (s *ContractService) ContractSummary(ctx context.Context, id int64, asOf time.Time) (string, error) {
	c, err := s.GetContract(ctx, id)
	if err != nil {
		return "", err
	}
	summary, err := ledger.FormatContractSummary(s.engine, c, asOf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return summary, nil
}

// ContractRecordText renders the full printed record for one contract.
func (s *ContractService) ContractRecordText(ctx context.Context, id int64, asOf time.Time) (string, error) {
	c, err := s.GetContract(ctx, id)
	if err != nil {
		return "", err
	}
	record, err := ledger.FormatContractRecord(s.engine, c, asOf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return record, nil
}

// GenerateRecordPDF builds the printable PDF record for one contract.
func (s *ContractService) GenerateRecordPDF(ctx context.Context, id int64, asOf time.Time) (*GenerateFileResult, error) {
	c, err := s.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}
	record, err := ledger.BuildContractRecord(s.engine, c, asOf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	content, err := s.pdf.Generate(record)
	if err != nil {
		return nil, err
	}
	return &GenerateFileResult{
		FileName: fmt.Sprintf("contract_%d_record_%s.pdf", c.ID, model.DateOf(asOf)),
		Content:  content,
	}, nil
}

// GenerateLedgerExcel builds the lot-wide ledger workbook.
func (s *ContractService) GenerateLedgerExcel(ctx context.Context, asOf time.Time) (*GenerateFileResult, error) {
	contracts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	report, err := ledger.BuildLedgerReport(s.engine, contracts, asOf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	content, err := s.excel.Generate(report)
	if err != nil {
		return nil, err
	}
	return &GenerateFileResult{
		FileName: fmt.Sprintf("lot_ledger_%s.xlsx", model.DateOf(asOf)),
		Content:  content,
	}, nil
}

// ImportLegacy loads a legacy desktop data file and stores every contract it
// contains. Records that fail critical validation are skipped, not fatal.
func (s *ContractService) ImportLegacy(ctx context.Context, raw []byte, principal model.Principal) (imported, skipped int, err error) {
	if !principal.IsOperator() {
		return 0, 0, ErrPermissionDenied
	}

	var data model.StorageData
	if err := json.Unmarshal(raw, &data); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	for i := range data.Contracts {
		c := data.Contracts[i]
		c.ID = 0
		if c.Status == "" {
			c.Status = model.StatusActive
		}
		warnings, verr := s.engine.Validate(&c)
		if verr != nil || rules.HasCritical(warnings) {
			skipped++
			continue
		}
		ledger.AddAuditEntry(&c, "Contract imported", "legacy data file", s.engine.Now())
		if cerr := s.repo.Create(ctx, &c); cerr != nil {
			return imported, skipped, cerr
		}
		imported++
	}
	return imported, skipped, nil
}

// FeeTemplates exposes the per-vehicle-type fee defaults used by intake.
func (s *ContractService) FeeTemplates() map[string]fees.Template {
	templates := make(map[string]fees.Template)
	for _, vt := range s.schedule.VehicleTypes() {
		templates[vt] = s.schedule.ForVehicleType(vt)
	}
	return templates
}

// UpdateFeeTemplate replaces the fee defaults for one vehicle type and, when a
// template file is configured, persists the schedule so the edit survives a
// restart.
func (s *ContractService) UpdateFeeTemplate(principal model.Principal, vehicleType string, tpl fees.Template) error {
	if !principal.IsOperator() {
		return ErrPermissionDenied
	}
	if vehicleType == "" || len(tpl) == 0 {
		return fmt.Errorf("%w: vehicle type and fee fields are required", ErrInvalidInput)
	}
	s.schedule.SetTemplate(vehicleType, tpl)
	if s.feePath == "" {
		return nil
	}
	return s.schedule.Save(s.feePath)
}
