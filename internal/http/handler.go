package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/baylot/lotops/internal/fees"
	"github.com/baylot/lotops/internal/http/middleware"
	"github.com/baylot/lotops/internal/ledger"
	"github.com/baylot/lotops/internal/model"
	"github.com/baylot/lotops/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type Handler struct {
	contracts *service.ContractService
	log       zerolog.Logger
}

func NewHandler(contracts *service.ContractService, log zerolog.Logger) *Handler {
	return &Handler{contracts: contracts, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/contracts", h.createContract)
	protected.GET("/contracts", h.listContracts)
	protected.GET("/contracts/:id", h.getContract)
	protected.GET("/contracts/:id/breakdown", h.storageBreakdown)
	protected.GET("/contracts/:id/sale-eligibility", h.saleEligibility)
	protected.GET("/contracts/:id/summary", h.contractSummary)
	protected.GET("/contracts/:id/record", h.contractRecord)
	protected.GET("/contracts/:id/record/pdf", h.contractRecordPDF)
	protected.POST("/contracts/:id/payments", h.recordPayment)
	protected.POST("/contracts/:id/notices", h.generateNotice)
	protected.POST("/contracts/:id/notices/:noticeID/sent", h.markNoticeSent)
	protected.PATCH("/contracts/:id/status", h.updateStatus)
	protected.POST("/contracts/:id/notes", h.addNote)
	protected.GET("/ledger/export", h.exportLedger)
	protected.POST("/contracts/import", h.importLegacy)
	protected.GET("/fees/templates", h.feeTemplates)
	protected.PUT("/fees/templates/:vehicleType", h.updateFeeTemplate)
}

type contractResponse struct {
	Contract   *model.Contract   `json:"contract"`
	Assessment ledger.Assessment `json:"assessment"`
}

func (h *Handler) createContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var contract model.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.contracts.CreateContract(c.Request.Context(), service.CreateContractInput{
		Contract:  contract,
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contract": created})
}

func (h *Handler) listContracts(c *gin.Context) {
	contracts, err := h.contracts.ListContracts(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

func (h *Handler) getContract(c *gin.Context) {
	id, err := parseContractID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	asOf, err := h.parseAsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of"})
		return
	}

	contract, assessment, err := h.contracts.AssessContract(c.Request.Context(), id, asOf)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse{Contract: contract, Assessment: assessment})
}

func (h *Handler) storageBreakdown(c *gin.Context) {
	id, err := parseContractID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	asOf, err := h.parseAsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of"})
		return
	}

	breakdown, err := h.contracts.StorageBreakdown(c.Request.Context(), id, asOf)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

func (h *Handler) saleEligibility(c *gin.Context) {
	id, err := parseContractID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	eligible, reason, err := h.contracts.SaleEligibility(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"eligible": eligible, "reason": reason})
}

func (h *Handler) contractSummary(c *gin.Context) {
	id, err := parseContractID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	asOf, err := h.parseAsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of"})
		return
	}

	summary, err := h.contracts.ContractSummary(c.Request.Context(), id, asOf)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (h *Handler) contractRecord(c *gin.Context) {
	id, err := parseContractID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	asOf, err := h.parseAsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of"})
		return
	}

	record, err := h.contracts.ContractRecordText(c.Request.Context(), id, asOf)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": record})
}

func (h *Handler) contractRecordPDF(c *gin.Context) {
	id, err := parseContractID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	asOf, err := h.parseAsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of"})
		return
	}

	result, err := h.contracts.GenerateRecordPDF(c.Request.Context(), id, asOf)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentTypePDF, result.Content)
}

type recordPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"method"`
	Note   string  `json:"note"`
	Date   string  `json:"date"`
}

func (h *Handler) recordPayment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseContractID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var date model.Date
	if strings.TrimSpace(req.Date) != "" {
		date, err = model.ParseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
	}

	contract, payment, err := h.contracts.RecordPayment(c.Request.Context(), service.RecordPaymentInput{
		ContractID: id,
		Amount:     req.Amount,
		Method:     req.Method,
		Note:       req.Note,
		Date:       date,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contract": contract, "payment": payment})
}

type generateNoticeRequest struct {
	Sequence string `json:"sequence" binding:"required"`
	Notes    string `json:"notes"`
}

func (h *Handler) generateNotice(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseContractID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	var req generateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sequence, ok := model.ParseNoticeSequence(req.Sequence)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sequence"})
		return
	}

	contract, notice, err := h.contracts.GenerateNotice(c.Request.Context(), service.GenerateNoticeInput{
		ContractID: id,
		Sequence:   sequence,
		Notes:      req.Notes,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contract": contract, "notice": notice})
}

type markNoticeSentRequest struct {
	SentDate string `json:"sent_date"`
}

func (h *Handler) markNoticeSent(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseContractID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	noticeID, err := uuid.Parse(strings.TrimSpace(c.Param("noticeID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notice id"})
		return
	}

	var req markNoticeSentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var sent model.Date
	if strings.TrimSpace(req.SentDate) != "" {
		sent, err = model.ParseDate(req.SentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sent_date"})
			return
		}
	}

	contract, err := h.contracts.MarkNoticeSent(c.Request.Context(), service.MarkNoticeSentInput{
		ContractID: id,
		NoticeID:   noticeID,
		SentDate:   sent,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseContractID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := h.contracts.UpdateStatus(c.Request.Context(), service.UpdateStatusInput{
		ContractID: id,
		Status:     model.ContractStatus(strings.TrimSpace(req.Status)),
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

type addNoteRequest struct {
	Note       string `json:"note"`
	Attachment string `json:"attachment"`
}

func (h *Handler) addNote(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseContractID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := h.contracts.AddNote(c.Request.Context(), service.AddNoteInput{
		ContractID: id,
		Note:       req.Note,
		Attachment: req.Attachment,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

func (h *Handler) exportLedger(c *gin.Context) {
	asOf, err := h.parseAsOf(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of"})
		return
	}

	result, err := h.contracts.GenerateLedgerExcel(c.Request.Context(), asOf)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentTypeXLSX, result.Content)
}

func (h *Handler) importLegacy(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty body"})
		return
	}

	imported, skipped, err := h.contracts.ImportLegacy(c.Request.Context(), raw, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": imported, "skipped": skipped})
}

func (h *Handler) feeTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.contracts.FeeTemplates()})
}

func (h *Handler) updateFeeTemplate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var tpl fees.Template
	if err := c.ShouldBindJSON(&tpl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.contracts.UpdateFeeTemplate(principal, c.Param("vehicleType"), tpl); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": h.contracts.FeeTemplates()})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrContractClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("contract request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseContractID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
}

// parseAsOf reads the optional as_of query date; absent means today.
func (h *Handler) parseAsOf(c *gin.Context) (time.Time, error) {
	raw := strings.TrimSpace(c.Query("as_of"))
	if raw == "" {
		return h.contracts.Now(), nil
	}
	parsed, err := model.ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.Time(), nil
}
