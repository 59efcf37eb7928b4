package handler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/api_server/middleware"
	"github.com/parish-fund-ledger/internal/report"
)

// ReportHandler handles HTTP requests for financial statements
type ReportHandler struct {
	reporter *report.Reporter
	logger   *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, reporter *report.Reporter) *ReportHandler {
	return &ReportHandler{
		reporter: reporter,
		logger:   logger,
	}
}

// BalanceSheet returns the statement of financial position as of a date.
// as_of defaults to today; fund_id narrows the sheet to one fund's column.
func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	asOf := time.Now().UTC()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			RespondBadRequest(c, "Invalid as_of, expected "+dateLayout)
			return
		}
		asOf = parsed
	}

	fundID, ok := optionalFundID(c)
	if !ok {
		return
	}

	sheet, err := h.reporter.BalanceSheet(c.Request.Context(), middleware.GetActor(c), asOf, fundID)
	if err != nil {
		h.logger.Error("Failed to build balance sheet", "as_of", asOf, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, sheet)
}

// IncomeStatement returns income and expense activity over the inclusive
// from/to range, optionally narrowed to one fund
func (h *ReportHandler) IncomeStatement(c *gin.Context) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		RespondBadRequest(c, "Invalid or missing from, expected "+dateLayout)
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		RespondBadRequest(c, "Invalid or missing to, expected "+dateLayout)
		return
	}
	if to.Before(from) {
		RespondBadRequest(c, "to must not precede from")
		return
	}

	fundID, ok := optionalFundID(c)
	if !ok {
		return
	}

	stmt, err := h.reporter.IncomeStatement(c.Request.Context(), middleware.GetActor(c), from, to, fundID)
	if err != nil {
		h.logger.Error("Failed to build income statement", "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, stmt)
}

// QuarterlyIncomeStatement returns a fiscal year's income statement broken
// into calendar quarters plus an annual column
func (h *ReportHandler) QuarterlyIncomeStatement(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1000 || year > 9999 {
		RespondBadRequest(c, "Invalid or missing year")
		return
	}

	fundID, ok := optionalFundID(c)
	if !ok {
		return
	}

	stmt, err := h.reporter.QuarterlyIncomeStatement(c.Request.Context(), middleware.GetActor(c), year, fundID)
	if err != nil {
		h.logger.Error("Failed to build quarterly statement", "year", year, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, stmt)
}

// Activity returns raw per-period activity buckets for ad-hoc reporting.
// granularity is month, quarter or year.
func (h *ReportHandler) Activity(c *gin.Context) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		RespondBadRequest(c, "Invalid or missing from, expected "+dateLayout)
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		RespondBadRequest(c, "Invalid or missing to, expected "+dateLayout)
		return
	}

	granularity := report.Granularity(c.DefaultQuery("granularity", string(report.GranularityMonth)))

	buckets, err := h.reporter.ActivityByPeriod(c.Request.Context(), middleware.GetActor(c), from, to, granularity)
	if err != nil {
		h.logger.Error("Failed to build activity report", "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, buckets)
}

// optionalFundID parses the fund_id query parameter. It reports false after
// writing a 400 response when the parameter is present but malformed.
func optionalFundID(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("fund_id")
	if raw == "" {
		return nil, true
	}
	fundID, err := uuid.Parse(raw)
	if err != nil {
		RespondBadRequest(c, "Invalid fund_id")
		return nil, false
	}
	return &fundID, true
}
