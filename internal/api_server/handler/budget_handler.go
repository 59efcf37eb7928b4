package handler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/api_server/middleware"
	"github.com/parish-fund-ledger/internal/domain/budget"
	"github.com/parish-fund-ledger/internal/planning"
)

// BudgetHandler handles HTTP requests for budget planning
type BudgetHandler struct {
	projector *planning.Projector
	logger    *slog.Logger
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(logger *slog.Logger, projector *planning.Projector) *BudgetHandler {
	return &BudgetHandler{
		projector: projector,
		logger:    logger,
	}
}

// Propose drafts a budget for the fiscal year from the prior year's actuals,
// overlaid with any lines already saved for the target year
func (h *BudgetHandler) Propose(c *gin.Context) {
	year, ok := fiscalYearParam(c)
	if !ok {
		return
	}

	proposal, err := h.projector.Propose(c.Request.Context(), middleware.GetActor(c), year)
	if err != nil {
		h.logger.Error("Failed to propose budget", "fiscal_year", year, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, proposal)
}

// Save replaces the fiscal year's budget with the submitted lines.
// Saving is last-write-wins; a finalized budget rejects further edits.
func (h *BudgetHandler) Save(c *gin.Context) {
	year, ok := fiscalYearParam(c)
	if !ok {
		return
	}

	var req SaveBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	lines := make([]budget.LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		accountID, err := uuid.Parse(l.AccountID)
		if err != nil {
			RespondBadRequest(c, "Invalid account ID: "+l.AccountID)
			return
		}
		fundID, err := uuid.Parse(l.FundID)
		if err != nil {
			RespondBadRequest(c, "Invalid fund ID: "+l.FundID)
			return
		}
		lines = append(lines, budget.LineInput{
			AccountID: accountID,
			FundID:    fundID,
			Amount:    l.Amount,
		})
	}

	b, err := h.projector.SaveBudget(c.Request.Context(), middleware.GetActor(c), year, lines, req.Finalize)
	if err != nil {
		h.logger.Error("Failed to save budget", "fiscal_year", year, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, b)
}

// Variance compares the fiscal year's budget with its actuals. An optional
// through date cuts actuals short for year-to-date comparison.
func (h *BudgetHandler) Variance(c *gin.Context) {
	year, ok := fiscalYearParam(c)
	if !ok {
		return
	}

	var through time.Time
	if raw := c.Query("through"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			RespondBadRequest(c, "Invalid through, expected "+dateLayout)
			return
		}
		through = parsed
	}

	rep, err := h.projector.Variance(c.Request.Context(), middleware.GetActor(c), year, through)
	if err != nil {
		h.logger.Error("Failed to build variance report", "fiscal_year", year, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, rep)
}

// fiscalYearParam parses the :year path parameter. It reports false after
// writing a 400 response when the parameter is malformed.
func fiscalYearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		RespondBadRequest(c, "Invalid fiscal year")
		return 0, false
	}
	return year, true
}
