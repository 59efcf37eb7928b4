package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/api_server/middleware"
	"github.com/parish-fund-ledger/internal/domain/fund"
	"github.com/parish-fund-ledger/internal/ledger"
)

// FundHandler handles HTTP requests for fund administration
type FundHandler struct {
	chartService ledger.ChartService
	logger       *slog.Logger
}

// NewFundHandler creates a new fund handler
func NewFundHandler(logger *slog.Logger, chartService ledger.ChartService) *FundHandler {
	return &FundHandler{
		chartService: chartService,
		logger:       logger,
	}
}

// Create handles creation of a new fund
func (h *FundHandler) Create(c *gin.Context) {
	var req CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	f, err := h.chartService.CreateFund(c.Request.Context(), middleware.GetActor(c), req.Name, req.Restricted)
	if err != nil {
		h.logger.Error("Failed to create fund", "name", req.Name, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondCreated(c, mapFundToResponse(f))
}

// GetByID retrieves a fund by its ID, returning 404 if not found
func (h *FundHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid fund ID")
		return
	}

	f, err := h.chartService.GetFund(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, mapFundToResponse(f))
}

// List returns all funds, optionally restricted to active ones
func (h *FundHandler) List(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	funds, err := h.chartService.ListFunds(c.Request.Context(), middleware.GetActor(c), activeOnly)
	if err != nil {
		h.logger.Error("Failed to list funds", "error", err)
		RespondDomainError(c, err)
		return
	}

	responses := make([]FundResponse, 0, len(funds))
	for _, f := range funds {
		responses = append(responses, mapFundToResponse(f))
	}
	RespondOK(c, responses)
}

// Deactivate retires a fund. History is kept; new postings are rejected.
func (h *FundHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid fund ID")
		return
	}

	f, err := h.chartService.DeactivateFund(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.logger.Error("Failed to deactivate fund", "id", id, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, mapFundToResponse(f))
}

// mapFundToResponse maps a fund entity to a fund response DTO
func mapFundToResponse(f *fund.Fund) FundResponse {
	return FundResponse{
		ID:         f.ID.String(),
		Name:       f.Name,
		Restricted: f.Restricted,
		Active:     f.Active,
		CreatedAt:  f.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  f.UpdatedAt.Format(time.RFC3339),
	}
}
