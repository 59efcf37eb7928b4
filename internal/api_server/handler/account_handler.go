package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/api_server/middleware"
	"github.com/parish-fund-ledger/internal/domain/account"
	"github.com/parish-fund-ledger/internal/ledger"
)

// AccountHandler handles HTTP requests for chart-of-accounts operations
type AccountHandler struct {
	chartService ledger.ChartService
	logger       *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, chartService ledger.ChartService) *AccountHandler {
	return &AccountHandler{
		chartService: chartService,
		logger:       logger,
	}
}

// Create handles creation of a new chart-of-accounts entry
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.chartService.CreateAccount(c.Request.Context(), middleware.GetActor(c), req.Name, account.Type(req.Type))
	if err != nil {
		h.logger.Error("Failed to create account", "name", req.Name, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.chartService.GetAccount(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// List returns the chart of accounts, optionally restricted to active entries
func (h *AccountHandler) List(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	accounts, err := h.chartService.ListAccounts(c.Request.Context(), middleware.GetActor(c), activeOnly)
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondDomainError(c, err)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		responses = append(responses, mapAccountToResponse(acc))
	}
	RespondOK(c, responses)
}

// Update renames or retypes an account. The type is frozen once any
// transaction line references the account.
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.chartService.UpdateAccount(c.Request.Context(), middleware.GetActor(c), id, req.Name, account.Type(req.Type))
	if err != nil {
		h.logger.Error("Failed to update account", "id", id, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Deactivate retires an account. History is kept; new postings are rejected.
func (h *AccountHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.chartService.DeactivateAccount(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.logger.Error("Failed to deactivate account", "id", id, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:        acc.ID.String(),
		Name:      acc.Name,
		Type:      string(acc.Type),
		Active:    acc.Active,
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt: acc.UpdatedAt.Format(time.RFC3339),
	}
}
