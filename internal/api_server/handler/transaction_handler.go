package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/api_server/middleware"
	"github.com/parish-fund-ledger/internal/domain/journal"
	"github.com/parish-fund-ledger/internal/ledger"
)

// TransactionHandler handles HTTP requests for journal operations
type TransactionHandler struct {
	ledgerService ledger.Service
	logger        *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, ledgerService ledger.Service) *TransactionHandler {
	return &TransactionHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Create handles posting of a new journal entry
func (h *TransactionHandler) Create(c *gin.Context) {
	var req PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date, expected "+dateLayout)
		return
	}

	lines := make([]journal.LineInput, 0, len(req.Lines))
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
		lines = append(lines, journal.LineInput{
			AccountID: accountID,
			FundID:    fundID,
			Amount:    l.Amount,
			Memo:      l.Memo,
			DonorID:   l.DonorID,
		})
	}

	txn, err := h.ledgerService.PostTransaction(c.Request.Context(), middleware.GetActor(c), date, req.Memo, lines, middleware.GetCorrelationID(c))
	if err != nil {
		h.logger.Error("Failed to post transaction", "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// GetByID retrieves a transaction with its lines, returning 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

// List returns transactions matching the query filters in stable
// date-then-ID order. Void transactions are excluded unless include_void=true.
func (h *TransactionHandler) List(c *gin.Context) {
	var params ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := journal.Filter{
		MemoMatch:   params.Memo,
		IncludeVoid: params.IncludeVoid,
		Limit:       params.PerPage,
		Offset:      (params.Page - 1) * params.PerPage,
	}
	if params.DateFrom != "" {
		from, err := time.Parse(dateLayout, params.DateFrom)
		if err != nil {
			RespondBadRequest(c, "Invalid date_from, expected "+dateLayout)
			return
		}
		filter.DateFrom = &from
	}
	if params.DateTo != "" {
		to, err := time.Parse(dateLayout, params.DateTo)
		if err != nil {
			RespondBadRequest(c, "Invalid date_to, expected "+dateLayout)
			return
		}
		filter.DateTo = &to
	}
	if params.AccountID != "" {
		accountID, err := uuid.Parse(params.AccountID)
		if err != nil {
			RespondBadRequest(c, "Invalid account_id")
			return
		}
		filter.AccountID = &accountID
	}
	if params.FundID != "" {
		fundID, err := uuid.Parse(params.FundID)
		if err != nil {
			RespondBadRequest(c, "Invalid fund_id")
			return
		}
		filter.FundID = &fundID
	}

	txns, err := h.ledgerService.ListTransactions(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondDomainError(c, err)
		return
	}

	response := TransactionListResponse{Transactions: make([]TransactionResponse, 0, len(txns))}
	for _, txn := range txns {
		response.Transactions = append(response.Transactions, mapTransactionToResponse(txn))
	}
	RespondOK(c, response)
}

// Void marks a posted transaction void, returning 409 if it was voided before
func (h *TransactionHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.ledgerService.VoidTransaction(c.Request.Context(), middleware.GetActor(c), id, middleware.GetCorrelationID(c))
	if err != nil {
		h.logger.Error("Failed to void transaction", "id", id, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

// MoveLines reclassifies the selected lines onto a different account
func (h *TransactionHandler) MoveLines(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	var req MoveLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	lineIDs := make([]uuid.UUID, 0, len(req.LineIDs))
	for _, raw := range req.LineIDs {
		lineID, err := uuid.Parse(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid line ID: "+raw)
			return
		}
		lineIDs = append(lineIDs, lineID)
	}
	destAccountID, err := uuid.Parse(req.DestinationAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid destination account ID")
		return
	}

	txn, err := h.ledgerService.MoveLines(c.Request.Context(), middleware.GetActor(c), id, lineIDs, destAccountID, middleware.GetCorrelationID(c))
	if err != nil {
		h.logger.Error("Failed to move lines", "transaction_id", id, "error", err)
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

// mapTransactionToResponse maps a transaction entity to a response DTO
func mapTransactionToResponse(txn *journal.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:        txn.ID.String(),
		Date:      txn.Date.Format(dateLayout),
		Memo:      txn.Memo,
		CreatedBy: txn.CreatedBy,
		Status:    string(txn.Status),
		CreatedAt: txn.CreatedAt.Format(time.RFC3339),
		UpdatedAt: txn.UpdatedAt.Format(time.RFC3339),
	}
	if txn.VoidedAt != nil {
		resp.VoidedAt = txn.VoidedAt.Format(time.RFC3339)
	}
	for _, l := range txn.Lines {
		resp.Lines = append(resp.Lines, TransactionLineResponse{
			ID:        l.ID.String(),
			AccountID: l.AccountID.String(),
			FundID:    l.FundID.String(),
			Amount:    l.Amount,
			Memo:      l.Memo,
			DonorID:   l.DonorID,
		})
	}
	return resp
}
