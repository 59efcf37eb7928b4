package handler

// dateLayout is the wire format for calendar dates. Transaction dates carry
// no time component; the engine stores them at midnight UTC.
const dateLayout = "2006-01-02"

// CreateAccountRequest represents a request to create a chart-of-accounts entry
type CreateAccountRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=asset liability equity income expense"`
}

// UpdateAccountRequest represents a request to rename or retype an account
type UpdateAccountRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=asset liability equity income expense"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateFundRequest represents a request to create a fund
type CreateFundRequest struct {
	Name       string `json:"name" binding:"required"`
	Restricted bool   `json:"restricted"`
}

// FundResponse represents a fund in API responses
type FundResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Restricted bool   `json:"restricted"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// TransactionLineRequest is one debit or credit in a posting request. Amount
// is signed minor units, debit positive; the posting rules reject zero
// amounts and unbalanced entries.
type TransactionLineRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
	FundID    string `json:"fund_id" binding:"required,uuid"`
	Amount    int64  `json:"amount"`
	Memo      string `json:"memo,omitempty"`
	DonorID   string `json:"donor_id,omitempty"`
}

// PostTransactionRequest represents a request to post a journal entry
type PostTransactionRequest struct {
	Date  string                   `json:"date" binding:"required"`
	Memo  string                   `json:"memo,omitempty"`
	Lines []TransactionLineRequest `json:"lines" binding:"required,dive"`
}

// MoveLinesRequest represents a request to reclassify lines onto another account
type MoveLinesRequest struct {
	LineIDs              []string `json:"line_ids" binding:"required,dive,uuid"`
	DestinationAccountID string   `json:"destination_account_id" binding:"required,uuid"`
}

// TransactionLineResponse represents a transaction line in API responses
type TransactionLineResponse struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	FundID    string `json:"fund_id"`
	Amount    int64  `json:"amount"`
	Memo      string `json:"memo,omitempty"`
	DonorID   string `json:"donor_id,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID        string                    `json:"id"`
	Date      string                    `json:"date"`
	Memo      string                    `json:"memo,omitempty"`
	CreatedBy string                    `json:"created_by"`
	Status    string                    `json:"status"`
	Lines     []TransactionLineResponse `json:"lines"`
	CreatedAt string                    `json:"created_at"`
	UpdatedAt string                    `json:"updated_at"`
	VoidedAt  string                    `json:"voided_at,omitempty"`
}

// TransactionListResponse represents a list of transactions in API responses
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ListTransactionsParams represents query parameters for transaction listings
type ListTransactionsParams struct {
	DateFrom    string `form:"date_from"`
	DateTo      string `form:"date_to"`
	AccountID   string `form:"account_id" binding:"omitempty,uuid"`
	FundID      string `form:"fund_id" binding:"omitempty,uuid"`
	Memo        string `form:"memo"`
	IncludeVoid bool   `form:"include_void"`
	Page        int    `form:"page,default=1" binding:"min=1"`
	PerPage     int    `form:"per_page,default=50" binding:"min=1,max=500"`
}

// BudgetLineRequest is one planned annual amount for an (account, fund) pair,
// in natural minor units.
type BudgetLineRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
	FundID    string `json:"fund_id" binding:"required,uuid"`
	Amount    int64  `json:"amount"`
}

// SaveBudgetRequest represents a request to replace a fiscal year's budget
type SaveBudgetRequest struct {
	Lines    []BudgetLineRequest `json:"lines" binding:"required,dive"`
	Finalize bool                `json:"finalize"`
}
