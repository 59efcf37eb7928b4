package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parish-fund-ledger/internal/api_server/middleware"
	"github.com/parish-fund-ledger/internal/domain/account"
	"github.com/parish-fund-ledger/internal/domain/budget"
	"github.com/parish-fund-ledger/internal/domain/fund"
	"github.com/parish-fund-ledger/internal/domain/shared"
)

// Response represents a standard API response
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo represents metadata in a response
type MetaInfo struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	TotalItems int `json:"total_items,omitempty"`
}

// NewResponse creates a new response with data
func NewResponse(data interface{}) *Response {
	return &Response{
		Data: data,
	}
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message string) *Response {
	return &Response{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// RespondWithData sends a JSON response with data
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	response := NewResponse(data)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	response := NewErrorResponse(code, message)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondOK sends a 200 OK response with data
func RespondOK(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data
func RespondCreated(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondBadRequest sends a 400 Bad Request response with an error
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// RespondForbidden sends a 403 Forbidden response with an error
func RespondForbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Forbidden"
	}
	RespondWithError(c, http.StatusForbidden, "FORBIDDEN", message)
}

// RespondNotFound sends a 404 Not Found response with an error
func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, "NOT_FOUND", message)
}

// RespondConflict sends a 409 Conflict response with an error
func RespondConflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, "CONFLICT", message)
}

// RespondUnprocessable sends a 422 Unprocessable Entity response with an error
func RespondUnprocessable(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnprocessableEntity, "UNPROCESSABLE", message)
}

// RespondInternalError sends a 500 Internal Server Error response with an error
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}

// RespondDomainError maps an engine error onto its HTTP status. Validation
// failures are the caller's fault (400), authorization failures 403, missing
// resources 404, state conflicts like double-voids and no-op mutations 409,
// mutations against retired accounts 422. Consistency defects and anything
// unrecognized surface as 500 so operators see them.
func RespondDomainError(c *gin.Context, err error) {
	var validationErr shared.ValidationError
	var notFoundErr shared.NotFoundError
	var authErr shared.AuthorizationError
	var alreadyVoidErr shared.AlreadyVoidError
	var noOpErr shared.NoOpError
	var inactiveErr shared.InactiveAccountError
	var dupAccountErr account.ErrDuplicateName
	var dupFundErr fund.ErrDuplicateName

	switch {
	case errors.As(err, &validationErr):
		RespondWithError(c, http.StatusBadRequest, "VALIDATION_"+validationErr.Rule, validationErr.Error())
	case errors.Is(err, account.ErrEmptyName),
		errors.Is(err, account.ErrInvalidType),
		errors.Is(err, fund.ErrEmptyName),
		errors.Is(err, budget.ErrInvalidFiscalYear):
		RespondBadRequest(c, err.Error())
	case errors.As(err, &authErr):
		RespondForbidden(c, authErr.Error())
	case errors.As(err, &notFoundErr):
		RespondNotFound(c, notFoundErr.Error())
	case errors.As(err, &alreadyVoidErr),
		errors.As(err, &noOpErr),
		errors.As(err, &dupAccountErr),
		errors.As(err, &dupFundErr),
		errors.Is(err, account.ErrTypeImmutable),
		errors.Is(err, budget.ErrFinalized):
		RespondConflict(c, err.Error())
	case errors.As(err, &inactiveErr):
		RespondUnprocessable(c, inactiveErr.Error())
	default:
		RespondInternalError(c)
	}
}
