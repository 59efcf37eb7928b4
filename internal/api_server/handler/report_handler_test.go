package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/domain/account"
	"github.com/parish-fund-ledger/internal/domain/journal"
	"github.com/parish-fund-ledger/internal/domain/shared"
	"github.com/parish-fund-ledger/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestReporter(journalRepo *MockJournalRepository, accountRepo *MockAccountRepository) *report.Reporter {
	logger := newTestLogger()
	return report.NewReporter(logger, report.NewAggregator(logger, journalRepo), accountRepo)
}

func TestReportHandler_BalanceSheet(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success", func(t *testing.T) {
		journalRepo := new(MockJournalRepository)
		accountRepo := new(MockAccountRepository)
		handler := NewReportHandler(logger, newTestReporter(journalRepo, accountRepo))

		checkingID := uuid.New()
		incomeID := uuid.New()
		fundID := uuid.New()
		asOf := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)

		journalRepo.On("SumActivity", mock.Anything, (*time.Time)(nil), &asOf, (*uuid.UUID)(nil), (*uuid.UUID)(nil)).
			Return([]journal.ActivityRow{
				{AccountID: checkingID, FundID: fundID, Amount: 10000},
				{AccountID: incomeID, FundID: fundID, Amount: -10000},
			}, nil)
		accountRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*account.Account{
			checkingID: {ID: checkingID, Name: "Checking", Type: account.TypeAsset, Active: true},
			incomeID:   {ID: incomeID, Name: "Donation Income", Type: account.TypeIncome, Active: true},
		}, nil)

		router := setupTestRouter()
		router.GET("/reports/balance-sheet", withActor(shared.RoleViewer), handler.BalanceSheet)

		req, _ := http.NewRequest(http.MethodGet, "/reports/balance-sheet?as_of=2024-12-31", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))

		var sheet report.BalanceSheet
		dataBytes, _ := json.Marshal(topLevelResponse.Data)
		require.NoError(t, json.Unmarshal(dataBytes, &sheet))

		assert.Equal(t, int64(10000), sheet.TotalAssets)
		assert.Equal(t, int64(10000), sheet.TotalEquity)

		journalRepo.AssertExpectations(t)
		accountRepo.AssertExpectations(t)
	})

	t.Run("UnbalancedLedgerIsServerError", func(t *testing.T) {
		journalRepo := new(MockJournalRepository)
		accountRepo := new(MockAccountRepository)
		handler := NewReportHandler(logger, newTestReporter(journalRepo, accountRepo))

		checkingID := uuid.New()
		fundID := uuid.New()
		journalRepo.On("SumActivity", mock.Anything, (*time.Time)(nil), mock.Anything, (*uuid.UUID)(nil), (*uuid.UUID)(nil)).
			Return([]journal.ActivityRow{{AccountID: checkingID, FundID: fundID, Amount: 42}}, nil)
		accountRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*account.Account{
			checkingID: {ID: checkingID, Name: "Checking", Type: account.TypeAsset, Active: true},
		}, nil)

		router := setupTestRouter()
		router.GET("/reports/balance-sheet", withActor(shared.RoleViewer), handler.BalanceSheet)

		req, _ := http.NewRequest(http.MethodGet, "/reports/balance-sheet?as_of=2024-12-31", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("InvalidFundID", func(t *testing.T) {
		journalRepo := new(MockJournalRepository)
		accountRepo := new(MockAccountRepository)
		handler := NewReportHandler(logger, newTestReporter(journalRepo, accountRepo))

		router := setupTestRouter()
		router.GET("/reports/balance-sheet", withActor(shared.RoleViewer), handler.BalanceSheet)

		req, _ := http.NewRequest(http.MethodGet, "/reports/balance-sheet?fund_id=not-a-uuid", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		journalRepo.AssertExpectations(t)
	})
}

func TestReportHandler_IncomeStatement(t *testing.T) {
	logger := newTestLogger()

	t.Run("MissingRange", func(t *testing.T) {
		journalRepo := new(MockJournalRepository)
		accountRepo := new(MockAccountRepository)
		handler := NewReportHandler(logger, newTestReporter(journalRepo, accountRepo))

		router := setupTestRouter()
		router.GET("/reports/income-statement", withActor(shared.RoleViewer), handler.IncomeStatement)

		req, _ := http.NewRequest(http.MethodGet, "/reports/income-statement?from=2024-01-01", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		journalRepo.AssertExpectations(t)
	})

	t.Run("Success", func(t *testing.T) {
		journalRepo := new(MockJournalRepository)
		accountRepo := new(MockAccountRepository)
		handler := NewReportHandler(logger, newTestReporter(journalRepo, accountRepo))

		incomeID := uuid.New()
		fundID := uuid.New()
		from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)

		journalRepo.On("SumActivity", mock.Anything, &from, &to, (*uuid.UUID)(nil), (*uuid.UUID)(nil)).
			Return([]journal.ActivityRow{{AccountID: incomeID, FundID: fundID, Amount: -50000}}, nil)
		accountRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*account.Account{
			incomeID: {ID: incomeID, Name: "Donation Income", Type: account.TypeIncome, Active: true},
		}, nil)

		router := setupTestRouter()
		router.GET("/reports/income-statement", withActor(shared.RoleViewer), handler.IncomeStatement)

		req, _ := http.NewRequest(http.MethodGet, "/reports/income-statement?from=2024-01-01&to=2024-12-31", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		var stmt report.IncomeStatement
		dataBytes, _ := json.Marshal(topLevelResponse.Data)
		require.NoError(t, json.Unmarshal(dataBytes, &stmt))

		assert.Equal(t, int64(50000), stmt.TotalIncome)
		assert.Equal(t, int64(50000), stmt.Net)

		journalRepo.AssertExpectations(t)
	})
}

func TestReportHandler_Activity(t *testing.T) {
	logger := newTestLogger()

	t.Run("UnknownGranularity", func(t *testing.T) {
		journalRepo := new(MockJournalRepository)
		accountRepo := new(MockAccountRepository)
		handler := NewReportHandler(logger, newTestReporter(journalRepo, accountRepo))

		router := setupTestRouter()
		router.GET("/reports/activity", withActor(shared.RoleViewer), handler.Activity)

		req, _ := http.NewRequest(http.MethodGet, "/reports/activity?from=2024-01-01&to=2024-12-31&granularity=fortnight", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		journalRepo.AssertExpectations(t)
	})
}
