package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spendwiser/internal/adapter/http/middleware"
	"spendwiser/internal/core/domain"
	"spendwiser/internal/core/ports"
	"spendwiser/internal/core/ports/mocks"
	"spendwiser/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "body: %s", w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	code, _ := resp["error_code"].(string)
	return code
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := mocks.NewMockSessionDirectory(ctrl)
	tokens := mocks.NewMockTokenService(ctrl)
	h := NewAuthHandler(sessions, tokens)

	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions.EXPECT().Register(gomock.Any(), "ann@example.com", " pw ", "Ann").
		Return(&domain.User{ID: "u1", Email: "ann@example.com", Name: "Ann"}, nil)
	tokens.EXPECT().Generate("u1").Return("tok", expiry, nil)

	c, w := jsonContext(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "ann@example.com", "password": " pw ", "name": " Ann ",
	})
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "tok", data["token"])
	assert.Equal(t, float64(expiry.Unix()), data["expires_at"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "ann@example.com", user["email"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockSessionDirectory(ctrl), mocks.NewMockTokenService(ctrl))

	c, w := jsonContext(http.MethodPost, "/api/v1/auth/register", map[string]string{"email": "ann@example.com"})
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", errorCode(t, w))
}

func TestRegister_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := mocks.NewMockSessionDirectory(ctrl)
	h := NewAuthHandler(sessions, mocks.NewMockTokenService(ctrl))

	sessions.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrDuplicateUser())

	c, w := jsonContext(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "ann@example.com", "password": "pw", "name": "Ann",
	})
	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AUTH_002", errorCode(t, w))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := mocks.NewMockSessionDirectory(ctrl)
	h := NewAuthHandler(sessions, mocks.NewMockTokenService(ctrl))

	sessions.EXPECT().Login(gomock.Any(), "ann@example.com", "wrong").Return(nil, apperror.ErrInvalidCredentials())

	c, w := jsonContext(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ann@example.com", "password": "wrong",
	})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_001", errorCode(t, w))
}

func TestLogin_TokenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := mocks.NewMockSessionDirectory(ctrl)
	tokens := mocks.NewMockTokenService(ctrl)
	h := NewAuthHandler(sessions, tokens)

	sessions.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.User{ID: "u1"}, nil)
	tokens.EXPECT().Generate("u1").Return("", time.Time{}, errors.New("no secret"))

	c, w := jsonContext(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "a@x.com", "password": "pw"})
	h.Login(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := mocks.NewMockSessionDirectory(ctrl)
	h := NewAuthHandler(sessions, mocks.NewMockTokenService(ctrl))
	sessions.EXPECT().Logout(gomock.Any()).Return(nil)

	c, w := jsonContext(http.MethodPost, "/api/v1/auth/logout", nil)
	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeData(t, w)["logged_out"])
}

func TestMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockSessionDirectory(ctrl), mocks.NewMockTokenService(ctrl))

	c, w := jsonContext(http.MethodGet, "/api/v1/auth/me", nil)
	c.Set(middleware.CtxUser, &domain.User{ID: "u1", Email: "a@x.com", Name: "Ann"})
	h.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ann", decodeData(t, w)["name"])

	c, w = jsonContext(http.MethodGet, "/api/v1/auth/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Ledger Handler Tests ---

type ledgerMocks struct {
	ledger   *mocks.MockLedgerService
	prefs    *mocks.MockPreferenceService
	exporter *mocks.MockTransactionExporter
}

func setupLedgerHandler(t *testing.T) (*LedgerHandler, ledgerMocks) {
	ctrl := gomock.NewController(t)
	m := ledgerMocks{
		ledger:   mocks.NewMockLedgerService(ctrl),
		prefs:    mocks.NewMockPreferenceService(ctrl),
		exporter: mocks.NewMockTransactionExporter(ctrl),
	}
	return NewLedgerHandler(m.ledger, m.prefs, m.exporter), m
}

func TestListWallets_UsesDisplayPreference(t *testing.T) {
	h, m := setupLedgerHandler(t)

	m.prefs.EXPECT().DisplayCurrency(gomock.Any()).Return("INR", nil)
	m.ledger.EXPECT().WalletView("INR").Return(domain.SeedWallets(), nil)

	c, w := jsonContext(http.MethodGet, "/api/v1/wallets", nil)
	h.ListWallets(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Main Checking")
}

func TestListWallets_ExplicitCurrency(t *testing.T) {
	h, m := setupLedgerHandler(t)

	m.ledger.EXPECT().WalletView("USD").Return([]domain.Wallet{}, nil)

	c, w := jsonContext(http.MethodGet, "/api/v1/wallets?currency=usd", nil)
	h.ListWallets(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListTransactions_PassesQuery(t *testing.T) {
	h, m := setupLedgerHandler(t)

	m.ledger.EXPECT().TransactionView(ports.TransactionQuery{Currency: "INR", Query: "rent"}).
		Return([]domain.Transaction{{ID: "t1", Description: "Rent"}}, nil)

	c, w := jsonContext(http.MethodGet, "/api/v1/transactions?currency=INR&q=rent", nil)
	h.ListTransactions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"t1"`)
}

func TestCreateTransaction_Success(t *testing.T) {
	h, m := setupLedgerHandler(t)

	m.ledger.EXPECT().AddTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, d domain.TransactionDraft) (*ports.AddResult, error) {
			assert.True(t, d.Amount.Equal(decimal.NewFromInt(500)))
			assert.Equal(t, domain.TransactionTypeExpense, d.Type)
			assert.Equal(t, "Rent", d.Description)
			assert.Equal(t, "1", d.WalletID)
			return &ports.AddResult{
				Transaction:    d.Record("t1"),
				BalanceApplied: true,
			}, nil
		})

	c, w := jsonContext(http.MethodPost, "/api/v1/transactions", map[string]any{
		"amount": 500, "type": "expense", "description": " Rent ", "walletId": "1", "currency": "INR",
	})
	h.CreateTransaction(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["balanceApplied"])
}

func TestCreateTransaction_BindingError(t *testing.T) {
	h, _ := setupLedgerHandler(t)

	c, w := jsonContext(http.MethodPost, "/api/v1/transactions", map[string]any{
		"amount": 5, "type": "transfer", "description": "x", "walletId": "1",
	})
	h.CreateTransaction(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", errorCode(t, w))
}

func TestCreateTransaction_WalletRejected(t *testing.T) {
	h, m := setupLedgerHandler(t)

	m.ledger.EXPECT().AddTransaction(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrWalletNotFound("9"))

	c, w := jsonContext(http.MethodPost, "/api/v1/transactions", map[string]any{
		"amount": 5, "type": "income", "description": "x", "walletId": "9",
	})
	h.CreateTransaction(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "LEDGER_002", errorCode(t, w))
}

func TestExportTransactions(t *testing.T) {
	h, m := setupLedgerHandler(t)
	h.now = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }

	txns := []domain.Transaction{{ID: "t1"}}
	m.prefs.EXPECT().DisplayCurrency(gomock.Any()).Return("INR", nil)
	m.ledger.EXPECT().TransactionView(ports.TransactionQuery{Currency: "INR"}).Return(txns, nil)
	m.exporter.EXPECT().Export(gomock.Any(), txns).DoAndReturn(func(w io.Writer, _ []domain.Transaction) error {
		_, err := io.WriteString(w, "workbook")
		return err
	})
	m.exporter.EXPECT().FileExtension().Return("xlsx")
	m.exporter.EXPECT().ContentType().Return("application/test")

	c, w := jsonContext(http.MethodGet, "/api/v1/transactions/export", nil)
	h.ExportTransactions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "workbook", w.Body.String())
	assert.Equal(t, "application/test", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="transactions-20240309.xlsx"`, w.Header().Get("Content-Disposition"))
}

func TestExportTransactions_Failure(t *testing.T) {
	h, m := setupLedgerHandler(t)

	m.ledger.EXPECT().TransactionView(gomock.Any()).Return(nil, nil)
	m.exporter.EXPECT().Export(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	c, w := jsonContext(http.MethodGet, "/api/v1/transactions/export?currency=USD", nil)
	h.ExportTransactions(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}

func TestDashboard_UnsupportedCurrency(t *testing.T) {
	h, m := setupLedgerHandler(t)

	m.ledger.EXPECT().Dashboard(ports.DashboardQuery{Currency: "JPY"}).Return(nil, apperror.ErrUnsupportedCurrency("JPY"))

	c, w := jsonContext(http.MethodGet, "/api/v1/dashboard?currency=jpy", nil)
	h.Dashboard(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "LEDGER_003", errorCode(t, w))
}

func TestDashboard_PreferenceFailure(t *testing.T) {
	h, m := setupLedgerHandler(t)

	m.prefs.EXPECT().DisplayCurrency(gomock.Any()).Return("", apperror.ErrStoreUnavailable(errors.New("io")))

	c, w := jsonContext(http.MethodGet, "/api/v1/dashboard", nil)
	h.Dashboard(c)

	assert.Equal(t, "STORE_001", errorCode(t, w))
}

// --- Preference Handler Tests ---

func TestSetDisplayCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	prefs := mocks.NewMockPreferenceService(ctrl)
	h := NewPreferenceHandler(prefs)
	prefs.EXPECT().SetDisplayCurrency(gomock.Any(), "usd").Return("USD", nil)

	c, w := jsonContext(http.MethodPut, "/api/v1/preferences/display-currency", map[string]string{"currency": "usd"})
	h.SetDisplayCurrency(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "USD", decodeData(t, w)["currency"])
}

func TestSetDisplayCurrency_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPreferenceHandler(mocks.NewMockPreferenceService(ctrl))

	c, w := jsonContext(http.MethodPut, "/api/v1/preferences/display-currency", map[string]string{"currency": "dollars"})
	h.SetDisplayCurrency(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDisplayCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	prefs := mocks.NewMockPreferenceService(ctrl)
	prefs.EXPECT().DisplayCurrency(gomock.Any()).Return("INR", nil)

	c, w := jsonContext(http.MethodGet, "/api/v1/preferences/display-currency", nil)
	NewPreferenceHandler(prefs).GetDisplayCurrency(c)

	assert.Equal(t, "INR", decodeData(t, w)["currency"])
}

// --- Insight Handler Tests ---

func TestGenerateInsights(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	insights := mocks.NewMockInsightService(ctrl)
	h := NewInsightHandler(insights)
	insights.EXPECT().SpendingInsights(gomock.Any()).Return(&ports.InsightResult{Text: "Spend less on food."}, nil)

	c, w := jsonContext(http.MethodPost, "/api/v1/insights", nil)
	h.Generate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "Spend less on food.", data["text"])
	assert.Equal(t, false, data["fallback"])
}

func TestGenerateInsights_NoTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	insights := mocks.NewMockInsightService(ctrl)
	insights.EXPECT().SpendingInsights(gomock.Any()).Return(nil, apperror.ErrNoTransactions())

	c, w := jsonContext(http.MethodPost, "/api/v1/insights", nil)
	NewInsightHandler(insights).Generate(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "LEDGER_004", errorCode(t, w))
}

func TestLatestInsight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	insights := mocks.NewMockInsightService(ctrl)
	insights.EXPECT().LatestInsight().Return("")

	c, w := jsonContext(http.MethodGet, "/api/v1/insights/latest", nil)
	NewInsightHandler(insights).Latest(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decodeData(t, w)["text"])
}

func TestAnalyzeReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	insights := mocks.NewMockInsightService(ctrl)
	h := NewInsightHandler(insights)

	insights.EXPECT().AutofillReceipt(gomock.Any(), "data:image/png;base64,aGVsbG8=", gomock.Any()).
		DoAndReturn(func(_ any, _ string, d domain.TransactionDraft) (*ports.AutofillResult, error) {
			assert.Equal(t, "2", d.WalletID)
			d.Description = "Corner Cafe"
			return &ports.AutofillResult{Draft: d, Analyzed: true}, nil
		})

	c, w := jsonContext(http.MethodPost, "/api/v1/receipts/analyze", map[string]any{
		"image": "data:image/png;base64,aGVsbG8=",
		"draft": map[string]any{"walletId": "2", "amount": "0"},
	})
	h.AnalyzeReceipt(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["analyzed"])
	assert.Equal(t, "Corner Cafe", data["draft"].(map[string]interface{})["description"])
}

func TestAnalyzeReceipt_MissingImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, w := jsonContext(http.MethodPost, "/api/v1/receipts/analyze", map[string]any{"draft": map[string]any{}})
	NewInsightHandler(mocks.NewMockInsightService(ctrl)).AnalyzeReceipt(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBindError(t *testing.T) {
	err := bindError(&http.MaxBytesError{Limit: 1 << 20})
	assert.Equal(t, "VAL_002", err.Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, err.HTTPStatus)

	err = bindError(errors.New("unexpected EOF"))
	assert.Equal(t, "VAL_001", err.Code)
	assert.Equal(t, "unexpected EOF", err.Message)
}

// --- Health & docs ---

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ok := mocks.NewMockHealthChecker(ctrl)
	ok.EXPECT().Name().Return("sqlite").AnyTimes()
	ok.EXPECT().Ping(gomock.Any()).Return(nil).AnyTimes()

	bad := mocks.NewMockHealthChecker(ctrl)
	bad.EXPECT().Name().Return("redis").AnyTimes()
	bad.EXPECT().Ping(gomock.Any()).Return(errors.New("refused")).AnyTimes()

	c, w := jsonContext(http.MethodGet, "/health", nil)
	HealthCheck(ok)(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	c, w = jsonContext(http.MethodGet, "/health", nil)
	HealthCheck(ok, bad)(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "refused")
}

func TestDocsHandler(t *testing.T) {
	c, w := jsonContext(http.MethodGet, "/swagger/spec", nil)
	NewDocsHandler(nil).Spec(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = jsonContext(http.MethodGet, "/swagger/spec", nil)
	NewDocsHandler([]byte("openapi: 3.0.3")).Spec(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "openapi: 3.0.3", w.Body.String())

	c, w = jsonContext(http.MethodGet, "/swagger", nil)
	NewDocsHandler([]byte("openapi: 3.0.3")).UI(c)
	assert.Contains(t, w.Body.String(), "/swagger/spec")
}
