package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"spendwiser/config"
	"spendwiser/internal/adapter/ai/gemini"
	"spendwiser/internal/adapter/export/xlsx"
	"spendwiser/internal/adapter/http/handler"
	"spendwiser/internal/adapter/storage/memory"
	"spendwiser/internal/adapter/storage/sqlite"
	"spendwiser/internal/core/ports"
	"spendwiser/internal/money"
	"spendwiser/internal/service"
	"spendwiser/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testSecret = "integration-secret"

// testApp runs the full stack over a SQLite file behind a real HTTP server.
type testApp struct {
	server *httptest.Server
	slots  *sqlite.SlotStore
}

func newTestApp(t *testing.T, dbPath string) *testApp {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()

	slots, err := sqlite.Open(ctx, dbPath, log)
	require.NoError(t, err)

	conv := money.NewConverter(money.DefaultRates())
	ledger := service.NewLedgerService(store.NewLedgerStore(slots, config.OnCorruptFallback, log), conv, config.DanglingRecord, log)
	_, err = ledger.Load(ctx)
	require.NoError(t, err)

	hasher := service.NewArgon2HashServiceWithParams(service.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8})
	sessions := service.NewSessionService(
		store.NewCredentialStore(slots, config.OnCorruptFallback, log),
		store.NewSessionStore(slots, config.OnCorruptFallback, log),
		hasher, log,
	)

	router := handler.SetupRouter(handler.RouterDeps{
		Sessions:       sessions,
		TokenSvc:       service.NewJWTTokenService(testSecret, time.Hour, "spendwiser"),
		Ledger:         ledger,
		Prefs:          service.NewPreferenceService(store.NewPreferenceStore(slots, config.OnCorruptFallback, log), conv, "INR", log),
		Insights:       service.NewInsightService(ledger, gemini.Disabled{}, time.Second, log),
		Exporter:       xlsx.NewExporter(),
		RateLimitStore: memory.NewRateLimitStore(),
		HealthCheckers: []ports.HealthChecker{slots},
		Mode:           gin.TestMode,
		Logger:         log,
	})

	return &testApp{server: httptest.NewServer(router), slots: slots}
}

func (a *testApp) close() {
	a.server.Close()
	_ = a.slots.Close()
}

func tempDB(t *testing.T) string {
	return filepath.Join(t.TempDir(), "spendwiser.db")
}

// call sends a JSON request and decodes the envelope's data into out.
func (a *testApp) call(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		if len(env.Data) > 0 {
			require.NoError(t, json.Unmarshal(env.Data, out))
		}
	}
	return resp.StatusCode
}

type authData struct {
	Token string `json:"token"`
}

type walletData struct {
	ID      string `json:"id"`
	Balance string `json:"balance"`
}

func (a *testApp) register(t *testing.T, email, password string) string {
	t.Helper()
	var auth authData
	status := a.call(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "password": password, "name": "Integration",
	}, &auth)
	require.Equal(t, http.StatusCreated, status)
	return auth.Token
}

func (a *testApp) balance(t *testing.T, token, walletID string) string {
	t.Helper()
	var wallets []walletData
	require.Equal(t, http.StatusOK, a.call(t, http.MethodGet, "/api/v1/wallets?currency=INR", token, nil, &wallets))
	for _, w := range wallets {
		if w.ID == walletID {
			return w.Balance
		}
	}
	t.Fatalf("wallet %s not listed", walletID)
	return ""
}
