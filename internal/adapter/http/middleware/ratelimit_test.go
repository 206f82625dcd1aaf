package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spendwiser/internal/adapter/http/middleware"
	"spendwiser/internal/adapter/storage/memory"
	redisStore "spendwiser/internal/adapter/storage/redis"
	"spendwiser/internal/core/ports"
	"spendwiser/internal/core/ports/mocks"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupRateLimitRouter(store ports.RateLimitStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	rule := middleware.RateLimitRule{Limit: 3, Window: time.Minute}

	r.GET("/test", middleware.RateLimiter(store, "test", rule, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return r
}

func doGet(router http.Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)
	return w
}

func rateLimitStores(t *testing.T) map[string]ports.RateLimitStore {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]ports.RateLimitStore{
		"redis":  redisStore.NewRateLimitStore(client, "sw:"),
		"memory": memory.NewRateLimitStore(),
	}
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	for name, store := range rateLimitStores(t) {
		t.Run(name, func(t *testing.T) {
			router := setupRateLimitRouter(store)

			for i := 0; i < 3; i++ {
				w := doGet(router)
				assert.Equal(t, 200, w.Code, "request %d should succeed", i+1)
				assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
				assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
				assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
			}
		})
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	for name, store := range rateLimitStores(t) {
		t.Run(name, func(t *testing.T) {
			router := setupRateLimitRouter(store)

			for i := 0; i < 3; i++ {
				doGet(router)
			}

			w := doGet(router)
			assert.Equal(t, http.StatusTooManyRequests, w.Code)
			assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
			assert.Contains(t, w.Body.String(), "RATE_001")
		})
	}
}

func TestRateLimiter_DegradedModeAllows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockRateLimitStore(ctrl)
	store.EXPECT().Allow(gomock.Any(), "test:ip:192.0.2.1", int64(3), time.Minute).
		Return(nil, errors.New("redis down"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	setupRateLimitRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimiter_KeysByUserWhenAuthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockRateLimitStore(ctrl)
	store.EXPECT().Allow(gomock.Any(), "receipts:user:u-1", int64(3), time.Minute).
		Return(&ports.RateLimitResult{Allowed: true, Limit: 3, Remaining: 2, ResetAt: time.Now().Unix() + 60}, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test",
		func(c *gin.Context) { c.Set(middleware.CtxUserID, "u-1") },
		middleware.RateLimiter(store, "receipts", middleware.RateLimitRule{Limit: 3, Window: time.Minute}, zerolog.Nop()),
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)

	w := doGet(r)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))
}

func TestDefaultRateLimitRules(t *testing.T) {
	rules := middleware.DefaultRateLimitRules()
	for _, group := range []string{"auth_login", "auth_register", "insights", "receipts", "export"} {
		rule, ok := rules[group]
		assert.True(t, ok, group)
		assert.Positive(t, rule.Limit)
		assert.Positive(t, rule.Window)
	}
}
