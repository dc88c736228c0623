package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yourorg/storefront/internal/client"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// TestRateLimiter_BurstThenRefill exhausts the bucket and waits for a refill
func TestRateLimiter_BurstThenRefill(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(60, 2)
	limiter.now = func() time.Time { return now }

	if !limiter.Allow("1.2.3.4") || !limiter.Allow("1.2.3.4") {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("expected third request to be limited")
	}
	if !limiter.Allow("5.6.7.8") {
		t.Error("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !limiter.Allow("1.2.3.4") {
		t.Error("expected one token after a second at 60/min")
	}
}

// TestRateLimiter_SweepsIdleClients tests that refilled buckets are dropped
func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	limiter := NewRateLimiter(60, 2)
	limiter.now = func() time.Time { return now }

	limiter.Allow("1.1.1.1")
	limiter.Allow("2.2.2.2")

	now = start.Add(30 * time.Second)
	limiter.Allow("3.3.3.3")
	if got := limiter.Clients(); got != 3 {
		t.Fatalf("expected 3 tracked clients before the sweep, got %d", got)
	}

	now = start.Add(61 * time.Second)
	limiter.Allow("3.3.3.3")
	if got := limiter.Clients(); got != 1 {
		t.Errorf("expected idle clients to be swept, %d remain", got)
	}

	// A swept client starts again with a full burst
	if !limiter.Allow("1.1.1.1") || !limiter.Allow("1.1.1.1") {
		t.Error("expected a full burst after the sweep")
	}
	if limiter.Allow("1.1.1.1") {
		t.Error("expected the burst to still be enforced")
	}
}

// TestRateLimit_Returns429 tests the middleware response when limited
func TestRateLimit_Returns429(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(60, 1))
	router.GET("/test", okHandler)

	codes := []int{}
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("expected [200 429], got %v", codes)
	}
}

// TestRequestID_GeneratesAndPropagates tests id generation and context propagation
func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var fromContext string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		fromContext = client.RequestIDFromContext(c.Request.Context())
		okHandler(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	header := w.Header().Get(client.RequestIDHeader)
	if header == "" {
		t.Fatal("expected a generated request id header")
	}
	if fromContext != header {
		t.Errorf("expected context id %q to match header %q", fromContext, header)
	}
}

// TestRequestID_ReusesIncoming tests that a caller supplied id is kept
func TestRequestID_ReusesIncoming(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(client.RequestIDHeader, "from-ui")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(client.RequestIDHeader); got != "from-ui" {
		t.Errorf("expected from-ui, got %q", got)
	}
}

// TestLogger_LevelByStatus tests log levels by status class
func TestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(RequestID(), Logger(zap.New(core)))
	router.GET("/ok", okHandler)
	router.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	for _, path := range []string{"/ok?search=jollof", "/bad", "/boom"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}
	wantLevels := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, entry := range entries {
		if entry.Level != wantLevels[i] {
			t.Errorf("entry %d: expected level %s, got %s", i, wantLevels[i], entry.Level)
		}
		if id, ok := entry.ContextMap()["request_id"].(string); !ok || id == "" {
			t.Errorf("entry %d: expected request_id field", i)
		}
	}
	if entries[0].ContextMap()["path"] != "/ok?search=jollof" {
		t.Errorf("expected query string in path, got %v", entries[0].ContextMap()["path"])
	}
}

// TestRedisRateLimit_FailsOpen tests that an unreachable Redis does not block traffic
func TestRedisRateLimit_FailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	core, logs := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(RedisRateLimit(rdb, RedisRateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 10,
		BurstSize:         1,
	}, zap.New(core)))
	router.GET("/test", okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 when Redis is unreachable, got %d", w.Code)
	}
	if logs.FilterMessage("Rate limit check failed").Len() != 1 {
		t.Error("expected the limiter failure to be logged")
	}
}

// TestRedisRateLimit_Disabled tests that a disabled limiter never calls Redis
func TestRedisRateLimit_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(RedisRateLimit(nil, RedisRateLimitConfig{Enabled: false}, zap.NewNop()))
	router.GET("/test", okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRateLimitKeyIsPerMinute(t *testing.T) {
	a := rateLimitKey("1.2.3.4", time.Unix(120, 0))
	b := rateLimitKey("1.2.3.4", time.Unix(179, 0))
	c := rateLimitKey("1.2.3.4", time.Unix(180, 0))
	if a != b {
		t.Errorf("expected same window, got %s and %s", a, b)
	}
	if a == c {
		t.Errorf("expected a new window at the minute boundary")
	}
}

func TestLimitedClientIP_IgnoresHeaderUnlessConfigured(t *testing.T) {
	c, engine := gin.CreateTestContext(httptest.NewRecorder())
	if err := engine.SetTrustedProxies(nil); err != nil {
		t.Fatal(err)
	}
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	c.Request.RemoteAddr = "10.0.0.7:5123"
	c.Request.Header.Set("X-Real-IP", "203.0.113.9")

	if got := limitedClientIP(c, ""); got != "10.0.0.7" {
		t.Errorf("expected the connection address, got %s", got)
	}
	if got := limitedClientIP(c, "X-Real-IP"); got != "203.0.113.9" {
		t.Errorf("expected the configured header, got %s", got)
	}
}
