package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molrad/internal/application/filters"
	"github.com/turtacn/molrad/internal/config"
	prom "github.com/turtacn/molrad/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molrad/internal/interfaces/http/handlers"
	"github.com/turtacn/molrad/internal/interfaces/http/middleware"
	"github.com/turtacn/molrad/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type routerFixture struct {
	router    *gin.Engine
	collector prom.MetricsCollector
	logger    *testutil.MockLogger
}

func newRouterFixture(t *testing.T, limiter middleware.RateLimiter, checks ...handlers.HealthChecker) *routerFixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.Radial.NumCGLevels = 1
	cfg.Radial.MaxSH = []int{1}
	cfg.Radial.NumChannels = []int{2}
	cfg.Radial.BasisSet = []int{1, 1}
	cfg.Radial.Mix = true
	config.ApplyDefaults(cfg)

	collector, err := prom.NewMetricsCollector(prom.CollectorConfig{Namespace: "molrad"}, nil)
	require.NoError(t, err)
	metrics := prom.NewRadialMetrics(collector)

	bank, err := filters.NewBankFromConfig(cfg.Radial, nil, metrics)
	require.NoError(t, err)
	svc, err := filters.NewService(bank, 0, nil)
	require.NoError(t, err)

	logger := testutil.NewMockLogger()
	return &routerFixture{
		router: NewRouter(RouterConfig{
			FilterHandler:  handlers.NewFilterHandler(svc, 2),
			HealthHandler:  handlers.NewHealthHandler("test", checks...),
			Logger:         logger,
			Logging:        middleware.DefaultLoggingConfig(),
			Recorder:       metrics,
			RateLimiter:    limiter,
			MetricsHandler: collector.Handler(),
			MetricsPath:    "/metrics",
		}),
		collector: collector,
		logger:    logger,
	}
}

func (f *routerFixture) serve(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestNewRouter_Routes(t *testing.T) {
	f := newRouterFixture(t, nil)

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/v1/filters", "", http.StatusOK},
		{http.MethodGet, "/v1/filters/levels/0", "", http.StatusOK},
		{http.MethodPost, "/v1/filters/evaluate", `{"distances":[1,2]}`, http.StatusOK},
		{http.MethodPost, "/v1/filters/evaluate/batch", `{"requests":[{"distances":[1]}]}`, http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/v2/filters", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := f.serve(tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestNewRouter_NilDependencies(t *testing.T) {
	r := NewRouter(RouterConfig{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewRouter_RecordsRequestMetrics(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.serve(http.MethodGet, "/v1/filters/levels/0", "")
	f.serve(http.MethodPost, "/v1/filters/evaluate", `{"distances":[1,0,3]}`)

	out := f.serve(http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, out, `molrad_http_requests_total{method="GET",path="/v1/filters/levels/:level",status_code="200"} 1`)
	assert.Contains(t, out, `molrad_pairs_total{level="0"} 3`)
	assert.Contains(t, out, `molrad_masked_pairs_total{level="0"} 1`)
}

func TestNewRouter_LogsRequests(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.serve(http.MethodGet, "/v1/filters", "")
	f.serve(http.MethodGet, "/healthz", "")

	var completed []string
	for _, m := range f.logger.GetMessages() {
		if m.Message == "HTTP request completed" {
			path, _ := m.Field("path")
			completed = append(completed, path.(string))
		}
	}
	assert.Equal(t, []string{"/v1/filters"}, completed)
}

type denyAll struct{}

func (denyAll) Allow(string) (bool, middleware.RateLimitInfo) {
	return false, middleware.RateLimitInfo{Limit: 1}
}

func TestNewRouter_RateLimitsEvaluation(t *testing.T) {
	f := newRouterFixture(t, denyAll{})

	w := f.serve(http.MethodPost, "/v1/filters/evaluate", `{"distances":[1]}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = f.serve(http.MethodGet, "/v1/filters", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewRouter_ReadinessChecks(t *testing.T) {
	f := newRouterFixture(t, nil, handlers.CheckFunc{
		CheckName: "bank",
		Fn:        func(context.Context) error { return errors.New("not loaded") },
	})
	w := f.serve(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

//Personal.AI order the ending
