// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/model"
	"github.com/netplus-lab/netplus/internal/progress"
	"github.com/netplus-lab/netplus/internal/testutil"
)

func newTestServer(t *testing.T, rateLimit int) (*Server, *testutil.FakeStore) {
	t.Helper()
	i18n.Init("en")
	fs := testutil.NewFakeStore()
	tr := progress.New(fs, progress.WithUser("api-test"))
	return NewServer(Options{Progress: tr, RateLimit: rateLimit, Registry: prometheus.NewRegistry()}), fs
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.RemoteAddr = "192.0.2.10:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, 0)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSubnet(t *testing.T) {
	s, _ := newTestServer(t, 0)

	for _, target := range []string{
		"/api/v1/subnet?cidr=192.168.1.77/26",
		"/api/v1/subnet?ip=192.168.1.77&mask=255.255.255.192",
		"/api/v1/subnet?ip=192.168.1.77&mask=26",
	} {
		rec := do(t, s, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		got := decode[map[string]any](t, rec)
		assert.Equal(t, "192.168.1.64", got["network"], target)
		assert.Equal(t, "192.168.1.127", got["broadcast"], target)
		assert.Equal(t, float64(62), got["usable_hosts"], target)
		assert.Equal(t, "192.168.1.77", got["address"], target)
	}

	rec := do(t, s, http.MethodGet, "/api/v1/subnet?cidr=300.1.1.1/24", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	e := decode[ErrorResponse](t, rec)
	assert.NotEmpty(t, e.Error)
	assert.NotEmpty(t, e.Detail)
}

func TestSplit(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := do(t, s, http.MethodGet, "/api/v1/split?cidr=10.0.0.0/24&count=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	type splitBody struct {
		Base    string           `json:"base"`
		Subnets []map[string]any `json:"subnets"`
	}
	body := decode[splitBody](t, rec)
	assert.Equal(t, "10.0.0.0/24", body.Base)
	require.Len(t, body.Subnets, 4)
	assert.Equal(t, "10.0.0.192/26", body.Subnets[3]["cidr"])

	rec = do(t, s, http.MethodGet, "/api/v1/split?cidr=10.0.0.0/8&prefix=30", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "too_many_subnets", decode[ErrorResponse](t, rec).Error)

	rec = do(t, s, http.MethodGet, "/api/v1/split?cidr=10.0.0.0/24", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVLSM_SaveDesign(t *testing.T) {
	s, fs := newTestServer(t, 0)
	body := `{"base":"192.168.10.0/24","requirements":[{"name":"Eng","hosts":100},{"name":"WAN","hosts":2}],"save":true,"name":"branch"}`

	rec := do(t, s, http.MethodPost, "/api/v1/vlsm", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[VLSMResponse](t, rec)
	require.Len(t, got.Plan.Allocations, 2)
	assert.Equal(t, "192.168.10.0/25", got.Plan.Allocations[0].Subnet.CIDR)
	assert.NotEmpty(t, got.DesignID)
	assert.Equal(t, []string{progress.ActionDesignSave}, fs.Actions())

	rec = do(t, s, http.MethodPost, "/api/v1/vlsm", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate", decode[ErrorResponse](t, rec).Error)

	rec = do(t, s, http.MethodPost, "/api/v1/vlsm", `{"base":"192.168.10.0/28","requirements":[{"name":"Big","hosts":500}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "insufficient_space", decode[ErrorResponse](t, rec).Error)

	rec = do(t, s, http.MethodPost, "/api/v1/vlsm", `{"base":"0.0.0.0/0","requirements":[{"name":"Huge","hosts":2147483647}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "too_many_hosts", decode[ErrorResponse](t, rec).Error)

	rec = do(t, s, http.MethodPost, "/api/v1/vlsm", `{"base":"192.168.10.0/24","bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decode[ErrorResponse](t, rec).Error)
}

func TestSummarize(t *testing.T) {
	s, _ := newTestServer(t, 0)
	rec := do(t, s, http.MethodPost, "/api/v1/summarize", `{"prefixes":["172.16.0.0/24","172.16.1.0/24","172.16.2.0/24","172.16.3.0/24"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "172.16.0.0/22", got["summary"])

	rec = do(t, s, http.MethodPost, "/api/v1/summarize", `{"prefixes":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidate(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := do(t, s, http.MethodGet, "/api/v1/validate/vlan?value=4095", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[ValidateResponse](t, rec)
	assert.False(t, got.Valid)
	assert.Equal(t, "validation.vlan.range", got.Code)
	assert.Equal(t, `VLAN ID "4095" must be between 1 and 4094`, got.Message)

	rec = do(t, s, http.MethodGet, "/api/v1/validate/mac?value=00:1A:2B:3C:4D:5E", "")
	assert.True(t, decode[ValidateResponse](t, rec).Valid)

	rec = do(t, s, http.MethodGet, "/api/v1/validate/colour?value=red", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/validate", "")
	assert.Contains(t, rec.Body.String(), `"ipv4"`)
}

func TestDiagnose(t *testing.T) {
	s, _ := newTestServer(t, 0)
	rec := do(t, s, http.MethodPost, "/api/v1/troubleshoot/diagnose",
		`{"ip":"192.168.10.45","mask":"255.255.255.192","gateway":"192.168.10.129","dns":["192.168.10.1"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[DiagnoseResponse](t, rec)
	assert.Equal(t, "gateway_off_subnet", string(got.Primary))
	require.NotEmpty(t, got.Findings)
	assert.NotEqual(t, "issue.gateway_off_subnet", got.Findings[0].Message)

	rec = do(t, s, http.MethodGet, "/api/v1/troubleshoot/scenarios", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"apipa"`)
}

func TestProgress(t *testing.T) {
	s, fs := newTestServer(t, 0)
	_, err := fs.AddAttempt(t.Context(), model.Attempt{Module: model.ModuleQuiz, Score: 90, CreatedAt: time.Now()})
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/api/v1/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[progress.Summary](t, rec)
	assert.Equal(t, 1, got.TotalAttempts)
	assert.Equal(t, 25, got.Percent)

	bare := NewServer(Options{Registry: prometheus.NewRegistry()})
	rec = do(t, bare, http.MethodGet, "/api/v1/progress", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimit_JSON429(t *testing.T) {
	s, _ := newTestServer(t, 2)
	for i := 0; i < 2; i++ {
		rec := do(t, s, http.MethodGet, "/api/v1/validate/port?value=80", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, s, http.MethodGet, "/api/v1/validate/port?value=80", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[ErrorResponse](t, rec).Error)

	// Health checks sit outside the limited group.
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz", "").Code)
}

func TestMetricsAndNotFound(t *testing.T) {
	s, _ := newTestServer(t, 0)
	do(t, s, http.MethodGet, "/api/v1/subnet?cidr=10.0.0.0/8", "")

	rec := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[ErrorResponse](t, rec).Error)

	rec = do(t, s, http.MethodDelete, "/api/v1/subnet", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method_not_allowed", decode[ErrorResponse](t, rec).Error)

	rec = do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `netplus_http_requests_total{method="GET",path="/api/v1/subnet",status="200"} 1`)
}
