package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestCollector_RecordHTTPStatus はステータスコード別カウンタを検証する。
func TestCollector_RecordHTTPStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("200")); got != 2 {
		t.Errorf("status 200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("404")); got != 1 {
		t.Errorf("status 404 count = %v, want 1", got)
	}
}

// TestCollector_RecordMutation は操作種別ごとの変更カウンタを検証する。
func TestCollector_RecordMutation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordMutation("follow")
	c.RecordMutation("follow")
	c.RecordMutation("like")

	if got := testutil.ToFloat64(c.mutations.WithLabelValues("follow")); got != 2 {
		t.Errorf("follow mutations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.mutations.WithLabelValues("like")); got != 1 {
		t.Errorf("like mutations = %v, want 1", got)
	}
}

// TestCollector_RecordAuthFailure は認証失敗カウンタを検証する。
func TestCollector_RecordAuthFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthFailure()
	c.RecordAuthFailure()

	if got := testutil.ToFloat64(c.authFailures); got != 2 {
		t.Errorf("auth failures = %v, want 2", got)
	}
}

// TestHandler はメトリクスエンドポイントの公開を検証する。
func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordHTTPStatus(200)
	c.RecordRequestLatency(10 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "minisns_http_status_total") {
		t.Error("expected minisns_http_status_total in metrics output")
	}
	if !strings.Contains(body, "minisns_request_latency_seconds") {
		t.Error("expected minisns_request_latency_seconds in metrics output")
	}
}

// TestMiddleware はミドルウェアによるステータス記録を検証する。
func TestMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	handler := Middleware(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("201")); got != 1 {
		t.Errorf("status 201 count = %v, want 1", got)
	}
}
