package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"github.com/alpsoap/storefront/pkg/logger"
)

func newTestLogger(w *bytes.Buffer) *slog.Logger {
	return logger.NewWithWriter("test-svc", "info", w)
}

func TestRequestLogger_StoresLoggerInContext(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf)

	var ctxLogger *slog.Logger
	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = logger.FromContext(r.Context())
		ctxLogger.Info("handler log")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if ctxLogger == nil {
		t.Fatal("expected non-nil logger from context")
	}

	if buf.Len() == 0 {
		t.Fatal("expected log output")
	}
}

func TestRequestLogger_IncludesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf)

	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("test")
		w.WriteHeader(http.StatusOK)
	}))

	// Set correlation_id in context (as RequestLogging middleware would).
	ctx := logger.WithCorrelationID(context.Background(), "corr-test-123")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := out["correlation_id"]; got != "corr-test-123" {
		t.Errorf("correlation_id = %v, want %q", got, "corr-test-123")
	}
}

func TestRequestLogger_IncludesShopperIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf)

	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("test")
		w.WriteHeader(http.StatusOK)
	}))

	// Simulate an upstream middleware having set shopper_id in context.
	ctx := logger.WithShopperID(context.Background(), "shopper-from-ctx")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := out["shopper_id"]; got != "shopper-from-ctx" {
		t.Errorf("shopper_id = %v, want %q", got, "shopper-from-ctx")
	}
}

func TestRequestLogger_IncludesShopperIDFromHeader(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf)

	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("test")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Shopper-ID", "shopper-from-header")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := out["shopper_id"]; got != "shopper-from-header" {
		t.Errorf("shopper_id = %v, want %q", got, "shopper-from-header")
	}
}

func TestRequestLogger_ContextTakesPrecedenceOverHeader(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf)

	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("test")
		w.WriteHeader(http.StatusOK)
	}))

	ctx := logger.WithShopperID(context.Background(), "ctx-shopper")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
	req.Header.Set("X-Shopper-ID", "header-shopper")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := out["shopper_id"]; got != "ctx-shopper" {
		t.Errorf("shopper_id = %v, want %q (context should take precedence)", got, "ctx-shopper")
	}
}

func TestRequestLogger_IncludesTraceFields(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf)

	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("test")
		w.WriteHeader(http.StatusOK)
	}))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := out["trace_id"]; got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace_id = %v, want %q", got, "4bf92f3577b34da6a3ce929d0e0e4736")
	}
	if got := out["span_id"]; got != "00f067aa0ba902b7" {
		t.Errorf("span_id = %v, want %q", got, "00f067aa0ba902b7")
	}
}

func TestRequestLogger_NoShopperID_OmitsField(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf)

	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("test")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := out["shopper_id"]; ok {
		t.Error("shopper_id should not be present when not set")
	}
}
