package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"posdata/internal/capture"
	"posdata/internal/telemetry"
)

type discardWriter struct{}

func (discardWriter) Write(telemetry.PositionRow) error { return nil }

func newTestServer(t *testing.T) (*Server, *capture.Capturer) {
	t.Helper()
	c := capture.New("printer-01", nil, discardWriter{}, nil, time.Second, time.Second)
	return NewServer(c), c
}

func TestHandleStatus(t *testing.T) {
	server, c := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	server.handleStatus(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK, got %v", resp.StatusCode)
	}
	var state telemetry.SessionStateRow
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.PrinterID != "printer-01" {
		t.Errorf("printer_id = %q, want printer-01", state.PrinterID)
	}
	if state.SessionID != c.SessionID() {
		t.Errorf("session_id = %q, want %q", state.SessionID, c.SessionID())
	}
}

func TestHandleRowEmpty(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/row", nil)
	w := httptest.NewRecorder()
	server.handleRow(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before first row, got %v", w.Result().StatusCode)
	}
}

func TestHandleIndex(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	server.handleIndex(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK, got %v", resp.StatusCode)
	}
	body := w.Body.String()
	if !strings.Contains(body, "posdata capture") || !strings.Contains(body, "printer-01") {
		t.Fatalf("unexpected index body: %q", body)
	}
}
