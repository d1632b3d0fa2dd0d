package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func newToastEvent() (*core.RequestEvent, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	return e, rec
}

// triggerEvents decodes the HX-Trigger header into its events.
func triggerEvents(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	raw := rec.Header().Get("HX-Trigger")
	if raw == "" {
		t.Fatal("expected HX-Trigger header to be set")
	}
	var events map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		t.Fatalf("HX-Trigger %q is not a JSON object: %v", raw, err)
	}
	return events
}

func decodeToast(t *testing.T, raw json.RawMessage) toastPayload {
	t.Helper()
	var p toastPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("showToast payload is not valid JSON: %v", err)
	}
	return p
}

func TestSetToast_Levels(t *testing.T) {
	tests := []struct {
		level   string
		message string
	}{
		{ToastSuccess, "Server added"},
		{ToastWarning, "Please fix the errors below"},
		{ToastError, "Project not found"},
		{ToastInfo, "Import preview ready"},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			e, rec := newToastEvent()
			SetToast(e, tt.level, tt.message)

			got := decodeToast(t, triggerEvents(t, rec)[toastEvent])
			if got.Type != tt.level || got.Message != tt.message {
				t.Errorf("toast = %+v, want {%s %s}", got, tt.message, tt.level)
			}
		})
	}
}

func TestSetToast_KeepsOtherEvents(t *testing.T) {
	e, rec := newToastEvent()
	rec.Header().Set("HX-Trigger", `{"estimateChanged":{"projectId":"p1"}}`)

	SetToast(e, ToastSuccess, "Prices saved")

	events := triggerEvents(t, rec)
	var other map[string]string
	if err := json.Unmarshal(events["estimateChanged"], &other); err != nil {
		t.Fatalf("estimateChanged lost or corrupted: %v", err)
	}
	if other["projectId"] != "p1" {
		t.Errorf("estimateChanged.projectId = %q, want p1", other["projectId"])
	}
	if got := decodeToast(t, events[toastEvent]); got.Message != "Prices saved" {
		t.Errorf("toast message = %q, want %q", got.Message, "Prices saved")
	}
}

func TestSetToast_EscapesMessage(t *testing.T) {
	messages := []string{
		`Server "DB-01" saved`,
		`<script>alert("x")</script>`,
		`C:\exports\estimate.xlsx`,
		"row 3\nrow 4",
		"Tổng cộng 3.179.400 ₫",
	}
	for _, msg := range messages {
		t.Run(msg, func(t *testing.T) {
			e, rec := newToastEvent()
			SetToast(e, ToastInfo, msg)

			if got := decodeToast(t, triggerEvents(t, rec)[toastEvent]); got.Message != msg {
				t.Errorf("message = %q, want %q", got.Message, msg)
			}
		})
	}
}

func TestMergeTrigger(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		wantKeys []string
	}{
		{"empty", "", []string{"showToast"}},
		{"object", `{"refresh":true}`, []string{"refresh", "showToast"}},
		{"replaces previous toast", `{"showToast":{"message":"old"}}`, []string{"showToast"}},
		{"json null", "null", []string{"showToast"}},
		{"json array", `[1,2]`, []string{"showToast"}},
		{"plain event name", "itemSaved", []string{"showToast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mergeTrigger(tt.existing, toastEvent, toastPayload{Message: "hi", Type: ToastInfo})
			if err != nil {
				t.Fatalf("mergeTrigger returned error: %v", err)
			}
			var parsed map[string]json.RawMessage
			if err := json.Unmarshal([]byte(got), &parsed); err != nil {
				t.Fatalf("result is not a JSON object: %v", err)
			}
			if len(parsed) != len(tt.wantKeys) {
				t.Errorf("expected %d keys, got %d (%s)", len(tt.wantKeys), len(parsed), got)
			}
			for _, k := range tt.wantKeys {
				if _, ok := parsed[k]; !ok {
					t.Errorf("expected key %q in %s", k, got)
				}
			}
			if p := decodeToast(t, parsed[toastEvent]); p.Message != "hi" {
				t.Errorf("toast message = %q, want hi", p.Message)
			}
		})
	}
}

func TestSetToast_FlashCookie(t *testing.T) {
	e, rec := newToastEvent()
	SetToast(e, ToastSuccess, "Project created")

	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookieName {
			flash = c
		}
	}
	if flash == nil {
		t.Fatal("expected flash_toast cookie to be set")
	}
	raw, err := url.QueryUnescape(flash.Value)
	if err != nil {
		t.Fatalf("cookie value is not query-escaped: %v", err)
	}
	var payload toastPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("cookie value is not JSON: %v", err)
	}
	if payload.Type != ToastSuccess || payload.Message != "Project created" {
		t.Errorf("unexpected cookie payload %+v", payload)
	}
	if flash.Path != "/" || flash.HttpOnly {
		t.Errorf("cookie must be script-readable on /, got path %q httpOnly %v", flash.Path, flash.HttpOnly)
	}
}

func TestErrorToast(t *testing.T) {
	codes := []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError}
	for _, code := range codes {
		t.Run(http.StatusText(code), func(t *testing.T) {
			e, rec := newToastEvent()
			if err := ErrorToast(e, code, "Server not found"); err != nil {
				t.Fatalf("ErrorToast returned error: %v", err)
			}

			if rec.Code != code {
				t.Errorf("status = %d, want %d", rec.Code, code)
			}
			if rec.Header().Get("HX-Reswap") != "none" {
				t.Error("expected HX-Reswap: none")
			}
			if rec.Body.String() != "Server not found" {
				t.Errorf("body = %q, want %q", rec.Body.String(), "Server not found")
			}
			if got := decodeToast(t, triggerEvents(t, rec)[toastEvent]); got.Type != ToastError {
				t.Errorf("toast type = %q, want %q", got.Type, ToastError)
			}
		})
	}
}
