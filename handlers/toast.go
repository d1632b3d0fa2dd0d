package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

// Toast levels; the layout script styles each as .toast-<level>.
const (
	ToastSuccess = "success"
	ToastWarning = "warning"
	ToastError   = "error"
	ToastInfo    = "info"
)

const (
	toastEvent      = "showToast"
	flashCookieName = "flash_toast"
)

type toastPayload struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SetToast queues a toast for the client. HTMX requests pick it up from the
// HX-Trigger header (merged into any events already set there); full page
// redirects pick it up from a short-lived flash cookie.
func SetToast(e *core.RequestEvent, level, message string) {
	payload := toastPayload{Message: message, Type: level}

	trigger, err := mergeTrigger(e.Response.Header().Get("HX-Trigger"), toastEvent, payload)
	if err != nil {
		log.Printf("toast: could not build HX-Trigger: %v", err)
	} else {
		e.Response.Header().Set("HX-Trigger", trigger)
	}

	setFlashCookie(e.Response, payload)
}

// ErrorToast shows an error toast and tells HTMX not to swap the body.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, ToastError, message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

// mergeTrigger adds event to an HX-Trigger JSON object. An existing value
// that is not a JSON object is replaced.
func mergeTrigger(existing, event string, detail any) (string, error) {
	events := map[string]any{}
	if existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil || events == nil {
			log.Printf("toast: existing HX-Trigger is not a JSON object, overwriting: %q", existing)
			events = map[string]any{}
		}
	}
	events[event] = detail

	data, err := json.Marshal(events)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func setFlashCookie(w http.ResponseWriter, payload toastPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("toast: could not encode flash cookie: %v", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(string(data)),
		Path:     "/",
		MaxAge:   10,
		HttpOnly: false, // read by the layout script
		SameSite: http.SameSiteLaxMode,
	})
}
