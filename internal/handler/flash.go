package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/evyataryagoni/geoconsole/internal/view"
)

// flashCookie carries one toast across a post/redirect/get cycle
const flashCookie = "geo_flash"

// setFlash stores a toast to be shown on the next page render
func setFlash(w http.ResponseWriter, level, message string) {
	storeFlash(w, view.Toast{Level: level, Message: message})
}

func storeFlash(w http.ResponseWriter, toast view.Toast) {
	payload, err := json.Marshal(toast)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending toast
// Returns nil when there is none or the cookie is unreadable
func popFlash(w http.ResponseWriter, r *http.Request) *view.Toast {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var toast view.Toast
	if err := json.Unmarshal(raw, &toast); err != nil || toast.Message == "" {
		return nil
	}
	return &toast
}
