// SPDX-License-Identifier: MIT

package web

import (
	"net/http"
	"net/url"
	"strings"
)

const flashCookie = "aircheck_flash"

// Flash is a one-shot status message surviving exactly one redirect.
type Flash struct {
	Category string // "success" or "error"
	Message  string
}

// setFlash stores a flash message in a short-lived cookie. The value is
// escaped so arbitrary message text stays cookie-safe.
func setFlash(w http.ResponseWriter, category, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the flash cookie. Returns nil when there is
// no message or the cookie does not decode.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
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

	decoded, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	category, message, found := strings.Cut(decoded, "|")
	if !found {
		return nil
	}
	return &Flash{Category: category, Message: message}
}
