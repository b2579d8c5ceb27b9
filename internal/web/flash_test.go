// SPDX-License-Identifier: MIT

package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestFlashRoundTrip(t *testing.T) {
	set := httptest.NewRecorder()
	setFlash(set, "success", "Show 'morning-drive' saved successfully.")

	cookies := set.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != flashCookie {
		t.Errorf("cookie name = %q", c.Name)
	}
	if !c.HttpOnly {
		t.Error("flash cookie must be HttpOnly")
	}
	if c.MaxAge != 60 {
		t.Errorf("MaxAge = %d, want 60", c.MaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/shows", nil)
	req.AddCookie(c)
	pop := httptest.NewRecorder()

	flash := popFlash(pop, req)
	if flash == nil {
		t.Fatal("popFlash returned nil")
	}
	if flash.Category != "success" {
		t.Errorf("Category = %q", flash.Category)
	}
	if flash.Message != "Show 'morning-drive' saved successfully." {
		t.Errorf("Message = %q", flash.Message)
	}

	// Popping clears the cookie.
	cleared := pop.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 || cleared[0].Value != "" {
		t.Errorf("expected a clearing cookie, got %+v", cleared)
	}
}

func TestPopFlash_NoCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/shows", nil)
	w := httptest.NewRecorder()

	if flash := popFlash(w, req); flash != nil {
		t.Errorf("expected nil, got %+v", flash)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("popFlash set a cookie with nothing to clear")
	}
}

func TestPopFlash_GarbageValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"bad escape", "%zz"},
		{"no separator", url.QueryEscape("just some text")},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/shows", nil)
			req.AddCookie(&http.Cookie{Name: flashCookie, Value: tt.value})
			w := httptest.NewRecorder()

			if flash := popFlash(w, req); flash != nil {
				t.Errorf("expected nil, got %+v", flash)
			}
		})
	}
}

func TestPopFlash_MessageWithSeparator(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/shows", nil)
	req.AddCookie(&http.Cookie{
		Name:  flashCookie,
		Value: url.QueryEscape("error|Field 'a|b' is required."),
	})
	w := httptest.NewRecorder()

	flash := popFlash(w, req)
	if flash == nil {
		t.Fatal("popFlash returned nil")
	}
	// Only the first separator splits; the rest belongs to the message.
	if flash.Message != "Field 'a|b' is required." {
		t.Errorf("Message = %q", flash.Message)
	}
}
