package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cardbinder/cardbinder/pkg/domain"
)

func TestGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.User{ //nolint:errcheck
			ID:    "u-123",
			Login: "collector",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	me, err := c.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if me.ID != "u-123" {
		t.Errorf("ID = %q, want %q", me.ID, "u-123")
	}
	if me.Login != "collector" {
		t.Errorf("Login = %q, want %q", me.Login, "collector")
	}
}

func TestGetMe_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token")
	_, err := c.GetMe(context.Background())
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 401") {
		t.Errorf("error = %q, want it to contain 'HTTP 401'", got)
	}
	if !IsAuth(err) {
		t.Error("IsAuth() = false for a 401, want true")
	}
}

func TestGetBinder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/binder" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(domain.Document{ //nolint:errcheck
			Cards: []domain.Card{
				{ID: "fb-001", SetName: "Base", CardNumber: "1", Parallel: "Base", Collected: true},
			},
			HiddenCards: []string{"fb-002"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	doc, err := c.GetBinder(context.Background())
	if err != nil {
		t.Fatalf("GetBinder() error: %v", err)
	}
	if len(doc.Cards) != 1 || doc.Cards[0].ID != "fb-001" {
		t.Errorf("Cards = %+v, want one card fb-001", doc.Cards)
	}
	if len(doc.HiddenCards) != 1 || doc.HiddenCards[0] != "fb-002" {
		t.Errorf("HiddenCards = %v, want [fb-002]", doc.HiddenCards)
	}
}

func TestGetBinder_Absent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no document"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.GetBinder(context.Background())
	if !IsStatus(err, 404) {
		t.Errorf("GetBinder() on absent doc = %v, want 404 HTTPError", err)
	}
}

func TestPutBinder(t *testing.T) {
	var got domain.Document
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/binder" {
			http.NotFound(w, r)
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	doc := domain.Document{
		Cards:       []domain.Card{{ID: "x", SetName: "Base", CardNumber: "1", Parallel: "Base"}},
		CustomOrder: map[string][]string{"Base": {"x"}},
	}
	if err := c.PutBinder(context.Background(), doc); err != nil {
		t.Fatalf("PutBinder() error: %v", err)
	}
	if len(got.Cards) != 1 || got.Cards[0].ID != "x" {
		t.Errorf("server received %+v, want the card x", got.Cards)
	}
	if len(got.CustomOrder["Base"]) != 1 {
		t.Errorf("custom order lost in transit: %+v", got.CustomOrder)
	}
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/cli-exchange" {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		if body["code"] != "one-time-code" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "session-token"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	tok, err := c.ExchangeCode(context.Background(), "one-time-code")
	if err != nil {
		t.Fatalf("ExchangeCode() error: %v", err)
	}
	if tok != "session-token" {
		t.Errorf("token = %q, want %q", tok, "session-token")
	}
}

func TestExchangeCode_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": ""}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if _, err := c.ExchangeCode(context.Background(), "code"); err == nil {
		t.Fatal("expected error for empty token response")
	}
}
