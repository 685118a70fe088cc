package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRefresh_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("client_id"); got != "cid" {
			t.Errorf("client_id = %q", got)
		}
		if got := r.PostForm.Get("refresh_token"); got != "rtok" {
			t.Errorf("refresh_token = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fresh-token",
			"expires_in":   3599,
			"token_type":   "Bearer",
		})
	}))
	defer srv.Close()

	c := NewTokenClient(Config{
		ClientID:     "cid",
		ClientSecret: "secret",
		TokenURL:     srv.URL,
	})

	before := time.Now()
	cred, err := c.Refresh(context.Background(), "rtok")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if cred.AccessToken != "fresh-token" {
		t.Errorf("access token = %q", cred.AccessToken)
	}
	if cred.RefreshToken != "rtok" {
		t.Errorf("refresh token = %q", cred.RefreshToken)
	}
	ttl := cred.Expiry.Sub(before)
	if ttl < 3590*time.Second || ttl > 3610*time.Second {
		t.Errorf("expiry %v not ~3599s out", ttl)
	}
}

func TestRefresh_InvalidGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error":             "invalid_grant",
			"error_description": "Token has been expired or revoked.",
		})
	}))
	defer srv.Close()

	c := NewTokenClient(Config{ClientID: "cid", ClientSecret: "secret", TokenURL: srv.URL})

	_, err := c.Refresh(context.Background(), "rtok")
	var authErr *Error
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if authErr.Code != "invalid_grant" {
		t.Errorf("code = %q", authErr.Code)
	}
	if authErr.Description == "" {
		t.Error("description missing")
	}
}

func TestRefresh_OpaqueServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("oops"))
	}))
	defer srv.Close()

	c := NewTokenClient(Config{ClientID: "cid", ClientSecret: "secret", TokenURL: srv.URL})

	_, err := c.Refresh(context.Background(), "rtok")
	var authErr *Error
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if authErr.Code != "" {
		t.Errorf("opaque failure should carry no OAuth code, got %q", authErr.Code)
	}
}

func TestRefresh_MissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token_type": "Bearer"})
	}))
	defer srv.Close()

	c := NewTokenClient(Config{ClientID: "cid", ClientSecret: "secret", TokenURL: srv.URL})
	if _, err := c.Refresh(context.Background(), "rtok"); err == nil {
		t.Fatal("expected error for empty access_token")
	}
}

func TestRefresh_DefaultExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No expires_in in the response.
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok"})
	}))
	defer srv.Close()

	c := NewTokenClient(Config{ClientID: "cid", ClientSecret: "secret", TokenURL: srv.URL})
	cred, err := c.Refresh(context.Background(), "rtok")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	ttl := time.Until(cred.Expiry)
	if ttl < 3590*time.Second || ttl > 3610*time.Second {
		t.Errorf("default expiry %v not ~1h out", ttl)
	}
}

func TestConfigValidate(t *testing.T) {
	full := Config{ClientID: "a", ClientSecret: "b", RefreshToken: "c", DeveloperToken: "d"}
	if err := full.Validate(); err != nil {
		t.Errorf("complete config rejected: %v", err)
	}

	missing := Config{ClientID: "a"}
	err := missing.Validate()
	if err == nil {
		t.Fatal("incomplete config accepted")
	}
}
