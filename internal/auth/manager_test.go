package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store := NewStore(t.TempDir())
	m, err := NewManager(store)
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	return m
}

func TestManagerIsAuthenticated(t *testing.T) {
	m := newTestManager(t)
	if m.IsAuthenticated() {
		t.Errorf("fresh manager should not be authenticated")
	}

	err := m.SetTokens(&Tokens{
		OAuth1: &OAuth1Token{OAuthToken: "t"},
		OAuth2: &OAuth2Token{AccessToken: "a", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour).Unix()},
	})
	if err != nil {
		t.Fatalf("SetTokens() error: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Errorf("expected authenticated after SetTokens with a live access token")
	}

	header, err := m.AuthorizationHeader()
	if err != nil {
		t.Fatalf("AuthorizationHeader() error: %v", err)
	}
	if header != "Bearer a" {
		t.Errorf("AuthorizationHeader() = %q, want %q", header, "Bearer a")
	}
}

func TestManagerNeedsRefresh(t *testing.T) {
	m := newTestManager(t)
	m.SetTokens(&Tokens{
		OAuth1: &OAuth1Token{OAuthToken: "t"},
		OAuth2: &OAuth2Token{
			AccessToken:           "a",
			ExpiresAt:             time.Now().Add(-time.Minute).Unix(),
			RefreshTokenExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})
	if !m.NeedsRefresh() {
		t.Errorf("expected NeedsRefresh() true for expired access token with live refresh token")
	}
	if m.IsAuthenticated() {
		t.Errorf("expired access token should not read as authenticated")
	}

	if _, err := m.AuthorizationHeader(); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("AuthorizationHeader() error = %v, want ErrNotAuthenticated", err)
	}
}

func TestManagerLogout(t *testing.T) {
	m := newTestManager(t)
	m.SetTokens(&Tokens{OAuth1: &OAuth1Token{OAuthToken: "t"}, OAuth2: &OAuth2Token{ExpiresAt: time.Now().Add(time.Hour).Unix()}})
	if err := m.Logout(); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if m.IsAuthenticated() {
		t.Errorf("expected not authenticated after logout")
	}
	if m.OAuth1() != nil {
		t.Errorf("expected OAuth1 token cleared after logout")
	}
}
