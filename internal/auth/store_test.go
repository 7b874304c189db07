package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on missing files: %v", err)
	}
	if loaded.OAuth1 != nil || loaded.OAuth2 != nil {
		t.Fatalf("expected empty Tokens for missing files, got %+v", loaded)
	}

	tokens := &Tokens{
		OAuth1: &OAuth1Token{OAuthToken: "tok", OAuthTokenSecret: "sec", Domain: "example.com"},
		OAuth2: &OAuth2Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour).Unix()},
	}
	if err := store.Save(tokens); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err = store.Load()
	if err != nil {
		t.Fatalf("Load() after save: %v", err)
	}
	if loaded.OAuth1.OAuthToken != "tok" {
		t.Errorf("OAuth1.OAuthToken = %q, want %q", loaded.OAuth1.OAuthToken, "tok")
	}
	if loaded.OAuth2.AccessToken != "access" {
		t.Errorf("OAuth2.AccessToken = %q, want %q", loaded.OAuth2.AccessToken, "access")
	}

	for _, name := range []string{oauth1FileName, oauth2FileName} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("%s perm = %v, want 0600", name, info.Mode().Perm())
		}
	}
}

func TestStoreLoadIsolatesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	tokens := &Tokens{
		OAuth1: &OAuth1Token{OAuthToken: "tok", Domain: "example.com"},
		OAuth2: &OAuth2Token{AccessToken: "access", TokenType: "Bearer"},
	}
	if err := store.Save(tokens); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, oauth2FileName), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("corrupt oauth2 file: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.OAuth1 == nil || loaded.OAuth1.OAuthToken != "tok" {
		t.Errorf("OAuth1 = %+v, want the still-valid oauth1 token", loaded.OAuth1)
	}
	if loaded.OAuth2 != nil {
		t.Errorf("OAuth2 = %+v, want nil (corrupt file treated as absent)", loaded.OAuth2)
	}
}

func TestStoreClear(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if err := store.Save(&Tokens{OAuth1: &OAuth1Token{OAuthToken: "x"}}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, oauth1FileName)); !os.IsNotExist(err) {
		t.Errorf("expected oauth1 token file removed, stat err = %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Errorf("Clear() on already-absent files should be a no-op, got: %v", err)
	}
}

func TestOAuth2TokenExpiry(t *testing.T) {
	expired := &OAuth2Token{ExpiresAt: time.Now().Add(-time.Minute).Unix(), RefreshTokenExpiresAt: time.Now().Add(time.Hour).Unix()}
	if !expired.Expired() {
		t.Errorf("expected token to be expired")
	}
	if expired.RefreshExpired() {
		t.Errorf("expected refresh token to still be valid")
	}

	fresh := &OAuth2Token{ExpiresAt: time.Now().Add(time.Hour).Unix()}
	if fresh.Expired() {
		t.Errorf("expected fresh token to not be expired")
	}
}
