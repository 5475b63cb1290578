package session

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEmptyStoreIsAnonymous(t *testing.T) {
	s := openTestStore(t)

	tok, err := s.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "" {
		t.Fatalf("expected empty token, got %q", tok)
	}
	if s.HasToken() {
		t.Fatal("expected HasToken=false on fresh store")
	}
}

func TestSetTokensRoundtrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetTokens("access-1", "refresh-1"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if !s.HasToken() {
		t.Fatal("expected HasToken=true after SetTokens")
	}

	tok, _ := s.Token()
	if tok != "access-1" {
		t.Errorf("Token: got %q, want access-1", tok)
	}
	ref, _ := s.RefreshToken()
	if ref != "refresh-1" {
		t.Errorf("RefreshToken: got %q, want refresh-1", ref)
	}

	// Refreshing the access token keeps the refresh token.
	if err := s.SetTokens("access-2", ""); err != nil {
		t.Fatalf("SetTokens (refresh): %v", err)
	}
	tok, _ = s.Token()
	ref, _ = s.RefreshToken()
	if tok != "access-2" || ref != "refresh-1" {
		t.Errorf("after refresh: token=%q refresh=%q", tok, ref)
	}
}

func TestSetTokensRejectsEmpty(t *testing.T) {
	s := openTestStore(t)
	if err := s.SetTokens("  ", "r"); err == nil {
		t.Fatal("expected error for blank access token")
	}
	if s.HasToken() {
		t.Fatal("blank token must not be stored")
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t)
	if err := s.SetTokens("a", "r"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.HasToken() {
		t.Fatal("expected no token after Clear")
	}
	if ref, _ := s.RefreshToken(); ref != "" {
		t.Fatalf("expected no refresh token after Clear, got %q", ref)
	}
	// Clearing twice is harmless.
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestTokenPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s1.SetTokens("persisted", ""); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	s1.Close()

	if _, err := os.Stat(filepath.Join(dir, storeFile)); err != nil {
		t.Fatalf("expected store file: %v", err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	tok, _ := s2.Token()
	if tok != "persisted" {
		t.Fatalf("Token after reopen: got %q", tok)
	}
}
