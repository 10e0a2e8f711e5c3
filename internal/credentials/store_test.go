package credentials

import (
	"path/filepath"
	"testing"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "credentials", "token.age"))

	if store.IsConfigured() {
		t.Error("IsConfigured() = true before Save")
	}

	if err := store.Save("ghp_example_token", "correct horse"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !store.IsConfigured() {
		t.Error("IsConfigured() = false after Save")
	}

	got, err := store.Load("correct horse")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "ghp_example_token" {
		t.Errorf("Load() = %q, want the saved token", got)
	}
}

func TestStore_WrongPassphrase(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "token.age"))
	if err := store.Save("ghp_example_token", "right"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := store.Load("wrong"); err == nil {
		t.Fatal("Load() error = nil with the wrong passphrase")
	}
}

func TestStore_SaveRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "token.age"))
	if err := store.Save("   ", "pass"); err == nil {
		t.Fatal("Save() error = nil for an empty token")
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "token.age"))
	if err := store.Save("old-token", "pass"); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	if err := store.Save("new-token", "pass"); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := store.Load("pass")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "new-token" {
		t.Errorf("Load() = %q, want new-token", got)
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "token.age"))
	if _, err := store.Load("pass"); err == nil {
		t.Fatal("Load() error = nil for a missing token file")
	}
}
