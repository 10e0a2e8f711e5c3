// Package credentials stores the GitHub access token at rest, encrypted
// with the user's passphrase using age's scrypt-based passphrase
// encryption. The token is the only client-local persisted state.
package credentials

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
)

// Store reads and writes the encrypted token file.
type Store struct {
	tokenPath string
}

// NewStore creates a store over the given token file path.
func NewStore(tokenPath string) *Store {
	return &Store{tokenPath: tokenPath}
}

// IsConfigured returns true if a token file exists.
func (s *Store) IsConfigured() bool {
	_, err := os.Stat(s.tokenPath)
	return err == nil
}

// Save encrypts the token with the passphrase and writes it to the token
// file, replacing any previous one.
func (s *Store) Save(token, passphrase string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token is empty")
	}

	if err := os.MkdirAll(filepath.Dir(s.tokenPath), 0700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	f, err := os.OpenFile(s.tokenPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating token file: %w", err)
	}
	defer f.Close()

	w, err := age.Encrypt(f, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}

	if _, err := io.WriteString(w, token); err != nil {
		return fmt.Errorf("writing encrypted token: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encrypted token: %w", err)
	}

	return nil
}

// Load decrypts and returns the token using the passphrase.
func (s *Store) Load(passphrase string) (string, error) {
	data, err := os.ReadFile(s.tokenPath)
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return "", fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return "", fmt.Errorf("decrypting token: %w", err)
	}

	token, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading decrypted token: %w", err)
	}

	return strings.TrimSpace(string(token)), nil
}
