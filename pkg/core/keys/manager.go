// Package keys stores provider API keys encrypted at rest.
package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize        = 16
	kdfIterations   = 100000
	derivedKeyBytes = 32
)

// Manager encrypts API keys into a file with AES-GCM, the key derived from
// an application secret via PBKDF2. The salt lives next to the key file.
type Manager struct {
	keysFile string
	saltFile string
	key      []byte // nil until Unlock
}

// NewManager builds a manager storing under configDir.
func NewManager(configDir string) (*Manager, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	return &Manager{
		keysFile: filepath.Join(configDir, "api_keys.enc"),
		saltFile: filepath.Join(configDir, "salt.bin"),
	}, nil
}

// Unlock derives the encryption key from the application secret. Must be
// called before any store or read operation.
func (m *Manager) Unlock(appSecret string) error {
	if appSecret == "" {
		return fmt.Errorf("empty application secret")
	}
	salt, err := m.loadOrCreateSalt()
	if err != nil {
		return err
	}
	m.key = pbkdf2.Key([]byte(appSecret), salt, kdfIterations, derivedKeyBytes, sha256.New)
	return nil
}

func (m *Manager) loadOrCreateSalt() ([]byte, error) {
	if salt, err := os.ReadFile(m.saltFile); err == nil && len(salt) == saltSize {
		return salt, nil
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	if err := os.WriteFile(m.saltFile, salt, 0600); err != nil {
		return nil, fmt.Errorf("write salt: %w", err)
	}
	return salt, nil
}

// Store encrypts and persists the full key set, replacing what was there.
func (m *Manager) Store(apiKeys map[string]string) error {
	if m.key == nil {
		return fmt.Errorf("manager is locked")
	}

	plaintext, err := json.Marshal(apiKeys)
	if err != nil {
		return err
	}

	gcm, err := m.cipher()
	if err != nil {
		return err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return os.WriteFile(m.keysFile, sealed, 0600)
}

// All decrypts and returns the stored key set. A missing key file is an
// empty set, not an error.
func (m *Manager) All() (map[string]string, error) {
	if m.key == nil {
		return nil, fmt.Errorf("manager is locked")
	}

	sealed, err := os.ReadFile(m.keysFile)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	gcm, err := m.cipher()
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, fmt.Errorf("key file is truncated")
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt key file: %w", err)
	}

	apiKeys := map[string]string{}
	if err := json.Unmarshal(plaintext, &apiKeys); err != nil {
		return nil, err
	}
	return apiKeys, nil
}

// Get returns one provider's key, "" when absent.
func (m *Manager) Get(provider string) (string, error) {
	apiKeys, err := m.All()
	if err != nil {
		return "", err
	}
	return apiKeys[provider], nil
}

// Update sets one provider's key, preserving the others.
func (m *Manager) Update(provider, apiKey string) error {
	apiKeys, err := m.All()
	if err != nil {
		return err
	}
	apiKeys[provider] = apiKey
	return m.Store(apiKeys)
}

// Delete removes one provider's key.
func (m *Manager) Delete(provider string) error {
	apiKeys, err := m.All()
	if err != nil {
		return err
	}
	delete(apiKeys, provider)
	return m.Store(apiKeys)
}

// Masked returns the key set with values masked for display: everything
// but the final four characters replaced.
func (m *Manager) Masked() (map[string]string, error) {
	apiKeys, err := m.All()
	if err != nil {
		return nil, err
	}

	masked := make(map[string]string, len(apiKeys))
	for provider, key := range apiKeys {
		masked[provider] = MaskKey(key)
	}
	return masked, nil
}

// MaskKey hides all but the last four characters of a key.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("•", len(key))
	}
	return strings.Repeat("•", len(key)-4) + key[len(key)-4:]
}

func (m *Manager) cipher() (cipher.AEAD, error) {
	block, err := aes.NewCipher(m.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
