package keys

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func unlockedManager(t *testing.T, dir string) *Manager {
	t.Helper()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Unlock("app-secret"); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestStoreAndReadKeys(t *testing.T) {
	dir := t.TempDir()
	m := unlockedManager(t, dir)

	keys := map[string]string{"polygon": "pk_live_abcdef123456", "simfin": "sf_xyz"}
	if err := m.Store(keys); err != nil {
		t.Fatalf("Store: %v", err)
	}

	// A fresh manager with the same secret reads the same keys.
	again := unlockedManager(t, dir)
	loaded, err := again.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if loaded["polygon"] != keys["polygon"] || loaded["simfin"] != keys["simfin"] {
		t.Errorf("loaded = %v", loaded)
	}

	got, err := again.Get("polygon")
	if err != nil || got != keys["polygon"] {
		t.Errorf("Get = %q, %v", got, err)
	}
}

func TestKeysEncryptedOnDisk(t *testing.T) {
	dir := t.TempDir()
	m := unlockedManager(t, dir)

	secret := "pk_live_supersecret"
	if err := m.Store(map[string]string{"polygon": secret}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "api_keys.enc"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte(secret)) {
		t.Error("plaintext key visible in key file")
	}
}

func TestWrongSecretFailsToDecrypt(t *testing.T) {
	dir := t.TempDir()
	m := unlockedManager(t, dir)
	if err := m.Store(map[string]string{"polygon": "key"}); err != nil {
		t.Fatal(err)
	}

	other, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Unlock("different-secret"); err != nil {
		t.Fatal(err)
	}
	if _, err := other.All(); err == nil {
		t.Error("wrong secret should fail decryption")
	}
}

func TestLockedManagerRefusesOperations(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Store(map[string]string{"a": "b"}); err == nil {
		t.Error("locked Store should fail")
	}
	if _, err := m.All(); err == nil {
		t.Error("locked All should fail")
	}
}

func TestUpdateAndDelete(t *testing.T) {
	m := unlockedManager(t, t.TempDir())

	if err := m.Update("polygon", "first"); err != nil {
		t.Fatal(err)
	}
	if err := m.Update("simfin", "second"); err != nil {
		t.Fatal(err)
	}
	if err := m.Update("polygon", "replaced"); err != nil {
		t.Fatal(err)
	}

	keys, err := m.All()
	if err != nil {
		t.Fatal(err)
	}
	if keys["polygon"] != "replaced" || keys["simfin"] != "second" {
		t.Errorf("keys = %v", keys)
	}

	if err := m.Delete("polygon"); err != nil {
		t.Fatal(err)
	}
	keys, _ = m.All()
	if _, ok := keys["polygon"]; ok {
		t.Error("polygon key should be deleted")
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"pk_live_abcdef123456", "••••••••••••••••3456"},
		{"abcd", "••••"},
		{"ab", "••"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MaskKey(tt.in); got != tt.want {
			t.Errorf("MaskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmptySecretRejected(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Unlock(""); err == nil {
		t.Error("empty secret should be rejected")
	}
}
