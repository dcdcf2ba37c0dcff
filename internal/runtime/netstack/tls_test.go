package netstack

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDevTLSConfigUsesTLS13AndRPCALPN(t *testing.T) {
	cfg, err := DevTLSConfig([]string{"localhost", "127.0.0.1"}, time.Hour)
	if err != nil {
		t.Fatalf("DevTLSConfig: %v", err)
	}

	if cfg.MinVersion != tls.VersionTLS13 {
		t.Fatalf("MinVersion = %x, want TLS 1.3", cfg.MinVersion)
	}

	if len(cfg.NextProtos) != 1 || cfg.NextProtos[0] != rpcALPN {
		t.Fatalf("NextProtos = %v, want [%s]", cfg.NextProtos, rpcALPN)
	}

	if len(cfg.Certificates) != 1 {
		t.Fatalf("expected exactly one certificate, got %d", len(cfg.Certificates))
	}

	leaf, err := x509.ParseCertificate(cfg.Certificates[0].Certificate[0])
	if err != nil {
		t.Fatalf("parse leaf: %v", err)
	}

	if err := leaf.VerifyHostname("localhost"); err != nil {
		t.Fatalf("VerifyHostname(localhost): %v", err)
	}
}

func TestDevTLSConfigDefaultsValidityWindow(t *testing.T) {
	cfg, err := DevTLSConfig([]string{"localhost"}, 0)
	if err != nil {
		t.Fatalf("DevTLSConfig: %v", err)
	}

	leaf, err := x509.ParseCertificate(cfg.Certificates[0].Certificate[0])
	if err != nil {
		t.Fatalf("parse leaf: %v", err)
	}

	if !leaf.NotAfter.After(time.Now().Add(23 * time.Hour)) {
		t.Fatalf("NotAfter = %v, want roughly 24h out", leaf.NotAfter)
	}
}

func TestLoadTLSConfigRoundTripsGeneratedKeyPair(t *testing.T) {
	key, cert := generateTestKeyPair(t)

	dir := t.TempDir()
	certPath := filepath.Join(dir, "leaf.pem")
	keyPath := filepath.Join(dir, "leaf-key.pem")

	if err := os.WriteFile(certPath, cert, 0o644); err != nil {
		t.Fatalf("write cert: %v", err)
	}

	if err := os.WriteFile(keyPath, key, 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	cfg, err := LoadTLSConfig(certPath, keyPath)
	if err != nil {
		t.Fatalf("LoadTLSConfig: %v", err)
	}

	if cfg.MinVersion != tls.VersionTLS13 {
		t.Fatalf("MinVersion = %x, want TLS 1.3", cfg.MinVersion)
	}

	if len(cfg.Certificates) != 1 {
		t.Fatalf("expected exactly one certificate, got %d", len(cfg.Certificates))
	}
}

func TestLoadTLSConfigMissingFileFails(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadTLSConfig(filepath.Join(dir, "missing.pem"), filepath.Join(dir, "missing-key.pem")); err == nil {
		t.Fatal("expected an error loading nonexistent files")
	}
}

// generateTestKeyPair reuses DevTLSConfig to mint a throwaway certificate
// and re-encodes it to PEM, so this test doesn't need its own ASN.1
// plumbing just to exercise LoadTLSConfig's file-reading path.
func generateTestKeyPair(t *testing.T) (keyPEM, certPEM []byte) {
	t.Helper()

	cfg, err := DevTLSConfig([]string{"localhost"}, time.Hour)
	if err != nil {
		t.Fatalf("DevTLSConfig: %v", err)
	}

	pair := cfg.Certificates[0]

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: pair.Certificate[0]})

	keyBytes, err := x509.MarshalPKCS8PrivateKey(pair.PrivateKey)
	if err != nil {
		t.Fatalf("marshal private key: %v", err)
	}

	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes})

	return keyPEM, certPEM
}
