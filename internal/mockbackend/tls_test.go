package mockbackend

import (
	"crypto/x509"
	"net"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateSelfSigned(t *testing.T) {
	cert, err := GenerateSelfSigned("localhost", "127.0.0.1")
	if err != nil {
		t.Fatalf("GenerateSelfSigned() error = %v", err)
	}

	if len(cert.Certificate.DNSNames) != 1 || cert.Certificate.DNSNames[0] != "localhost" {
		t.Errorf("DNSNames = %v, want [localhost]", cert.Certificate.DNSNames)
	}
	if len(cert.Certificate.IPAddresses) != 1 || !cert.Certificate.IPAddresses[0].Equal(net.ParseIP("127.0.0.1")) {
		t.Errorf("IPAddresses = %v, want [127.0.0.1]", cert.Certificate.IPAddresses)
	}

	pool := x509.NewCertPool()
	pool.AddCert(cert.Certificate)
	if _, err := cert.Certificate.Verify(x509.VerifyOptions{DNSName: "localhost", Roots: pool}); err != nil {
		t.Errorf("Verify() error = %v", err)
	}

	cfg, err := NewTLSConfigFromMemory(cert.CertPEM, cert.KeyPEM)
	if err != nil {
		t.Fatalf("NewTLSConfigFromMemory() error = %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Errorf("Certificates = %d, want 1", len(cfg.Certificates))
	}
}

func TestNewTLSConfigFromFiles(t *testing.T) {
	cert, err := GenerateSelfSigned("localhost")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(certPath, cert.CertPEM, 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyPath, cert.KeyPEM, 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewTLSConfig(certPath, keyPath); err != nil {
		t.Errorf("NewTLSConfig() error = %v", err)
	}
	if _, err := NewTLSConfig(filepath.Join(dir, "missing.pem"), keyPath); err == nil {
		t.Error("NewTLSConfig() with missing cert should fail")
	}
}

func TestTLSConfigSelection(t *testing.T) {
	if cfg, err := New(Config{}).tlsConfig(); err != nil || cfg != nil {
		t.Errorf("plain config: tlsConfig() = %v, %v; want nil, nil", cfg, err)
	}
	cfg, err := New(Config{SelfSigned: true}).tlsConfig()
	if err != nil || cfg == nil {
		t.Fatalf("self-signed: tlsConfig() = %v, %v", cfg, err)
	}
}
