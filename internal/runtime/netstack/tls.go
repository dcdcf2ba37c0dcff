// Package netstack supplies the one piece of transport security the
// embedding RPC bridge (internal/rpc) needs before it can listen: a TLS
// config for the QUIC front door. There's no HTTP/3 or raw TCP/UDP stack
// here — internal/rpc talks QUIC streams directly — so this package is
// down to what vael-rtd actually calls: generate a throwaway certificate
// for local development, or load an operator-supplied one.
package netstack

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"time"

	"encoding/pem"
)

// rpcALPN is the ALPN token the embedding bridge advertises over QUIC. It
// is deliberately not "h3" or "h2/http1.1": a peer that isn't speaking
// internal/rpc's four-method framing should fail the handshake rather than
// silently negotiate down to some HTTP stack neither side runs.
const rpcALPN = "vael-rt-rpc/1"

// DevTLSConfig builds a self-signed, in-memory TLS config covering hosts,
// valid for validFor (defaulting to 24h). vael-rtd falls back to this when
// no certificate/key pair is supplied on the command line, so a freshly
// checked-out daemon can listen without any operator setup; it is not meant
// for anything beyond local development and the smoke-test client.
func DevTLSConfig(hosts []string, validFor time.Duration) (*tls.Config, error) {
	if validFor <= 0 {
		validFor = 24 * time.Hour
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("netstack: generate dev key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("netstack: generate serial: %w", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{Organization: []string{"vael-rt dev"}},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(validFor),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("netstack: create dev certificate: %w", err)
	}

	pair, err := tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
	)
	if err != nil {
		return nil, fmt.Errorf("netstack: build dev key pair: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS13,
		NextProtos:   []string{rpcALPN},
	}, nil
}

// LoadTLSConfig reads an operator-supplied certificate and key from disk
// for the QUIC listener, the path vael-rtd takes whenever -cert and -key
// are both set.
func LoadTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("netstack: load tls keypair: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS13,
		NextProtos:   []string{rpcALPN},
	}, nil
}
