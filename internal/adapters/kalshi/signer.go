package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Request headers carrying the signature.
const (
	headerAccessKey       = "KALSHI-ACCESS-KEY"
	headerAccessSignature = "KALSHI-ACCESS-SIGNATURE"
	headerAccessTimestamp = "KALSHI-ACCESS-TIMESTAMP"
)

// Signer produces the per-request RSA-PSS signature the trade API requires.
type Signer struct {
	keyID string
	key   *rsa.PrivateKey
	now   func() time.Time
}

// NewSigner creates a Signer for the given API key id and private key.
func NewSigner(keyID string, key *rsa.PrivateKey) *Signer {
	return &Signer{keyID: keyID, key: key, now: time.Now}
}

// NewSignerFromFile loads the account's RSA private key from a PEM file
// (PKCS#1 or PKCS#8).
func NewSignerFromFile(keyID, path string) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kalshi.NewSignerFromFile: read %q: %w", path, err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("kalshi.NewSignerFromFile: %q is not PEM encoded", path)
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return NewSigner(keyID, key), nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("kalshi.NewSignerFromFile: parse %q: %w", path, err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("kalshi.NewSignerFromFile: %q does not contain an RSA key", path)
	}
	return NewSigner(keyID, key), nil
}

// Sign signs timestamp + method + path (query string stripped) with RSA-PSS
// over SHA-256, salt length equal to the digest length, and returns the
// signature base64 encoded.
func (s *Signer) Sign(timestamp, method, path string) (string, error) {
	pathWithoutQuery, _, _ := strings.Cut(path, "?")
	message := timestamp + method + pathWithoutQuery

	digest := sha256.Sum256([]byte(message))
	sig, err := rsa.SignPSS(rand.Reader, s.key, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	if err != nil {
		return "", fmt.Errorf("kalshi.Signer.Sign: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Headers returns the three auth headers for one request. The timestamp is
// the current time in milliseconds.
func (s *Signer) Headers(method, path string) (map[string]string, error) {
	ts := strconv.FormatInt(s.now().UnixMilli(), 10)
	sig, err := s.Sign(ts, method, path)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		headerAccessKey:       s.keyID,
		headerAccessSignature: sig,
		headerAccessTimestamp: ts,
	}, nil
}
