package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestSigner_SignVerifiesUnderPSS(t *testing.T) {
	key := testKey(t)
	s := NewSigner("key-id", key)

	sig, err := s.Sign("1730000000000", "GET", "/trade-api/v2/portfolio/balance")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sig)
	require.NoError(t, err)

	digest := sha256.Sum256([]byte("1730000000000GET/trade-api/v2/portfolio/balance"))
	err = rsa.VerifyPSS(&key.PublicKey, crypto.SHA256, digest[:], raw, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	assert.NoError(t, err)
}

func TestSigner_StripsQueryBeforeSigning(t *testing.T) {
	key := testKey(t)
	s := NewSigner("key-id", key)

	sig, err := s.Sign("1730000000000", "GET", "/v1/social/leaderboard?metric_name=volume&limit=99")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sig)
	require.NoError(t, err)

	// The signed message must cover only the path, not the query string.
	digest := sha256.Sum256([]byte("1730000000000GET/v1/social/leaderboard"))
	err = rsa.VerifyPSS(&key.PublicKey, crypto.SHA256, digest[:], raw, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	assert.NoError(t, err)
}

func TestSigner_HeadersCarryKeyAndTimestamp(t *testing.T) {
	s := NewSigner("my-key-id", testKey(t))

	headers, err := s.Headers("POST", "/trade-api/v2/portfolio/orders")
	require.NoError(t, err)

	assert.Equal(t, "my-key-id", headers[headerAccessKey])
	assert.NotEmpty(t, headers[headerAccessSignature])
	assert.Regexp(t, `^\d{13,}$`, headers[headerAccessTimestamp], "timestamp must be milliseconds")
}
