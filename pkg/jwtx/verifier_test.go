package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, priv ed25519.PrivateKey, kid string, claims Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	signed, err := tok.SignedString(priv)
	require.NoError(t, err)
	return signed
}

func testClaims(issuer string, ttl time.Duration) Claims {
	now := time.Now().UTC()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "01TESTUSER",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scopes: []string{"ops:read", "ops:write"},
		RoleID: "admin",
		Email:  "admin@lendaria.app",
	}
}

func TestKeyVerifierStatic(t *testing.T) {
	t.Parallel()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	v := NewVerifier(StaticKey{Key: pub}, "lendarios-auth")

	t.Run("valid token round-trips claims", func(t *testing.T) {
		token := signToken(t, priv, "", testClaims("lendarios-auth", time.Hour))
		claims, err := v.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "01TESTUSER", claims.Subject)
		require.Equal(t, "admin", claims.RoleID)
		require.Equal(t, []string{"ops:read", "ops:write"}, claims.Scopes)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token := signToken(t, priv, "", testClaims("lendarios-auth", -time.Minute))
		_, err := v.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("wrong issuer rejected", func(t *testing.T) {
		token := signToken(t, priv, "", testClaims("someone-else", time.Hour))
		_, err := v.Verify(token)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		_, otherPriv, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		token := signToken(t, otherPriv, "", testClaims("lendarios-auth", time.Hour))
		_, err = v.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("garbage rejected as malformed", func(t *testing.T) {
		_, err := v.Verify("not-a-jwt")
		require.ErrorIs(t, err, ErrMalformed)
	})
}

func TestRemoteKeysJWKS(t *testing.T) {
	t.Parallel()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	set := JWKS{Keys: []JWK{{
		Kty: "OKP",
		Use: "sig",
		Alg: "EdDSA",
		Kid: "provider-key-1",
		Crv: "Ed25519",
		X:   base64.RawURLEncoding.EncodeToString(pub),
	}}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(srv.Close)

	v := NewVerifier(NewRemoteKeys(srv.URL), "lendarios-auth")

	token := signToken(t, priv, "provider-key-1", testClaims("lendarios-auth", time.Hour))
	claims, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01TESTUSER", claims.Subject)

	t.Run("unknown kid rejected", func(t *testing.T) {
		token := signToken(t, priv, "mystery-key", testClaims("lendarios-auth", time.Hour))
		_, err := v.Verify(token)
		require.Error(t, err)
	})
}

func TestParsePublicKeyPEM(t *testing.T) {
	t.Parallel()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	parsed, err := ParsePublicKeyPEM(pemBytes)
	require.NoError(t, err)
	require.Equal(t, pub, parsed)

	_, err = ParsePublicKeyPEM([]byte("junk"))
	require.Error(t, err)
}
