package jwtx

import (
	"crypto"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// allowedMethods are the signing algorithms the auth provider mints with.
// Anything else (notably "none" and the HMAC family) is rejected outright.
var allowedMethods = []string{"EdDSA", "ES256"}

// KeyResolver maps a token's kid header to a verification key. A static
// key resolver may ignore the kid entirely.
type KeyResolver interface {
	ResolveKey(kid string) (crypto.PublicKey, error)
}

// KeyVerifier verifies tokens against keys from a KeyResolver, then checks
// issuer and expiry. It is the single Verifier implementation; the resolver
// decides whether keys are static or fetched from the provider's JWKS.
type KeyVerifier struct {
	Keys   KeyResolver
	Issuer string
}

func NewVerifier(keys KeyResolver, issuer string) *KeyVerifier {
	return &KeyVerifier{Keys: keys, Issuer: issuer}
}

func (v *KeyVerifier) Verify(token string) (Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		alg := t.Method.Alg()
		ok := false
		for _, m := range allowedMethods {
			if alg == m {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrAlgMismatch, alg)
		}

		kid, _ := t.Header["kid"].(string)
		key, err := v.Keys.ResolveKey(kid)
		if err != nil {
			return nil, err
		}
		return key, nil
	}, jwt.WithValidMethods(allowedMethods))

	switch {
	case err == nil && parsed.Valid:
		// fallthrough to claim checks below
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Claims{}, ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return Claims{}, ErrNotYetValid
	case err != nil:
		return Claims{}, err
	default:
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateIssuer(v.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

// StaticKey is a KeyResolver holding a single pinned provider key,
// typically loaded from a PEM file at startup.
type StaticKey struct {
	Key crypto.PublicKey
}

func (s StaticKey) ResolveKey(string) (crypto.PublicKey, error) {
	if s.Key == nil {
		return nil, ErrUnknownKID
	}
	return s.Key, nil
}
