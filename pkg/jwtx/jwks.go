package jwtx

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"
)

// JWK represents a public key in JSON Web Key format (RFC 7517). Only the
// key types the auth provider publishes are decoded: OKP/Ed25519 and
// EC/P-256.
type JWK struct {
	Kty string `json:"kty"`           // key type: "OKP", "EC"
	Use string `json:"use,omitempty"` // what the key is used for: "sig"
	Alg string `json:"alg,omitempty"` // algorithm: "EdDSA", "ES256"
	Kid string `json:"kid,omitempty"` // key ID

	Crv string `json:"crv,omitempty"` // curve: "Ed25519", "P-256"
	X   string `json:"x,omitempty"`   // base64url public key or x-coordinate
	Y   string `json:"y,omitempty"`   // base64url y-coordinate (EC only)
}

// JWKS is a JSON Web Key Set (RFC 7517).
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// PublicKey decodes the JWK into a usable verification key.
func (k JWK) PublicKey() (crypto.PublicKey, error) {
	switch k.Kty {
	case "OKP":
		if k.Crv != "Ed25519" {
			return nil, fmt.Errorf("jwtx: unsupported OKP curve %q", k.Crv)
		}
		raw, err := base64.RawURLEncoding.DecodeString(k.X)
		if err != nil {
			return nil, fmt.Errorf("jwtx: decode OKP x: %w", err)
		}
		if len(raw) != ed25519.PublicKeySize {
			return nil, errors.New("jwtx: bad Ed25519 key length")
		}
		return ed25519.PublicKey(raw), nil

	case "EC":
		if k.Crv != "P-256" {
			return nil, fmt.Errorf("jwtx: unsupported EC curve %q", k.Crv)
		}
		xb, err := base64.RawURLEncoding.DecodeString(k.X)
		if err != nil {
			return nil, fmt.Errorf("jwtx: decode EC x: %w", err)
		}
		yb, err := base64.RawURLEncoding.DecodeString(k.Y)
		if err != nil {
			return nil, fmt.Errorf("jwtx: decode EC y: %w", err)
		}
		return &ecdsa.PublicKey{
			Curve: elliptic.P256(),
			X:     new(big.Int).SetBytes(xb),
			Y:     new(big.Int).SetBytes(yb),
		}, nil

	default:
		return nil, fmt.Errorf("jwtx: unsupported key type %q", k.Kty)
	}
}

// RemoteKeys resolves verification keys from the auth provider's JWKS
// endpoint. Keys are cached by kid; an unknown kid triggers one refetch
// (rate limited) so provider key rotation is picked up without a restart.
type RemoteKeys struct {
	URL    string
	Client *http.Client

	mu          sync.RWMutex
	keys        map[string]crypto.PublicKey
	lastRefresh time.Time
}

// minRefreshInterval bounds how often an unknown kid may trigger a JWKS
// refetch, so a flood of garbage tokens cannot hammer the provider.
const minRefreshInterval = time.Minute

func NewRemoteKeys(url string) *RemoteKeys {
	return &RemoteKeys{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *RemoteKeys) ResolveKey(kid string) (crypto.PublicKey, error) {
	r.mu.RLock()
	key, ok := r.keys[kid]
	r.mu.RUnlock()
	if ok {
		return key, nil
	}

	if err := r.refresh(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	key, ok = r.keys[kid]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownKID
	}
	return key, nil
}

func (r *RemoteKeys) refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if time.Since(r.lastRefresh) < minRefreshInterval && r.keys != nil {
		return nil
	}

	resp, err := r.Client.Get(r.URL)
	if err != nil {
		return fmt.Errorf("jwtx: fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwtx: fetch jwks: unexpected status %d", resp.StatusCode)
	}

	var set JWKS
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("jwtx: decode jwks: %w", err)
	}

	keys := make(map[string]crypto.PublicKey, len(set.Keys))
	for _, jwk := range set.Keys {
		if jwk.Use != "" && jwk.Use != "sig" {
			continue
		}
		pub, err := jwk.PublicKey()
		if err != nil {
			// Skip keys we can't decode rather than failing the whole set.
			continue
		}
		keys[jwk.Kid] = pub
	}

	r.keys = keys
	r.lastRefresh = time.Now()
	return nil
}

// ParsePublicKeyPEM loads a pinned provider key from PEM (PKIX). Used when
// the deployment pins a static key instead of pointing at a JWKS URL.
func ParsePublicKeyPEM(data []byte) (crypto.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("jwtx: no PEM block found")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse public key: %w", err)
	}

	switch pub.(type) {
	case ed25519.PublicKey, *ecdsa.PublicKey:
		return pub, nil
	default:
		return nil, errors.New("jwtx: unsupported public key type")
	}
}
