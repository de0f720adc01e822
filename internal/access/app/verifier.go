package app

import (
	"fmt"
	"os"

	"github.com/techacademialendaria/lendarios-access/pkg/jwtx"
)

// initVerifier builds the bearer token verifier for the platform auth
// provider's keys. A JWKS URL is preferred; a PEM public key file serves
// deployments without a JWKS endpoint.
func initVerifier(cfg Config) (jwtx.Verifier, error) {
	switch {
	case cfg.AuthJWKSURL != "":
		return jwtx.NewVerifier(jwtx.NewRemoteKeys(cfg.AuthJWKSURL), cfg.AuthIssuer), nil

	case cfg.AuthPublicKeyFile != "":
		pem, err := os.ReadFile(cfg.AuthPublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read auth public key file: %w", err)
		}
		key, err := jwtx.ParsePublicKeyPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("parse auth public key: %w", err)
		}
		return jwtx.NewVerifier(jwtx.StaticKey{Key: key}, cfg.AuthIssuer), nil

	default:
		return nil, fmt.Errorf("either ACCESS_AUTH_JWKS_URL or ACCESS_AUTH_PUBLIC_KEY_FILE must be set")
	}
}
