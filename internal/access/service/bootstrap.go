package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
	"github.com/techacademialendaria/lendarios-access/internal/access/rbac"
	"github.com/techacademialendaria/lendarios-access/internal/access/store"
	"github.com/techacademialendaria/lendarios-access/pkg/cryptox"
	"github.com/techacademialendaria/lendarios-access/pkg/idx"
	"github.com/techacademialendaria/lendarios-access/pkg/slogx"
)

var (
	ErrBootstrapDisabled    = errors.New("bootstrap is disabled")
	ErrBootstrapToken       = errors.New("bootstrap token mismatch")
	ErrAlreadyBootstrapped  = errors.New("an account already exists")
	ErrInvalidBootstrapArgs = errors.New("invalid bootstrap request")
)

// BootstrapService provisions the very first account and hands it the
// reserved top role. This is the only path that assigns the top role; the
// catalog refuses it everywhere else. Refuses to run once any user exists.
type BootstrapService struct {
	Store   store.Store
	Catalog *rbac.Catalog

	// Token is the shared secret gating the endpoint. Empty disables
	// bootstrap entirely.
	Token string
}

type BootstrapParams struct {
	Token    string
	Email    string
	Name     string
	Password string
}

// Bootstrap creates the initial owner account.
func (s *BootstrapService) Bootstrap(ctx context.Context, p BootstrapParams) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Gate on the shared secret.
	if s.Token == "" {
		return domain.User{}, ErrBootstrapDisabled
	}
	if subtle.ConstantTimeCompare([]byte(p.Token), []byte(s.Token)) != 1 {
		log.Warn("bootstrap attempted with wrong token")
		return domain.User{}, ErrBootstrapToken
	}

	// 2. Validate input.
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" || !strings.Contains(email, "@") || p.Name == "" || p.Password == "" {
		return domain.User{}, ErrInvalidBootstrapArgs
	}

	// 3. One-shot: any existing account means bootstrap already happened.
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if !empty {
		return domain.User{}, ErrAlreadyBootstrapped
	}

	passwordHash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(p.Name),
		PasswordHash: passwordHash,
	}

	// 4. Create the account and its top-role grant atomically. The
	// emptiness check re-runs inside the transaction to close the race
	// between two concurrent bootstrap calls.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrAlreadyBootstrapped
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.Grants().UpsertGrant(ctx, domain.UserGrant{
			UserID:    user.ID,
			RoleID:    s.Catalog.TopRole(),
			ScopeType: domain.ScopeGlobal,
			GrantedBy: user.ID,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrAlreadyBootstrapped) {
			log.Error("bootstrap failed", slog.Any("error", err))
		}
		return domain.User{}, err
	}

	log.Info("initial owner bootstrapped",
		slog.String("user_id", user.ID),
		slog.String("email", email),
	)
	return user, nil
}
