package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
	"github.com/techacademialendaria/lendarios-access/internal/access/rbac"
	"github.com/techacademialendaria/lendarios-access/internal/access/store"
	"github.com/techacademialendaria/lendarios-access/pkg/cryptox"
	"github.com/techacademialendaria/lendarios-access/pkg/idx"
	"github.com/techacademialendaria/lendarios-access/pkg/slogx"
)

var (
	ErrInvalidInviteRequest   = errors.New("invalid invite request")
	ErrUnassignableRole       = errors.New("role is not assignable by the inviter")
	ErrDuplicateInvite        = errors.New("email already has a pending invite")
	ErrInviteNotFound         = errors.New("invite not found or expired")
	ErrInviteNotPending       = errors.New("invite is not pending")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
)

// DefaultInviteExpiryDays is used when the caller does not override the
// invite lifetime. The console surfaces this as "link valid for 7 days".
const DefaultInviteExpiryDays = 7

// InviteEmail is everything the notification channel needs to render the
// invite message. Delivery is best-effort; see SendInviteEmail.
type InviteEmail struct {
	RecipientEmail  string
	RecipientName   string
	InviteURL       string
	RoleDisplayName string
	Areas           []string
	Message         string
	ExpiresAt       time.Time
}

// Mailer delivers invite notifications. Implementations must treat delivery
// as best-effort; the invite remains valid whether or not the mail goes out.
type Mailer interface {
	SendInvite(ctx context.Context, m InviteEmail) error
}

type InviteService struct {
	Store   store.Store
	Catalog *rbac.Catalog
	Mailer  Mailer // optional; nil disables notifications

	// ExpiryDays is the default invite lifetime when a request does not
	// specify one. Zero means DefaultInviteExpiryDays.
	ExpiryDays int
}

// CreateInviteParams collects the desired access the Ops/Users invite
// dialog submits. InviterRoleID comes from the caller's verified token, not
// the request body.
type CreateInviteParams struct {
	Email         string
	RoleID        string
	Areas         []string
	Message       string
	MindID        string
	InvitedBy     string
	InviterRoleID string
	ExpiresDays   int // 0 means DefaultInviteExpiryDays
}

// CreateInvite validates the desired assignment, then atomically persists a
// pending invite. The raw token is returned exactly once; only its sha256
// fingerprint is stored.
func (s *InviteService) CreateInvite(ctx context.Context, p CreateInviteParams) (domain.Invite, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Normalize and validate input.
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Invite{}, "", ErrInvalidInviteRequest
	}
	if p.ExpiresDays < 0 {
		return domain.Invite{}, "", ErrInvalidInviteRequest
	}

	// 2. The inviter may only hand out roles strictly below their own.
	if !s.Catalog.IsAssignableBy(p.InviterRoleID, p.RoleID) {
		log.Warn("attempted to invite with unassignable role",
			slog.String("inviter_role", p.InviterRoleID),
			slog.String("target_role", p.RoleID),
		)
		return domain.Invite{}, "", ErrUnassignableRole
	}

	// 3. Validate the role/areas combination before anything persists.
	areas := s.Catalog.NormalizeAreas(p.RoleID, p.Areas)
	if err := s.Catalog.ValidateAssignment(p.RoleID, areas); err != nil {
		return domain.Invite{}, "", err
	}

	// 4. Refuse a second pending invite for the same email. Reissuing
	// requires cancelling the prior invite first.
	if _, err := s.Store.Invites().GetPendingInviteByEmail(ctx, email); err == nil {
		return domain.Invite{}, "", ErrDuplicateInvite
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check for pending invite", slog.Any("error", err))
		return domain.Invite{}, "", err
	}

	// 5. An email with an account has nothing to redeem.
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.Invite{}, "", ErrEmailAlreadyRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return domain.Invite{}, "", err
	}

	// 6. Generate the single-use token and fingerprint it for storage.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return domain.Invite{}, "", err
	}

	days := p.ExpiresDays
	if days == 0 {
		days = s.ExpiryDays
	}
	if days == 0 {
		days = DefaultInviteExpiryDays
	}

	invite := domain.Invite{
		ID:        idx.New().String(),
		Email:     email,
		RoleID:    p.RoleID,
		Areas:     areas,
		Message:   strings.TrimSpace(p.Message),
		MindID:    p.MindID,
		InvitedBy: p.InvitedBy,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: time.Now().UTC().Add(time.Duration(days) * 24 * time.Hour),
	}

	// 7. Atomic insert: a failure leaves no partial invite behind, so the
	// caller can retry the identical request.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Invites().CreateInvite(ctx, invite)
	})
	if err != nil {
		log.Error("failed to create invite",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return domain.Invite{}, "", err
	}

	log.Info("invite created",
		slog.String("invite_id", invite.ID),
		slog.String("email", email),
		slog.String("role_id", p.RoleID),
		slog.Time("expires_at", invite.ExpiresAt),
	)

	return invite, token, nil
}

// InviteURL derives the shareable acceptance URL. The query key "invite" is
// parsed by the external signup flow and must not change.
func InviteURL(origin, token string) string {
	return fmt.Sprintf("%s/auth/signup?invite=%s",
		strings.TrimRight(origin, "/"), url.QueryEscape(token))
}

// SendInviteEmail delivers the invite notification. Failure never
// invalidates the invite: the error is logged and false is returned so the
// caller can tell the operator to share the URL manually.
func (s *InviteService) SendInviteEmail(ctx context.Context, invite domain.Invite, inviteURL string) bool {
	if s.Mailer == nil {
		return false
	}
	log := slogx.FromContext(ctx)

	roleName := invite.RoleID
	if role, err := s.Catalog.Role(invite.RoleID); err == nil {
		roleName = role.DisplayName
	}

	err := s.Mailer.SendInvite(ctx, InviteEmail{
		RecipientEmail:  invite.Email,
		InviteURL:       inviteURL,
		RoleDisplayName: roleName,
		Areas:           invite.Areas,
		Message:         invite.Message,
		ExpiresAt:       invite.ExpiresAt,
	})
	if err != nil {
		log.Warn("invite notification failed, share the URL manually",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

// CancelInvite transitions a pending invite to cancelled. Accepted,
// cancelled and expired invites all refuse with ErrInviteNotPending;
// expiry alone is terminal and housekeeping owns the cleanup.
func (s *InviteService) CancelInvite(ctx context.Context, inviteID string) error {
	log := slogx.FromContext(ctx)

	invite, err := s.Store.Invites().GetInviteByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInviteNotFound
		}
		return err
	}

	if invite.StatusAt(time.Now().UTC()) != domain.InviteStatusPending {
		return ErrInviteNotPending
	}

	if err := s.Store.Invites().MarkInviteCancelled(ctx, inviteID); err != nil {
		log.Error("failed to cancel invite",
			slog.String("invite_id", inviteID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("invite cancelled", slog.String("invite_id", inviteID))
	return nil
}

// ListPendingInvites returns pending, unexpired invites newest-first.
func (s *InviteService) ListPendingInvites(ctx context.Context) ([]domain.Invite, error) {
	return s.Store.Invites().ListPendingInvites(ctx)
}

// RedeemInvite consumes an invite token and provisions the account. It
// performs the following atomically:
//  1. Looks up the pending, unexpired invite by token fingerprint
//  2. Creates the user (or reuses an existing account with the same email)
//  3. Marks the invite accepted so the token can never be redeemed again
//  4. Materializes the invite's role/areas into a grant
//  5. Attaches the invite's mind association, when present
func (s *InviteService) RedeemInvite(ctx context.Context, token, name, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	if token == "" || name == "" || password == "" {
		return domain.User{}, ErrInvalidInviteRequest
	}

	// 2. Fingerprint the token and look up the active invite.
	fingerprint := cryptox.FingerprintToken(token)
	invite, err := s.Store.Invites().GetActiveInviteByTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("signup attempted with invalid, used or expired invite token")
			return domain.User{}, ErrInviteNotFound
		}
		log.Error("failed to fetch invite", slog.Any("error", err))
		return domain.User{}, err
	}

	// 3. Hash the password before entering the transaction.
	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Reuse an existing account for the invite's email, otherwise
		// create one.
		existing, err := tx.Users().GetUserByEmail(ctx, invite.Email)
		switch {
		case err == nil:
			user = existing
		case errors.Is(err, store.ErrNotFound):
			user = domain.User{
				ID:           idx.New().String(),
				Email:        invite.Email,
				Name:         strings.TrimSpace(name),
				PasswordHash: passwordHash,
			}
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
		default:
			return fmt.Errorf("lookup user: %w", err)
		}

		// Consume the token. The guarded update loses to a concurrent
		// redemption that committed after our fetch.
		if err := tx.Invites().MarkInviteAccepted(ctx, invite.ID, user.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteNotFound
			}
			return fmt.Errorf("mark invite accepted: %w", err)
		}

		// Materialize the invite's role into a grant.
		if err := tx.Grants().UpsertGrant(ctx, domain.UserGrant{
			UserID:    user.ID,
			RoleID:    invite.RoleID,
			ScopeType: domain.ScopeGlobal,
			Areas:     invite.Areas,
			GrantedBy: invite.InvitedBy,
		}); err != nil {
			return fmt.Errorf("grant role: %w", err)
		}

		// Attach the mind association chosen at invite time.
		if invite.MindID != "" {
			if err := tx.Minds().UpsertMindLink(ctx, user.ID, invite.MindID); err != nil {
				return fmt.Errorf("link mind: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		log.Error("invite redemption failed",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return domain.User{}, err
	}

	log.Info("user registered via invite",
		slog.String("user_id", user.ID),
		slog.String("invite_id", invite.ID),
		slog.String("role_id", invite.RoleID),
	)

	return user, nil
}
