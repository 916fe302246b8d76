package invitations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/repositories"
	"github.com/desertthunder/rosterx/internal/shared"
)

// DefaultExpiry applies when neither the request nor the configuration sets one.
const DefaultExpiry = 72 * time.Hour

// LinkRequest describes an invitation to issue.
type LinkRequest struct {
	TeamID    string
	Email     string
	InvitedBy string
	Type      models.InvitationType
	Context   map[string]any
	ExpiresIn time.Duration // zero uses the service default
}

// Link is an issued invitation together with its one-time URL.
type Link struct {
	URL        string
	Invitation *models.Invitation
}

// Acceptance reports the outcome of [Service.Accept].
type Acceptance struct {
	RedirectURL string
	User        *models.User
	Role        *models.Role
	Invitation  *models.Invitation
	CreatedUser bool
}

// Service issues and redeems invitations.
type Service struct {
	db          *sql.DB
	invitations *repositories.InvitationRepository
	registry    *Registry
	logger      *log.Logger

	frontendOrigin string
	successURL     string
	expiry         time.Duration
	now            func() time.Time
}

// NewService wires repositories over db. Link and redirect targets come from cfg.Server,
// the default expiry from cfg.Invitations.
func NewService(db *sql.DB, registry *Registry, cfg *shared.Config, logger *log.Logger) *Service {
	expiry := DefaultExpiry
	if cfg.Invitations.ExpiresInHours > 0 {
		expiry = time.Duration(cfg.Invitations.ExpiresInHours) * time.Hour
	}

	return &Service{
		db:             db,
		invitations:    repositories.NewInvitationRepository(db),
		registry:       registry,
		logger:         shared.WithLogger(logger, "component", "invitations"),
		frontendOrigin: strings.TrimRight(cfg.Server.FrontendOrigin, "/"),
		successURL:     cfg.Server.SuccessRedirectURL,
		expiry:         expiry,
		now:            time.Now,
	}
}

// WithClock replaces the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Expiry is the default lifetime of issued links.
func (s *Service) Expiry() time.Duration { return s.expiry }

// Pending returns the still-valid pending invitation for a team, email and type, or nil.
func (s *Service) Pending(_ context.Context, teamID, email string, kind models.InvitationType) (*models.Invitation, error) {
	inv, err := s.invitations.FindPending(teamID, email, kind)
	if err != nil || inv == nil {
		return nil, err
	}
	if !inv.IsValid(s.now()) {
		return nil, nil
	}
	return inv, nil
}

// GenerateLink validates the request through the type's handler, stores the hashed token and
// returns the frontend accept URL. An expired pending invitation for the same team, email and
// type is replaced; a valid one is reported as [shared.ErrInvitationPending].
func (s *Service) GenerateLink(ctx context.Context, req LinkRequest) (*Link, error) {
	email := shared.NormalizeEmail(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: invited email is required", shared.ErrInvalidInput)
	}

	handler, err := s.registry.Handler(req.Type)
	if err != nil {
		return nil, err
	}
	if err := handler.ValidateContext(ctx, req.TeamID, req.Context); err != nil {
		return nil, fmt.Errorf("invalid invitation context for %s: %w", req.Type, err)
	}

	now := s.now()
	if _, err := s.invitations.PurgeExpiredPending(req.TeamID, email, req.Type, now); err != nil {
		return nil, err
	}

	token, err := shared.GenerateSecureToken()
	if err != nil {
		return nil, err
	}

	expiresIn := req.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = s.expiry
	}

	inv := models.NewInvitation(shared.HashToken(token), req.TeamID, email, req.InvitedBy, req.Type, req.Context, now.Add(expiresIn).UTC())
	if err := s.invitations.Create(inv); err != nil {
		return nil, err
	}

	s.logger.Info("created invitation",
		"type", req.Type, "team_id", req.TeamID, "email", email, "expires_at", inv.ExpiresAt.Format(time.RFC3339))

	return &Link{URL: s.frontendOrigin + "/invite/accept?token=" + url.QueryEscape(token), Invitation: inv}, nil
}

// Revoke deletes a pending invitation so its token can no longer be redeemed and a new
// invitation may be issued. Accepted or unknown invitations wrap [shared.ErrNotFound].
func (s *Service) Revoke(_ context.Context, id string) error {
	if err := s.invitations.Delete(id); err != nil {
		return err
	}
	s.logger.Info("revoked invitation", "invitation_id", id)
	return nil
}

// Accept redeems a plaintext token: it finds or creates the invited user, grants the handler's
// role on the team, runs the handler's post-accept step and marks the invitation accepted.
// All writes share one transaction that claims the invitation first, so a failing step leaves
// the invitation pending and a concurrent redemption of the same token is rejected.
// Unknown, expired and already accepted tokens wrap [shared.ErrInvitationInvalid].
func (s *Service) Accept(ctx context.Context, token string) (*Acceptance, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: missing token", shared.ErrInvitationInvalid)
	}

	inv, err := s.invitations.GetByHash(shared.HashToken(token))
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown token", shared.ErrInvitationInvalid)
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !inv.IsValid(now) {
		return nil, fmt.Errorf("%w: invitation %s expired or already accepted", shared.ErrInvitationInvalid, inv.ID())
	}

	handler, err := s.registry.Handler(inv.Type)
	if err != nil {
		return nil, err
	}

	name, ok := handler.UserName(ctx, inv.InvitedEmail, inv.Context)
	if !ok || strings.TrimSpace(name) == "" {
		name, _, _ = strings.Cut(inv.InvitedEmail, "@")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := repositories.NewInvitationRepository(tx).MarkAccepted(inv.ID(), now); err != nil {
		return nil, err
	}

	users := repositories.NewUserRepository(tx)
	user, created, err := findOrCreateUser(users, inv.InvitedEmail, name)
	if err != nil {
		return nil, err
	}

	role := models.NewRole(user.ID(), inv.TeamID, handler.RoleLevel())
	if err := repositories.NewRoleRepository(tx).Upsert(role); err != nil {
		return nil, fmt.Errorf("failed to grant role: %w", err)
	}

	if user.State() == models.UserNeedsTeam {
		user.SetState(models.UserActive)
		if err := users.Update(user); err != nil {
			return nil, fmt.Errorf("failed to activate user: %w", err)
		}
	}

	if err := handler.AfterAccept(ctx, tx, user.ID(), inv.TeamID, inv.Context); err != nil {
		return nil, fmt.Errorf("post-accept step failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit acceptance: %w", err)
	}
	accepted := now.UTC()
	inv.AcceptedAt = &accepted

	s.logger.Info("invitation accepted",
		"type", inv.Type, "team_id", inv.TeamID, "user_id", user.ID(), "created_user", created)

	return &Acceptance{RedirectURL: s.successURL, User: user, Role: role, Invitation: inv, CreatedUser: created}, nil
}

// findOrCreateUser verifies the existing account for email or creates a verified one named name.
func findOrCreateUser(users *repositories.UserRepository, email, name string) (*models.User, bool, error) {
	user, err := users.GetByEmail(email)
	switch {
	case err == nil:
		if !user.EmailVerified() {
			user.SetEmailVerified(true)
			if err := users.Update(user); err != nil {
				return nil, false, fmt.Errorf("failed to verify user email: %w", err)
			}
		}
		return user, false, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, false, err
	}

	user = models.NewUser(0, email, name)
	user.SetEmailVerified(true)
	if err := users.Create(user); err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	return user, true, nil
}
