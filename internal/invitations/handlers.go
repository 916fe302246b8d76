package invitations

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/repositories"
	"github.com/desertthunder/rosterx/internal/shared"
)

// ContextRosterID is the invitation context key naming the invited roster member.
const ContextRosterID = "roster_id"

// Handler supplies the type-specific parts of an invitation.
type Handler interface {
	// RoleLevel is the role granted on the team when the invitation is accepted.
	RoleLevel() models.RoleLevel
	// ValidateContext rejects context that cannot be accepted later, wrapping [shared.ErrInvalidContext].
	ValidateContext(ctx context.Context, teamID string, c map[string]any) error
	// UserName names a newly created account; ok=false falls back to the email local part.
	UserName(ctx context.Context, email string, c map[string]any) (name string, ok bool)
	// AfterAccept runs once the user and role exist. Writes go through tx so an error
	// rolls back the whole acceptance.
	AfterAccept(ctx context.Context, tx repositories.DBTX, userID, teamID string, c map[string]any) error
}

// Registry maps invitation types to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[models.InvitationType]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[models.InvitationType]Handler)}
}

// DefaultRegistry registers the team member and roster member handlers.
func DefaultRegistry(roster *repositories.RosterRepository, logger *log.Logger) *Registry {
	r := NewRegistry()
	r.Register(models.InvitationTeamMember, &TeamMemberHandler{logger: logger})
	r.Register(models.InvitationRosterMember, NewRosterHandler(roster, logger))
	return r
}

// Register installs h for kind, replacing any existing handler.
func (r *Registry) Register(kind models.InvitationType, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = h
}

// Handler returns the handler for kind or an error wrapping [shared.ErrNoHandler].
func (r *Registry) Handler(kind models.InvitationType) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoHandler, kind)
	}
	return h, nil
}

// TeamMemberHandler grants the member role and needs no context.
type TeamMemberHandler struct {
	logger *log.Logger
}

func (h *TeamMemberHandler) RoleLevel() models.RoleLevel { return models.RoleMember }

func (h *TeamMemberHandler) ValidateContext(context.Context, string, map[string]any) error {
	return nil
}

func (h *TeamMemberHandler) UserName(context.Context, string, map[string]any) (string, bool) {
	return "", false
}

func (h *TeamMemberHandler) AfterAccept(_ context.Context, _ repositories.DBTX, userID, teamID string, _ map[string]any) error {
	if h.logger != nil {
		h.logger.Info("team member invitation accepted", "user_id", userID, "team_id", teamID)
	}
	return nil
}

// RosterHandler invites a roster member to the portal. Its context must carry [ContextRosterID].
type RosterHandler struct {
	roster *repositories.RosterRepository
	logger *log.Logger
}

func NewRosterHandler(roster *repositories.RosterRepository, logger *log.Logger) *RosterHandler {
	return &RosterHandler{roster: roster, logger: logger}
}

func (h *RosterHandler) RoleLevel() models.RoleLevel { return models.RoleRosterMember }

// ValidateContext requires an existing roster member on the team with an email address.
func (h *RosterHandler) ValidateContext(_ context.Context, teamID string, c map[string]any) error {
	id, ok := c[ContextRosterID].(string)
	if !ok || id == "" {
		return fmt.Errorf("%w: missing %s", shared.ErrInvalidContext, ContextRosterID)
	}

	member, err := h.roster.Get(id)
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: roster %s not found", shared.ErrInvalidContext, id)
	}
	if err != nil {
		return err
	}
	if member.TeamID != teamID {
		return fmt.Errorf("%w: roster %s belongs to another team", shared.ErrInvalidContext, id)
	}
	if member.Email == "" {
		return fmt.Errorf("%w: %w", shared.ErrInvalidContext, shared.ErrMissingEmail)
	}
	return nil
}

// UserName uses the roster member's name.
func (h *RosterHandler) UserName(_ context.Context, _ string, c map[string]any) (string, bool) {
	id, _ := c[ContextRosterID].(string)
	if id == "" {
		h.warn("roster invitation missing roster_id", "context", c)
		return "", false
	}

	member, err := h.roster.Get(id)
	if err != nil {
		h.warn("roster not found, using email prefix for user name", "roster_id", id)
		return "", false
	}
	return member.Name, true
}

// AfterAccept links the accepting user to the roster record and activates it.
// A roster record deleted since the invitation was sent is skipped.
func (h *RosterHandler) AfterAccept(_ context.Context, tx repositories.DBTX, userID, _ string, c map[string]any) error {
	id, _ := c[ContextRosterID].(string)
	if id == "" {
		h.warn("roster invitation missing roster_id", "context", c)
		return nil
	}

	roster := repositories.NewRosterRepository(tx)
	member, err := roster.Get(id)
	if errors.Is(err, shared.ErrNotFound) {
		h.warn("roster not found for invitation, skipping roster link", "roster_id", id)
		return nil
	}
	if err != nil {
		return err
	}

	member.RosterUserID = userID
	member.State = models.RosterActive
	if err := roster.Update(member); err != nil {
		return fmt.Errorf("failed to link roster %s: %w", id, err)
	}

	if h.logger != nil {
		h.logger.Info("linked roster to user", "roster_id", id, "user_id", userID)
	}
	return nil
}

func (h *RosterHandler) warn(msg string, kv ...any) {
	if h.logger != nil {
		h.logger.Warn(msg, kv...)
	}
}
