// Package roster implements the roster member actions: create, update, delete, detail,
// portal invitation and the card listing.
package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/rosterx/internal/emails"
	"github.com/desertthunder/rosterx/internal/invitations"
	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/objects"
	"github.com/desertthunder/rosterx/internal/projection"
	"github.com/desertthunder/rosterx/internal/repositories"
	"github.com/desertthunder/rosterx/internal/shared"
)

// Actor is the user performing an action and the team it is performed in.
type Actor struct {
	UserID string
	TeamID string
}

// Service runs roster actions scoped to the actor's team.
type Service struct {
	roster      *repositories.RosterRepository
	users       *repositories.UserRepository
	roles       *repositories.RoleRepository
	invitations *invitations.Service
	mailer      emails.Mailer
	object      *objects.RosterObject
	icons       map[string]string
	logger      *log.Logger
	now         func() time.Time
}

func NewService(db *sql.DB, inv *invitations.Service, mailer emails.Mailer, object *objects.RosterObject, logger *log.Logger) *Service {
	return &Service{
		roster:      repositories.NewRosterRepository(db),
		users:       repositories.NewUserRepository(db),
		roles:       repositories.NewRoleRepository(db),
		invitations: inv,
		mailer:      mailer,
		object:      object,
		icons:       projection.DefaultSocialIcons(),
		logger:      shared.WithLogger(logger, "component", "roster"),
		now:         time.Now,
	}
}

// WithClock replaces the clock used for ages.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
		s.object.WithClock(now)
	}
	return s
}

// ResolveActor checks that userID exists and holds a role on teamID. An empty teamID
// selects the user's earliest team.
func (s *Service) ResolveActor(_ context.Context, userID, teamID string) (Actor, error) {
	if userID == "" {
		return Actor{}, fmt.Errorf("%w: user id is required", shared.ErrInvalidInput)
	}
	if _, err := s.users.Get(userID); err != nil {
		return Actor{}, err
	}

	if teamID != "" {
		if _, err := s.roles.Get(userID, teamID); err != nil {
			return Actor{}, err
		}
		return Actor{UserID: userID, TeamID: teamID}, nil
	}

	roles, err := s.roles.ListByUser(userID)
	if err != nil {
		return Actor{}, err
	}
	if len(roles) == 0 {
		return Actor{}, fmt.Errorf("%w: user %s has no team", shared.ErrNotFound, userID)
	}
	return Actor{UserID: userID, TeamID: roles[0].TeamID}, nil
}

// Create adds a roster member to the actor's team in the prospect state.
func (s *Service) Create(_ context.Context, actor Actor, in CreateInput) (*Result, error) {
	member := models.NewRoster(0, actor.TeamID, actor.UserID, strings.TrimSpace(in.Name))
	member.Email = in.Email
	member.Phone = in.Phone
	member.Birthdate = in.Birthdate
	member.Gender = in.Gender
	member.InstagramHandle = in.InstagramHandle
	member.FacebookHandle = in.FacebookHandle
	member.TikTokHandle = in.TikTokHandle
	member.YouTubeChannel = in.YouTubeChannel
	member.ProfilePhotoID = in.ProfilePhotoID
	if in.Address != nil {
		addr := *in.Address
		member.Address = &addr
	}

	if err := member.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if err := s.roster.Create(member); err != nil {
		return nil, err
	}

	s.logger.Info("created roster member", "roster_id", member.ID(), "team_id", actor.TeamID)
	return &Result{Message: "Created roster member", CreatedID: member.ID()}, nil
}

// Get loads a member of the actor's team. Members of other teams are reported as not found.
func (s *Service) Get(_ context.Context, actor Actor, id string) (*models.Roster, error) {
	member, err := s.roster.Get(id)
	if err != nil {
		return nil, err
	}
	if member.TeamID != actor.TeamID {
		return nil, fmt.Errorf("%w: roster %s", shared.ErrNotFound, id)
	}
	return member, nil
}

// Detail returns the member view with city, age and the available actions.
func (s *Service) Detail(ctx context.Context, actor Actor, id string) (*View, error) {
	member, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	v := NewView(member, s.now())
	return &v, nil
}

// Update applies a partial update, creating the address when the member has none.
func (s *Service) Update(ctx context.Context, actor Actor, id string, in UpdateInput) (*View, error) {
	member, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	in.apply(member)
	member.Name = strings.TrimSpace(member.Name)
	if err := member.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if err := s.roster.Update(member); err != nil {
		return nil, err
	}

	s.logger.Info("updated roster member", "roster_id", id)
	v := NewView(member, s.now())
	return &v, nil
}

// Delete soft-deletes a member.
func (s *Service) Delete(ctx context.Context, actor Actor, id string) (*Result, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := s.roster.Delete(id); err != nil {
		return nil, err
	}

	s.logger.Info("deleted roster member", "roster_id", id)
	return &Result{Message: "Deleted roster member"}, nil
}

// InviteMember emails the member a portal invitation and moves them to the invited state.
func (s *Service) InviteMember(ctx context.Context, actor Actor, id string) (*Result, error) {
	member, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if member.Email == "" {
		return nil, fmt.Errorf("%w: %w", shared.ErrActionUnavailable, shared.ErrMissingEmail)
	}
	if !CanInvite(member) {
		return nil, fmt.Errorf("%w: %s already has portal access", shared.ErrActionUnavailable, member.Name)
	}

	email := shared.NormalizeEmail(member.Email)
	pending, err := s.invitations.Pending(ctx, member.TeamID, email, models.InvitationRosterMember)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, fmt.Errorf("%w: an invitation is already pending for %s", shared.ErrInvitationPending, email)
	}

	link, err := s.invitations.GenerateLink(ctx, invitations.LinkRequest{
		TeamID:    member.TeamID,
		Email:     email,
		InvitedBy: actor.UserID,
		Type:      models.InvitationRosterMember,
		Context:   map[string]any{invitations.ContextRosterID: member.ID()},
	})
	if err != nil {
		return nil, err
	}

	hours := int(math.Round(s.invitations.Expiry().Hours()))
	msg, err := emails.RosterInvitation{
		RosterName:      member.Name,
		InviterName:     s.inviterName(actor.UserID),
		InvitationURL:   link.URL,
		ExpirationHours: hours,
	}.Render(email)
	if err != nil {
		s.revoke(ctx, link.Invitation)
		return nil, err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.revoke(ctx, link.Invitation)
		return nil, fmt.Errorf("failed to send invitation email: %w", err)
	}

	member.State = models.RosterInvited
	if err := s.roster.Update(member); err != nil {
		return nil, err
	}

	s.logger.Info("sent portal invitation", "roster_id", member.ID(), "email", email)
	return &Result{Message: fmt.Sprintf("Portal invitation sent to %s. It will expire in %d hours.", email, hours)}, nil
}

// revoke drops an invitation whose email never went out so the member can be invited again.
func (s *Service) revoke(ctx context.Context, inv *models.Invitation) {
	if err := s.invitations.Revoke(ctx, inv.ID()); err != nil {
		s.logger.Warn("failed to revoke undelivered invitation", "invitation_id", inv.ID(), "error", err)
	}
}

// Cards lists the team's members as an object list and projects each row into a display record.
func (s *Service) Cards(_ context.Context, actor Actor, q Query) (*Cards, error) {
	criteria := map[string]any{"team_id": actor.TeamID}
	if q.Search != "" {
		criteria["search"] = q.Search
	}
	if q.State != "" {
		criteria["state"] = q.State
	}
	if q.Limit > 0 {
		criteria["limit"] = q.Limit
		criteria["offset"] = q.Offset
	}

	members, err := s.roster.List(criteria)
	if err != nil {
		return nil, err
	}

	list := s.object.List(members)
	records := projection.NewProjector(list.Columns, s.icons).WithClock(s.now).ProjectAll(list.Rows)
	return &Cards{List: list, Records: records}, nil
}

func (s *Service) inviterName(userID string) string {
	user, err := s.users.Get(userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("failed to load inviter", "user_id", userID, "err", err)
		}
		return "A team member"
	}
	return user.Name()
}
