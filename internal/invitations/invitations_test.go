package invitations

import (
	"context"
	"database/sql"
	"net/url"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/repositories"
	"github.com/desertthunder/rosterx/internal/shared"
	tu "github.com/desertthunder/rosterx/internal/testing"
)

type fixture struct {
	db      *sql.DB
	svc     *Service
	clock   *tu.Clock
	inviter *models.User
	member  *models.Roster
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := tu.MustOpenDB(t)
	logger := tu.DiscardLogger()
	registry := DefaultRegistry(repositories.NewRosterRepository(db), logger)
	clock := tu.NewClock(time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))

	inviter := tu.MustCreateUser(t, db, "agent@example.com", "Agent Smith")
	member := tu.MustCreateRoster(t, db, "team-1", inviter.ID(), "Alex Johnson", func(r *models.Roster) {
		r.Email = "alex@example.com"
	})

	return &fixture{
		db:      db,
		svc:     NewService(db, registry, tu.TestConfig(), logger).WithClock(clock.Now),
		clock:   clock,
		inviter: inviter,
		member:  member,
	}
}

func (f *fixture) rosterRequest() LinkRequest {
	return LinkRequest{
		TeamID:    "team-1",
		Email:     " Alex@Example.com ",
		InvitedBy: f.inviter.ID(),
		Type:      models.InvitationRosterMember,
		Context:   map[string]any{ContextRosterID: f.member.ID()},
	}
}

func tokenFrom(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry(nil, nil)

	h, err := r.Handler(models.InvitationTeamMember)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, h.RoleLevel())

	h, err = r.Handler(models.InvitationRosterMember)
	require.NoError(t, err)
	assert.Equal(t, models.RoleRosterMember, h.RoleLevel())

	_, err = r.Handler(models.InvitationGuestBrand)
	assert.ErrorIs(t, err, shared.ErrNoHandler)
}

func TestGenerateLink(t *testing.T) {
	t.Run("issues hashed token link", func(t *testing.T) {
		f := setup(t)

		link, err := f.svc.GenerateLink(context.Background(), f.rosterRequest())
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(link.URL, "http://localhost:5173/invite/accept?token="), link.URL)
		token := tokenFrom(t, link.URL)
		assert.Len(t, token, 43)

		inv := link.Invitation
		assert.Equal(t, shared.HashToken(token), inv.TokenHash)
		assert.NotEqual(t, token, inv.TokenHash)
		assert.Equal(t, "alex@example.com", inv.InvitedEmail)
		assert.Equal(t, f.clock.Now().Add(72*time.Hour), inv.ExpiresAt)

		stored, err := repositories.NewInvitationRepository(f.db).GetByHash(inv.TokenHash)
		require.NoError(t, err)
		assert.Equal(t, inv.ID(), stored.ID())
	})

	t.Run("custom expiry", func(t *testing.T) {
		f := setup(t)
		req := f.rosterRequest()
		req.ExpiresIn = 2 * time.Hour

		link, err := f.svc.GenerateLink(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, f.clock.Now().Add(2*time.Hour), link.Invitation.ExpiresAt)
	})

	t.Run("rejects invalid roster context", func(t *testing.T) {
		f := setup(t)

		req := f.rosterRequest()
		req.Context = map[string]any{}
		_, err := f.svc.GenerateLink(context.Background(), req)
		assert.ErrorIs(t, err, shared.ErrInvalidContext)

		req.Context = map[string]any{ContextRosterID: "missing"}
		_, err = f.svc.GenerateLink(context.Background(), req)
		assert.ErrorIs(t, err, shared.ErrInvalidContext)

		req.TeamID = "team-2"
		req.Context = map[string]any{ContextRosterID: f.member.ID()}
		_, err = f.svc.GenerateLink(context.Background(), req)
		assert.ErrorIs(t, err, shared.ErrInvalidContext)
	})

	t.Run("rejects roster member without email", func(t *testing.T) {
		f := setup(t)
		bare := tu.MustCreateRoster(t, f.db, "team-1", f.inviter.ID(), "No Email")

		req := f.rosterRequest()
		req.Context = map[string]any{ContextRosterID: bare.ID()}
		_, err := f.svc.GenerateLink(context.Background(), req)
		assert.ErrorIs(t, err, shared.ErrMissingEmail)
	})

	t.Run("unregistered type", func(t *testing.T) {
		f := setup(t)
		req := f.rosterRequest()
		req.Type = models.InvitationAgencyPartner

		_, err := f.svc.GenerateLink(context.Background(), req)
		assert.ErrorIs(t, err, shared.ErrNoHandler)
	})

	t.Run("pending invitation blocks, expired one is replaced", func(t *testing.T) {
		f := setup(t)

		_, err := f.svc.GenerateLink(context.Background(), f.rosterRequest())
		require.NoError(t, err)

		_, err = f.svc.GenerateLink(context.Background(), f.rosterRequest())
		assert.ErrorIs(t, err, shared.ErrInvitationPending)

		f.clock.Advance(73 * time.Hour)
		pending, err := f.svc.Pending(context.Background(), "team-1", "alex@example.com", models.InvitationRosterMember)
		require.NoError(t, err)
		assert.Nil(t, pending)

		_, err = f.svc.GenerateLink(context.Background(), f.rosterRequest())
		assert.NoError(t, err)
	})
}

func TestAccept(t *testing.T) {
	t.Run("roster member creates user, role and link", func(t *testing.T) {
		f := setup(t)
		link, err := f.svc.GenerateLink(context.Background(), f.rosterRequest())
		require.NoError(t, err)

		f.clock.Advance(time.Hour)
		res, err := f.svc.Accept(context.Background(), tokenFrom(t, link.URL))
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:5173/", res.RedirectURL)
		assert.True(t, res.CreatedUser)
		assert.Equal(t, "Alex Johnson", res.User.Name())
		assert.True(t, res.User.EmailVerified())
		assert.Equal(t, models.UserActive, res.User.State())

		role, err := repositories.NewRoleRepository(f.db).Get(res.User.ID(), "team-1")
		require.NoError(t, err)
		assert.Equal(t, models.RoleRosterMember, role.Level)

		member, err := repositories.NewRosterRepository(f.db).Get(f.member.ID())
		require.NoError(t, err)
		assert.Equal(t, res.User.ID(), member.RosterUserID)
		assert.Equal(t, models.RosterActive, member.State)

		stored, err := repositories.NewInvitationRepository(f.db).Get(link.Invitation.ID())
		require.NoError(t, err)
		require.NotNil(t, stored.AcceptedAt)
	})

	t.Run("second acceptance fails", func(t *testing.T) {
		f := setup(t)
		link, err := f.svc.GenerateLink(context.Background(), f.rosterRequest())
		require.NoError(t, err)
		token := tokenFrom(t, link.URL)

		_, err = f.svc.Accept(context.Background(), token)
		require.NoError(t, err)

		_, err = f.svc.Accept(context.Background(), token)
		assert.ErrorIs(t, err, shared.ErrInvitationInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		f := setup(t)
		link, err := f.svc.GenerateLink(context.Background(), f.rosterRequest())
		require.NoError(t, err)

		f.clock.Advance(72 * time.Hour)
		_, err = f.svc.Accept(context.Background(), tokenFrom(t, link.URL))
		assert.ErrorIs(t, err, shared.ErrInvitationInvalid)
	})

	t.Run("unknown and empty tokens", func(t *testing.T) {
		f := setup(t)

		_, err := f.svc.Accept(context.Background(), "nope")
		assert.ErrorIs(t, err, shared.ErrInvitationInvalid)

		_, err = f.svc.Accept(context.Background(), "  ")
		assert.ErrorIs(t, err, shared.ErrInvitationInvalid)
	})

	t.Run("existing user keeps name and joins team", func(t *testing.T) {
		f := setup(t)
		existing := tu.MustCreateUser(t, f.db, "newhire@example.com", "New Hire")

		link, err := f.svc.GenerateLink(context.Background(), LinkRequest{
			TeamID:    "team-1",
			Email:     "NewHire@example.com",
			InvitedBy: f.inviter.ID(),
			Type:      models.InvitationTeamMember,
		})
		require.NoError(t, err)

		res, err := f.svc.Accept(context.Background(), tokenFrom(t, link.URL))
		require.NoError(t, err)

		assert.False(t, res.CreatedUser)
		assert.Equal(t, existing.ID(), res.User.ID())
		assert.Equal(t, "New Hire", res.User.Name())
		assert.Equal(t, models.RoleMember, res.Role.Level)
		assert.Equal(t, models.UserActive, res.User.State())
	})

	t.Run("team member name falls back to email prefix", func(t *testing.T) {
		f := setup(t)

		link, err := f.svc.GenerateLink(context.Background(), LinkRequest{
			TeamID:    "team-1",
			Email:     "jordan.lee@example.com",
			InvitedBy: f.inviter.ID(),
			Type:      models.InvitationTeamMember,
		})
		require.NoError(t, err)

		res, err := f.svc.Accept(context.Background(), tokenFrom(t, link.URL))
		require.NoError(t, err)
		assert.Equal(t, "jordan.lee", res.User.Name())
	})

	t.Run("roster deleted after invite still accepts", func(t *testing.T) {
		f := setup(t)
		link, err := f.svc.GenerateLink(context.Background(), f.rosterRequest())
		require.NoError(t, err)

		require.NoError(t, repositories.NewRosterRepository(f.db).Delete(f.member.ID()))

		res, err := f.svc.Accept(context.Background(), tokenFrom(t, link.URL))
		require.NoError(t, err)
		assert.Equal(t, "alex", res.User.Name())
	})
}

// hookHandler renames the invited roster member inside the acceptance transaction and
// then returns err.
type hookHandler struct {
	mu       sync.Mutex
	calls    int
	rosterID string
	err      error
}

func (h *hookHandler) RoleLevel() models.RoleLevel { return models.RoleMember }

func (h *hookHandler) ValidateContext(context.Context, string, map[string]any) error { return nil }

func (h *hookHandler) UserName(context.Context, string, map[string]any) (string, bool) {
	return "Brand Guest", true
}

func (h *hookHandler) AfterAccept(_ context.Context, tx repositories.DBTX, _, _ string, _ map[string]any) error {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()

	roster := repositories.NewRosterRepository(tx)
	member, err := roster.Get(h.rosterID)
	if err != nil {
		return err
	}
	member.Name = "Renamed In Hook"
	if err := roster.Update(member); err != nil {
		return err
	}
	return h.err
}

func (f *fixture) guestRequest() LinkRequest {
	return LinkRequest{
		TeamID:    "team-1",
		Email:     "guest@example.com",
		InvitedBy: f.inviter.ID(),
		Type:      models.InvitationGuestBrand,
	}
}

func TestAcceptIsAtomic(t *testing.T) {
	t.Run("failing hook leaves nothing applied", func(t *testing.T) {
		f := setup(t)
		hook := &hookHandler{rosterID: f.member.ID(), err: errors.New("crm unavailable")}
		f.svc.registry.Register(models.InvitationGuestBrand, hook)

		link, err := f.svc.GenerateLink(context.Background(), f.guestRequest())
		require.NoError(t, err)
		token := tokenFrom(t, link.URL)

		_, err = f.svc.Accept(context.Background(), token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "crm unavailable")
		assert.Equal(t, 1, hook.calls)

		_, err = repositories.NewUserRepository(f.db).GetByEmail("guest@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		member, err := repositories.NewRosterRepository(f.db).Get(f.member.ID())
		require.NoError(t, err)
		assert.Equal(t, "Alex Johnson", member.Name)

		stored, err := repositories.NewInvitationRepository(f.db).Get(link.Invitation.ID())
		require.NoError(t, err)
		assert.Nil(t, stored.AcceptedAt)

		hook.err = nil
		res, err := f.svc.Accept(context.Background(), token)
		require.NoError(t, err)
		assert.True(t, res.CreatedUser)
		assert.Equal(t, "Brand Guest", res.User.Name())

		_, err = repositories.NewRoleRepository(f.db).Get(res.User.ID(), "team-1")
		assert.NoError(t, err)
	})

	t.Run("concurrent redemptions run the hook once", func(t *testing.T) {
		f := setup(t)
		hook := &hookHandler{rosterID: f.member.ID()}
		f.svc.registry.Register(models.InvitationGuestBrand, hook)

		link, err := f.svc.GenerateLink(context.Background(), f.guestRequest())
		require.NoError(t, err)
		token := tokenFrom(t, link.URL)

		const attempts = 4
		errs := make(chan error, attempts)
		var wg sync.WaitGroup
		for range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.svc.Accept(context.Background(), token)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, shared.ErrInvitationInvalid)
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, hook.calls)
	})
}

func TestRevoke(t *testing.T) {
	f := setup(t)
	link, err := f.svc.GenerateLink(context.Background(), f.rosterRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Revoke(context.Background(), link.Invitation.ID()))

	_, err = f.svc.Accept(context.Background(), tokenFrom(t, link.URL))
	assert.ErrorIs(t, err, shared.ErrInvitationInvalid)

	_, err = f.svc.GenerateLink(context.Background(), f.rosterRequest())
	assert.NoError(t, err)

	assert.ErrorIs(t, f.svc.Revoke(context.Background(), link.Invitation.ID()), shared.ErrNotFound)
}
