package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/rosterx/internal/emails"
	"github.com/desertthunder/rosterx/internal/invitations"
	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/objects"
	"github.com/desertthunder/rosterx/internal/repositories"
	"github.com/desertthunder/rosterx/internal/roster"
	"github.com/desertthunder/rosterx/internal/shared"
	tu "github.com/desertthunder/rosterx/internal/testing"
)

type fixture struct {
	router *BasicRouter
	outbox *emails.Outbox
	owner  *models.User
	teamID string
	cfg    *shared.Config
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := tu.MustOpenDB(t)
	cfg := tu.TestConfig()
	cfg.Server.SuccessRedirectURL = "https://app.example.com/welcome"
	logger := tu.DiscardLogger()
	clock := tu.NewClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	owner := tu.MustCreateUser(t, db, "owner@example.com", "Olive Owner")
	teamID := "team-1"
	require.NoError(t, repositories.NewRoleRepository(db).Upsert(models.NewRole(owner.ID(), teamID, models.RoleOwner)))

	registry := invitations.DefaultRegistry(repositories.NewRosterRepository(db), logger)
	inv := invitations.NewService(db, registry, cfg, logger).WithClock(clock.Now)
	outbox := &emails.Outbox{}
	rs := roster.NewService(db, inv, outbox, objects.NewRosterObject(cfg.Media.BaseURL), logger).WithClock(clock.Now)

	return &fixture{router: New(rs, inv, cfg, logger), outbox: outbox, owner: owner, teamID: teamID, cfg: cfg}
}

func (f *fixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(HeaderUserID, f.owner.ID())
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestBasicRouter(t *testing.T) {
	t.Run("method patterns", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("pong"))
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, "pong", rec.Body.String())

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("middleware order", func(t *testing.T) {
		var calls []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					calls = append(calls, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mw("first"), mw("second"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			calls = append(calls, "handler")
		}))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, []string{"first", "second", "handler"}, calls)
	})

	t.Run("recover", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(Recover(tu.DiscardLogger()))
		router.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: roster 1", shared.ErrNotFound), http.StatusNotFound},
		{shared.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("%w: %w", shared.ErrActionUnavailable, shared.ErrMissingEmail), http.StatusBadRequest},
		{shared.ErrInvitationInvalid, http.StatusBadRequest},
		{shared.ErrInvitationPending, http.StatusConflict},
		{errUnauthenticated, http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRosterHandler(t *testing.T) {
	t.Run("missing user header", func(t *testing.T) {
		f := setup(t)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roster", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("create then list cards", func(t *testing.T) {
		f := setup(t)

		rec := f.do(t, http.MethodPost, "/roster", map[string]any{
			"name":             "Jane Doe",
			"email":            "jane@example.com",
			"phone":            "5551234567",
			"birthdate":        "1990-06-15",
			"instagram_handle": "janedoe",
			"address":          map[string]string{"city": "Austin"},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		created := decode[roster.Result](t, rec)
		assert.NotEmpty(t, created.CreatedID)

		rec = f.do(t, http.MethodGet, "/roster/cards", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		cards := decode[roster.Cards](t, rec)
		require.Len(t, cards.Records, 1)

		card := cards.Records[0]
		assert.Equal(t, "Jane Doe", card.Title)
		assert.Equal(t, "JD", card.Initials)
		assert.Equal(t, "(555) 123-4567", card.Phone)
		assert.Equal(t, "Austin", card.City)
		require.NotNil(t, card.Age)
		assert.Equal(t, 35, *card.Age)
		assert.Equal(t, "/roster/"+created.CreatedID, card.Link)
	})

	t.Run("create rejects invalid input", func(t *testing.T) {
		f := setup(t)
		rec := f.do(t, http.MethodPost, "/roster", map[string]any{"name": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = f.do(t, http.MethodPost, "/roster", map[string]any{"name": "x", "unknown": 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("detail update delete", func(t *testing.T) {
		f := setup(t)
		created := decode[roster.Result](t, f.do(t, http.MethodPost, "/roster", map[string]any{"name": "Sam Smith"}))
		path := "/roster/" + created.CreatedID

		rec := f.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		view := decode[roster.View](t, rec)
		assert.Equal(t, "Sam Smith", view.Name)
		assert.Equal(t, "prospect", view.State)

		rec = f.do(t, http.MethodPatch, path, map[string]any{"gender": "female"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "female", decode[roster.View](t, rec).Gender)

		rec = f.do(t, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad paging", func(t *testing.T) {
		f := setup(t)
		rec := f.do(t, http.MethodGet, "/roster?limit=-1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invite and accept", func(t *testing.T) {
		f := setup(t)
		created := decode[roster.Result](t, f.do(t, http.MethodPost, "/roster", map[string]any{
			"name": "Jane Doe", "email": "jane@example.com",
		}))

		rec := f.do(t, http.MethodPost, "/roster/"+created.CreatedID+"/invite", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, decode[roster.Result](t, rec).Message, "jane@example.com")

		rec = f.do(t, http.MethodPost, "/roster/"+created.CreatedID+"/invite", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		msgs := f.outbox.Messages()
		require.Len(t, msgs, 1)
		token := tokenFrom(t, msgs[0].Text)

		req := httptest.NewRequest(http.MethodGet, "/roster/invitations/accept?token="+url.QueryEscape(token), nil)
		rec = httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
		assert.Equal(t, f.cfg.Server.SuccessRedirectURL, rec.Header().Get("Location"))

		rec = httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		view := decode[roster.View](t, f.do(t, http.MethodGet, "/roster/"+created.CreatedID, nil))
		assert.Equal(t, "active", view.State)
		assert.NotEmpty(t, view.RosterUserID)
	})

	t.Run("invite without email", func(t *testing.T) {
		f := setup(t)
		created := decode[roster.Result](t, f.do(t, http.MethodPost, "/roster", map[string]any{"name": "No Mail"}))
		rec := f.do(t, http.MethodPost, "/roster/"+created.CreatedID+"/invite", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func tokenFrom(t *testing.T, text string) string {
	t.Helper()
	for _, field := range strings.Fields(text) {
		if u, err := url.Parse(field); err == nil && u.Query().Get("token") != "" {
			return u.Query().Get("token")
		}
	}
	t.Fatalf("no invitation link in %q", text)
	return ""
}
