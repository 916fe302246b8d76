package server

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/rosterx/internal/invitations"
	"github.com/desertthunder/rosterx/internal/roster"
	"github.com/desertthunder/rosterx/internal/shared"
)

// Request headers identifying the acting user and, optionally, the team.
const (
	HeaderUserID = "X-User-ID"
	HeaderTeamID = "X-Team-ID"
)

// RosterHandler serves the roster API and the invitation accept endpoint.
type RosterHandler struct {
	roster      *roster.Service
	invitations *invitations.Service
	logger      *log.Logger
	mux         *http.ServeMux
}

// NewRosterHandler creates a [RosterHandler] backed by the given services.
func NewRosterHandler(rs *roster.Service, inv *invitations.Service, logger *log.Logger) *RosterHandler {
	h := &RosterHandler{
		roster:      rs,
		invitations: inv,
		logger:      shared.WithLogger(logger, "component", "http"),
		mux:         http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /roster", h.cards)
	h.mux.HandleFunc("GET /roster/cards", h.cards)
	h.mux.HandleFunc("POST /roster", h.create)
	h.mux.HandleFunc("GET /roster/{id}", h.detail)
	h.mux.HandleFunc("POST /roster/{id}", h.update)
	h.mux.HandleFunc("PATCH /roster/{id}", h.update)
	h.mux.HandleFunc("DELETE /roster/{id}", h.delete)
	h.mux.HandleFunc("POST /roster/{id}/invite", h.invite)
	h.mux.HandleFunc("GET /roster/invitations/accept", h.accept)
	return h
}

// Routes implements [Handler].
func (h *RosterHandler) Routes() []string {
	return []string{"/roster", "/roster/"}
}

// ServeHTTP implements [http.Handler].
func (h *RosterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *RosterHandler) actor(r *http.Request) (roster.Actor, error) {
	userID := r.Header.Get(HeaderUserID)
	if userID == "" {
		return roster.Actor{}, errUnauthenticated
	}
	return h.roster.ResolveActor(r.Context(), userID, r.Header.Get(HeaderTeamID))
}

// fail writes err and logs it when it maps to a server error.
func (h *RosterHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		h.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, err)
}

func (h *RosterHandler) cards(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	query := roster.Query{Search: q.Get("search"), State: q.Get("state")}
	if query.Limit, err = intParam(q.Get("limit")); err != nil {
		h.fail(w, r, err)
		return
	}
	if query.Offset, err = intParam(q.Get("offset")); err != nil {
		h.fail(w, r, err)
		return
	}

	cards, err := h.roster.Cards(r.Context(), actor, query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *RosterHandler) create(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var in roster.CreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.roster.Create(r.Context(), actor, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *RosterHandler) detail(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.roster.Detail(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *RosterHandler) update(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var in roster.UpdateInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.roster.Update(r.Context(), actor, r.PathValue("id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *RosterHandler) delete(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.roster.Delete(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *RosterHandler) invite(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.roster.InviteMember(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// accept redeems an invitation token and redirects to the configured success page.
// Requests asking for JSON get the acceptance summary instead.
func (h *RosterHandler) accept(w http.ResponseWriter, r *http.Request) {
	acceptance, err := h.invitations.Accept(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if acceptance.RedirectURL == "" || r.Header.Get("Accept") == "application/json" {
		writeJSON(w, http.StatusOK, map[string]any{
			"user_id":      acceptance.User.ID(),
			"team_id":      acceptance.Invitation.TeamID,
			"role":         acceptance.Role.Level,
			"created_user": acceptance.CreatedUser,
		})
		return
	}
	http.Redirect(w, r, acceptance.RedirectURL, http.StatusFound)
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, shared.ErrInvalidInput
	}
	return n, nil
}

// New builds the router serving every API handler with logging, recovery and CORS.
func New(rs *roster.Service, inv *invitations.Service, cfg *shared.Config, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(shared.WithLogger(logger, "component", "access")), CORS(cfg.Server.FrontendOrigin))
	router.Handler(NewRosterHandler(rs, inv, logger))
	router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	return router
}
