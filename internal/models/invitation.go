package models

import (
	"encoding/json"
	"errors"
	"time"
)

// InvitationType selects the handler that validates and applies an invitation.
type InvitationType string

const (
	InvitationTeamMember    InvitationType = "team_member"
	InvitationRosterMember  InvitationType = "roster_member"
	InvitationGuestBrand    InvitationType = "guest_brand"
	InvitationAgencyPartner InvitationType = "agency_partner"
)

// Invitation is a single-use token granting access to a team.
//
// Only the SHA-256 hash of the token is persisted; the raw token lives in the emailed link.
type Invitation struct {
	id              string
	TokenHash       string
	TeamID          string
	InvitedEmail    string
	InvitedByUserID string
	Type            InvitationType
	Context         map[string]any
	ExpiresAt       time.Time
	AcceptedAt      *time.Time
	createdAt       time.Time
}

func NewInvitation(tokenHash, teamID, email, invitedBy string, kind InvitationType, context map[string]any, expiresAt time.Time) *Invitation {
	if context == nil {
		context = map[string]any{}
	}
	return &Invitation{
		TokenHash:       tokenHash,
		TeamID:          teamID,
		InvitedEmail:    email,
		InvitedByUserID: invitedBy,
		Type:            kind,
		Context:         context,
		ExpiresAt:       expiresAt,
		createdAt:       time.Now().UTC(),
	}
}

func (i *Invitation) ID() string               { return i.id }
func (i *Invitation) CreatedAt() time.Time     { return i.createdAt }
func (i *Invitation) UpdatedAt() time.Time     { return i.createdAt }
func (i *Invitation) SetID(id string)          { i.id = id }
func (i *Invitation) SetCreatedAt(t time.Time) { i.createdAt = t }

// IsValid reports whether the invitation is unaccepted and not yet expired at now.
func (i *Invitation) IsValid(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}

// ContextString returns a string value from the invitation context.
func (i *Invitation) ContextString(key string) (string, bool) {
	s, ok := i.Context[key].(string)
	return s, ok && s != ""
}

// ContextJSON encodes the context for storage.
func (i *Invitation) ContextJSON() (string, error) {
	if len(i.Context) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(i.Context)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (i *Invitation) Validate() error {
	if i.TokenHash == "" {
		return errors.New("token hash is required")
	}
	if i.TeamID == "" {
		return errors.New("team ID is required")
	}
	if i.InvitedEmail == "" {
		return errors.New("invited email is required")
	}
	if i.InvitedByUserID == "" {
		return errors.New("inviting user is required")
	}
	switch i.Type {
	case InvitationTeamMember, InvitationRosterMember, InvitationGuestBrand, InvitationAgencyPartner:
	default:
		return errors.New("invalid invitation type: " + string(i.Type))
	}
	if i.ExpiresAt.IsZero() {
		return errors.New("expiry is required")
	}
	return nil
}
