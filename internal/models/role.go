package models

import (
	"errors"
	"time"
)

// RoleLevel is a user's permission level within a team.
type RoleLevel string

const (
	RoleOwner        RoleLevel = "owner"
	RoleAdmin        RoleLevel = "admin"
	RoleMember       RoleLevel = "member"
	RoleViewer       RoleLevel = "viewer"
	RoleRosterMember RoleLevel = "roster_member"
	RoleGuestBrand   RoleLevel = "guest_brand"
)

// Valid reports whether l is a known role level.
func (l RoleLevel) Valid() bool {
	switch l {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer, RoleRosterMember, RoleGuestBrand:
		return true
	}
	return false
}

// Role grants a user a [RoleLevel] on one team. A user holds at most one role per team.
type Role struct {
	id        string
	UserID    string
	TeamID    string
	Level     RoleLevel
	createdAt time.Time
	updatedAt time.Time
}

func NewRole(userID, teamID string, level RoleLevel) *Role {
	now := time.Now().UTC()
	return &Role{UserID: userID, TeamID: teamID, Level: level, createdAt: now, updatedAt: now}
}

func (r *Role) ID() string               { return r.id }
func (r *Role) CreatedAt() time.Time     { return r.createdAt }
func (r *Role) UpdatedAt() time.Time     { return r.updatedAt }
func (r *Role) SetID(id string)          { r.id = id }
func (r *Role) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *Role) SetUpdatedAt(t time.Time) { r.updatedAt = t }

func (r *Role) Validate() error {
	if r.UserID == "" {
		return errors.New("user ID is required")
	}
	if r.TeamID == "" {
		return errors.New("team ID is required")
	}
	if !r.Level.Valid() {
		return errors.New("invalid role level: " + string(r.Level))
	}
	return nil
}
