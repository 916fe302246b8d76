package models

import (
	"errors"
	"strings"
)

// UserState tracks where an account is in its onboarding lifecycle.
type UserState string

const (
	UserNeedsTeam UserState = "needs_team"
	UserActive    UserState = "active"
	UserDeleted   UserState = "deleted"
)

// User is an account that can sign in and hold team roles.
type User struct {
	record
	email         string
	name          string
	emailVerified bool
	state         UserState
}

// NewUser creates a user in the [UserNeedsTeam] state.
func NewUser(sequence int, email, name string) *User {
	return &User{
		record: newRecord(sequence),
		email:  email,
		name:   name,
		state:  UserNeedsTeam,
	}
}

func (u *User) Email() string            { return u.email }
func (u *User) Name() string             { return u.name }
func (u *User) EmailVerified() bool      { return u.emailVerified }
func (u *User) State() UserState         { return u.state }
func (u *User) SetName(name string)      { u.name = name }
func (u *User) SetEmail(email string)    { u.email = email }
func (u *User) SetEmailVerified(v bool)  { u.emailVerified = v }
func (u *User) SetState(state UserState) { u.state = state }

// Validate checks that the user has an email and a name.
func (u *User) Validate() error {
	if strings.TrimSpace(u.email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(u.email, "@") {
		return errors.New("email must contain @")
	}
	if strings.TrimSpace(u.name) == "" {
		return errors.New("name is required")
	}
	switch u.state {
	case UserNeedsTeam, UserActive, UserDeleted:
	default:
		return errors.New("invalid user state: " + string(u.state))
	}
	return nil
}
