package models

import (
	"errors"
	"strings"
	"time"
)

// RosterState is the portal status of a roster member.
type RosterState string

const (
	RosterProspect RosterState = "prospect"
	RosterInvited  RosterState = "invited"
	RosterActive   RosterState = "active"
)

// Address is a roster member's postal address, stored inline on the roster row.
type Address struct {
	Address1    string `json:"address1,omitempty"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country,omitempty"`
	AddressType string `json:"address_type,omitempty"`
}

// IsZero reports whether no address field is set.
func (a Address) IsZero() bool { return a == Address{} }

// Roster is a talent/influencer managed by a team.
//
// TeamID and UserID (the creator) are fixed at creation. RosterUserID is set once the member
// accepts a portal invitation and has an account of their own.
type Roster struct {
	record
	TeamID          string
	UserID          string
	Name            string
	Email           string
	Phone           string
	Birthdate       string
	Gender          string
	Address         *Address
	InstagramHandle string
	FacebookHandle  string
	TikTokHandle    string
	YouTubeChannel  string
	ProfilePhotoID  string
	State           RosterState
	RosterUserID    string
}

// NewRoster creates a roster member in the [RosterProspect] state.
func NewRoster(sequence int, teamID, userID, name string) *Roster {
	return &Roster{
		record: newRecord(sequence),
		TeamID: teamID,
		UserID: userID,
		Name:   name,
		State:  RosterProspect,
	}
}

// City returns the address city, or "" without an address.
func (r *Roster) City() string {
	if r.Address == nil {
		return ""
	}
	return r.Address.City
}

func (r *Roster) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.TeamID == "" {
		return errors.New("team ID is required")
	}
	if r.UserID == "" {
		return errors.New("user ID is required")
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		return errors.New("email must contain @")
	}
	if r.Birthdate != "" {
		if _, err := time.Parse(time.DateOnly, r.Birthdate); err != nil {
			return errors.New("birthdate must be YYYY-MM-DD")
		}
	}
	switch r.State {
	case RosterProspect, RosterInvited, RosterActive:
	default:
		return errors.New("invalid roster state: " + string(r.State))
	}
	return nil
}
