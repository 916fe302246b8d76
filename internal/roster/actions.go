package roster

import "github.com/desertthunder/rosterx/internal/models"

// ActionKey identifies a roster action.
type ActionKey string

const (
	ActionCreate       ActionKey = "create"
	ActionUpdate       ActionKey = "update"
	ActionDelete       ActionKey = "delete"
	ActionInviteMember ActionKey = "invite_member"
)

// Action describes an operation a client may offer for a roster member.
type Action struct {
	Key                 ActionKey `json:"key"`
	Label               string    `json:"label"`
	Icon                string    `json:"icon"`
	Priority            int       `json:"priority"`
	BulkAllowed         bool      `json:"bulk_allowed"`
	ConfirmationMessage string    `json:"confirmation_message,omitempty"`
	RedirectToParent    bool      `json:"redirect_to_parent,omitempty"`
}

var (
	deleteAction = Action{
		Key: ActionDelete, Label: "Delete", Icon: "trash", Priority: 0, BulkAllowed: true,
		ConfirmationMessage: "Are you sure you want to delete this roster member?",
		RedirectToParent:    true,
	}
	updateAction = Action{Key: ActionUpdate, Label: "Edit", Icon: "edit", Priority: 50, BulkAllowed: true}
	inviteAction = Action{Key: ActionInviteMember, Label: "Invite to Portal", Icon: "send", Priority: 75}

	// CreateAction is the top-level action for adding a roster member.
	CreateAction = Action{Key: ActionCreate, Label: "Create Roster Member", Icon: "add", Priority: 1}
)

// CanInvite reports whether a portal invitation may be sent: the member has an email,
// no linked account, and is not deleted.
func CanInvite(member *models.Roster) bool {
	if member == nil || member.IsDeleted() {
		return false
	}
	return member.Email != "" && member.RosterUserID == ""
}

// AvailableActions lists the actions offered for member, highest priority first.
func AvailableActions(member *models.Roster) []Action {
	if member == nil || member.IsDeleted() {
		return nil
	}

	actions := []Action{}
	if CanInvite(member) {
		actions = append(actions, inviteAction)
	}
	return append(actions, updateAction, deleteAction)
}
