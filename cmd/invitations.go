package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/rosterx/internal/shared"
)

// InvitationsAccept redeems a token, creating the invitee's account when needed.
func (r *Runner) InvitationsAccept(ctx context.Context, cmd *cli.Command) error {
	token := strings.TrimSpace(cmd.StringArg("token"))
	if token == "" {
		return fmt.Errorf("%w: invitation token", shared.ErrMissingArgument)
	}

	a, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	acceptance, err := a.invitations.Accept(ctx, token)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"user_id":      acceptance.User.ID(),
			"email":        acceptance.User.Email(),
			"team_id":      acceptance.Invitation.TeamID,
			"role":         acceptance.Role.Level,
			"created_user": acceptance.CreatedUser,
			"redirect_url": acceptance.RedirectURL,
		}, cmd.Bool("pretty"))
	}

	r.writePlain("✓ %s joined %s as %s\n", acceptance.User.Email(), acceptance.Invitation.TeamID, acceptance.Role.Level)
	if acceptance.CreatedUser {
		r.writePlain("  New account: %s\n", acceptance.User.ID())
	}
	return nil
}
