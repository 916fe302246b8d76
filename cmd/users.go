package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/repositories"
	"github.com/desertthunder/rosterx/internal/shared"
)

// UsersCreate creates a user. With --team the user is also granted --role on that team.
func (r *Runner) UsersCreate(ctx context.Context, cmd *cli.Command) error {
	a, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	level := models.RoleLevel(cmd.String("role"))
	teamID := cmd.String("team")
	if teamID != "" && !level.Valid() {
		return fmt.Errorf("%w: unknown role %q", shared.ErrInvalidFlag, level)
	}

	user := models.NewUser(0, cmd.String("email"), cmd.String("name"))
	if teamID != "" {
		user.SetState(models.UserActive)
	}
	if err := repositories.NewUserRepository(a.db).Create(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	r.logger.Info("created user", "user_id", user.ID(), "email", user.Email())

	if teamID != "" {
		role := models.NewRole(user.ID(), teamID, level)
		if err := repositories.NewRoleRepository(a.db).Upsert(role); err != nil {
			return fmt.Errorf("failed to grant role: %w", err)
		}
		r.writePlain("✓ Created %s (%s) as %s of %s\n", user.Name(), user.ID(), level, teamID)
		return nil
	}

	r.writePlain("✓ Created %s (%s)\n", user.Name(), user.ID())
	return nil
}

// UsersList prints every user that has not been deleted.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	a, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	users, err := repositories.NewUserRepository(a.db).List(nil)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]map[string]any, len(users))
		for i, u := range users {
			out[i] = map[string]any{"id": u.ID(), "email": u.Email(), "name": u.Name(), "state": u.State()}
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Users (%d)", len(users)))
	for _, u := range users {
		r.writePlain("%s  %-30s %s [%s]\n", u.ID(), u.Email(), u.Name(), u.State())
	}
	return nil
}
