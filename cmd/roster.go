package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/rosterx/internal/formatter"
	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/roster"
	"github.com/desertthunder/rosterx/internal/shared"
)

// session opens the service graph and resolves the acting user for a roster command.
func (r *Runner) session(ctx context.Context, cmd *cli.Command) (*app, roster.Actor, error) {
	a, err := r.open(cmd)
	if err != nil {
		return nil, roster.Actor{}, err
	}

	actor, err := r.actor(ctx, cmd, a)
	if err != nil {
		a.close()
		return nil, roster.Actor{}, err
	}
	return a, actor, nil
}

func rosterID(cmd *cli.Command) (string, error) {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return "", fmt.Errorf("%w: roster member id", shared.ErrMissingArgument)
	}
	return id, nil
}

// RosterList prints the team's roster cards.
func (r *Runner) RosterList(ctx context.Context, cmd *cli.Command) error {
	a, actor, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	cards, err := a.roster.Cards(ctx, actor, roster.Query{
		Search: cmd.String("search"),
		State:  cmd.String("state"),
		Limit:  int(cmd.Int("limit")),
		Offset: int(cmd.Int("offset")),
	})
	if err != nil {
		return fmt.Errorf("failed to list roster: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(cards.Records, cmd.Bool("pretty"))
	}

	text, err := formatter.ExportToText(&formatter.CardExport{Name: "Roster", Records: cards.Records})
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

// RosterCreate adds a member to the acting user's team.
func (r *Runner) RosterCreate(ctx context.Context, cmd *cli.Command) error {
	a, actor, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	in := roster.CreateInput{
		Name:            cmd.String("name"),
		Email:           cmd.String("email"),
		Phone:           cmd.String("phone"),
		Birthdate:       cmd.String("birthdate"),
		Gender:          cmd.String("gender"),
		InstagramHandle: cmd.String("instagram"),
		FacebookHandle:  cmd.String("facebook"),
		TikTokHandle:    cmd.String("tiktok"),
		YouTubeChannel:  cmd.String("youtube"),
		ProfilePhotoID:  cmd.String("photo"),
	}
	if addr := addressFlags(cmd); !addr.IsZero() {
		in.Address = &addr
	}

	result, err := a.roster.Create(ctx, actor, in)
	if err != nil {
		return err
	}

	r.writePlain("✓ %s: %s\n", result.Message, result.CreatedID)
	return nil
}

// RosterShow prints a member with its derived city, age and available actions.
func (r *Runner) RosterShow(ctx context.Context, cmd *cli.Command) error {
	id, err := rosterID(cmd)
	if err != nil {
		return err
	}

	a, actor, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	view, err := a.roster.Detail(ctx, actor, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, cmd.Bool("pretty"))
	}

	r.writePlainHeader(view.Name)
	field := func(label, value string) {
		if value != "" {
			r.writePlain("%-12s %s\n", label+":", value)
		}
	}
	field("ID", view.ID)
	field("State", view.State)
	field("Email", view.Email)
	field("Phone", shared.FormatPhoneNumber(view.Phone))
	field("Gender", view.Gender)
	if view.Age != nil {
		field("Age", fmt.Sprint(*view.Age))
	}
	field("City", view.City)
	field("Instagram", view.InstagramHandle)
	field("Facebook", view.FacebookHandle)
	field("TikTok", view.TikTokHandle)
	field("YouTube", view.YouTubeChannel)

	labels := make([]string, len(view.Actions))
	for i, action := range view.Actions {
		labels[i] = action.Label
	}
	r.writePlainln("Actions: %s", strings.Join(labels, ", "))
	return nil
}

// RosterUpdate applies the flags that were explicitly set.
func (r *Runner) RosterUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := rosterID(cmd)
	if err != nil {
		return err
	}

	in := roster.UpdateInput{
		Name:            optionalFlag(cmd, "name"),
		Email:           optionalFlag(cmd, "email"),
		Phone:           optionalFlag(cmd, "phone"),
		Birthdate:       optionalFlag(cmd, "birthdate"),
		Gender:          optionalFlag(cmd, "gender"),
		InstagramHandle: optionalFlag(cmd, "instagram"),
		FacebookHandle:  optionalFlag(cmd, "facebook"),
		TikTokHandle:    optionalFlag(cmd, "tiktok"),
		YouTubeChannel:  optionalFlag(cmd, "youtube"),
		ProfilePhotoID:  optionalFlag(cmd, "photo"),
	}
	if addr := addressFlags(cmd); !addr.IsZero() {
		in.Address = &addr
	}
	if in.IsZero() {
		return fmt.Errorf("%w: no fields to update", shared.ErrMissingArgument)
	}

	a, actor, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	view, err := a.roster.Update(ctx, actor, id, in)
	if err != nil {
		return err
	}

	r.writePlain("✓ Updated %s\n", view.Name)
	return nil
}

// RosterDelete soft-deletes a member.
func (r *Runner) RosterDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := rosterID(cmd)
	if err != nil {
		return err
	}

	a, actor, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.roster.Delete(ctx, actor, id)
	if err != nil {
		return err
	}

	r.writePlain("✓ %s\n", result.Message)
	return nil
}

// RosterInvite emails a portal invitation to a member.
func (r *Runner) RosterInvite(ctx context.Context, cmd *cli.Command) error {
	id, err := rosterID(cmd)
	if err != nil {
		return err
	}

	a, actor, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.roster.InviteMember(ctx, actor, id)
	if err != nil {
		return err
	}

	r.writePlain("✓ %s\n", result.Message)
	return nil
}

// RosterExport writes the team's cards in the requested format.
func (r *Runner) RosterExport(ctx context.Context, cmd *cli.Command) error {
	a, actor, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	cards, err := a.roster.Cards(ctx, actor, roster.Query{Search: cmd.String("search"), State: cmd.String("state")})
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	export := &formatter.CardExport{Name: cmd.String("name"), Records: cards.Records}
	output := cmd.String("output")

	var path string
	switch format := strings.ToLower(cmd.String("format")); format {
	case "csv":
		path, err = formatter.WriteCSVExport(export, output)
	case "txt", "text":
		path, err = formatter.WriteTextExport(export, output)
	case "json":
		path, err = formatter.WriteJSONExport(export, output)
	case "md", "markdown":
		var result *formatter.MarkdownExportResult
		if result, err = formatter.WriteMarkdownExport(export, output, cmd.Bool("photos")); err == nil {
			path = result.Directory
			r.logger.Info("markdown export written", "files", len(result.Files), "photos", len(result.Photos))
		}
	default:
		return fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d roster members to %s\n", len(export.Records), path)
	return nil
}

// optionalFlag returns a pointer to the flag value only when the flag was given.
func optionalFlag(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.String(name)
	return &v
}

func addressFlags(cmd *cli.Command) models.Address {
	return models.Address{
		Address1: cmd.String("address1"),
		Address2: cmd.String("address2"),
		City:     cmd.String("city"),
		State:    cmd.String("region"),
		Zip:      cmd.String("zip"),
		Country:  cmd.String("country"),
	}
}
