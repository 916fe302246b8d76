// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are inherited by every subcommand.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
			Sources: cli.EnvVars("ROSTERX_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "user",
			Aliases: []string{"u"},
			Usage:   "ID of the acting user",
			Sources: cli.EnvVars("ROSTERX_USER"),
		},
		&cli.StringFlag{
			Name:    "team",
			Aliases: []string{"t"},
			Usage:   "Team to act in (defaults to the user's first team)",
			Sources: cli.EnvVars("ROSTERX_TEAM"),
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// memberFlags are the editable roster member fields shared by create and update.
func memberFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Full name"},
		&cli.StringFlag{Name: "email", Usage: "Email address"},
		&cli.StringFlag{Name: "phone", Usage: "Phone number"},
		&cli.StringFlag{Name: "birthdate", Usage: "Birthdate (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "gender", Usage: "Gender"},
		&cli.StringFlag{Name: "address1", Usage: "Street address"},
		&cli.StringFlag{Name: "address2", Usage: "Apartment, suite, etc."},
		&cli.StringFlag{Name: "city", Usage: "City"},
		&cli.StringFlag{Name: "region", Usage: "Address state or region"},
		&cli.StringFlag{Name: "zip", Usage: "Postal code"},
		&cli.StringFlag{Name: "country", Usage: "Country"},
		&cli.StringFlag{Name: "instagram", Usage: "Instagram handle"},
		&cli.StringFlag{Name: "facebook", Usage: "Facebook handle"},
		&cli.StringFlag{Name: "tiktok", Usage: "TikTok handle"},
		&cli.StringFlag{Name: "youtube", Usage: "YouTube channel"},
		&cli.StringFlag{Name: "photo", Usage: "Profile photo media ID"},
	}
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write the default configuration file",
				Action: r.SetupConfig,
			},
			{
				Name:   "status",
				Usage:  "Show applied and pending migrations",
				Action: r.SetupStatus,
			},
		},
	}
}

// usersCommand manages user accounts.
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage user accounts",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a user, optionally granting a role on a team",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Email address", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Display name", Required: true},
					&cli.StringFlag{Name: "role", Usage: "Role granted on --team", Value: "owner"},
				},
				Action: r.UsersCreate,
			},
			{
				Name:   "list",
				Usage:  "List users",
				Flags:  outputFlags(),
				Action: r.UsersList,
			},
		},
	}
}

// rosterCommand handles roster member operations.
func rosterCommand(r *Runner) *cli.Command {
	idArg := []cli.Argument{&cli.StringArg{Name: "id"}}

	return &cli.Command{
		Name:    "roster",
		Aliases: []string{"r"},
		Usage:   "Roster member operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List roster cards",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Filter by name or email"},
					&cli.StringFlag{Name: "state", Usage: "Filter by state (prospect, invited, active)"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of members to return"},
					&cli.IntFlag{Name: "offset", Usage: "Number of members to skip"},
				}, outputFlags()...),
				Action: r.RosterList,
			},
			{
				Name:   "create",
				Usage:  "Create a roster member",
				Flags:  memberFlags(),
				Action: r.RosterCreate,
			},
			{
				Name:      "show",
				Usage:     "Show a roster member and its available actions",
				Arguments: idArg,
				Flags:     outputFlags(),
				Action:    r.RosterShow,
			},
			{
				Name:      "update",
				Usage:     "Update a roster member; only the given flags change",
				Arguments: idArg,
				Flags:     memberFlags(),
				Action:    r.RosterUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a roster member",
				Arguments: idArg,
				Action:    r.RosterDelete,
			},
			{
				Name:      "invite",
				Usage:     "Send a portal invitation to a roster member",
				Arguments: idArg,
				Action:    r.RosterInvite,
			},
			{
				Name:    "cards",
				Aliases: []string{"export"},
				Usage:   "Export roster cards to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format (csv, markdown, txt, json)", Value: "csv"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file or directory"},
					&cli.StringFlag{Name: "name", Usage: "Export name used for default file names", Value: "roster"},
					&cli.BoolFlag{Name: "photos", Usage: "Download profile photos (markdown only)"},
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Filter by name or email"},
					&cli.StringFlag{Name: "state", Usage: "Filter by state"},
				},
				Action: r.RosterExport,
			},
		},
	}
}

// invitationsCommand handles invitation redemption.
func invitationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "invitations",
		Aliases: []string{"inv"},
		Usage:   "Invitation operations",
		Commands: []*cli.Command{
			{
				Name:      "accept",
				Usage:     "Redeem an invitation token",
				Arguments: []cli.Argument{&cli.StringArg{Name: "token"}},
				Flags:     outputFlags(),
				Action:    r.InvitationsAccept,
			},
		},
	}
}

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the roster HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (defaults to server.host:server.port)"},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive roster browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse the roster interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Filter by name or email"},
			&cli.StringFlag{Name: "state", Usage: "Filter by state"},
		},
		Action: r.TUI,
	}
}
