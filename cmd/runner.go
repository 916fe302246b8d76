package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/rosterx/internal/emails"
	"github.com/desertthunder/rosterx/internal/invitations"
	"github.com/desertthunder/rosterx/internal/objects"
	"github.com/desertthunder/rosterx/internal/repositories"
	"github.com/desertthunder/rosterx/internal/roster"
	"github.com/desertthunder/rosterx/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	db     *sql.DB
	mailer emails.Mailer
	logger *log.Logger
	output io.Writer
	now    func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Config and DB are normally resolved per command from the --config flag; tests inject them.
type RunnerOpts struct {
	Config *shared.Config
	DB     *sql.DB
	Mailer emails.Mailer
	Logger *log.Logger
	Output io.Writer
	Now    func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Runner{
		config: opts.Config,
		db:     opts.DB,
		mailer: opts.Mailer,
		logger: opts.Logger,
		output: opts.Output,
		now:    opts.Now,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, usersCommand, rosterCommand, invitationsCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by later commands.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// loadConfig resolves the configuration once: the injected config, the file named by --config,
// or the embedded defaults when that file does not exist.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	config := shared.DefaultConfig()
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return nil, err
		}
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	shared.SetLogLevel(r.logger, shared.ParseLogLevel(config.Log.Level))
	r.config = config
	return config, nil
}

// database opens the configured database and applies pending migrations.
// The returned func closes connections this call opened.
func (r *Runner) database(config *shared.Config) (*sql.DB, func(), error) {
	if r.db != nil {
		return r.db, func() {}, nil
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, func() { db.Close() }, nil
}

// app is the service graph built for a single command.
type app struct {
	config      *shared.Config
	db          *sql.DB
	roster      *roster.Service
	invitations *invitations.Service
	close       func()
}

func (r *Runner) open(cmd *cli.Command) (*app, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	db, closeDB, err := r.database(config)
	if err != nil {
		return nil, err
	}

	mailer := r.mailer
	if mailer == nil {
		mailer = emails.NewMailer(config.Email, r.logger)
	}

	registry := invitations.DefaultRegistry(repositories.NewRosterRepository(db), r.logger)
	inv := invitations.NewService(db, registry, config, r.logger).WithClock(r.now)
	object := objects.NewRosterObject(config.Media.BaseURL)
	rs := roster.NewService(db, inv, mailer, object, r.logger).WithClock(r.now)

	return &app{config: config, db: db, roster: rs, invitations: inv, close: closeDB}, nil
}

// actor resolves the --user and --team flags against the user's roles.
func (r *Runner) actor(ctx context.Context, cmd *cli.Command, a *app) (roster.Actor, error) {
	userID := cmd.String("user")
	if userID == "" {
		return roster.Actor{}, fmt.Errorf("%w: --user (or ROSTERX_USER) is required", shared.ErrMissingArgument)
	}
	return a.roster.ResolveActor(ctx, userID, cmd.String("team"))
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
