package main

import (
	"context"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/rosterx/internal/server"
	"github.com/desertthunder/rosterx/internal/shared"
)

// Serve runs the HTTP API until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	a, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	addr := cmd.String("addr")
	if addr == "" {
		addr = a.config.Server.Addr()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(a.roster, a.invitations, a.config, r.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server.Serve(ctx, srv, shared.WithLogger(r.logger, "component", "server"))
}
