package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/fwojciec/workflow/fs"
	whttp "github.com/fwojciec/workflow/http"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web interface",
		Long: `Serve the task board, the task chats and the agent chats over HTTP.

AI-backed endpoints are rate limited by serve.rate_limit and serve.burst.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Serve.Addr
			}
			return a.serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default serve.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context, addr string) error {
	db, items, histories, err := a.stores()
	if err != nil {
		return err
	}
	defer db.Close()

	client, err := a.client(ctx)
	if err != nil {
		return err
	}
	agents, err := fs.NewAgents(a.cfg.Agents.Dir, a.cfg.Agents.Pattern, a.logger)
	if err != nil {
		return err
	}

	srv, err := whttp.New(whttp.Config{
		Items:     items,
		Histories: histories,
		Runner:    a.runner(client, histories),
		Agents:    agents,
		Suggester: client,
		Images:    client,
		Speaker:   a.speaker(),
		Logger:    a.logger,
		RateLimit: a.cfg.Serve.RateLimit,
		Burst:     a.cfg.Serve.Burst,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
