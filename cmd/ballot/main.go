// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command ballot is a terminal client for casting a ranked-choice ballot.
//
//	ballot -api http://localhost:5000 -session <aspc_session cookie>
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aspc/vote/cliparse"
	"github.com/aspc/vote/voteclient"
	"github.com/aspc/vote/votesession"
)

func main() {
	cfg, err := cliparse.ParseClientFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := voteclient.New(cfg.APIURL, cfg.Session, nil)
	session := votesession.Load(ctx, client, votesession.Options{})

	sh := newShell(session, os.Stdin, os.Stdout)
	if err := sh.run(ctx); err != nil {
		slog.Error("ballot client stopped", "error", err)
		os.Exit(1)
	}
}
