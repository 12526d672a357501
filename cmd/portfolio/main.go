// Package main starts the portfolio content service.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	portfoliocmd "github.com/mnasrulloh/portfolio/internal/cmd/portfolio"
	entrypoint "github.com/mnasrulloh/portfolio/internal/platform/cmd"
	"github.com/mnasrulloh/portfolio/internal/platform/config"
)

func main() {
	cfg, err := portfoliocmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServicePortfolio))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := portfoliocmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
