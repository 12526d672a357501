// Package main prints a fresh PORTFOLIO_AUTH_SECRET value.
package main

import (
	"flag"
	"os"

	"github.com/mnasrulloh/portfolio/internal/platform/config"
	"github.com/mnasrulloh/portfolio/internal/tools/hmackey"
)

func main() {
	cfg, err := hmackey.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := hmackey.Run(cfg, os.Stdout, nil); err != nil {
		config.Exitf("generate key: %v", err)
	}
}
