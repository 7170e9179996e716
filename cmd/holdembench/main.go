package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging"`

	Run  RunCmd  `cmd:"" help:"Run a benchmark series from an HCL config"`
	Hand HandCmd `cmd:"" help:"Play one deterministic hand between baselines"`
}

func setupLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdembench"),
		kong.Description("Deterministic no-limit hold'em benchmark for decision agents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
