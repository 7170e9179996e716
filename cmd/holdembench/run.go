package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"holdembench/internal/runner"
)

// RunCmd executes a full benchmark series.
type RunCmd struct {
	Config string `kong:"required,type='existingfile',help='Series config file (HCL)'"`
	Output string `kong:"default='bench-out',help='Directory for transcripts and metrics'"`
}

func (c *RunCmd) Run(cli *CLI) error {
	logger := setupLogger(cli.Debug)

	cfg, err := runner.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := runner.New(cfg, c.Output, logger).Run(ctx)
	if err != nil {
		return err
	}

	players := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		players = append(players, name)
	}
	sort.Strings(players)

	fmt.Printf("run %s: %d hand records\n", result.RunID, len(result.Records))
	for _, name := range players {
		m := result.Metrics[name]
		fmt.Printf("  %-12s hands=%-6d bb/100=%+.2f ci=[%+.2f, %+.2f] points=%+d timeouts=%d illegal=%d\n",
			name, m.Hands, m.BBPer100, m.BBPer100CI[0], m.BBPer100CI[1],
			m.MatchPoints, m.Timeouts.Count, m.IllegalActions.Count)
	}
	fmt.Printf("metrics: %s\n", result.MetricsPath)
	return nil
}
