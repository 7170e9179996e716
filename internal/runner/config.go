package runner

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the top-level HCL document for a benchmark series.
type Config struct {
	Series SeriesConfig `hcl:"series,block"`
}

// SeriesConfig describes one benchmark series: the table stakes, the seeded
// hand schedule, and the lineup of baseline agents.
type SeriesConfig struct {
	// Mode is "hu" (2 seats) or "sixmax" (6 seats).
	Mode string `hcl:"mode"`

	SmallBlind int `hcl:"small_blind"`
	BigBlind   int `hcl:"big_blind"`
	StacksBB   int `hcl:"stacks_bb,optional"`
	Ante       int `hcl:"ante,optional"`

	Seeds []int64 `hcl:"seeds"`

	// HU schedule: every seed plays HandsPerSeed hands per replica; the two
	// replicas swap seats so each player sees the same decks from both
	// positions.
	HandsPerSeed int `hcl:"hands_per_seed,optional"`
	Replicas     int `hcl:"replicas,optional"`

	// 6-max schedule: each seat replica rotates the lineup one seat and
	// plays HandsPerReplica hands with the button moving every hand.
	HandsPerReplica int `hcl:"hands_per_replica,optional"`
	SeatReplicas    int `hcl:"seat_replicas,optional"`

	// Lineup names baseline agents: 2 entries for HU, 6 for sixmax.
	Lineup []string `hcl:"lineup"`

	TimebankMS int `hcl:"timebank_ms,optional"`
}

// SeatCount derives the table size from the mode.
func (c *SeriesConfig) SeatCount() int {
	if c.Mode == "hu" {
		return 2
	}
	return 6
}

// StartingStack converts the big-blind denominated stack to chips.
func (c *SeriesConfig) StartingStack() int {
	return c.StacksBB * c.BigBlind
}

// LoadConfig parses and validates a series config file.
func LoadConfig(path string) (*SeriesConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", path, diags.Error())
	}
	var config Config
	if diags := gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", path, diags.Error())
	}
	series := config.Series
	series.applyDefaults()
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return &series, nil
}

func (c *SeriesConfig) applyDefaults() {
	if c.StacksBB == 0 {
		c.StacksBB = 100
	}
	if c.TimebankMS == 0 {
		c.TimebankMS = 60000
	}
	if c.Mode == "hu" {
		if c.Replicas == 0 {
			c.Replicas = 2
		}
	} else {
		if c.SeatReplicas == 0 {
			c.SeatReplicas = 6
		}
	}
}

// Validate checks mode-specific schedule and lineup requirements.
func (c *SeriesConfig) Validate() error {
	switch c.Mode {
	case "hu":
		if len(c.Lineup) != 2 {
			return fmt.Errorf("hu lineup must contain exactly 2 entries, got %d", len(c.Lineup))
		}
		if c.HandsPerSeed <= 0 {
			return fmt.Errorf("hu series requires hands_per_seed")
		}
	case "sixmax":
		if len(c.Lineup) != 6 {
			return fmt.Errorf("sixmax lineup must contain exactly 6 entries, got %d", len(c.Lineup))
		}
		if c.HandsPerReplica <= 0 {
			return fmt.Errorf("sixmax series requires hands_per_replica")
		}
		if c.SeatReplicas <= 0 {
			return fmt.Errorf("sixmax series requires seat_replicas")
		}
	default:
		return fmt.Errorf("mode must be \"hu\" or \"sixmax\", got %q", c.Mode)
	}
	if c.SmallBlind <= 0 || c.BigBlind <= c.SmallBlind {
		return fmt.Errorf("blinds %d/%d are not ascending positive values", c.SmallBlind, c.BigBlind)
	}
	if c.StacksBB <= 0 {
		return fmt.Errorf("stacks_bb must be positive")
	}
	if len(c.Seeds) == 0 {
		return fmt.Errorf("series requires at least one seed")
	}
	return nil
}
