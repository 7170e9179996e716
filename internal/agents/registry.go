// Package agents provides the baseline decision-makers bundled with the
// benchmark and a registry resolving them by name.
package agents

import (
	"fmt"

	"holdembench/internal/engine"
)

// Names lists the registered baseline identifiers.
func Names() []string {
	return []string{"random", "station", "tag"}
}

// New resolves a baseline by name. The seed only affects agents that carry
// their own randomness.
func New(name string, seed int64) (engine.Agent, error) {
	switch name {
	case "random":
		return NewRandom(seed), nil
	case "station":
		return NewStation(), nil
	case "tag":
		return NewTAG(), nil
	default:
		return nil, fmt.Errorf("unknown baseline agent %q", name)
	}
}
