package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"holdembench/internal/agents"
	"holdembench/internal/engine"
)

// HandCmd plays a single hand and streams its event transcript to stdout.
type HandCmd struct {
	Lineup     []string `kong:"default='tag,station',help='Baseline agents, one per seat (2 or 6)'"`
	Seed       int64    `kong:"default='1',help='Series seed'"`
	HandIndex  int      `kong:"name='hand-index',default='0',help='Hand index within the seed'"`
	Replica    int      `kong:"default='0',help='Replica id'"`
	Button     int      `kong:"default='0',help='Button seat'"`
	SmallBlind int      `kong:"default='50',help='Small blind'"`
	BigBlind   int      `kong:"default='100',help='Big blind'"`
	StacksBB   int      `kong:"name='stacks-bb',default='100',help='Starting stack in big blinds'"`
	Ante       int      `kong:"default='0',help='Ante'"`
	AgentSeed  int64    `kong:"name='agent-seed',default='7',help='Seed for agents with their own randomness'"`
}

// stdoutSink prints one JSON event per line.
type stdoutSink struct {
	enc *json.Encoder
}

func (s *stdoutSink) Log(eventType string, payload map[string]any) {
	s.enc.Encode(map[string]any{"type": eventType, "payload": payload})
}

func (c *HandCmd) Run(cli *CLI) error {
	logger := setupLogger(cli.Debug)

	if n := len(c.Lineup); n != 2 && n != 6 {
		return fmt.Errorf("lineup must have 2 or 6 agents, got %d", n)
	}

	eng, err := engine.New(engine.TableConfig{
		TableID:         "adhoc",
		SeatCount:       len(c.Lineup),
		SmallBlind:      c.SmallBlind,
		BigBlind:        c.BigBlind,
		Ante:            c.Ante,
		StartingStack:   c.StacksBB * c.BigBlind,
		Timebank:        60 * time.Second,
		AutoTopUp:       true,
		RunOutWhenAllIn: true,
	},
		engine.WithSink(&stdoutSink{enc: json.NewEncoder(os.Stdout)}),
		engine.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	seats := make(map[int]*engine.SeatState, len(c.Lineup))
	seatAgents := make(map[int]engine.Agent, len(c.Lineup))
	for seat, name := range c.Lineup {
		a, err := agents.New(name, c.AgentSeed+int64(seat))
		if err != nil {
			return err
		}
		seatAgents[seat] = a
		seats[seat] = engine.NewSeatState(seat, fmt.Sprintf("%s@%d", a.Name(), seat), c.StacksBB*c.BigBlind)
	}

	deltas, err := eng.PlayHand(engine.HandParams{
		Seed:       c.Seed,
		HandIndex:  c.HandIndex,
		ReplicaID:  c.Replica,
		ButtonSeat: c.Button,
		Seats:      seats,
		Agents:     seatAgents,
	})
	if err != nil {
		return err
	}

	for seat := 0; seat < len(c.Lineup); seat++ {
		fmt.Fprintf(os.Stderr, "seat %d (%s): %+d\n", seat, seats[seat].Name, deltas[seat])
	}
	return nil
}
