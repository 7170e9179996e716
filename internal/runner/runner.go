// Package runner schedules benchmark series: it assigns lineups to seats,
// replays seeded decks across replicas, and persists transcripts and
// aggregated metrics.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"holdembench/internal/agents"
	"holdembench/internal/engine"
	"holdembench/internal/metrics"
	"holdembench/internal/sink"
	"holdembench/poker"
)

// Runner executes one series described by a SeriesConfig.
type Runner struct {
	cfg       *SeriesConfig
	outputDir string
	logger    *log.Logger
	clock     quartz.Clock
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the clock handed to the engines.
func WithClock(clock quartz.Clock) Option {
	return func(r *Runner) { r.clock = clock }
}

// New builds a runner writing artifacts under outputDir.
func New(cfg *SeriesConfig, outputDir string, logger *log.Logger, opts ...Option) *Runner {
	r := &Runner{cfg: cfg, outputDir: outputDir, logger: logger, clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result holds everything a finished series produced.
type Result struct {
	RunID       string
	Records     []metrics.HandRecord
	LogPaths    []string
	Metrics     map[string]metrics.PlayerMetrics
	MetricsPath string
	PerHandPath string
}

// Run plays the whole series. Seeds are independent and run concurrently;
// within a seed, replicas and hands run in order so transcripts stay
// deterministic.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	r.logger.Info("starting series", "run_id", runID, "mode", r.cfg.Mode, "seeds", len(r.cfg.Seeds))

	tracker := metrics.NewTracker()
	perSeedRecords := make([][]metrics.HandRecord, len(r.cfg.Seeds))
	perSeedLogs := make([][]string, len(r.cfg.Seeds))

	g, ctx := errgroup.WithContext(ctx)
	for i, seed := range r.cfg.Seeds {
		g.Go(func() error {
			records, logs, err := r.runSeed(ctx, seed, tracker)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			perSeedRecords[i] = records
			perSeedLogs[i] = logs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []metrics.HandRecord
	var logPaths []string
	for i := range perSeedRecords {
		records = append(records, perSeedRecords[i]...)
		logPaths = append(logPaths, perSeedLogs[i]...)
	}

	aggregated := metrics.Aggregate(records, tracker.Snapshot(), r.cfg.BigBlind)
	perHandPath, metricsPath, err := r.writeArtifacts(records, aggregated)
	if err != nil {
		return nil, err
	}

	r.logger.Info("series finished", "run_id", runID, "hands", len(records))
	return &Result{
		RunID:       runID,
		Records:     records,
		LogPaths:    logPaths,
		Metrics:     aggregated,
		MetricsPath: metricsPath,
		PerHandPath: perHandPath,
	}, nil
}

func (r *Runner) runSeed(ctx context.Context, seed int64, tracker *metrics.Tracker) ([]metrics.HandRecord, []string, error) {
	if r.cfg.Mode == "hu" {
		return r.runSeedHU(ctx, seed, tracker)
	}
	return r.runSeedSixMax(ctx, seed, tracker)
}

func (r *Runner) tableConfig() engine.TableConfig {
	return engine.TableConfig{
		TableID:         fmt.Sprintf("bench-%s", r.cfg.Mode),
		SeatCount:       r.cfg.SeatCount(),
		SmallBlind:      r.cfg.SmallBlind,
		BigBlind:        r.cfg.BigBlind,
		Ante:            r.cfg.Ante,
		StartingStack:   r.cfg.StartingStack(),
		Timebank:        time.Duration(r.cfg.TimebankMS) * time.Millisecond,
		AutoTopUp:       true,
		RunOutWhenAllIn: true,
	}
}

// lineupNames disambiguates display names when the same baseline appears
// more than once in a lineup.
func lineupNames(lineup []engine.Agent) []string {
	counts := make(map[string]int, len(lineup))
	for _, a := range lineup {
		counts[a.Name()]++
	}
	seen := make(map[string]int, len(lineup))
	names := make([]string, len(lineup))
	for i, a := range lineup {
		name := a.Name()
		if counts[name] > 1 {
			seen[name]++
			name = fmt.Sprintf("%s-%d", name, seen[name])
		}
		names[i] = name
	}
	return names
}

// seatPositions labels every seat relative to the button.
func seatPositions(seatCount, buttonSeat int) map[int]string {
	if seatCount == 2 {
		return map[int]string{
			buttonSeat:               "SB",
			seatAfter(buttonSeat, 2): "BB",
		}
	}
	labels := []string{"BTN", "SB", "BB", "UTG", "HJ", "CO"}
	positions := make(map[int]string, seatCount)
	seat := buttonSeat
	for _, label := range labels[:seatCount] {
		positions[seat] = label
		seat = seatAfter(seat, seatCount)
	}
	return positions
}

func seatAfter(seat, seatCount int) int {
	return (seat + 1) % seatCount
}

// runSeedHU plays every replica of one heads-up seed. The deck stream is
// derived with replica 0 so both replicas replay the same cards; the two
// players swap seats between replicas and the button stays on seat 0.
func (r *Runner) runSeedHU(ctx context.Context, seed int64, tracker *metrics.Tracker) ([]metrics.HandRecord, []string, error) {
	var records []metrics.HandRecord
	var logPaths []string

	for replica := 0; replica < r.cfg.Replicas; replica++ {
		lineup := make([]engine.Agent, len(r.cfg.Lineup))
		for i, name := range r.cfg.Lineup {
			a, err := agents.New(name, seed+int64(replica))
			if err != nil {
				return nil, nil, err
			}
			lineup[i] = a
		}
		names := lineupNames(lineup)

		seatOf := []int{0, 1}
		if replica%2 == 1 {
			seatOf = []int{1, 0}
		}
		seatAgents := make(map[int]engine.Agent, 2)
		seats := make(map[int]*engine.SeatState, 2)
		for i, a := range lineup {
			seat := seatOf[i]
			seatAgents[seat] = a
			seats[seat] = engine.NewSeatState(seat, names[i], r.cfg.StartingStack())
		}

		logPath := filepath.Join(r.outputDir, "logs", "hu", fmt.Sprintf("seed%d_rep%d.ndjson", seed, replica))
		recs, err := r.playReplica(ctx, replicaParams{
			seed:      seed,
			replica:   replica,
			hands:     r.cfg.HandsPerSeed,
			seats:     seats,
			agents:    seatAgents,
			logPath:   logPath,
			tracker:   tracker,
			buttonFor: func(handIndex int) int { return 0 },
			opponentFor: func(seat int) string {
				other := seats[seatAfter(seat, 2)]
				return other.Name
			},
		})
		if err != nil {
			return nil, nil, err
		}
		records = append(records, recs...)
		logPaths = append(logPaths, logPath)
	}
	return records, logPaths, nil
}

// runSeedSixMax rotates the six-handed lineup one seat per replica; the
// button moves every hand so positions cycle within a replica too.
func (r *Runner) runSeedSixMax(ctx context.Context, seed int64, tracker *metrics.Tracker) ([]metrics.HandRecord, []string, error) {
	var records []metrics.HandRecord
	var logPaths []string

	for replica := 0; replica < r.cfg.SeatReplicas; replica++ {
		rotated := rotate(r.cfg.Lineup, replica)
		lineup := make([]engine.Agent, len(rotated))
		for i, name := range rotated {
			a, err := agents.New(name, seed+int64(replica))
			if err != nil {
				return nil, nil, err
			}
			lineup[i] = a
		}
		names := lineupNames(lineup)

		seatAgents := make(map[int]engine.Agent, len(lineup))
		seats := make(map[int]*engine.SeatState, len(lineup))
		for seat, a := range lineup {
			seatAgents[seat] = a
			seats[seat] = engine.NewSeatState(seat, names[seat], r.cfg.StartingStack())
		}

		logPath := filepath.Join(r.outputDir, "logs", "sixmax", fmt.Sprintf("seed%d_rep%d.ndjson", seed, replica))
		recs, err := r.playReplica(ctx, replicaParams{
			seed:    seed,
			replica: replica,
			hands:   r.cfg.HandsPerReplica,
			seats:   seats,
			agents:  seatAgents,
			logPath: logPath,
			tracker: tracker,
			buttonFor: func(handIndex int) int {
				return int((seed + int64(handIndex)) % int64(r.cfg.SeatCount()))
			},
			opponentFor: func(seat int) string { return "table" },
		})
		if err != nil {
			return nil, nil, err
		}
		records = append(records, recs...)
		logPaths = append(logPaths, logPath)
	}
	return records, logPaths, nil
}

func rotate(names []string, shift int) []string {
	n := len(names)
	shift = shift % n
	out := make([]string, 0, n)
	out = append(out, names[n-shift:]...)
	out = append(out, names[:n-shift]...)
	return out
}

type replicaParams struct {
	seed        int64
	replica     int
	hands       int
	seats       map[int]*engine.SeatState
	agents      map[int]engine.Agent
	logPath     string
	tracker     *metrics.Tracker
	buttonFor   func(handIndex int) int
	opponentFor func(seat int) string
}

// playReplica runs the hands of one replica against a fresh engine and log
// file, recording per-seat deltas and penalty increments.
func (r *Runner) playReplica(ctx context.Context, p replicaParams) ([]metrics.HandRecord, error) {
	nd, err := sink.NewNDJSON(p.logPath, r.logger)
	if err != nil {
		return nil, err
	}
	defer nd.Close()

	eng, err := engine.New(r.tableConfig(),
		engine.WithSink(sink.NewMulti(nd, p.tracker)),
		engine.WithLogger(r.logger),
		engine.WithClock(r.clock),
	)
	if err != nil {
		return nil, err
	}

	seatIDs := make([]int, 0, len(p.seats))
	for seat := range p.seats {
		seatIDs = append(seatIDs, seat)
	}
	sort.Ints(seatIDs)

	var records []metrics.HandRecord
	for handIndex := 0; handIndex < p.hands; handIndex++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		button := p.buttonFor(handIndex)
		positions := seatPositions(r.cfg.SeatCount(), button)

		prevTimeouts := make(map[int]int, len(p.seats))
		prevIllegal := make(map[int]int, len(p.seats))
		for seat, s := range p.seats {
			prevTimeouts[seat] = s.Timeouts
			prevIllegal[seat] = s.IllegalActions
		}

		deltas, err := eng.PlayHand(engine.HandParams{
			Seed:       p.seed,
			HandIndex:  handIndex,
			ReplicaID:  p.replica,
			ButtonSeat: button,
			Seats:      p.seats,
			Agents:     p.agents,
			Deck:       poker.ShuffledDeck(p.seed, handIndex, 0),
		})
		if err != nil {
			return nil, fmt.Errorf("hand %s: %w", engine.HandID(p.seed, handIndex, p.replica), err)
		}

		for _, seat := range seatIDs {
			s := p.seats[seat]
			records = append(records, metrics.HandRecord{
				Player:         s.Name,
				Opponent:       p.opponentFor(seat),
				Mode:           r.cfg.Mode,
				Seed:           p.seed,
				HandIndex:      handIndex,
				ReplicaID:      p.replica,
				Seat:           seat,
				Position:       positions[seat],
				Delta:          deltas[seat],
				Timeouts:       s.Timeouts - prevTimeouts[seat],
				IllegalActions: s.IllegalActions - prevIllegal[seat],
				LogPath:        p.logPath,
			})
		}
	}
	return records, nil
}

// writeArtifacts persists the per-hand records as NDJSON and the aggregated
// metrics as indented JSON under the output directory.
func (r *Runner) writeArtifacts(records []metrics.HandRecord, aggregated map[string]metrics.PlayerMetrics) (string, string, error) {
	dir := filepath.Join(r.outputDir, "metrics")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create metrics dir: %w", err)
	}

	perHandPath := filepath.Join(dir, "per_hand_metrics.ndjson")
	f, err := os.Create(perHandPath)
	if err != nil {
		return "", "", fmt.Errorf("create per-hand metrics: %w", err)
	}
	enc := json.NewEncoder(f)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			f.Close()
			return "", "", fmt.Errorf("encode hand record: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return "", "", err
	}

	metricsPath := filepath.Join(dir, "metrics.json")
	data, err := json.MarshalIndent(aggregated, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode metrics: %w", err)
	}
	if err := os.WriteFile(metricsPath, append(data, '\n'), 0o644); err != nil {
		return "", "", fmt.Errorf("write metrics: %w", err)
	}
	return perHandPath, metricsPath, nil
}
