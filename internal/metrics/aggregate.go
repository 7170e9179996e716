package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Counter pairs a raw count with its per-hand rate.
type Counter struct {
	Count   int     `json:"count"`
	PerHand float64 `json:"per_hand"`
}

// Rate pairs a raw count with a ratio over its denominator.
type Rate struct {
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
}

// BehaviorSummary is the derived frequency profile for one player.
type BehaviorSummary struct {
	VPIP           Rate    `json:"vpip"`
	PFR            Rate    `json:"pfr"`
	AF             float64 `json:"af"`
	WTSD           Rate    `json:"wt_sd"`
	PostflopRaises int     `json:"postflop_raises"`
	PostflopCalls  int     `json:"postflop_calls"`
	DecisionMeanMS float64 `json:"decision_time_ms_mean"`
	DecisionCount  int     `json:"decision_time_samples"`
}

// PlayerMetrics is the aggregated benchmark result for one player.
type PlayerMetrics struct {
	Hands           int             `json:"hands"`
	TotalDeltaChips int             `json:"total_delta_chips"`
	BBPer100        float64         `json:"bb_per_100"`
	BBPer100CI      [2]float64      `json:"bb_per_100_ci"`
	MatchPoints     int             `json:"match_points"`
	Timeouts        Counter         `json:"timeouts"`
	IllegalActions  Counter         `json:"illegal_actions"`
	Behavior        BehaviorSummary `json:"behavior"`
}

// Aggregate folds the hand records and tracked behavior into per-player
// metrics. The confidence interval treats per-seed win rates as independent
// samples; with fewer than two seeds it collapses to the point estimate.
func Aggregate(records []HandRecord, behavior map[string]*Behavior, bigBlind int) map[string]PlayerMetrics {
	grouped := make(map[string][]HandRecord)
	for _, r := range records {
		grouped[r.Player] = append(grouped[r.Player], r)
	}

	out := make(map[string]PlayerMetrics, len(grouped))
	for player, recs := range grouped {
		out[player] = aggregatePlayer(recs, behavior[player], bigBlind)
	}
	return out
}

func aggregatePlayer(recs []HandRecord, b *Behavior, bigBlind int) PlayerMetrics {
	hands := len(recs)
	totalDelta := 0
	timeouts := 0
	illegal := 0
	perSeedDelta := make(map[int64]int)
	perSeedHands := make(map[int64]int)
	for _, r := range recs {
		totalDelta += r.Delta
		timeouts += r.Timeouts
		illegal += r.IllegalActions
		perSeedDelta[r.Seed] += r.Delta
		perSeedHands[r.Seed]++
	}

	bbPer100 := 0.0
	if hands > 0 && bigBlind > 0 {
		bbPer100 = float64(totalDelta) / float64(bigBlind) / float64(hands) * 100
	}

	seeds := make([]int64, 0, len(perSeedDelta))
	for seed := range perSeedDelta {
		seeds = append(seeds, seed)
	}
	sort.Slice(seeds, func(i, j int) bool { return seeds[i] < seeds[j] })
	rates := make([]float64, 0, len(seeds))
	for _, seed := range seeds {
		if n := perSeedHands[seed]; n > 0 && bigBlind > 0 {
			rates = append(rates, float64(perSeedDelta[seed])/float64(bigBlind)/float64(n)*100)
		}
	}

	ci := [2]float64{bbPer100, bbPer100}
	if len(rates) > 1 {
		z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)
		se := stat.StdDev(rates, nil) / math.Sqrt(float64(len(rates)))
		ci[0] = bbPer100 - z*se
		ci[1] = bbPer100 + z*se
	}

	points := 0
	if ci[0] > 0 {
		points = 1
	} else if ci[1] < 0 {
		points = -1
	}

	m := PlayerMetrics{
		Hands:           hands,
		TotalDeltaChips: totalDelta,
		BBPer100:        bbPer100,
		BBPer100CI:      ci,
		MatchPoints:     points,
		Timeouts:        counter(timeouts, hands),
		IllegalActions:  counter(illegal, hands),
	}
	if b != nil {
		m.Behavior = summarize(b)
	}
	return m
}

func counter(count, hands int) Counter {
	c := Counter{Count: count}
	if hands > 0 {
		c.PerHand = float64(count) / float64(hands)
	}
	return c
}

func summarize(b *Behavior) BehaviorSummary {
	s := BehaviorSummary{
		VPIP:           rate(b.VPIP, b.Hands),
		PFR:            rate(b.PFR, b.Hands),
		WTSD:           rate(b.WentShowdown, b.SawFlop),
		PostflopRaises: b.PostflopRaises,
		PostflopCalls:  b.PostflopCalls,
		DecisionCount:  len(b.DecisionTimes),
	}
	if b.PostflopCalls > 0 {
		s.AF = float64(b.PostflopRaises) / float64(b.PostflopCalls)
	} else {
		s.AF = float64(b.PostflopRaises)
	}
	if len(b.DecisionTimes) > 0 {
		s.DecisionMeanMS = stat.Mean(b.DecisionTimes, nil)
	}
	return s
}

func rate(count, denom int) Rate {
	r := Rate{Count: count}
	if denom > 0 {
		r.Rate = float64(count) / float64(denom)
	}
	return r
}
