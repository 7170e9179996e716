// Package metrics aggregates per-hand results and event-stream behavior
// into per-player benchmark summaries.
package metrics

// HandRecord is one player's result for one hand.
type HandRecord struct {
	Player         string `json:"player"`
	Opponent       string `json:"opponent"`
	Mode           string `json:"mode"`
	Seed           int64  `json:"seed"`
	HandIndex      int    `json:"hand_index"`
	ReplicaID      int    `json:"replica_id"`
	Seat           int    `json:"seat"`
	Position       string `json:"position"`
	Delta          int    `json:"delta"`
	Timeouts       int    `json:"timeouts"`
	IllegalActions int    `json:"illegal_actions"`
	LogPath        string `json:"log_path"`
}
