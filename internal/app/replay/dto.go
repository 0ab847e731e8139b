package replay

import "gridgym/internal/app/ports"

// Request selects the recorded steps of one run. Run 0 selects the latest
// run. FromStep and ToStep are inclusive step indexes; 0 leaves the bound open.
type Request struct {
	EpisodeID string
	Run       int
	FromStep  int
	ToStep    int
	Limit     int
}

type Summary struct {
	EpisodeID string  `json:"episode_id"`
	Run       int     `json:"run"`
	Steps     int     `json:"steps"`
	Return    float64 `json:"return"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Facing    int     `json:"facing"`
	HeldKey   *int    `json:"held_key,omitempty"`
	Harmed    int     `json:"harmed"`
	Outcome   string  `json:"outcome"`
}

type Response struct {
	Steps   []ports.StepRecord
	Summary Summary
}
