package episode

import (
	"gridgym/internal/domain/engine"
	"gridgym/internal/domain/envs"
	"gridgym/internal/domain/pov"
)

type CreateRequest struct {
	Env     string       `json:"env"`
	POV     string       `json:"pov"`
	Seed    *uint64      `json:"seed,omitempty"`
	Options envs.Options `json:"options"`
}

type CreateResponse struct {
	EpisodeID        string               `json:"episode_id"`
	Env              string               `json:"env"`
	POV              string               `json:"pov"`
	Run              int                  `json:"run"`
	ActionSpace      pov.ActionSpace      `json:"action_space"`
	ObservationSpace pov.ObservationSpace `json:"observation_space"`
	Metadata         engine.Metadata      `json:"metadata"`
	Observation      pov.Observation      `json:"observation"`
	Info             engine.Info          `json:"info"`
}

type ResetRequest struct {
	EpisodeID string  `json:"episode_id"`
	Seed      *uint64 `json:"seed,omitempty"`
}

type ResetResponse struct {
	EpisodeID   string          `json:"episode_id"`
	Run         int             `json:"run"`
	Observation pov.Observation `json:"observation"`
	Info        engine.Info     `json:"info"`
}

type StepRequest struct {
	EpisodeID string `json:"episode_id"`
	Action    int    `json:"action"`
}

type StepResponse struct {
	EpisodeID string            `json:"episode_id"`
	Run       int               `json:"run"`
	Return    float64           `json:"return"`
	Result    engine.StepResult `json:"result"`
}
