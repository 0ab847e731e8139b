package engine

import "slices"

// RewardRange bounds the reward of every single step.
type RewardRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r RewardRange) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

type EnvironmentSettings struct {
	// MinSteps is the shortest number of steps that completes the task.
	MinSteps    int         `json:"min_steps"`
	MaxSteps    int         `json:"max_steps"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	RewardRange RewardRange `json:"reward_range"`
	// HarmPenalty is added to the step reward when the agent touches a
	// harmful object.
	HarmPenalty float64 `json:"harm_penalty"`
}

func DefaultEnvironmentSettings() EnvironmentSettings {
	return EnvironmentSettings{
		MinSteps:    1,
		MaxSteps:    50,
		Width:       10,
		Height:      10,
		RewardRange: RewardRange{Min: 0, Max: 1},
	}
}

func (s EnvironmentSettings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return configErr("settings.size", "width and height must be positive, got %dx%d", s.Width, s.Height)
	}
	if s.MaxSteps <= 0 {
		return configErr("settings.max_steps", "must be positive, got %d", s.MaxSteps)
	}
	if s.MinSteps <= 0 {
		return configErr("settings.min_steps", "must be positive, got %d", s.MinSteps)
	}
	if s.RewardRange.Min > s.RewardRange.Max {
		return configErr("settings.reward_range", "min %v above max %v", s.RewardRange.Min, s.RewardRange.Max)
	}
	return nil
}

const (
	RenderNone = "none"
	RenderANSI = "ansi"
)

var renderModes = []string{RenderNone, RenderANSI}

type RenderSettings struct {
	RenderMode   string `json:"render_mode"`
	RenderFPS    int    `json:"render_fps"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
}

func DefaultRenderSettings() RenderSettings {
	return RenderSettings{RenderMode: RenderNone, RenderFPS: 4, WindowWidth: 512, WindowHeight: 512}
}

func (s RenderSettings) withDefaults() RenderSettings {
	d := DefaultRenderSettings()
	if s.RenderMode == "" {
		s.RenderMode = d.RenderMode
	}
	if s.RenderFPS <= 0 {
		s.RenderFPS = d.RenderFPS
	}
	if s.WindowWidth <= 0 {
		s.WindowWidth = d.WindowWidth
	}
	if s.WindowHeight <= 0 {
		s.WindowHeight = d.WindowHeight
	}
	return s
}

func (s RenderSettings) Validate() error {
	if !slices.Contains(renderModes, s.RenderMode) {
		return configErr("render.render_mode", "unknown mode %q", s.RenderMode)
	}
	return nil
}

type Metadata struct {
	RenderModes []string `json:"render_modes"`
	RenderFPS   int      `json:"render_fps"`
}
