package rollout

import (
	"gonum.org/v1/gonum/stat"
)

type EpisodeResult struct {
	Index        int     `json:"index"`
	Return       float64 `json:"return"`
	Steps        int     `json:"steps"`
	MinSteps     int     `json:"min_steps"`
	Solved       bool    `json:"solved"`
	Harmed       bool    `json:"harmed"`
	Truncated    bool    `json:"truncated"`
	UniqueStates int     `json:"unique_states"`
	Trace        *Trace  `json:"-"`
}

type Summary struct {
	Episodes    int     `json:"episodes"`
	MeanReturn  float64 `json:"mean_return"`
	StdReturn   float64 `json:"std_return"`
	MaxReturn   float64 `json:"max_return"`
	MeanSteps   float64 `json:"mean_steps"`
	SuccessRate float64 `json:"success_rate"`
	HarmRate    float64 `json:"harm_rate"`
}

// Report is the outcome of one runner. Visits is indexed [y][x].
type Report struct {
	Policy   string          `json:"policy"`
	Env      string          `json:"env"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Episodes []EpisodeResult `json:"episodes"`
	Summary  Summary         `json:"summary"`
	Visits   [][]int         `json:"visits"`
}

// Returns lists episode returns in episode order.
func (r Report) Returns() []float64 {
	out := make([]float64, len(r.Episodes))
	for i, e := range r.Episodes {
		out[i] = e.Return
	}
	return out
}

func Summarize(eps []EpisodeResult) Summary {
	s := Summary{Episodes: len(eps)}
	if len(eps) == 0 {
		return s
	}
	returns := make([]float64, len(eps))
	steps := make([]float64, len(eps))
	solved, harmed := 0.0, 0.0
	for i, e := range eps {
		returns[i] = e.Return
		steps[i] = float64(e.Steps)
		if e.Solved {
			solved++
		}
		if e.Harmed {
			harmed++
		}
		if i == 0 || e.Return > s.MaxReturn {
			s.MaxReturn = e.Return
		}
	}
	if len(eps) > 1 {
		s.MeanReturn, s.StdReturn = stat.MeanStdDev(returns, nil)
	} else {
		s.MeanReturn = returns[0]
	}
	s.MeanSteps = stat.Mean(steps, nil)
	s.SuccessRate = solved / float64(len(eps))
	s.HarmRate = harmed / float64(len(eps))
	return s
}
