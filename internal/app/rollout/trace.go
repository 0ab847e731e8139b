package rollout

import (
	"strconv"
	"strings"

	"gridgym/internal/domain/object"
	"gridgym/internal/domain/pov"
)

// Transition is one recorded step. States are observation hashes.
type Transition struct {
	State     string
	Action    int
	NextState string
	Reward    float64
	Position  object.Point
}

// Trace holds the transitions of one episode in step order.
type Trace struct {
	steps []Transition
}

func NewTrace() *Trace {
	return &Trace{steps: make([]Transition, 0)}
}

func (t *Trace) Append(tr Transition) {
	t.steps = append(t.steps, tr)
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Get(i int) (Transition, bool) {
	if i < 0 || i >= len(t.steps) {
		return Transition{}, false
	}
	return t.steps[i], true
}

func (t *Trace) Last() (Transition, bool) {
	return t.Get(len(t.steps) - 1)
}

// HashObservation is a stable key for an observation.
func HashObservation(obs pov.Observation) string {
	var b strings.Builder
	b.Grow(len(obs) * 6)
	for _, c := range obs {
		for _, v := range c {
			b.WriteString(strconv.Itoa(v))
			b.WriteByte(',')
		}
		b.WriteByte(';')
	}
	return b.String()
}
