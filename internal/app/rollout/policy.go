package rollout

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"gridgym/internal/domain/pov"
)

var ErrUnknownPolicy = errors.New("unknown policy")

// Policy picks actions and learns from a finished episode.
type Policy interface {
	Name() string
	NextAction(step int, obs pov.Observation, actions int) (int, bool)
	UpdateIteration(episode int, trace *Trace)
	Reset()
}

// NewPolicy builds a named policy seeded with seed.
func NewPolicy(name string, seed uint64) (Policy, error) {
	switch name {
	case "random":
		return NewRandomPolicy(seed), nil
	case "bonus":
		return NewBonusPolicy(0.3, 0.95, 0.05, seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// RandomPolicy samples uniformly over the action space.
type RandomPolicy struct {
	src rand.Source
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{src: rand.NewSource(seed)}
}

func (r *RandomPolicy) Name() string { return "random" }

func (r *RandomPolicy) Reset() {}

func (r *RandomPolicy) UpdateIteration(_ int, _ *Trace) {}

func (r *RandomPolicy) NextAction(_ int, _ pov.Observation, actions int) (int, bool) {
	if actions <= 0 {
		return 0, false
	}
	weights := make([]float64, actions)
	for i := range weights {
		weights[i] = 1
	}
	return sampleuv.NewWeighted(weights, r.src).Take()
}

// BonusPolicy is epsilon-greedy Q-learning where the only reward is the
// count-based bonus 1/visits, updated backwards over each finished trace.
type BonusPolicy struct {
	qTable   *QTable
	visits   *QTable
	alpha    float64
	discount float64
	epsilon  float64
	rand     *rand.Rand
}

var _ Policy = &BonusPolicy{}

func NewBonusPolicy(alpha, discount, epsilon float64, seed uint64) *BonusPolicy {
	return &BonusPolicy{
		qTable:   NewQTable(),
		visits:   NewQTable(),
		alpha:    alpha,
		discount: discount,
		epsilon:  epsilon,
		rand:     rand.New(rand.NewSource(seed)),
	}
}

func (b *BonusPolicy) Name() string { return "bonus" }

func (b *BonusPolicy) Reset() {
	b.qTable = NewQTable()
	b.visits = NewQTable()
}

func (b *BonusPolicy) NextAction(_ int, obs pov.Observation, actions int) (int, bool) {
	if actions <= 0 {
		return 0, false
	}
	if b.rand.Float64() < b.epsilon {
		return b.rand.Intn(actions), true
	}
	return b.qTable.MaxAmong(HashObservation(obs), actions, 1)
}

func (b *BonusPolicy) UpdateIteration(_ int, trace *Trace) {
	last := trace.Len() - 1
	for i := last; i >= 0; i-- {
		tr, ok := trace.Get(i)
		if ok {
			b.update(tr, i == last)
		}
	}
}

func (b *BonusPolicy) update(tr Transition, horizon bool) {
	t := b.visits.Get(tr.State, tr.Action, 0) + 1
	b.visits.Set(tr.State, tr.Action, t)

	next := 0.0
	if !horizon {
		_, next = b.qTable.Max(tr.NextState, 1)
	}
	cur := b.qTable.Get(tr.State, tr.Action, 1)
	b.qTable.Set(tr.State, tr.Action, (1-b.alpha)*cur+b.alpha*(1/t+b.discount*next))
}

// QTable maps state hash and action index to a value.
type QTable struct {
	table map[string]map[int]float64
}

func NewQTable() *QTable {
	return &QTable{table: make(map[string]map[int]float64)}
}

func (q *QTable) Get(state string, action int, def float64) float64 {
	row, ok := q.table[state]
	if !ok {
		return def
	}
	v, ok := row[action]
	if !ok {
		return def
	}
	return v
}

func (q *QTable) Set(state string, action int, val float64) {
	row, ok := q.table[state]
	if !ok {
		row = make(map[int]float64)
		q.table[state] = row
	}
	row[action] = val
}

// Max is the best recorded action of a state, or def when none is recorded.
func (q *QTable) Max(state string, def float64) (int, float64) {
	row, ok := q.table[state]
	if !ok || len(row) == 0 {
		return -1, def
	}
	best, bestVal := -1, math.Inf(-1)
	for a, v := range row {
		if v > bestVal || (v == bestVal && a < best) {
			best, bestVal = a, v
		}
	}
	return best, bestVal
}

// MaxAmong picks the best of actions 0..n-1, unseen ones valued def. Ties go
// to the lowest index.
func (q *QTable) MaxAmong(state string, n int, def float64) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	best, bestVal := 0, math.Inf(-1)
	for a := 0; a < n; a++ {
		if v := q.Get(state, a, def); v > bestVal {
			best, bestVal = a, v
		}
	}
	return best, true
}
