package episode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gridgym/internal/app/ports"
	"gridgym/internal/domain/engine"
	"gridgym/internal/domain/envs"
	"gridgym/internal/domain/pov"
)

var (
	ErrInvalidRequest  = errors.New("invalid episode request")
	ErrSessionLimit    = errors.New("session limit reached")
	ErrEpisodeFinished = errors.New("episode finished")
)

const DefaultPOV = "global"

type UseCase struct {
	TxManager ports.TxManager
	Episodes  ports.EpisodeRepository
	Steps     ports.StepRepository
	Metrics   ports.EpisodeMetrics
	Sessions  *Sessions
	Now       func() time.Time
	NewID     func() string
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func (u UseCase) newID() string {
	if u.NewID == nil {
		return uuid.NewString()
	}
	return u.NewID()
}

func (u UseCase) Create(ctx context.Context, req CreateRequest) (CreateResponse, error) {
	name := strings.TrimSpace(req.Env)
	if name == "" {
		return CreateResponse{}, fmt.Errorf("%w: env is required", ErrInvalidRequest)
	}
	spec := strings.TrimSpace(req.POV)
	if spec == "" {
		spec = DefaultPOV
	}
	env, err := envs.Lookup(name, req.Options)
	if err != nil {
		return CreateResponse{}, err
	}
	p, err := pov.Parse(spec, env.Settings.Width, env.Settings.Height)
	if err != nil {
		return CreateResponse{}, err
	}
	eng, err := engine.New(env, p)
	if err != nil {
		return CreateResponse{}, err
	}

	var seed uint64
	if req.Seed != nil {
		seed = *req.Seed
	}
	obs, info := eng.Reset(engine.Seed(seed))

	id := u.newID()
	now := u.now()
	rec := ports.EpisodeRecord{
		EpisodeID: id,
		Env:       name,
		POV:       p.Name(),
		Seed:      seed,
		Run:       1,
		Status:    ports.EpisodeRunning,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Sessions.add(id, eng); err != nil {
		return CreateResponse{}, err
	}
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return u.Episodes.Create(txCtx, rec)
	})
	if err != nil {
		u.Sessions.remove(id)
		u.recordFailure(err)
		return CreateResponse{}, err
	}

	return CreateResponse{
		EpisodeID:        id,
		Env:              name,
		POV:              p.Name(),
		Run:              rec.Run,
		ActionSpace:      eng.ActionSpace(),
		ObservationSpace: eng.ObservationSpace(),
		Metadata:         eng.Metadata(),
		Observation:      obs,
		Info:             info,
	}, nil
}

// Reset starts the next run of an episode. Without a seed the engine keeps
// its RNG stream.
func (u UseCase) Reset(ctx context.Context, req ResetRequest) (ResetResponse, error) {
	sess, err := u.session(req.EpisodeID)
	if err != nil {
		return ResetResponse{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return ResetResponse{}, ports.ErrNotFound
	}

	var out ResetResponse
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := u.Episodes.Get(txCtx, req.EpisodeID)
		if err != nil {
			return err
		}
		if rec.Status == ports.EpisodeClosed {
			return ports.ErrNotFound
		}
		expected := rec.Version
		rec.Run++
		rec.Status = ports.EpisodeRunning
		rec.Steps = 0
		rec.Return = 0
		rec.Version++
		rec.UpdatedAt = u.now()
		if req.Seed != nil {
			rec.Seed = *req.Seed
		}
		if err := u.Episodes.SaveWithVersion(txCtx, rec, expected); err != nil {
			return err
		}
		obs, info := sess.eng.Reset(engine.ResetOptions{Seed: req.Seed})
		out = ResetResponse{EpisodeID: rec.EpisodeID, Run: rec.Run, Observation: obs, Info: info}
		return nil
	})
	if err != nil {
		u.recordFailure(err)
		return ResetResponse{}, err
	}
	return out, nil
}

// Step records the transition before it is applied: the result is computed
// with Simulate, persisted, and only then committed with Step.
func (u UseCase) Step(ctx context.Context, req StepRequest) (StepResponse, error) {
	sess, err := u.session(req.EpisodeID)
	if err != nil {
		return StepResponse{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return StepResponse{}, ports.ErrNotFound
	}

	var out StepResponse
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := u.Episodes.Get(txCtx, req.EpisodeID)
		if err != nil {
			return err
		}
		if rec.Status != ports.EpisodeRunning {
			return fmt.Errorf("%w: status %s", ErrEpisodeFinished, rec.Status)
		}
		res, err := sess.eng.Simulate(req.Action)
		if err != nil {
			return err
		}

		now := u.now()
		expected := rec.Version
		rec.Steps++
		rec.Return += res.Reward
		rec.Status = statusOf(res)
		rec.Version++
		rec.UpdatedAt = now
		if err := u.Steps.Append(txCtx, []ports.StepRecord{stepRecord(rec, req.Action, res, now)}); err != nil {
			return err
		}
		if err := u.Episodes.SaveWithVersion(txCtx, rec, expected); err != nil {
			return err
		}
		if _, err := sess.eng.Step(req.Action); err != nil {
			return err
		}
		out = StepResponse{EpisodeID: rec.EpisodeID, Run: rec.Run, Return: rec.Return, Result: res}
		return nil
	})
	if err != nil {
		u.recordFailure(err)
		return StepResponse{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordStep(out.Result.Reward)
		if s := statusOf(out.Result); s != ports.EpisodeRunning {
			u.Metrics.RecordEpisodeEnd(s)
		}
	}
	return out, nil
}

// Simulate returns what Step would return without changing anything.
func (u UseCase) Simulate(_ context.Context, req StepRequest) (engine.StepResult, error) {
	sess, err := u.session(req.EpisodeID)
	if err != nil {
		return engine.StepResult{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return engine.StepResult{}, ports.ErrNotFound
	}
	res, err := sess.eng.Simulate(req.Action)
	if err != nil {
		u.recordFailure(err)
		return engine.StepResult{}, err
	}
	return res, nil
}

func (u UseCase) Close(ctx context.Context, episodeID string) error {
	sess, err := u.session(episodeID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return ports.ErrNotFound
	}

	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := u.Episodes.Get(txCtx, episodeID)
		if err != nil {
			return err
		}
		expected := rec.Version
		rec.Status = ports.EpisodeClosed
		rec.Version++
		rec.UpdatedAt = u.now()
		return u.Episodes.SaveWithVersion(txCtx, rec, expected)
	})
	if err != nil {
		u.recordFailure(err)
		return err
	}
	sess.closed = true
	u.Sessions.remove(episodeID)
	if u.Metrics != nil {
		u.Metrics.RecordEpisodeEnd(ports.EpisodeClosed)
	}
	return sess.eng.Close()
}

// Inspect runs fn on the live engine while holding the session lock. fn must
// not keep the engine.
func (u UseCase) Inspect(episodeID string, fn func(*engine.Engine) error) error {
	sess, err := u.session(episodeID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return ports.ErrNotFound
	}
	return fn(sess.eng)
}

func (u UseCase) session(id string) (*session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: episode_id is required", ErrInvalidRequest)
	}
	if u.Sessions == nil {
		return nil, ports.ErrNotFound
	}
	return u.Sessions.get(id)
}

func (u UseCase) recordFailure(err error) {
	if u.Metrics == nil {
		return
	}
	switch {
	case errors.Is(err, engine.ErrInvalidAction):
		u.Metrics.RecordInvalidAction()
	case errors.Is(err, ports.ErrConflict):
		u.Metrics.RecordConflict()
	default:
		u.Metrics.RecordFailure()
	}
}

func statusOf(res engine.StepResult) string {
	switch {
	case res.Terminated:
		return ports.EpisodeTerminated
	case res.Truncated:
		return ports.EpisodeTruncated
	default:
		return ports.EpisodeRunning
	}
}

func stepRecord(rec ports.EpisodeRecord, action int, res engine.StepResult, at time.Time) ports.StepRecord {
	out := ports.StepRecord{
		EpisodeID:   rec.EpisodeID,
		Run:         rec.Run,
		Index:       res.Info.StepCount,
		Action:      action,
		Reward:      res.Reward,
		Terminated:  res.Terminated,
		Truncated:   res.Truncated,
		Harmed:      res.Info.Harmed,
		TaskDone:    res.Info.TaskDone,
		X:           res.Info.Position.X,
		Y:           res.Info.Position.Y,
		Facing:      int(res.Info.Facing),
		Interaction: res.Info.Interaction,
		CreatedAt:   at,
	}
	if res.Info.HeldKey != nil {
		c := int(*res.Info.HeldKey)
		out.HeldKey = &c
	}
	return out
}
