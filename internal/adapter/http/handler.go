package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gridgym/internal/adapter/render/terminal"
	"gridgym/internal/app/episode"
	"gridgym/internal/app/ports"
	"gridgym/internal/app/replay"
	"gridgym/internal/domain/engine"
	"gridgym/internal/domain/envs"
	"gridgym/internal/domain/pov"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

var ErrRenderDisabled = errors.New("render mode is none for this episode")

type Handler struct {
	EpisodeUC episode.UseCase
	ReplayUC  replay.UseCase
	KPI       kpiSnapshotProvider

	// AllowOrigin is the CORS origin; empty allows any.
	AllowOrigin string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowOrigin))

	api := s.Group("/api")
	api.GET("/envs", h.listEnvs)

	episodes := api.Group("/episodes")
	episodes.POST("", h.createEpisode)
	episodes.POST("/:id/reset", h.resetEpisode)
	episodes.POST("/:id/step", h.stepEpisode)
	episodes.POST("/:id/simulate", h.simulateEpisode)
	episodes.DELETE("/:id", h.closeEpisode)
	episodes.GET("/:id/replay", h.replay)
	episodes.GET("/:id/render", h.render)

	s.GET("/ops/kpi", h.kpi)
}

type createRequest struct {
	Env     string       `json:"env"`
	POV     string       `json:"pov"`
	Seed    *uint64      `json:"seed,omitempty"`
	Options envs.Options `json:"options"`
}

type resetRequest struct {
	Seed *uint64 `json:"seed,omitempty"`
}

type stepRequest struct {
	Action *int `json:"action"`
}

type replayResponse struct {
	Steps   []stepView     `json:"steps"`
	Summary replay.Summary `json:"summary"`
}

type stepView struct {
	Run         int     `json:"run"`
	Index       int     `json:"index"`
	Action      int     `json:"action"`
	Reward      float64 `json:"reward"`
	Terminated  bool    `json:"terminated"`
	Truncated   bool    `json:"truncated"`
	Harmed      bool    `json:"harmed"`
	TaskDone    bool    `json:"task_done"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Facing      int     `json:"facing"`
	HeldKey     *int    `json:"held_key,omitempty"`
	Interaction string  `json:"interaction,omitempty"`
}

func (h Handler) listEnvs(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"envs": envs.Describe()})
}

func (h Handler) createEpisode(c context.Context, ctx *app.RequestContext) {
	var body createRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.EpisodeUC.Create(c, episode.CreateRequest{
		Env:     body.Env,
		POV:     body.POV,
		Seed:    body.Seed,
		Options: body.Options,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) resetEpisode(c context.Context, ctx *app.RequestContext) {
	var body resetRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.EpisodeUC.Reset(c, episode.ResetRequest{EpisodeID: ctx.Param("id"), Seed: body.Seed})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) stepEpisode(c context.Context, ctx *app.RequestContext) {
	action, ok := decodeAction(ctx)
	if !ok {
		return
	}
	resp, err := h.EpisodeUC.Step(c, episode.StepRequest{EpisodeID: ctx.Param("id"), Action: action})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) simulateEpisode(c context.Context, ctx *app.RequestContext) {
	action, ok := decodeAction(ctx)
	if !ok {
		return
	}
	resp, err := h.EpisodeUC.Simulate(c, episode.StepRequest{EpisodeID: ctx.Param("id"), Action: action})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) closeEpisode(c context.Context, ctx *app.RequestContext) {
	if err := h.EpisodeUC.Close(c, ctx.Param("id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	run, _ := strconv.Atoi(string(ctx.Query("run")))
	fromStep, _ := strconv.Atoi(string(ctx.Query("from_step")))
	toStep, _ := strconv.Atoi(string(ctx.Query("to_step")))
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		EpisodeID: ctx.Param("id"),
		Run:       run,
		FromStep:  fromStep,
		ToStep:    toStep,
		Limit:     limit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	out := replayResponse{Steps: make([]stepView, 0, len(resp.Steps)), Summary: resp.Summary}
	for _, s := range resp.Steps {
		out.Steps = append(out.Steps, stepView{
			Run:         s.Run,
			Index:       s.Index,
			Action:      s.Action,
			Reward:      s.Reward,
			Terminated:  s.Terminated,
			Truncated:   s.Truncated,
			Harmed:      s.Harmed,
			TaskDone:    s.TaskDone,
			X:           s.X,
			Y:           s.Y,
			Facing:      s.Facing,
			HeldKey:     s.HeldKey,
			Interaction: s.Interaction,
		})
	}
	ctx.JSON(consts.StatusOK, out)
}

// render answers with the current frame as text. color=1 keeps ANSI escapes.
func (h Handler) render(_ context.Context, ctx *app.RequestContext) {
	colors := string(ctx.Query("color")) == "1"
	var frame string
	err := h.EpisodeUC.Inspect(ctx.Param("id"), func(e *engine.Engine) error {
		if e.RenderSettings().RenderMode == engine.RenderNone {
			return ErrRenderDisabled
		}
		frame = terminal.Frame(e, colors)
		return nil
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(frame))
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func decodeAction(ctx *app.RequestContext) (int, bool) {
	var body stepRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return 0, false
	}
	if body.Action == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_action", "action is required")
		return 0, false
	}
	return *body.Action, true
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidAction):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_action", err.Error())
	case errors.Is(err, envs.ErrUnknownEnv):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_env", err.Error())
	case errors.Is(err, pov.ErrInvalidSpec),
		errors.Is(err, pov.ErrIncompatible):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_pov", err.Error())
	case errors.Is(err, engine.ErrInvalidConfig):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_config", err.Error())
	case errors.Is(err, episode.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, episode.ErrEpisodeFinished):
		writeErrorBody(ctx, consts.StatusConflict, "episode_finished", err.Error())
	case errors.Is(err, ErrRenderDisabled):
		writeErrorBody(ctx, consts.StatusConflict, "render_disabled", err.Error())
	case errors.Is(err, episode.ErrSessionLimit):
		writeErrorBody(ctx, consts.StatusTooManyRequests, "session_limit", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		hlog.Errorf("unhandled error for %s %s: %v", ctx.Method(), strings.TrimSpace(string(ctx.Path())), err)
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
