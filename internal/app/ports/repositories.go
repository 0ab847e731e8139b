package ports

import (
	"context"
	"time"
)

// Episode statuses.
const (
	EpisodeRunning    = "running"
	EpisodeTerminated = "terminated"
	EpisodeTruncated  = "truncated"
	EpisodeClosed     = "closed"
)

// EpisodeRecord tracks one session. Run counts resets, starting at 1.
type EpisodeRecord struct {
	EpisodeID string
	Env       string
	POV       string
	Seed      uint64
	Run       int
	Status    string
	Steps     int
	Return    float64
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type StepRecord struct {
	EpisodeID   string
	Run         int
	Index       int
	Action      int
	Reward      float64
	Terminated  bool
	Truncated   bool
	Harmed      bool
	TaskDone    bool
	X           int
	Y           int
	Facing      int
	HeldKey     *int
	Interaction string
	CreatedAt   time.Time
}

type EpisodeRepository interface {
	Create(ctx context.Context, rec EpisodeRecord) error
	Get(ctx context.Context, episodeID string) (EpisodeRecord, error)
	// SaveWithVersion fails with ErrConflict when the stored version is not
	// expectedVersion.
	SaveWithVersion(ctx context.Context, rec EpisodeRecord, expectedVersion int64) error
}

type StepRepository interface {
	Append(ctx context.Context, steps []StepRecord) error
	// ListByEpisode returns steps of one run in step order. Run 0 means every
	// run. Returns ErrNotFound when nothing was recorded.
	ListByEpisode(ctx context.Context, episodeID string, run int, limit int) ([]StepRecord, error)
}
