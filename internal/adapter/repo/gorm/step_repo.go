package gormrepo

import (
	"context"

	"gridgym/internal/adapter/repo/gorm/model"
	"gridgym/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StepRepo struct {
	db *gorm.DB
}

func NewStepRepo(db *gorm.DB) StepRepo {
	return StepRepo{db: db}
}

func (r StepRepo) Append(ctx context.Context, steps []ports.StepRecord) error {
	if len(steps) == 0 {
		return nil
	}
	rows := make([]model.EpisodeStep, 0, len(steps))
	for _, s := range steps {
		row := model.EpisodeStep{
			EpisodeID:   s.EpisodeID,
			Run:         int32(s.Run),
			StepIndex:   int32(s.Index),
			Action:      int32(s.Action),
			Reward:      s.Reward,
			Terminated:  s.Terminated,
			Truncated:   s.Truncated,
			Harmed:      s.Harmed,
			TaskDone:    s.TaskDone,
			X:           int32(s.X),
			Y:           int32(s.Y),
			Facing:      int32(s.Facing),
			Interaction: s.Interaction,
			CreatedAt:   s.CreatedAt,
		}
		if s.HeldKey != nil {
			k := int32(*s.HeldKey)
			row.HeldKey = &k
		}
		rows = append(rows, row)
	}
	if err := getDBFromCtx(ctx, r.db).Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r StepRepo) ListByEpisode(ctx context.Context, episodeID string, run int, limit int) ([]ports.StepRecord, error) {
	rows := []model.EpisodeStep{}
	query := getDBFromCtx(ctx, r.db).Where("episode_id = ?", episodeID)
	if run > 0 {
		query = query.Where("run = ?", run)
	}
	query = query.Clauses(clause.OrderBy{
		Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "run"}},
			{Column: clause.Column{Name: "step_index"}},
		},
	})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]ports.StepRecord, 0, len(rows))
	for _, row := range rows {
		s := ports.StepRecord{
			EpisodeID:   row.EpisodeID,
			Run:         int(row.Run),
			Index:       int(row.StepIndex),
			Action:      int(row.Action),
			Reward:      row.Reward,
			Terminated:  row.Terminated,
			Truncated:   row.Truncated,
			Harmed:      row.Harmed,
			TaskDone:    row.TaskDone,
			X:           int(row.X),
			Y:           int(row.Y),
			Facing:      int(row.Facing),
			Interaction: row.Interaction,
			CreatedAt:   row.CreatedAt,
		}
		if row.HeldKey != nil {
			k := int(*row.HeldKey)
			s.HeldKey = &k
		}
		out = append(out, s)
	}
	return out, nil
}
