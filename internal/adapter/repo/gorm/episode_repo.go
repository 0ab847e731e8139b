package gormrepo

import (
	"context"
	"errors"
	"strings"

	"gridgym/internal/adapter/repo/gorm/model"
	"gridgym/internal/app/ports"

	"gorm.io/gorm"
)

type EpisodeRepo struct {
	db *gorm.DB
}

func NewEpisodeRepo(db *gorm.DB) EpisodeRepo {
	return EpisodeRepo{db: db}
}

func (r EpisodeRepo) Create(ctx context.Context, rec ports.EpisodeRecord) error {
	m := toEpisodeModel(rec)
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r EpisodeRepo) Get(ctx context.Context, episodeID string) (ports.EpisodeRecord, error) {
	var m model.Episode
	if err := getDBFromCtx(ctx, r.db).Where("episode_id = ?", episodeID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.EpisodeRecord{}, ports.ErrNotFound
		}
		return ports.EpisodeRecord{}, err
	}
	return ports.EpisodeRecord{
		EpisodeID: m.EpisodeID,
		Env:       m.Env,
		POV:       m.Pov,
		Seed:      uint64(m.Seed),
		Run:       int(m.Run),
		Status:    m.Status,
		Steps:     int(m.Steps),
		Return:    m.ReturnTotal,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r EpisodeRepo) SaveWithVersion(ctx context.Context, rec ports.EpisodeRecord, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		m := toEpisodeModel(rec)
		if err := db.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	updates := map[string]any{
		"seed":         int64(rec.Seed),
		"run":          int32(rec.Run),
		"status":       rec.Status,
		"steps":        int32(rec.Steps),
		"return_total": rec.Return,
		"version":      rec.Version,
		"updated_at":   rec.UpdatedAt,
	}
	res := db.Model(&model.Episode{}).
		Where("episode_id = ? AND version = ?", rec.EpisodeID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func toEpisodeModel(rec ports.EpisodeRecord) model.Episode {
	return model.Episode{
		EpisodeID:   rec.EpisodeID,
		Env:         rec.Env,
		Pov:         rec.POV,
		Seed:        int64(rec.Seed),
		Run:         int32(rec.Run),
		Status:      rec.Status,
		Steps:       int32(rec.Steps),
		ReturnTotal: rec.Return,
		Version:     rec.Version,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
