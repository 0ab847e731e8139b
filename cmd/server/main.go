package main

import (
	"context"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	gridgymdb "gridgym/db"
	httpadapter "gridgym/internal/adapter/http"
	metricsinmem "gridgym/internal/adapter/metrics/inmemory"
	gormrepo "gridgym/internal/adapter/repo/gorm"
	"gridgym/internal/adapter/repo/memory"
	"gridgym/internal/app/episode"
	"gridgym/internal/app/ports"
	"gridgym/internal/app/replay"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/joho/godotenv"
)

type repos struct {
	episodes ports.EpisodeRepository
	steps    ports.StepRepository
	tx       ports.TxManager
	backend  string
}

func main() {
	loadDotEnv()

	r := mustBuildRepos()
	kpiRecorder := metricsinmem.NewRecorder()

	h := httpadapter.Handler{
		EpisodeUC: episode.UseCase{
			TxManager: r.tx,
			Episodes:  r.episodes,
			Steps:     r.steps,
			Metrics:   kpiRecorder,
			Sessions:  episode.NewSessions(intEnv("GRIDGYM_MAX_SESSIONS", 256)),
		},
		ReplayUC:    replay.UseCase{TxManager: r.tx, Episodes: r.episodes, Steps: r.steps},
		KPI:         kpiRecorder,
		AllowOrigin: stringEnv("GRIDGYM_CORS_ORIGIN", ""),
	}

	addr := stringEnv("GRIDGYM_HTTP_ADDR", ":8080")
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	log.Printf("gridgym server listening on %s (store: %s)", addr, r.backend)
	s.Spin()
}

func loadDotEnv() {
	for _, envFile := range []string{".env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
}

// mustBuildRepos uses postgres when GRIDGYM_DB_DSN is set and an in-memory
// store otherwise.
func mustBuildRepos() repos {
	dsn := stringEnv("GRIDGYM_DB_DSN", "")
	if dsn == "" {
		store := memory.NewStore()
		return repos{
			episodes: memory.NewEpisodeRepo(store),
			steps:    memory.NewStepRepo(store),
			tx:       memory.NewTxManager(store),
			backend:  "memory",
		}
	}
	db, err := gormrepo.OpenPostgres(dsn, gormrepo.PoolConfig{
		MaxOpenConns:    intEnv("GRIDGYM_DB_MAX_OPEN_CONNS", 0),
		MaxIdleConns:    intEnv("GRIDGYM_DB_MAX_IDLE_CONNS", 0),
		ConnMaxLifetime: time.Duration(intEnv("GRIDGYM_DB_CONN_MAX_LIFETIME_SEC", 0)) * time.Second,
	})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	applied, err := gormrepo.ApplyMigrationsFS(context.Background(), db, migrationsFS())
	if err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	if len(applied) > 0 {
		log.Printf("applied migrations: %v", applied)
	}
	return repos{
		episodes: gormrepo.NewEpisodeRepo(db),
		steps:    gormrepo.NewStepRepo(db),
		tx:       gormrepo.NewTxManager(db),
		backend:  "postgres",
	}
}

// migrationsFS prefers GRIDGYM_MIGRATIONS_DIR over the embedded files.
func migrationsFS() fs.FS {
	if dir := stringEnv("GRIDGYM_MIGRATIONS_DIR", ""); dir != "" {
		return os.DirFS(dir)
	}
	return gridgymdb.Migrations()
}

func stringEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
