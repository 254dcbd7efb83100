package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrack/internal/assessment"
	"github.com/abhisek/skilltrack/internal/cache"
	"github.com/abhisek/skilltrack/internal/progress"
	"github.com/abhisek/skilltrack/internal/retry"
	"github.com/abhisek/skilltrack/internal/skillgraph"
	"github.com/abhisek/skilltrack/internal/store"
)

// app bundles the wired core for one command invocation.
type app struct {
	graph *skillgraph.Graph
	orch  *assessment.Orchestrator
	store *store.Store
	cache *cache.Cache
}

func (a *app) Close() {
	a.cache.Stop()
	a.store.Close()
}

// buildApp wires the graph, persistence, cache, retry executor, and
// orchestrator from command flags.
func buildApp(cmd *cobra.Command) (*app, error) {
	graph, err := loadGraph(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	bank, err := assessment.DefaultBank()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load question bank: %w", err)
	}

	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	retrier := retry.New(retry.DefaultConfig())
	masteryStore := progress.NewStore(graph, st, retrier)

	c := cache.New(cache.WithMaxSize(10_000))
	c.StartSweep(time.Minute)

	orch := assessment.New(graph, masteryStore, bank, c, retrier,
		assessment.WithLogger(logger))

	return &app{graph: graph, orch: orch, store: st, cache: c}, nil
}

// loadGraph builds the skill graph from --skills, SKILLTRACK_SKILLS,
// or the embedded definitions.
func loadGraph(cmd *cobra.Command) (*skillgraph.Graph, error) {
	path, _ := cmd.Flags().GetString("skills")
	if path == "" {
		path = os.Getenv("SKILLTRACK_SKILLS")
	}
	if path == "" {
		return skillgraph.Default()
	}
	return skillgraph.LoadFile(path)
}
