package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/veridianlabs/atlasq/internal/api"
	"github.com/veridianlabs/atlasq/internal/citation"
	"github.com/veridianlabs/atlasq/internal/config"
	"github.com/veridianlabs/atlasq/internal/deals"
	"github.com/veridianlabs/atlasq/internal/history"
	"github.com/veridianlabs/atlasq/internal/kv"
	"github.com/veridianlabs/atlasq/internal/logging"
	"github.com/veridianlabs/atlasq/internal/session"
)

// runtime bundles the wired client components for one invocation.
type runtime struct {
	cfg       *config.Config
	log       *zap.Logger
	client    *api.Client
	store     kv.Store
	history   *history.Store
	deals     *deals.Directory
	citations *citation.Cache
	index     *citation.ContentIndex
	orch      *session.Orchestrator
}

func (r *runtime) Close() {
	if r.index != nil {
		_ = r.index.Close()
	}
	if r.store != nil {
		_ = r.store.Close()
	}
	if r.log != nil {
		_ = r.log.Sync()
	}
}

// newRuntime resolves configuration and wires every component. CLI
// flag overrides (empty when unset) win over config and environment.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	store, err := openHistoryStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.APIURL, cfg.Timeout, log)
	hist := history.NewStore(store, log)
	dir := deals.NewDirectory(client, log)

	index, err := citation.NewContentIndex()
	if err != nil {
		// The REPL still works without :find; log and carry on.
		log.Warn("citation index unavailable", zap.Error(err))
		index = nil
	}
	cache := citation.NewCache(client, index, log)

	orch := session.NewOrchestrator(client, dir, hist, cfg.TopK, log)

	return &runtime{
		cfg:       cfg,
		log:       log,
		client:    client,
		store:     store,
		history:   hist,
		deals:     dir,
		citations: cache,
		index:     index,
		orch:      orch,
	}, nil
}

// openHistoryStore picks the persistence backend. Failure to open the
// durable store degrades to an in-memory history rather than refusing
// to start: persistence is never fatal.
func openHistoryStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (kv.Store, error) {
	var (
		store kv.Store
		err   error
	)
	switch cfg.HistoryBackend {
	case "sqlite":
		store, err = kv.NewSQLiteStore(ctx, cfg.HistoryPath)
	default:
		store, err = kv.NewFileStore(cfg.HistoryPath)
	}
	if err != nil {
		log.Warn("failed to open history store, history will not persist",
			zap.String("backend", cfg.HistoryBackend),
			zap.String("path", cfg.HistoryPath),
			zap.Error(err))
		return memoryStore{data: map[string][]byte{}}, nil
	}
	return store, nil
}

// memoryStore is the degraded, non-persisting fallback.
type memoryStore struct {
	data map[string][]byte
}

func (m memoryStore) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}
func (m memoryStore) Set(key string, value []byte) error { m.data[key] = value; return nil }
func (m memoryStore) Delete(key string) error            { delete(m.data, key); return nil }
func (m memoryStore) Close() error                       { return nil }
