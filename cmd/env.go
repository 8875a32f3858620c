package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/discover"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/sources"
	"github.com/sells-group/prospect-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.SQLitePath
		if dsn == "" {
			dsn = "prospect.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initOrchestrator builds the discovery orchestrator from whatever API
// keys are configured. Sources without credentials stay nil and their
// stages are skipped at runtime.
func initOrchestrator() (*discover.Orchestrator, error) {
	opts := []discover.Option{}

	if cfg.Discovery.SearchLimit > 0 {
		opts = append(opts, discover.WithSearchLimit(cfg.Discovery.SearchLimit))
	}
	if len(cfg.Discovery.TitleFilters) > 0 {
		opts = append(opts, discover.WithTitleFilters(cfg.Discovery.TitleFilters...))
	}
	if cfg.Discovery.PatternsFile != "" {
		table, err := discover.LoadPatterns(cfg.Discovery.PatternsFile)
		if err != nil {
			return nil, eris.Wrapf(err, "load patterns file %s", cfg.Discovery.PatternsFile)
		}
		opts = append(opts, discover.WithPatterns(table))
	}

	return discover.New(sources.New(cfg), opts...), nil
}

// discoverAndPersist runs discovery for one business and records the run
// lifecycle in the store.
func discoverAndPersist(ctx context.Context, st store.Store, orch *discover.Orchestrator, biz model.Business) (*model.DiscoveryRun, error) {
	run, err := st.CreateRun(ctx, biz)
	if err != nil {
		return nil, eris.Wrap(err, "create run")
	}

	if err := st.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		return nil, eris.Wrap(err, "mark run running")
	}

	result, err := orch.Discover(ctx, biz, discover.WithFallbackPatterns(cfg.Discovery.FallbackPatterns))
	if err != nil {
		if failErr := st.FailRun(ctx, run.ID, err.Error()); failErr != nil {
			zap.L().Error("record run failure", zap.String("run_id", run.ID), zap.Error(failErr))
		}
		return nil, eris.Wrapf(err, "discover %s", biz.Name)
	}

	if err := st.CompleteRun(ctx, run.ID, result); err != nil {
		return nil, eris.Wrap(err, "complete run")
	}

	return st.GetRun(ctx, run.ID)
}
