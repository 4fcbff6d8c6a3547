package main

import (
	"context"
	"fmt"
	"strings"

	"impuls/internal/journal"
	"impuls/internal/logarchive"
	"impuls/internal/store"
	"impuls/internal/store/memory"
	"impuls/internal/store/postgres"
	"impuls/internal/store/sqlite"
)

func openStore(ctx context.Context, dsn string) (store.Store, error) {
	switch {
	case dsn == "memory":
		return memory.New(), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		client, err := sqlite.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		client, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return nil, fmt.Errorf("unsupported database dsn: %s", dsn)
}

// openJournal opens the configured store and loads the journal from it. The
// caller closes the returned store.
func openJournal(ctx context.Context, opts ...journal.Option) (*journal.Journal, store.Store, error) {
	db, err := openStore(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]journal.Option{journal.WithLogger(logger)}, opts...)
	j := journal.New(db, cfg.Database.Namespace, opts...)
	if err := j.Load(ctx); err != nil {
		db.Close(ctx)
		return nil, nil, err
	}
	return j, db, nil
}

func newLoader() *logarchive.Loader {
	return logarchive.NewLoader(cfg.Kernel(),
		logarchive.WithPatterns(cfg.Logs.Patterns...),
		logarchive.WithExclude(cfg.Logs.Exclude...),
		logarchive.WithLogger(logger),
	)
}

func loadCorpus(ctx context.Context) (*logarchive.Result, error) {
	return newLoader().LoadDir(ctx, cfg.Logs.Dir)
}
