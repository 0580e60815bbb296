package storage

import (
	"context"
	"strings"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
)

const DefaultSQLitePath = "learning_buddy.db"

// Options is the connection descriptor read at startup.
type Options struct {
	DatabaseURL string
	SQLitePath  string
}

// IsPostgresURL reports whether url designates a networked Postgres target.
func IsPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// Open picks the backend for the lifetime of the process. A Postgres URL is
// tried first; if that store cannot be constructed the embedded store is
// opened instead.
func Open(ctx context.Context, opts Options, logger internal.Logger) (Store, error) {
	if IsPostgresURL(opts.DatabaseURL) {
		logger.Infof("storage: using postgres backend")
		pg, err := NewPostgresStorage(ctx, opts.DatabaseURL, logger)
		if err == nil {
			return pg, nil
		}
		logger.Errorf("storage: postgres unavailable, falling back to sqlite: %v", err)
	} else {
		logger.Infof("storage: using sqlite backend")
	}
	return openSQLite(ctx, opts, logger)
}

func openSQLite(ctx context.Context, opts Options, logger internal.Logger) (Store, error) {
	path := opts.SQLitePath
	if path == "" {
		path = DefaultSQLitePath
	}
	s, err := NewSQLiteStorage(ctx, path, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}
