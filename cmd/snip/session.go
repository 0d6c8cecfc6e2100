package main

import (
	"snip/internal/config"
	"snip/internal/store"
)

// withStore opens the database selected by --db, SNIP_DB or config for the
// duration of fn.
func withStore(cfg *config.Config, opts *cliOptions, fn func(*store.Store) error) error {
	path, err := cfg.ResolveDBPath(opts.dbPath)
	if err != nil {
		return err
	}
	st, err := store.Open(path, opts.logger)
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(st)
}
