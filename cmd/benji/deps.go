package main

import (
	"benji/internal/config"
	"benji/internal/store"
)

// withStore opens the store for the duration of one command.
func withStore(cfg *config.Config, fn func(*store.Store) error) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}
