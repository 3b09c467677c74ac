package services

import "finboard/internal/state"

// trackedStore returns a registry that already holds a controller for
// userID, so dispatched actions land in observable state.
func trackedStore(userID string) (*state.Registry, *state.Controller) {
	store := state.NewRegistry()
	return store, store.GetOrCreate(userID)
}

func ptr[T any](v T) *T { return &v }
