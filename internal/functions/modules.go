// ABOUTME: Aggregates all function modules for registry construction
// ABOUTME: The single place the full catalogue is assembled

package functions

import (
	"github.com/slugline-app/slugline-gateway/internal/registry"
	"github.com/slugline-app/slugline-gateway/internal/store"
)

// All returns every function module wired to the given store, in the order
// they register into the catalogue.
func All(s store.Store) []registry.Module {
	return []registry.Module{
		ProjectModule(s),
		EpisodeModule(s),
		SceneModule(s),
		CharacterModule(s),
		WorldModule(s),
		UserModule(s),
	}
}
