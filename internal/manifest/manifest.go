// ABOUTME: Manifest generator filtering the registry by a caller's granted scopes
// ABOUTME: Emits name/description/parameters per function, never the handler

package manifest

import (
	"github.com/slugline-app/slugline-gateway/internal/registry"
)

// Wildcard is the scope granting access to every function.
const Wildcard = "*"

// FunctionInfo is one catalogue entry as surfaced to callers.
type FunctionInfo struct {
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	Parameters  map[string]registry.ParamSpec `json:"parameters"`
}

// Manifest is the public capability listing: a static identity block plus
// the (possibly scope-filtered) function list.
type Manifest struct {
	AppName   string         `json:"app_name"`
	Version   string         `json:"version"`
	Functions []FunctionInfo `json:"functions"`
}

// Generator projects the registry into manifests.
type Generator struct {
	registry *registry.Registry
	appName  string
	version  string
}

// New creates a Generator over the given registry with a static identity.
func New(reg *registry.Registry, appName, version string) *Generator {
	return &Generator{
		registry: reg,
		appName:  appName,
		version:  version,
	}
}

// Generate produces the manifest. A nil scope set means an unauthenticated
// caller and yields the full catalogue. Otherwise a function is included only
// if the scope set contains the wildcard or the function's exact name.
// Functions are emitted in sorted name order.
func (g *Generator) Generate(scopes []string) Manifest {
	var scopeSet map[string]struct{}
	wildcard := scopes == nil
	if !wildcard {
		scopeSet = make(map[string]struct{}, len(scopes))
		for _, s := range scopes {
			if s == Wildcard {
				wildcard = true
				break
			}
			scopeSet[s] = struct{}{}
		}
	}

	all := g.registry.GetAllFunctions()
	functions := make([]FunctionInfo, 0, len(all))

	for _, name := range g.registry.ListFunctions() {
		if !wildcard {
			if _, ok := scopeSet[name]; !ok {
				continue
			}
		}

		fn := all[name]
		functions = append(functions, FunctionInfo{
			Name:        fn.Name,
			Description: fn.Description,
			Parameters:  fn.Parameters,
		})
	}

	return Manifest{
		AppName:   g.appName,
		Version:   g.version,
		Functions: functions,
	}
}
