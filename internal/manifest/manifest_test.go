package manifest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slugline-app/slugline-gateway/internal/registry"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()

	nop := func(_ context.Context, _ map[string]any) (any, error) { return nil, nil }
	reg, err := registry.New(
		registry.Module{Key: "scene", Functions: []registry.Function{
			{Name: "createScene", Description: "Create a scene", Handler: nop,
				Parameters: map[string]registry.ParamSpec{
					"episode_id": {Type: "string", Description: "Parent episode", Required: true},
				}},
			{Name: "listScenes", Description: "List scenes", Handler: nop},
		}},
		registry.Module{Key: "project", Functions: []registry.Function{
			{Name: "getProject", Description: "Get a project", Handler: nop},
		}},
	)
	require.NoError(t, err)

	return New(reg, "slugline-gateway", "1.2.0")
}

func manifestNames(m Manifest) []string {
	names := make([]string, len(m.Functions))
	for i, fn := range m.Functions {
		names[i] = fn.Name
	}
	return names
}

func TestGenerate_NilScopesFullCatalogue(t *testing.T) {
	g := testGenerator(t)

	m := g.Generate(nil)

	assert.Equal(t, "slugline-gateway", m.AppName)
	assert.Equal(t, "1.2.0", m.Version)
	assert.Equal(t, []string{"project.getProject", "scene.createScene", "scene.listScenes"}, manifestNames(m))
}

func TestGenerate_WildcardMatchesFullCatalogue(t *testing.T) {
	g := testGenerator(t)

	full := g.Generate(nil)
	wild := g.Generate([]string{Wildcard})

	assert.Equal(t, manifestNames(full), manifestNames(wild))
}

func TestGenerate_ScopeFiltering(t *testing.T) {
	g := testGenerator(t)

	m := g.Generate([]string{"scene.createScene", "project.getProject"})

	assert.Equal(t, []string{"project.getProject", "scene.createScene"}, manifestNames(m))
}

func TestGenerate_UnknownScopeIgnored(t *testing.T) {
	g := testGenerator(t)

	m := g.Generate([]string{"scene.createScene", "ghost.function"})

	assert.Equal(t, []string{"scene.createScene"}, manifestNames(m))
}

func TestGenerate_EmptyScopesEmptyCatalogue(t *testing.T) {
	g := testGenerator(t)

	m := g.Generate([]string{})

	assert.Empty(t, m.Functions)
	assert.NotNil(t, m.Functions, "functions serializes as [] not null")
}

func TestGenerate_IncludesParameters(t *testing.T) {
	g := testGenerator(t)

	m := g.Generate([]string{"scene.createScene"})
	require.Len(t, m.Functions, 1)

	params := m.Functions[0].Parameters
	require.Contains(t, params, "episode_id")
	assert.True(t, params["episode_id"].Required)
	assert.Equal(t, "string", params["episode_id"].Type)
}
