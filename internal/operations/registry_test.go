package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()
	assert.Equal(t, 0, registry.Count())
	assert.NotNil(t, registry.List())

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, registry.Register(newFuncStep(id, nil)))
	}

	assert.Equal(t, 3, registry.Count())
	assert.Equal(t, []string{"b", "a", "c"}, registry.ListIDs())
	assert.True(t, registry.Has("a"))
	assert.False(t, registry.Has("z"))

	step, err := registry.Get("c")
	require.NoError(t, err)
	assert.Equal(t, "c", step.ID())

	_, err = registry.Get("z")
	assert.ErrorContains(t, err, "not found")
}

func TestRegistryRegisterErrors(t *testing.T) {
	registry := NewRegistry()

	assert.ErrorContains(t, registry.Register(nil), "nil step")
	assert.ErrorContains(t, registry.Register(newFuncStep("", nil)), "ID cannot be empty")

	require.NoError(t, registry.Register(newFuncStep("dup", nil)))
	assert.ErrorContains(t, registry.Register(newFuncStep("dup", nil)), "already registered")
}

func TestRegistrySelect(t *testing.T) {
	registry := NewRegistry()
	for _, id := range []string{StepIDGenerate, StepIDPrepare, StepIDExport, StepIDTrends} {
		require.NoError(t, registry.Register(newFuncStep(id, nil)))
	}

	tests := []struct {
		name      string
		requested []string
		want      []string
	}{
		{"default leaves out optional", nil, []string{StepIDGenerate, StepIDPrepare, StepIDExport}},
		{"explicit keeps registration order", []string{StepIDTrends, StepIDGenerate}, []string{StepIDGenerate, StepIDTrends}},
		{"optional can be requested", []string{StepIDTrends}, []string{StepIDTrends}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := registry.Select(tt.requested, StepIDTrends)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stepIDs(steps))
		})
	}

	_, err := registry.Select([]string{"unknown"})
	assert.ErrorContains(t, err, "unknown")
}

func stepIDs(steps []Step) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID()
	}
	return ids
}
