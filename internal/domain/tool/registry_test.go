package tool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDefinitions() []Definition {
	return []Definition{
		{Name: "CameraOrbit360", Description: "orbit", Category: CategoryCamera, Endpoint: "/api/camera-control"},
		{Name: "RealisticGenerate", Description: "realistic", Category: CategoryGeneration, Endpoint: "http://localhost:11004/api/realistic-generate"},
		{Name: "MeasureVolume", Description: "volume", Category: CategoryMeasure},
	}
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	defs := append(sampleDefinitions(), Definition{Name: "MeasureVolume"})

	_, err := NewRegistry(defs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateTool))
}

func TestNewRegistry_EmptyName(t *testing.T) {
	_, err := NewRegistry([]Definition{{Description: "nameless"}})
	require.Error(t, err)
}

func TestRegistry_Describe(t *testing.T) {
	r, err := NewRegistry(sampleDefinitions())
	require.NoError(t, err)

	description, ok := r.Describe("CameraOrbit360")
	assert.True(t, ok)
	assert.Equal(t, "orbit", description)

	_, ok = r.Describe("Unknown")
	assert.False(t, ok)
}

func TestRegistry_Endpoint(t *testing.T) {
	r, err := NewRegistry(sampleDefinitions())
	require.NoError(t, err)

	endpoint, ok := r.Endpoint("CameraOrbit360")
	assert.True(t, ok)
	assert.Equal(t, "/api/camera-control", endpoint)

	// 登録済みだが呼び出し先なし
	_, ok = r.Endpoint("MeasureVolume")
	assert.False(t, ok)

	// 未登録
	_, ok = r.Endpoint("Unknown")
	assert.False(t, ok)
}

func TestRegistry_ListKeepsOrder(t *testing.T) {
	r, err := NewRegistry(sampleDefinitions())
	require.NoError(t, err)

	names := make([]string, 0, r.Len())
	for _, def := range r.List() {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"CameraOrbit360", "RealisticGenerate", "MeasureVolume"}, names)
}

func TestIsAbsoluteEndpoint(t *testing.T) {
	assert.True(t, IsAbsoluteEndpoint("http://localhost:11004/api/x"))
	assert.True(t, IsAbsoluteEndpoint("https://example.com/api"))
	assert.False(t, IsAbsoluteEndpoint("/api/camera-control"))
	assert.False(t, Definition{}.HasEndpoint())
}
