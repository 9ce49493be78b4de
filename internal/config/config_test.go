package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSettingsClamp(t *testing.T) {
	t.Cleanup(ResetRenderSettings)

	SetGamma(10)
	assert.Equal(t, float32(3), GetGamma())
	SetExposure(-1)
	assert.Equal(t, float32(0.01), GetExposure())
	SetBloomFilterRadius(1)
	assert.Equal(t, float32(0.05), GetBloomFilterRadius())
	SetClearColour(mgl32.Vec4{2, -1, 0.5, 1})
	assert.Equal(t, mgl32.Vec4{1, 0, 0.5, 1}, GetClearColour())

	for in, want := range map[int]int{-5: 0, 0: 0, 3: 15, 60: 60, 5000: 1000} {
		SetFPSLimit(in)
		assert.Equal(t, want, GetFPSLimit(), "fps %d", in)
	}
}

func TestRenderSettingsVersion(t *testing.T) {
	t.Cleanup(ResetRenderSettings)

	v := Version()
	SetShowColliders(true)
	assert.True(t, GetShowColliders())
	assert.Greater(t, Version(), v)

	ResetRenderSettings()
	assert.False(t, GetShowColliders())
	assert.Equal(t, float32(2.2), GetGamma())
}

func TestLoadProjectMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	p, err := LoadProject(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultProject().Window, p.Window)
	assert.Equal(t, dir, p.Dir())
	assert.Equal(t, filepath.Join(dir, "renderer.yaml"), p.ResourceConfigPath())
}

func TestLoadProjectMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	doc := `
name = "Sandbox"

[window]
width = 800
height = -1

[renderer]
resource_config = "settings/frame.toml"
gamma = 2.0
bloom_mips = 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte(doc), 0o644))

	p, err := LoadProject(filepath.Join(dir, ProjectFile))
	require.NoError(t, err)
	assert.Equal(t, "Sandbox", p.Name)
	assert.Equal(t, 800, p.Window.Width)
	assert.Equal(t, 900, p.Window.Height, "invalid height falls back")
	assert.Equal(t, float32(2.0), p.Renderer.Gamma)
	assert.Equal(t, 6, p.Renderer.BloomMips)
	assert.Equal(t, float32(1.0), p.Renderer.Exposure, "absent key keeps default")
	assert.Equal(t, filepath.Join(dir, "settings", "frame.toml"), p.ResourceConfigPath())
}

func TestLoadProjectToleratesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	doc := "name = \"Sandbox\"\nmystery = 4\n\n[window]\nwidth = 640\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte(doc), 0o644))

	p, err := LoadProject(dir)
	require.NoError(t, err)
	assert.Equal(t, "Sandbox", p.Name)
	assert.Equal(t, 640, p.Window.Width)
}

func TestLoadProjectRejectsMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte("name = [unterminated"), 0o644))
	_, err := LoadProject(dir)
	assert.Error(t, err)
}

func TestProjectSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := DefaultProject()
	p.Name = "Saved"
	p.Renderer.ShowColliders = true
	path := filepath.Join(dir, ProjectFile)
	require.NoError(t, p.Save(path))

	back, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, p.Name, back.Name)
	assert.Equal(t, p.Renderer, back.Renderer)
	assert.Equal(t, p.Window, back.Window)
}

func TestProjectApply(t *testing.T) {
	t.Cleanup(ResetRenderSettings)

	p := DefaultProject()
	p.Renderer.Gamma = 1.8
	p.Renderer.ShowColliders = true
	p.Window.FPSLimit = 144
	p.Apply()

	assert.Equal(t, float32(1.8), GetGamma())
	assert.True(t, GetShowColliders())
	assert.Equal(t, 144, GetFPSLimit())
}
