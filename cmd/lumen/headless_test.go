package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/config"
	"lumen/internal/editor"
)

func TestHeadlessBackendIsComplete(t *testing.T) {
	b, err := headlessBackend()
	require.NoError(t, err)

	_, ok := b.Assets.Material(b.Materials.Tonemap)
	assert.True(t, ok)
	env, ok := b.Assets.EnvironmentMap(b.Materials.Environment)
	require.True(t, ok)
	assert.NotNil(t, env.Irradiance)
}

func TestRunHeadless(t *testing.T) {
	config.ResetRenderSettings()
	t.Cleanup(config.ResetRenderSettings)

	project, err := config.LoadProject(t.TempDir())
	require.NoError(t, err)
	project.Window.Width, project.Window.Height = 160, 90
	project.Renderer.ShadowMapSize = 32
	project.Renderer.BloomMips = 2
	project.Renderer.HotReload = false

	require.NoError(t, runHeadless(project, options{frames: 2}))
}

func TestHeadlessRendersPanel(t *testing.T) {
	config.ResetRenderSettings()
	t.Cleanup(config.ResetRenderSettings)

	project, err := config.LoadProject(t.TempDir())
	require.NoError(t, err)
	project.Renderer.HotReload = false

	b, err := headlessBackend()
	require.NoError(t, err)
	ed, err := editor.New(project, b)
	require.NoError(t, err)
	defer ed.Close()

	ed.Render()
	assert.Contains(t, ed.PanelText(), "Tonemap")
	assert.Contains(t, editor.ResourcePanel(ed.FrameRenderer()), "Gamma")
}
