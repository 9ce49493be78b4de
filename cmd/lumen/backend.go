package main

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/asset"
	"lumen/internal/config"
	"lumen/internal/editor"
	"lumen/internal/framegraph/passes"
	"lumen/internal/logging"
	"lumen/internal/platform/opengl"
)

const (
	fontPixels  = 32
	skyCubeSize = 16
)

var skyColour = mgl32.Vec4{0.35, 0.4, 0.5, 1}

// glBackend owns every GL object the host creates on top of the device.
type glBackend struct {
	device     *opengl.Device
	materials  *opengl.StandardMaterials
	renderer   *opengl.Renderer
	renderer2D *opengl.Renderer2D
	sky        *opengl.Texture
}

// newGLBackend needs a current GL context. width and height are the
// window's framebuffer size.
func newGLBackend(project *config.ProjectConfig, width, height int) (*glBackend, editor.Backend, error) {
	device, err := opengl.NewDevice(width, height)
	if err != nil {
		return nil, editor.Backend{}, err
	}
	g := &glBackend{device: device}

	shaders := project.Resolve(project.Assets.Shaders)
	g.materials, err = opengl.LoadStandardMaterials(shaders)
	if err != nil {
		g.release()
		return nil, editor.Backend{}, fmt.Errorf("load shaders from %s: %w", shaders, err)
	}

	font, err := loadFont(project)
	if err != nil {
		g.release()
		return nil, editor.Backend{}, err
	}
	g.renderer2D, err = opengl.NewRenderer2D(shaders, device.WhiteTexture(), font)
	if err != nil {
		g.release()
		return nil, editor.Backend{}, err
	}
	g.renderer = opengl.NewRenderer(opengl.RendererOptions{
		DefaultMaterial: g.materials.Lit,
		Samplers: map[string]uint32{
			"u_DirectionalShadowMaps": passes.UnitDirectionalShadow,
			"u_SpotShadowMaps":        passes.UnitSpotShadow,
			"u_PointShadowMaps":       passes.UnitPointShadow,
			"u_Environment":           passes.UnitEnvironment,
			"u_Irradiance":            passes.UnitIrradiance,
			"u_Prefiltered":           passes.UnitPrefiltered,
		},
	})

	assets := asset.NewManager()
	handles, err := g.materials.Register(assets)
	g.sky = opengl.NewSolidCubemap(skyColour, skyCubeSize)
	env, envErr := assets.Add("sky", &asset.EnvironmentMap{Base: g.sky, Irradiance: g.sky, Prefiltered: g.sky})
	if err := errors.Join(err, envErr); err != nil {
		g.release()
		return nil, editor.Backend{}, fmt.Errorf("register assets: %w", err)
	}

	return g, editor.Backend{
		Device:     device,
		Renderer:   g.renderer,
		Renderer2D: g.renderer2D,
		Assets:     assets,
		Materials: editor.Materials{
			Lit:         handles.Lit,
			Shadow:      handles.Shadow,
			PointShadow: handles.PointShadow,
			Downsample:  handles.Downsample,
			Upsample:    handles.Upsample,
			Tonemap:     handles.Tonemap,
			Environment: env,
		},
	}, nil
}

// loadFont bakes the project's font, falling back to the built-in face
// when none is configured or it cannot be read.
func loadFont(project *config.ProjectConfig) (*opengl.FontAtlas, error) {
	if path := project.Resolve(project.Assets.Font); path != "" {
		font, err := opengl.LoadFont(path, fontPixels)
		if err == nil {
			return font, nil
		}
		logging.Logger().Warn("lumen: project font not loaded, using default", "path", path, "err", err)
	}
	return opengl.DefaultFont(fontPixels)
}

func (g *glBackend) release() {
	if g.sky != nil {
		g.sky.Delete()
	}
	if g.renderer != nil {
		g.renderer.Dispose()
	}
	if g.renderer2D != nil {
		g.renderer2D.Dispose()
	}
	if g.materials != nil {
		g.materials.Delete()
	}
	g.device.Release()
}
